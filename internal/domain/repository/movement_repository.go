package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// BalanceAggregate es el resultado crudo de agregar el ledger por
// (lote, ubicación afectada): origen para tipos de salida, destino para
// tipos de entrada.
type BalanceAggregate struct {
	LotID    string
	Location string
	Quantity decimal.Decimal
}

// MovementRepository define el puerto de persistencia del ledger de
// movimientos. El ledger es append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	ListByLot(ctx context.Context, lotID string, limit, offset int) ([]*entity.Movement, error)
	ListByTransferGroup(ctx context.Context, transferGroup string) ([]*entity.Movement, error)

	// AggregateBalances recorre el ledger completo y suma cantidades con
	// signo por (lote, ubicación afectada). Es la fuente del rebuild y de la
	// verificación de saldos.
	AggregateBalances(ctx context.Context) ([]BalanceAggregate, error)
}
