package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// BalanceRepository define el puerto para consultar/actualizar saldos por
// lote+ubicación. Los saldos son una vista materializada del ledger: solo el
// motor de movimientos los escribe, nunca un caller directo.
type BalanceRepository interface {
	// Get devuelve el saldo actual; si no existe fila devuelve un saldo cero.
	Get(ctx context.Context, lotID, location string) (*entity.Balance, error)
	// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE)
	// dentro de la transacción en curso.
	GetForUpdate(ctx context.Context, lotID, location string) (*entity.Balance, error)
	// ApplyDelta suma la cantidad con signo al saldo, creando la fila con el
	// delta como valor inicial si no existe. El upsert es aditivo, de modo que
	// dos escritores concurrentes sobre una fila nueva no pierden deltas.
	ApplyDelta(ctx context.Context, lotID, location string, delta decimal.Decimal) error
	ListByLot(ctx context.Context, lotID string) ([]*entity.Balance, error)
	ListAll(ctx context.Context) ([]*entity.Balance, error)
	// DeleteAll descarta la vista materializada completa. Solo lo usa el
	// rebuild, dentro de su misma transacción.
	DeleteAll(ctx context.Context) error
}
