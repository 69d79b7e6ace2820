package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LotMetadata agrupa los campos mutables de un lote. La cantidad inicial no
// aparece aquí a propósito: no existe camino para editarla tras la creación.
type LotMetadata struct {
	State          *string
	UnitCost       *decimal.Decimal
	ManufacturedAt *time.Time
	ExpiresAt      *time.Time
	Notes          *string
}

// LotRepository define el puerto de persistencia del registro de lotes (DIP).
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	UpdateMetadata(ctx context.Context, id string, meta LotMetadata) error
	List(ctx context.Context, limit, offset int) ([]*entity.Lot, error)

	// ListExpiringBefore devuelve los lotes activos cuya fecha de vencimiento
	// es anterior al límite, ordenados por vencimiento más próximo primero.
	ListExpiringBefore(ctx context.Context, limit time.Time) ([]*entity.Lot, error)
}
