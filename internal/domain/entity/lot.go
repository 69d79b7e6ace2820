package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote (metadato, no afecta cantidades).
const (
	LotStateActive     = "ACTIVE"
	LotStateQuarantine = "QUARANTINE"
	LotStateClosed     = "CLOSED"
)

// Lot representa una recepción concreta de una combinación parte/batch.
// InitialQuantity e InitialLocation se escriben una sola vez al crear el lote;
// todo cambio de cantidad posterior se expresa únicamente con movimientos.
type Lot struct {
	ID              string
	PartID          string
	BatchCode       string
	InitialQuantity decimal.Decimal
	InitialLocation string
	State           string
	UnitCost        decimal.Decimal
	ManufacturedAt  *time.Time
	ExpiresAt       *time.Time
	Notes           string
	CreatedAt       time.Time
	CreatedBy       string
	UpdatedAt       time.Time
}
