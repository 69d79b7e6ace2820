package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance es el saldo materializado de un lote en una ubicación. Es una
// proyección derivada del ledger de movimientos: puede descartarse por
// completo y regenerarse reproduciendo el ledger (RebuildBalances).
type Balance struct {
	LotID     string
	Location  string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
