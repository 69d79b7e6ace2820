package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// Movement es una entrada inmutable del ledger de kardex. Una vez insertada
// nunca se actualiza ni se borra; las correcciones son movimientos nuevos
// (p. ej. un ADJUSTMENT inverso).
type Movement struct {
	ID            string
	LotID         string
	PartID        string // denormalizado para lectura de auditoría
	BatchCode     string // denormalizado para lectura de auditoría
	Type          kardex.MovementType
	Quantity      decimal.Decimal // con signo: positivo entra, negativo sale
	FromLocation  string          // vacío si no aplica
	ToLocation    string          // vacío si no aplica
	DocumentType  string          // tipo de documento origen (PO, OP, conteo, etc.)
	DocumentRef   string          // referencia del documento origen
	TransferGroup string          // correlaciona las dos patas de un traslado
	Note          string
	CreatedAt     time.Time
	CreatedBy     string
}

// AffectedLocation devuelve la ubicación cuyo saldo modifica este movimiento.
func (m *Movement) AffectedLocation() string {
	return kardex.AffectedLocation(m.Type, m.FromLocation, m.ToLocation)
}
