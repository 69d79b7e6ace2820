package kardex

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// MovementType es el conjunto cerrado de tipos de movimiento del kardex.
type MovementType string

const (
	MovementReceipt     MovementType = "RECEIPT"      // entrada desde fuera del sistema
	MovementConsumption MovementType = "CONSUMPTION"  // consumo por producción/venta/uso interno
	MovementTransferOut MovementType = "TRANSFER_OUT" // pata débito de un traslado
	MovementTransferIn  MovementType = "TRANSFER_IN"  // pata crédito de un traslado
	MovementAdjustment  MovementType = "ADJUSTMENT"   // corrección manual de conteo, signo libre
	MovementScrap       MovementType = "SCRAP"        // baja / descarte
)

// Sign indica el signo permitido de la cantidad de un tipo de movimiento.
type Sign int

const (
	SignPositive Sign = iota + 1 // cantidad > 0
	SignNegative                 // cantidad < 0
	SignAny                      // cualquier signo, solo se rechaza cero
)

// Rule describe la política de un tipo de movimiento: signo, ubicaciones
// requeridas y si debe venir emparejado bajo un grupo de traslado.
type Rule struct {
	Sign         Sign
	RequiresFrom bool
	RequiresTo   bool
	Paired       bool
}

// rules es la tabla cerrada de políticas. Agregar un tipo nuevo es una sola
// entrada aquí, no condicionales dispersos.
var rules = map[MovementType]Rule{
	MovementReceipt:     {Sign: SignPositive, RequiresFrom: false, RequiresTo: true, Paired: false},
	MovementConsumption: {Sign: SignNegative, RequiresFrom: true, RequiresTo: false, Paired: false},
	MovementTransferOut: {Sign: SignNegative, RequiresFrom: true, RequiresTo: true, Paired: true},
	MovementTransferIn:  {Sign: SignPositive, RequiresFrom: true, RequiresTo: true, Paired: true},
	MovementAdjustment:  {Sign: SignAny, RequiresFrom: false, RequiresTo: true, Paired: false},
	MovementScrap:       {Sign: SignNegative, RequiresFrom: true, RequiresTo: false, Paired: false},
}

// RuleFor devuelve la regla del tipo indicado, o false si el tipo no existe.
func RuleFor(t MovementType) (Rule, bool) {
	r, ok := rules[t]
	return r, ok
}

// IsValid indica si t pertenece al conjunto cerrado de tipos.
func IsValid(t MovementType) bool {
	_, ok := rules[t]
	return ok
}

// Outgoing indica si el tipo descuenta saldo de una ubicación real (y por lo
// tanto exige saldo suficiente antes de comprometerse).
func (t MovementType) Outgoing() bool {
	return t == MovementConsumption || t == MovementScrap || t == MovementTransferOut
}

// Validate aplica el contrato de validación de un movimiento: cantidad no
// cero con el signo de la regla, ubicaciones requeridas presentes y grupo de
// traslado obligatorio para tipos emparejados. No toca el ledger: una
// violación se rechaza antes de cualquier escritura.
func Validate(t MovementType, quantity decimal.Decimal, from, to, transferGroup string) error {
	rule, ok := rules[t]
	if !ok {
		return domain.ErrInvalidInput
	}
	if quantity.IsZero() {
		return domain.ErrInvalidInput
	}
	switch rule.Sign {
	case SignPositive:
		if !quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case SignNegative:
		if !quantity.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	if rule.RequiresFrom && from == "" {
		return domain.ErrInvalidInput
	}
	if rule.RequiresTo && to == "" {
		return domain.ErrInvalidInput
	}
	if rule.Paired && transferGroup == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// AffectedLocation resuelve la ubicación cuyo saldo cambia con el movimiento:
// origen para tipos de salida (CONSUMPTION, SCRAP, TRANSFER_OUT) y destino
// para tipos de entrada (RECEIPT, TRANSFER_IN, ADJUSTMENT).
func AffectedLocation(t MovementType, from, to string) string {
	if t.Outgoing() {
		return from
	}
	return to
}
