package kardex_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la tabla de reglas por tipo de movimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestRuleFor_TiposConocidos(t *testing.T) {
	cases := []struct {
		tipo kardex.MovementType
		want kardex.Rule
	}{
		{kardex.MovementReceipt, kardex.Rule{Sign: kardex.SignPositive, RequiresTo: true}},
		{kardex.MovementConsumption, kardex.Rule{Sign: kardex.SignNegative, RequiresFrom: true}},
		{kardex.MovementTransferOut, kardex.Rule{Sign: kardex.SignNegative, RequiresFrom: true, RequiresTo: true, Paired: true}},
		{kardex.MovementTransferIn, kardex.Rule{Sign: kardex.SignPositive, RequiresFrom: true, RequiresTo: true, Paired: true}},
		{kardex.MovementAdjustment, kardex.Rule{Sign: kardex.SignAny, RequiresTo: true}},
		{kardex.MovementScrap, kardex.Rule{Sign: kardex.SignNegative, RequiresFrom: true}},
	}
	for _, tc := range cases {
		t.Run(string(tc.tipo), func(t *testing.T) {
			got, ok := kardex.RuleFor(tc.tipo)
			require.True(t, ok, "el tipo debe existir en la tabla")
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsValid_TipoDesconocido(t *testing.T) {
	assert.False(t, kardex.IsValid("PRESTAMO"), "un tipo fuera del conjunto cerrado debe rechazarse")
	assert.False(t, kardex.IsValid(""), "el tipo vacío no es válido")
	assert.True(t, kardex.IsValid(kardex.MovementReceipt))
}

func TestOutgoing(t *testing.T) {
	assert.True(t, kardex.MovementConsumption.Outgoing())
	assert.True(t, kardex.MovementScrap.Outgoing())
	assert.True(t, kardex.MovementTransferOut.Outgoing())
	assert.False(t, kardex.MovementReceipt.Outgoing())
	assert.False(t, kardex.MovementTransferIn.Outgoing())
	assert.False(t, kardex.MovementAdjustment.Outgoing())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de Validate — contrato de un movimiento antes de tocar el ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	qty := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	cases := []struct {
		name    string
		tipo    kardex.MovementType
		qty     decimal.Decimal
		from    string
		to      string
		group   string
		wantErr bool
	}{
		// RECEIPT: positivo, destino obligatorio
		{"receipt válido", kardex.MovementReceipt, qty("100"), "", "BODEGA-A", "", false},
		{"receipt cantidad negativa", kardex.MovementReceipt, qty("-100"), "", "BODEGA-A", "", true},
		{"receipt sin destino", kardex.MovementReceipt, qty("100"), "", "", "", true},

		// CONSUMPTION: negativo, origen obligatorio
		{"consumo válido", kardex.MovementConsumption, qty("-30"), "BODEGA-A", "", "", false},
		{"consumo cantidad positiva", kardex.MovementConsumption, qty("30"), "BODEGA-A", "", "", true},
		{"consumo sin origen", kardex.MovementConsumption, qty("-30"), "", "", "", true},

		// TRANSFER_OUT / TRANSFER_IN: ambas ubicaciones + grupo
		{"transfer out válido", kardex.MovementTransferOut, qty("-40"), "BODEGA-A", "BODEGA-B", "grp-1", false},
		{"transfer out sin grupo", kardex.MovementTransferOut, qty("-40"), "BODEGA-A", "BODEGA-B", "", true},
		{"transfer out sin destino", kardex.MovementTransferOut, qty("-40"), "BODEGA-A", "", "grp-1", true},
		{"transfer in válido", kardex.MovementTransferIn, qty("40"), "BODEGA-A", "BODEGA-B", "grp-1", false},
		{"transfer in cantidad negativa", kardex.MovementTransferIn, qty("-40"), "BODEGA-A", "BODEGA-B", "grp-1", true},
		{"transfer in sin origen", kardex.MovementTransferIn, qty("40"), "", "BODEGA-B", "grp-1", true},

		// ADJUSTMENT: cualquier signo menos cero, destino obligatorio
		{"ajuste positivo", kardex.MovementAdjustment, qty("5"), "", "BODEGA-A", "", false},
		{"ajuste negativo", kardex.MovementAdjustment, qty("-5"), "", "BODEGA-A", "", false},
		{"ajuste cero", kardex.MovementAdjustment, decimal.Zero, "", "BODEGA-A", "", true},
		{"ajuste sin destino", kardex.MovementAdjustment, qty("5"), "", "", "", true},

		// SCRAP: negativo, origen obligatorio
		{"scrap válido", kardex.MovementScrap, qty("-2"), "BODEGA-A", "", "", false},
		{"scrap cantidad positiva", kardex.MovementScrap, qty("2"), "BODEGA-A", "", "", true},

		// Tipo fuera del conjunto
		{"tipo desconocido", kardex.MovementType("PRESTAMO"), qty("1"), "BODEGA-A", "BODEGA-B", "", true},
		{"cantidad cero", kardex.MovementReceipt, decimal.Zero, "", "BODEGA-A", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := kardex.Validate(tc.tipo, tc.qty, tc.from, tc.to, tc.group)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAffectedLocation(t *testing.T) {
	assert.Equal(t, "ORIGEN", kardex.AffectedLocation(kardex.MovementConsumption, "ORIGEN", "DESTINO"),
		"los tipos de salida afectan la ubicación origen")
	assert.Equal(t, "ORIGEN", kardex.AffectedLocation(kardex.MovementTransferOut, "ORIGEN", "DESTINO"))
	assert.Equal(t, "DESTINO", kardex.AffectedLocation(kardex.MovementTransferIn, "ORIGEN", "DESTINO"),
		"los tipos de entrada afectan la ubicación destino")
	assert.Equal(t, "DESTINO", kardex.AffectedLocation(kardex.MovementReceipt, "", "DESTINO"))
	assert.Equal(t, "DESTINO", kardex.AffectedLocation(kardex.MovementAdjustment, "", "DESTINO"))
}
