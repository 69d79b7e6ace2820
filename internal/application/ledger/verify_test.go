package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// VerifyTransfer — auditoría de grupos de traslado
// ──────────────────────────────────────────────────────────────────────────────

func TestVerifyTransfer_EntradaInvalidaYGrupoInexistente(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.uc.VerifyTransfer(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.VerifyTransfer(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Una pata suelta solo puede aparecer por corrupción externa (el coordinador
// siempre escribe el par en una transacción); el verificador debe detectarla.
func TestVerifyTransfer_PataSuelta(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	lot := e.mustCreateLot(t)

	group := uuid.New().String()
	movRepo := memory.NewMovementRepository(e.store)
	require.NoError(t, movRepo.Create(ctx, &entity.Movement{
		ID:            uuid.New().String(),
		LotID:         lot.ID,
		PartID:        lot.PartID,
		BatchCode:     lot.BatchCode,
		Type:          kardex.MovementTransferOut,
		Quantity:      qty("-40"),
		FromLocation:  "BODEGA-A",
		ToLocation:    "BODEGA-B",
		TransferGroup: group,
		CreatedAt:     time.Now(),
	}))

	report, err := e.uc.VerifyTransfer(ctx, group)
	assert.ErrorIs(t, err, domain.ErrIntegrityViolation)
	require.NotNil(t, report, "la violación viene acompañada del reporte estructurado")
	assert.False(t, report.OK)
	assert.Equal(t, 1, report.Legs)
	assert.Equal(t, 1, report.OutLegs)
	assert.Equal(t, 0, report.InLegs)
	assert.True(t, report.Net.Equal(qty("-40")))
	assert.NotEmpty(t, report.Violations)
}

// Dos patas que no netean a cero (cantidades desparejas) también es violación.
func TestVerifyTransfer_PatasQueNoNetean(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	lot := e.mustCreateLot(t)

	group := uuid.New().String()
	movRepo := memory.NewMovementRepository(e.store)
	for _, m := range []*entity.Movement{
		{ID: uuid.New().String(), LotID: lot.ID, Type: kardex.MovementTransferOut,
			Quantity: qty("-40"), FromLocation: "A", ToLocation: "B", TransferGroup: group, CreatedAt: time.Now()},
		{ID: uuid.New().String(), LotID: lot.ID, Type: kardex.MovementTransferIn,
			Quantity: qty("35"), FromLocation: "A", ToLocation: "B", TransferGroup: group, CreatedAt: time.Now()},
	} {
		require.NoError(t, movRepo.Create(ctx, m))
	}

	report, err := e.uc.VerifyTransfer(ctx, group)
	assert.ErrorIs(t, err, domain.ErrIntegrityViolation)
	require.NotNil(t, report)
	assert.Equal(t, 2, report.Legs)
	assert.True(t, report.Net.Equal(qty("-5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// VerifyBalances / RebuildBalances — consistencia de la vista materializada
// ──────────────────────────────────────────────────────────────────────────────

func TestVerifyBalances_SinDiscrepanciasTrasOperacionNormal(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	lot := e.mustCreateLot(t)

	_, _, err := e.uc.Transfer(ctx, ledger.TransferInput{
		LotID: lot.ID, FromLocation: "BODEGA-A", ToLocation: "BODEGA-B", Quantity: qty("40"),
	})
	require.NoError(t, err)
	_, err = e.uc.Consume(ctx, lot.ID, "BODEGA-B", qty("10"), "", "", "", "x")
	require.NoError(t, err)

	diffs, err := e.uc.VerifyBalances(ctx)
	require.NoError(t, err)
	assert.Empty(t, diffs, "la operación normal mantiene la vista alineada con el ledger")
}

func TestVerifyBalances_DetectaCorrupcionYRebuildLaRepara(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	lot := e.mustCreateLot(t)

	// Corromper la vista materializada por fuera del motor.
	balRepo := memory.NewBalanceRepository(e.store)
	require.NoError(t, balRepo.ApplyDelta(ctx, lot.ID, "BODEGA-A", qty("7")))

	diffs, err := e.uc.VerifyBalances(ctx)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, lot.ID, diffs[0].LotID)
	assert.Equal(t, "BODEGA-A", diffs[0].Location)
	assert.True(t, diffs[0].Ledger.Equal(qty("100")))
	assert.True(t, diffs[0].Materialized.Equal(qty("107")))

	// Rebuild reconstruye desde el ledger y elimina la discrepancia.
	n, err := e.uc.RebuildBalances(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	diffs, err = e.uc.VerifyBalances(ctx)
	require.NoError(t, err)
	assert.Empty(t, diffs)
	assert.True(t, e.balance(t, lot.ID, "BODEGA-A").Equal(qty("100")))
}

// El rebuild es función pura del ledger: correrlo dos veces seguidas produce
// exactamente los mismos saldos.
func TestRebuildBalances_Idempotente(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	lot := e.mustCreateLot(t)

	_, _, err := e.uc.Transfer(ctx, ledger.TransferInput{
		LotID: lot.ID, FromLocation: "BODEGA-A", ToLocation: "BODEGA-B", Quantity: qty("30"),
	})
	require.NoError(t, err)
	_, err = e.uc.Adjust(ctx, lot.ID, "BODEGA-B", qty("-5"), "", "", "", "admin")
	require.NoError(t, err)

	n1, err := e.uc.RebuildBalances(ctx)
	require.NoError(t, err)
	first, err := e.uc.GetBalance(ctx, lot.ID, "")
	require.NoError(t, err)

	n2, err := e.uc.RebuildBalances(ctx)
	require.NoError(t, err)
	second, err := e.uc.GetBalance(ctx, lot.ID, "")
	require.NoError(t, err)

	assert.Equal(t, n1, n2)
	require.Len(t, second.Locations, len(first.Locations))
	for i := range first.Locations {
		assert.Equal(t, first.Locations[i].Location, second.Locations[i].Location)
		assert.True(t, first.Locations[i].Quantity.Equal(second.Locations[i].Quantity))
	}
	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Total.Equal(qty("95")))
}
