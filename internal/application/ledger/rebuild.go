package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// BalanceDiscrepancy describe un par (lote, ubicación) cuyo saldo
// materializado difiere de la agregación fresca del ledger.
type BalanceDiscrepancy struct {
	LotID        string          `json:"lot_id"`
	Location     string          `json:"location"`
	Ledger       decimal.Decimal `json:"ledger"`
	Materialized decimal.Decimal `json:"materialized"`
}

// RebuildBalances descarta la vista materializada completa y la recalcula
// reproduciendo el ledger, todo en una transacción. Es idempotente: dos
// rebuilds seguidos producen exactamente los mismos saldos, porque el
// resultado es función pura del contenido del ledger. Operación de
// mantenimiento: ejecutar fuera del camino de requests y sin mutaciones
// concurrentes de saldo.
func (uc *UseCase) RebuildBalances(ctx context.Context) (int, error) {
	var rebuilt int
	err := uc.runTx(ctx, func(
		_ repository.LotRepository,
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error {
		aggregates, err := movRepo.AggregateBalances(ctx)
		if err != nil {
			return err
		}
		if err := balRepo.DeleteAll(ctx); err != nil {
			return err
		}
		for _, agg := range aggregates {
			if err := balRepo.ApplyDelta(ctx, agg.LotID, agg.Location, agg.Quantity); err != nil {
				return err
			}
		}
		rebuilt = len(aggregates)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rebuilt, nil
}

// VerifyBalances compara cada saldo materializado contra una agregación
// fresca del ledger, sin mutar nada: es la contraparte de solo lectura del
// rebuild. Devuelve los pares (lote, ubicación) que difieren, incluyendo
// saldos materializados sin respaldo en el ledger y sumas del ledger sin
// fila materializada.
func (uc *UseCase) VerifyBalances(ctx context.Context) ([]BalanceDiscrepancy, error) {
	aggregates, err := uc.movRepo.AggregateBalances(ctx)
	if err != nil {
		return nil, err
	}
	materialized, err := uc.balRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	type key struct{ lotID, location string }
	ledger := make(map[key]decimal.Decimal, len(aggregates))
	for _, agg := range aggregates {
		ledger[key{agg.LotID, agg.Location}] = agg.Quantity
	}

	var diffs []BalanceDiscrepancy
	seen := make(map[key]bool, len(materialized))
	for _, bal := range materialized {
		k := key{bal.LotID, bal.Location}
		seen[k] = true
		expected, ok := ledger[k]
		if !ok {
			expected = decimal.Zero
		}
		if !bal.Quantity.Equal(expected) {
			diffs = append(diffs, BalanceDiscrepancy{
				LotID:        bal.LotID,
				Location:     bal.Location,
				Ledger:       expected,
				Materialized: bal.Quantity,
			})
		}
	}
	for _, agg := range aggregates {
		k := key{agg.LotID, agg.Location}
		if !seen[k] && !agg.Quantity.IsZero() {
			diffs = append(diffs, BalanceDiscrepancy{
				LotID:        agg.LotID,
				Location:     agg.Location,
				Ledger:       agg.Quantity,
				Materialized: decimal.Zero,
			})
		}
	}
	return diffs, nil
}
