package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Límites por defecto de la consulta de historial.
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// LotBalances es el desglose de saldos de un lote por ubicación más el total.
type LotBalances struct {
	LotID     string
	Locations []*entity.Balance
	Total     decimal.Decimal
}

// GetBalance devuelve el saldo de un lote. Con location devuelve solo esa
// ubicación; sin location, el desglose completo por ubicación y el total.
func (uc *UseCase) GetBalance(ctx context.Context, lotID, location string) (*LotBalances, error) {
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}

	if location != "" {
		bal, err := uc.balRepo.Get(ctx, lotID, location)
		if err != nil {
			return nil, err
		}
		return &LotBalances{
			LotID:     lotID,
			Locations: []*entity.Balance{bal},
			Total:     bal.Quantity,
		}, nil
	}

	balances, err := uc.balRepo.ListByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Quantity)
	}
	return &LotBalances{LotID: lotID, Locations: balances, Total: total}, nil
}

// GetMovementHistory devuelve los movimientos más recientes del lote.
func (uc *UseCase) GetMovementHistory(ctx context.Context, lotID string, limit int) ([]*entity.Movement, error) {
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return uc.movRepo.ListByLot(ctx, lotID, limit, 0)
}
