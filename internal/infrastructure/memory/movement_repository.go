package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria del ledger. Append-only: el tipo no
// expone mutación ni borrado de movimientos.
type MovementRepo struct {
	store *Store
	inTx  bool
}

// NewMovementRepository construye el adaptador con auto-lock (uso fuera de tx).
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	if _, ok := r.store.movByID[m.ID]; ok {
		return domain.ErrDuplicate
	}
	clone := *m
	r.store.movements = append(r.store.movements, &clone)
	r.store.movByID[m.ID] = &clone
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !r.inTx {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	m, ok := r.store.movByID[id]
	if !ok {
		return nil, nil
	}
	clone := *m
	return &clone, nil
}

// ListByLot devuelve los movimientos del lote en orden inverso de inserción
// (más recientes primero), igual que el ORDER BY created_at DESC del
// adaptador PostgreSQL.
func (r *MovementRepo) ListByLot(ctx context.Context, lotID string, limit, offset int) ([]*entity.Movement, error) {
	if !r.inTx {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	var list []*entity.Movement
	skipped := 0
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if m.LotID != lotID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		clone := *m
		list = append(list, &clone)
		if limit > 0 && len(list) == limit {
			break
		}
	}
	return list, nil
}

func (r *MovementRepo) ListByTransferGroup(ctx context.Context, transferGroup string) ([]*entity.Movement, error) {
	if !r.inTx {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	var list []*entity.Movement
	for _, m := range r.store.movements {
		if m.TransferGroup == transferGroup {
			clone := *m
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (r *MovementRepo) AggregateBalances(ctx context.Context) ([]repository.BalanceAggregate, error) {
	if !r.inTx {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	sums := make(map[balanceKey]decimal.Decimal)
	for _, m := range r.store.movements {
		k := balanceKey{m.LotID, m.AffectedLocation()}
		sums[k] = sums[k].Add(m.Quantity)
	}
	aggs := make([]repository.BalanceAggregate, 0, len(sums))
	for k, q := range sums {
		aggs = append(aggs, repository.BalanceAggregate{LotID: k.lotID, Location: k.location, Quantity: q})
	}
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].LotID != aggs[j].LotID {
			return aggs[i].LotID < aggs[j].LotID
		}
		return aggs[i].Location < aggs[j].Location
	})
	return aggs, nil
}
