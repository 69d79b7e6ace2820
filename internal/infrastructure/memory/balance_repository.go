package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación en memoria de BalanceRepository.
type BalanceRepo struct {
	store *Store
	inTx  bool
}

// NewBalanceRepository construye el adaptador con auto-lock (uso fuera de tx).
func NewBalanceRepository(store *Store) *BalanceRepo {
	return &BalanceRepo{store: store}
}

func (r *BalanceRepo) Get(ctx context.Context, lotID, location string) (*entity.Balance, error) {
	if !r.inTx {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	bal, ok := r.store.balances[balanceKey{lotID, location}]
	if !ok {
		return &entity.Balance{LotID: lotID, Location: location, Quantity: decimal.Zero}, nil
	}
	clone := *bal
	return &clone, nil
}

// GetForUpdate equivale a Get: dentro de TxRunner.Run el lock de escritura
// completo ya cumple el papel del bloqueo de fila.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, lotID, location string) (*entity.Balance, error) {
	return r.Get(ctx, lotID, location)
}

func (r *BalanceRepo) ApplyDelta(ctx context.Context, lotID, location string, delta decimal.Decimal) error {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	r.store.upsertBalance(lotID, location, func(b *entity.Balance) {
		b.Quantity = b.Quantity.Add(delta)
	})
	return nil
}

func (r *BalanceRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.Balance, error) {
	if !r.inTx {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	var list []*entity.Balance
	for k, bal := range r.store.balances {
		if k.lotID == lotID {
			clone := *bal
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Location < list[j].Location })
	return list, nil
}

func (r *BalanceRepo) ListAll(ctx context.Context) ([]*entity.Balance, error) {
	if !r.inTx {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	list := make([]*entity.Balance, 0, len(r.store.balances))
	for _, bal := range r.store.balances {
		clone := *bal
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].LotID != list[j].LotID {
			return list[i].LotID < list[j].LotID
		}
		return list[i].Location < list[j].Location
	})
	return list, nil
}

func (r *BalanceRepo) DeleteAll(ctx context.Context) error {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	r.store.balances = make(map[balanceKey]*entity.Balance)
	return nil
}
