package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación en memoria de LotRepository.
type LotRepo struct {
	store *Store
	inTx  bool // dentro de TxRunner.Run el lock ya está tomado
}

// NewLotRepository construye el adaptador con auto-lock (uso fuera de tx).
func NewLotRepository(store *Store) *LotRepo {
	return &LotRepo{store: store}
}

func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	if _, ok := r.store.lots[lot.ID]; ok {
		return domain.ErrDuplicate
	}
	clone := *lot
	r.store.lots[lot.ID] = &clone
	return nil
}

func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	if !r.inTx {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	lot, ok := r.store.lots[id]
	if !ok {
		return nil, nil
	}
	clone := *lot
	return &clone, nil
}

func (r *LotRepo) UpdateMetadata(ctx context.Context, id string, meta repository.LotMetadata) error {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	lot, ok := r.store.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	if meta.State != nil {
		lot.State = *meta.State
	}
	if meta.UnitCost != nil {
		lot.UnitCost = *meta.UnitCost
	}
	if meta.ManufacturedAt != nil {
		lot.ManufacturedAt = meta.ManufacturedAt
	}
	if meta.ExpiresAt != nil {
		lot.ExpiresAt = meta.ExpiresAt
	}
	if meta.Notes != nil {
		lot.Notes = *meta.Notes
	}
	lot.UpdatedAt = time.Now()
	return nil
}

func (r *LotRepo) List(ctx context.Context, limit, offset int) ([]*entity.Lot, error) {
	if !r.inTx {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	all := make([]*entity.Lot, 0, len(r.store.lots))
	for _, lot := range r.store.lots {
		clone := *lot
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *LotRepo) ListExpiringBefore(ctx context.Context, limit time.Time) ([]*entity.Lot, error) {
	if !r.inTx {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	var list []*entity.Lot
	for _, lot := range r.store.lots {
		if lot.State != entity.LotStateActive || lot.ExpiresAt == nil {
			continue
		}
		if lot.ExpiresAt.Before(limit) {
			clone := *lot
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ExpiresAt.Before(*list[j].ExpiresAt) })
	return list, nil
}
