package memory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks del motor contra el Store bajo el lock de
// escritura completo: el callback ve y muta un estado consistente, y si
// falla se restaura el snapshot previo (rollback).
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run toma el lock, saca snapshot, ejecuta fn con repos sin auto-lock y
// restaura el snapshot si fn devuelve error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	balRepo repository.BalanceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.snapshot()
	lotRepo := &LotRepo{store: r.store, inTx: true}
	movRepo := &MovementRepo{store: r.store, inTx: true}
	balRepo := &BalanceRepo{store: r.store, inTx: true}

	if err := fn(lotRepo, movRepo, balRepo); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}
