package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL
// (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el saldo de un lote en una ubicación; saldo cero si no hay fila.
func (r *BalanceRepo) Get(ctx context.Context, lotID, location string) (*entity.Balance, error) {
	query := `
		SELECT lot_id, location, quantity, updated_at
		FROM stock_balances WHERE lot_id = $1 AND location = $2`
	var b entity.Balance
	err := r.q.QueryRow(ctx, query, lotID, location).Scan(
		&b.LotID, &b.Location, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Balance{LotID: lotID, Location: location, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE) dentro
// de la transacción en curso. Si no hay fila devuelve saldo cero sin bloqueo;
// la primera escritura la crea vía ApplyDelta, que es de upsert aditivo.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, lotID, location string) (*entity.Balance, error) {
	query := `
		SELECT lot_id, location, quantity, updated_at
		FROM stock_balances WHERE lot_id = $1 AND location = $2
		FOR UPDATE`
	var b entity.Balance
	err := r.q.QueryRow(ctx, query, lotID, location).Scan(
		&b.LotID, &b.Location, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Balance{LotID: lotID, Location: location, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return &b, nil
}

// ApplyDelta suma la cantidad con signo al saldo, creando la fila si no
// existe. El upsert es aditivo (quantity = quantity + delta) para que la
// inserción concurrente de una fila nueva nunca pierda un delta.
func (r *BalanceRepo) ApplyDelta(ctx context.Context, lotID, location string, delta decimal.Decimal) error {
	query := `
		INSERT INTO stock_balances (lot_id, location, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (lot_id, location)
		DO UPDATE SET quantity = stock_balances.quantity + EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, lotID, location, delta)
	if err != nil {
		return fmt.Errorf("apply balance delta: %w", err)
	}
	return nil
}

// ListByLot devuelve el desglose de saldos de un lote por ubicación.
func (r *BalanceRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.Balance, error) {
	query := `
		SELECT lot_id, location, quantity, updated_at
		FROM stock_balances WHERE lot_id = $1
		ORDER BY location ASC`
	rows, err := r.q.Query(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("list balances by lot: %w", err)
	}
	defer rows.Close()
	return collectBalances(rows)
}

// ListAll devuelve la vista materializada completa (auditoría/verificación).
func (r *BalanceRepo) ListAll(ctx context.Context) ([]*entity.Balance, error) {
	query := `
		SELECT lot_id, location, quantity, updated_at
		FROM stock_balances
		ORDER BY lot_id ASC, location ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all balances: %w", err)
	}
	defer rows.Close()
	return collectBalances(rows)
}

// DeleteAll descarta la vista materializada completa (solo rebuild).
func (r *BalanceRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_balances`); err != nil {
		return fmt.Errorf("delete all balances: %w", err)
	}
	return nil
}

func collectBalances(rows pgx.Rows) ([]*entity.Balance, error) {
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.LotID, &b.Location, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
