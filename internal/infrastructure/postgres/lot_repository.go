package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, part_id, batch_code, initial_quantity, initial_location, state,
		unit_cost, manufactured_at, expires_at, notes, created_at, created_by, updated_at`

// Create persiste un lote nuevo. La cantidad y ubicación iniciales se
// escriben aquí por única vez.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, part_id, batch_code, initial_quantity, initial_location, state,
			unit_cost, manufactured_at, expires_at, notes, created_at, created_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	createdBy := (*string)(nil)
	if lot.CreatedBy != "" {
		createdBy = &lot.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.PartID, lot.BatchCode, lot.InitialQuantity, lot.InitialLocation, lot.State,
		lot.UnitCost, lot.ManufacturedAt, lot.ExpiresAt, lot.Notes,
		lot.CreatedAt, createdBy, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID; nil si no existe.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	lot, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// UpdateMetadata actualiza solo los campos mutables del lote. La cantidad
// inicial no aparece en el SET: es write-once por esquema de este adaptador.
func (r *LotRepo) UpdateMetadata(ctx context.Context, id string, meta repository.LotMetadata) error {
	query := `
		UPDATE lots SET
			state           = COALESCE($2, state),
			unit_cost       = COALESCE($3, unit_cost),
			manufactured_at = COALESCE($4, manufactured_at),
			expires_at      = COALESCE($5, expires_at),
			notes           = COALESCE($6, notes),
			updated_at      = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id,
		meta.State, meta.UnitCost, meta.ManufacturedAt, meta.ExpiresAt, meta.Notes,
	)
	if err != nil {
		return fmt.Errorf("update lot metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista lotes ordenados por creación más reciente.
func (r *LotRepo) List(ctx context.Context, limit, offset int) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	return collectLots(rows)
}

// ListExpiringBefore devuelve los lotes activos que vencen antes del límite,
// más próximos primero.
func (r *LotRepo) ListExpiringBefore(ctx context.Context, limit time.Time) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + `
		FROM lots
		WHERE state = $1 AND expires_at IS NOT NULL AND expires_at < $2
		ORDER BY expires_at ASC`
	rows, err := r.q.Query(ctx, query, entity.LotStateActive, limit)
	if err != nil {
		return nil, fmt.Errorf("list expiring lots: %w", err)
	}
	defer rows.Close()
	return collectLots(rows)
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	var createdBy *string
	if err := row.Scan(
		&l.ID, &l.PartID, &l.BatchCode, &l.InitialQuantity, &l.InitialLocation, &l.State,
		&l.UnitCost, &l.ManufacturedAt, &l.ExpiresAt, &l.Notes,
		&l.CreatedAt, &createdBy, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if createdBy != nil {
		l.CreatedBy = *createdBy
	}
	return &l, nil
}

func collectLots(rows pgx.Rows) ([]*entity.Lot, error) {
	var list []*entity.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}
