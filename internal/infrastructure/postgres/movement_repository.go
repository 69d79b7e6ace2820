package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del ledger de movimientos sobre PostgreSQL
// (usable con pool o tx). El adaptador solo inserta y lee: la tabla además
// rechaza UPDATE/DELETE con un trigger (ver migrations/001_kardex.sql).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, lot_id, part_id, batch_code, type, quantity,
		from_location, to_location, document_type, document_ref, transfer_group,
		note, created_at, created_by`

// nullIfEmpty convierte cadena vacía en NULL para columnas opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create persiste una entrada inmutable del ledger.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, lot_id, part_id, batch_code, type, quantity,
			from_location, to_location, document_type, document_ref, transfer_group,
			note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.LotID, m.PartID, m.BatchCode, string(m.Type), m.Quantity,
		nullIfEmpty(m.FromLocation), nullIfEmpty(m.ToLocation),
		nullIfEmpty(m.DocumentType), nullIfEmpty(m.DocumentRef), nullIfEmpty(m.TransferGroup),
		m.Note, m.CreatedAt, nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByLot lista los movimientos de un lote, más recientes primero.
func (r *MovementRepo) ListByLot(ctx context.Context, lotID string, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE lot_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, lotID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by lot: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByTransferGroup devuelve las patas de un grupo de traslado.
func (r *MovementRepo) ListByTransferGroup(ctx context.Context, transferGroup string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE transfer_group = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, transferGroup)
	if err != nil {
		return nil, fmt.Errorf("list movements by transfer group: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// AggregateBalances suma cantidades con signo por (lote, ubicación afectada):
// origen para tipos de salida, destino para tipos de entrada. Es la consulta
// base del rebuild y de la verificación de saldos.
func (r *MovementRepo) AggregateBalances(ctx context.Context) ([]repository.BalanceAggregate, error) {
	query := `
		SELECT lot_id,
			CASE WHEN type IN ($1, $2, $3) THEN from_location ELSE to_location END AS location,
			SUM(quantity) AS quantity
		FROM stock_movements
		GROUP BY lot_id, location
		ORDER BY lot_id, location`
	rows, err := r.q.Query(ctx, query,
		string(kardex.MovementConsumption), string(kardex.MovementScrap), string(kardex.MovementTransferOut),
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate balances: %w", err)
	}
	defer rows.Close()

	var aggs []repository.BalanceAggregate
	for rows.Next() {
		var agg repository.BalanceAggregate
		if err := rows.Scan(&agg.LotID, &agg.Location, &agg.Quantity); err != nil {
			return nil, fmt.Errorf("scan balance aggregate: %w", err)
		}
		aggs = append(aggs, agg)
	}
	return aggs, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var movType string
	var from, to, docType, docRef, group, createdBy *string
	if err := row.Scan(
		&m.ID, &m.LotID, &m.PartID, &m.BatchCode, &movType, &m.Quantity,
		&from, &to, &docType, &docRef, &group,
		&m.Note, &m.CreatedAt, &createdBy,
	); err != nil {
		return nil, err
	}
	m.Type = kardex.MovementType(movType)
	m.FromLocation = deref(from)
	m.ToLocation = deref(to)
	m.DocumentType = deref(docType)
	m.DocumentRef = deref(docRef)
	m.TransferGroup = deref(group)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
