package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/metrics"
)

// maxTxAttempts acota los reintentos internos ante ErrConcurrentUpdate antes
// de devolver el conflicto al caller.
const maxTxAttempts = 3

// UseCase es el motor del kardex: registra lotes y movimientos de forma
// transaccional (bloqueo de fila con SELECT FOR UPDATE y Commit/Rollback) y
// mantiene la vista materializada de saldos en la misma transacción que cada
// movimiento.
type UseCase struct {
	txRunner TxRunner
	lotRepo  repository.LotRepository
	movRepo  repository.MovementRepository
	balRepo  repository.BalanceRepository
	metrics  *metrics.Metrics
}

// New construye el motor. metrics puede ser nil (tests).
func New(
	txRunner TxRunner,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	balRepo repository.BalanceRepository,
	m *metrics.Metrics,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		lotRepo:  lotRepo,
		movRepo:  movRepo,
		balRepo:  balRepo,
		metrics:  m,
	}
}

// runTx ejecuta fn en transacción con reintento acotado ante conflictos de
// concurrencia (deadlock/serialización). Cualquier otro error corta de una.
func (uc *UseCase) runTx(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	balRepo repository.BalanceRepository,
) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if attempt > 0 {
			uc.metrics.IncTxRetry()
		}
		err = uc.txRunner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConcurrentUpdate) {
			return err
		}
	}
	return err
}

// CreateLotInput entrada para crear un lote con su RECEIPT inicial.
type CreateLotInput struct {
	PartID          string
	BatchCode       string
	InitialQuantity decimal.Decimal
	InitialLocation string
	UnitCost        decimal.Decimal
	ManufacturedAt  *time.Time
	ExpiresAt       *time.Time
	Notes           string
	DocumentType    string
	DocumentRef     string
	Actor           string
}

// CreateLot crea el lote y registra su movimiento RECEIPT inicial en una sola
// transacción: el lote nunca existe sin su entrada en el ledger ni al revés.
func (uc *UseCase) CreateLot(ctx context.Context, in CreateLotInput) (*entity.Lot, *entity.Movement, error) {
	if in.PartID == "" || in.BatchCode == "" || in.InitialLocation == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if !in.InitialQuantity.GreaterThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.UnitCost.LessThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	lot := &entity.Lot{
		ID:              uuid.New().String(),
		PartID:          in.PartID,
		BatchCode:       in.BatchCode,
		InitialQuantity: in.InitialQuantity,
		InitialLocation: in.InitialLocation,
		State:           entity.LotStateActive,
		UnitCost:        in.UnitCost,
		ManufacturedAt:  in.ManufacturedAt,
		ExpiresAt:       in.ExpiresAt,
		Notes:           in.Notes,
		CreatedAt:       now,
		CreatedBy:       in.Actor,
		UpdatedAt:       now,
	}
	receipt := &entity.Movement{
		ID:           uuid.New().String(),
		LotID:        lot.ID,
		PartID:       lot.PartID,
		BatchCode:    lot.BatchCode,
		Type:         kardex.MovementReceipt,
		Quantity:     in.InitialQuantity,
		ToLocation:   in.InitialLocation,
		DocumentType: in.DocumentType,
		DocumentRef:  in.DocumentRef,
		Note:         in.Notes,
		CreatedAt:    now,
		CreatedBy:    in.Actor,
	}

	err := uc.runTx(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error {
		if err := lotRepo.Create(ctx, lot); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, receipt); err != nil {
			return err
		}
		return balRepo.ApplyDelta(ctx, lot.ID, in.InitialLocation, in.InitialQuantity)
	})
	if err != nil {
		return nil, nil, err
	}
	uc.metrics.IncMovement(string(kardex.MovementReceipt))
	return lot, receipt, nil
}

// MovementInput entrada para registrar un movimiento simple del ledger.
// Los tipos de traslado no pasan por aquí: solo el coordinador de traslados
// (Transfer) crea pares TRANSFER_OUT/TRANSFER_IN, nunca una pata suelta.
type MovementInput struct {
	LotID        string
	Type         kardex.MovementType
	Quantity     decimal.Decimal // con signo, según la regla del tipo
	FromLocation string
	ToLocation   string
	DocumentType string
	DocumentRef  string
	Note         string
	Actor        string
}

// Append valida el movimiento contra la tabla de reglas y lo registra junto
// con la actualización del saldo afectado, todo en una transacción. Ante
// saldo insuficiente en un tipo de salida no se escribe nada.
func (uc *UseCase) Append(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if in.Type == kardex.MovementTransferOut || in.Type == kardex.MovementTransferIn {
		return nil, domain.ErrInvalidInput
	}
	if err := kardex.Validate(in.Type, in.Quantity, in.FromLocation, in.ToLocation, ""); err != nil {
		return nil, err
	}
	lot, err := uc.lotRepo.GetByID(ctx, in.LotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	mov := &entity.Movement{
		ID:           uuid.New().String(),
		LotID:        lot.ID,
		PartID:       lot.PartID,
		BatchCode:    lot.BatchCode,
		Type:         in.Type,
		Quantity:     in.Quantity,
		FromLocation: in.FromLocation,
		ToLocation:   in.ToLocation,
		DocumentType: in.DocumentType,
		DocumentRef:  in.DocumentRef,
		Note:         in.Note,
		CreatedAt:    now,
		CreatedBy:    in.Actor,
	}
	affected := mov.AffectedLocation()

	err = uc.runTx(ctx, func(
		_ repository.LotRepository,
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error {
		if in.Type.Outgoing() {
			// Bloquea la fila del saldo y verifica dentro de la misma tx:
			// cierra la carrera check-then-act entre lectores concurrentes.
			bal, err := balRepo.GetForUpdate(ctx, lot.ID, affected)
			if err != nil {
				return err
			}
			if bal.Quantity.LessThan(in.Quantity.Neg()) {
				return domain.ErrInsufficientStock
			}
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		return balRepo.ApplyDelta(ctx, lot.ID, affected, in.Quantity)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.metrics.IncInsufficientStock()
		}
		return nil, err
	}
	uc.metrics.IncMovement(string(in.Type))
	return mov, nil
}

// Consume registra una salida por consumo. quantity es positiva; se guarda
// como cantidad negativa desde la ubicación indicada.
func (uc *UseCase) Consume(ctx context.Context, lotID, location string, quantity decimal.Decimal, docType, docRef, note, actor string) (*entity.Movement, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.Append(ctx, MovementInput{
		LotID:        lotID,
		Type:         kardex.MovementConsumption,
		Quantity:     quantity.Neg(),
		FromLocation: location,
		DocumentType: docType,
		DocumentRef:  docRef,
		Note:         note,
		Actor:        actor,
	})
}

// Scrap registra una baja/descarte. quantity es positiva.
func (uc *UseCase) Scrap(ctx context.Context, lotID, location string, quantity decimal.Decimal, docType, docRef, note, actor string) (*entity.Movement, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.Append(ctx, MovementInput{
		LotID:        lotID,
		Type:         kardex.MovementScrap,
		Quantity:     quantity.Neg(),
		FromLocation: location,
		DocumentType: docType,
		DocumentRef:  docRef,
		Note:         note,
		Actor:        actor,
	})
}

// Adjust registra una corrección manual de conteo con el signo que indique el
// caller. Un ajuste negativo es una corrección de inventario físico, no una
// salida real, así que no exige saldo previo.
func (uc *UseCase) Adjust(ctx context.Context, lotID, location string, signedQuantity decimal.Decimal, docType, docRef, note, actor string) (*entity.Movement, error) {
	return uc.Append(ctx, MovementInput{
		LotID:        lotID,
		Type:         kardex.MovementAdjustment,
		Quantity:     signedQuantity,
		ToLocation:   location,
		DocumentType: docType,
		DocumentRef:  docRef,
		Note:         note,
		Actor:        actor,
	})
}

// UpdateLotMetadata actualiza solo metadatos del lote (estado, costo, fechas,
// notas). La cantidad inicial no es alcanzable desde aquí: el tipo
// repository.LotMetadata no la incluye.
func (uc *UseCase) UpdateLotMetadata(ctx context.Context, lotID string, meta repository.LotMetadata) error {
	if meta.State != nil {
		switch *meta.State {
		case entity.LotStateActive, entity.LotStateQuarantine, entity.LotStateClosed:
		default:
			return domain.ErrInvalidInput
		}
	}
	if meta.UnitCost != nil && meta.UnitCost.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return domain.ErrNotFound
	}
	return uc.lotRepo.UpdateMetadata(ctx, lotID, meta)
}

// GetLot devuelve el lote por id.
func (uc *UseCase) GetLot(ctx context.Context, lotID string) (*entity.Lot, error) {
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

// ListExpiring devuelve los lotes activos que vencen antes del límite.
func (uc *UseCase) ListExpiring(ctx context.Context, before time.Time) ([]*entity.Lot, error) {
	return uc.lotRepo.ListExpiringBefore(ctx, before)
}
