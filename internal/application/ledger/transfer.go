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
)

// TransferInput entrada para el coordinador de traslados.
type TransferInput struct {
	LotID        string
	FromLocation string
	ToLocation   string
	Quantity     decimal.Decimal // positiva
	DocumentType string
	DocumentRef  string
	Note         string
	Actor        string
}

// Transfer traslada cantidad entre dos ubicaciones como dos entradas
// correlacionadas del ledger (TRANSFER_OUT y TRANSFER_IN) bajo un mismo
// grupo de traslado, en una sola transacción: el par nunca existe a medias.
// La verificación de saldo ocurre con la fila de origen bloqueada
// (SELECT FOR UPDATE), de modo que dos traslados concurrentes del mismo lote
// no pueden sobregirar la ubicación.
func (uc *UseCase) Transfer(ctx context.Context, in TransferInput) (*entity.Movement, *entity.Movement, error) {
	if in.FromLocation == "" || in.ToLocation == "" || in.FromLocation == in.ToLocation {
		return nil, nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidInput
	}
	lot, err := uc.lotRepo.GetByID(ctx, in.LotID)
	if err != nil {
		return nil, nil, err
	}
	if lot == nil {
		return nil, nil, domain.ErrNotFound
	}

	now := time.Now()
	transferGroup := uuid.New().String()
	outMov := &entity.Movement{
		ID:            uuid.New().String(),
		LotID:         lot.ID,
		PartID:        lot.PartID,
		BatchCode:     lot.BatchCode,
		Type:          kardex.MovementTransferOut,
		Quantity:      in.Quantity.Neg(),
		FromLocation:  in.FromLocation,
		ToLocation:    in.ToLocation,
		DocumentType:  in.DocumentType,
		DocumentRef:   in.DocumentRef,
		TransferGroup: transferGroup,
		Note:          in.Note,
		CreatedAt:     now,
		CreatedBy:     in.Actor,
	}
	inMov := &entity.Movement{
		ID:            uuid.New().String(),
		LotID:         lot.ID,
		PartID:        lot.PartID,
		BatchCode:     lot.BatchCode,
		Type:          kardex.MovementTransferIn,
		Quantity:      in.Quantity,
		FromLocation:  in.FromLocation,
		ToLocation:    in.ToLocation,
		DocumentType:  in.DocumentType,
		DocumentRef:   in.DocumentRef,
		TransferGroup: transferGroup,
		Note:          in.Note,
		CreatedAt:     now,
		CreatedBy:     in.Actor,
	}
	if err := kardex.Validate(outMov.Type, outMov.Quantity, outMov.FromLocation, outMov.ToLocation, outMov.TransferGroup); err != nil {
		return nil, nil, err
	}
	if err := kardex.Validate(inMov.Type, inMov.Quantity, inMov.FromLocation, inMov.ToLocation, inMov.TransferGroup); err != nil {
		return nil, nil, err
	}

	err = uc.runTx(ctx, func(
		_ repository.LotRepository,
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error {
		// Bloquea la fila del saldo en origen y verifica dentro de la tx.
		origin, err := balRepo.GetForUpdate(ctx, lot.ID, in.FromLocation)
		if err != nil {
			return err
		}
		if origin.Quantity.LessThan(in.Quantity) {
			return domain.ErrInsufficientStock
		}
		// Pata débito en origen.
		if err := movRepo.Create(ctx, outMov); err != nil {
			return err
		}
		if err := balRepo.ApplyDelta(ctx, lot.ID, in.FromLocation, in.Quantity.Neg()); err != nil {
			return err
		}
		// Pata crédito en destino, misma transacción y mismo grupo.
		if err := movRepo.Create(ctx, inMov); err != nil {
			return err
		}
		return balRepo.ApplyDelta(ctx, lot.ID, in.ToLocation, in.Quantity)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.metrics.IncInsufficientStock()
		}
		return nil, nil, err
	}
	uc.metrics.IncMovement(string(kardex.MovementTransferOut))
	uc.metrics.IncMovement(string(kardex.MovementTransferIn))
	return outMov, inMov, nil
}
