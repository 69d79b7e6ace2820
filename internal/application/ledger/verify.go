package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// TransferReport es el resultado estructurado de verificar un grupo de
// traslado: pasa solo si hay exactamente dos patas, una TRANSFER_OUT y una
// TRANSFER_IN, y sus cantidades con signo suman exactamente cero.
type TransferReport struct {
	TransferGroup string   `json:"transfer_group"`
	Legs          int      `json:"legs"`
	OutLegs       int      `json:"out_legs"`
	InLegs        int      `json:"in_legs"`
	Net           decimal.Decimal `json:"net"`
	OK            bool     `json:"ok"`
	Violations    []string `json:"violations,omitempty"`
}

// VerifyTransfer audita un grupo de traslado contra el ledger. Detecta, no
// corrige: una violación se reporta con ErrIntegrityViolation y queda en
// manos del operador; la auto-reparación es una acción administrativa aparte.
func (uc *UseCase) VerifyTransfer(ctx context.Context, transferGroup string) (*TransferReport, error) {
	if transferGroup == "" {
		return nil, domain.ErrInvalidInput
	}
	movs, err := uc.movRepo.ListByTransferGroup(ctx, transferGroup)
	if err != nil {
		return nil, err
	}
	if len(movs) == 0 {
		return nil, domain.ErrNotFound
	}

	report := &TransferReport{TransferGroup: transferGroup, Legs: len(movs), Net: decimal.Zero}
	for _, m := range movs {
		report.Net = report.Net.Add(m.Quantity)
		switch m.Type {
		case kardex.MovementTransferOut:
			report.OutLegs++
		case kardex.MovementTransferIn:
			report.InLegs++
		default:
			report.Violations = append(report.Violations,
				fmt.Sprintf("movimiento %s tiene tipo %s, ajeno a un traslado", m.ID, m.Type))
		}
	}
	if report.Legs != 2 {
		report.Violations = append(report.Violations,
			fmt.Sprintf("se esperaban exactamente 2 patas, hay %d", report.Legs))
	}
	if report.OutLegs != 1 || report.InLegs != 1 {
		report.Violations = append(report.Violations,
			fmt.Sprintf("se esperaba 1 TRANSFER_OUT y 1 TRANSFER_IN, hay %d y %d", report.OutLegs, report.InLegs))
	}
	if !report.Net.IsZero() {
		report.Violations = append(report.Violations,
			fmt.Sprintf("las patas no netean a cero: %s", report.Net.String()))
	}

	report.OK = len(report.Violations) == 0
	if !report.OK {
		uc.metrics.IncIntegrityFailure()
		return report, domain.ErrIntegrityViolation
	}
	return report, nil
}
