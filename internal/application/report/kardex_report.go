package report

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// KardexPDFGenerator genera la representación PDF del kardex de un lote.
// Lo implementa pdf.MarotoKardexGenerator.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, lot *entity.Lot, balances *ledger.LotBalances, movements []*entity.Movement) ([]byte, error)
}

// KardexReportUseCase arma el reporte kardex de un lote: identidad del lote,
// saldos por ubicación y el historial de movimientos, renderizados a PDF.
type KardexReportUseCase struct {
	ledger *ledger.UseCase
	pdf    KardexPDFGenerator
}

// NewKardexReportUseCase construye el caso de uso.
func NewKardexReportUseCase(l *ledger.UseCase, pdf KardexPDFGenerator) *KardexReportUseCase {
	return &KardexReportUseCase{ledger: l, pdf: pdf}
}

// Generate produce el PDF del kardex del lote.
func (uc *KardexReportUseCase) Generate(ctx context.Context, lotID string) ([]byte, error) {
	lot, err := uc.ledger.GetLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	balances, err := uc.ledger.GetBalance(ctx, lotID, "")
	if err != nil {
		return nil, err
	}
	movements, err := uc.ledger.GetMovementHistory(ctx, lotID, 500)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateKardexPDF(ctx, lot, balances, movements)
}
