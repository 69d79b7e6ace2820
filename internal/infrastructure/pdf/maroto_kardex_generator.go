// Package pdf implementa la representación gráfica del kardex de un lote.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Parte + Batch  │  ID del lote + Fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LOTE: estado / cantidad inicial / vencimiento               │
//	│  SALDOS: una línea por ubicación + total                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Documento | Origen→Destino | Cant.    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/report"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.KardexPDFGenerator = (*MarotoKardexGenerator)(nil)

// MarotoKardexGenerator implementa report.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct{}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator { return &MarotoKardexGenerator{} }

// GenerateKardexPDF genera el PDF y devuelve sus bytes.
func (g *MarotoKardexGenerator) GenerateKardexPDF(
	_ context.Context,
	lot *entity.Lot,
	balances *ledger.LotBalances,
	movements []*entity.Movement,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de lote", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(lot))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(lotRow(lot))
	m.AddRows(balancesRows(balances)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range movementRows(movements) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: parte + batch (izq) e ID de lote + fecha de emisión (der).
func headerRow(lot *entity.Lot) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Parte "+lot.PartID, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Batch: "+lot.BatchCode, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE LOTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(lot.ID, props.Text{
				Size: 7, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// lotRow: datos de creación y estado del lote.
func lotRow(lot *entity.Lot) core.Row {
	expira := "—"
	if lot.ExpiresAt != nil {
		expira = lot.ExpiresAt.Format("02/01/2006")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL LOTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Estado: %s   |   Cantidad inicial: %s en %s   |   Vence: %s",
				lot.State,
				lot.InitialQuantity.String(),
				lot.InitialLocation,
				expira,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// balancesRows: una línea por ubicación más el total del lote.
func balancesRows(balances *ledger.LotBalances) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("SALDOS POR UBICACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, b := range balances.Locations {
		rows = append(rows, row.New(5).Add(
			col.New(8).Add(text.New(b.Location, props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(b.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	rows = append(rows, row.New(6).Add(
		col.New(8).Add(text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
		col.New(4).Add(text.New(balances.Total.String(), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
		})),
	))
	return rows
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Documento", 3, align.Left),
		h("Origen → Destino", 3, align.Left),
		h("Cantidad", 2, align.Right),
	)
}

// movementRows: una fila por movimiento, más recientes primero.
func movementRows(movements []*entity.Movement) []core.Row {
	result := make([]core.Row, 0, len(movements))
	for _, mov := range movements {
		doc := mov.DocumentRef
		if mov.DocumentType != "" {
			doc = mov.DocumentType + " " + mov.DocumentRef
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(
				mov.CreatedAt.Format("02/01/2006"),
				props.Text{Size: 8, Top: 1},
			)),
			col.New(2).Add(text.New(string(mov.Type), props.Text{Size: 7, Top: 1})),
			col.New(3).Add(text.New(nonEmpty(doc, "—"), props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(
				nonEmpty(mov.FromLocation, "·")+" → "+nonEmpty(mov.ToLocation, "·"),
				props.Text{Size: 8, Top: 1},
			)),
			col.New(2).Add(text.New(
				mov.Quantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
		))
	}
	return result
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
