// Package pdf genera la etiqueta imprimible de un lote con su código QR.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────┐
//	│  LOTE <id>                 Fecha: <date>  │
//	│  ───────────────────────────────────────  │
//	│  Producto / Cantidad / Proveedor          │
//	│  Operador + código / Estado               │
//	│  ───────────────────────────────────────  │
//	│  QR (payload completo)   │  Instrucciones │
//	└───────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/lotetracker/internal/application/ports"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

var _ ports.LabelGenerator = (*LabelGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// LabelGenerator implementa ports.LabelGenerator usando Maroto v2.
type LabelGenerator struct {
	appName string
}

// NewLabelGenerator construye el generador; appName va en los metadatos del PDF.
func NewLabelGenerator(appName string) *LabelGenerator {
	return &LabelGenerator{appName: appName}
}

// GenerateLotLabel genera la etiqueta y devuelve sus bytes. payload es el texto del QR.
func (g *LabelGenerator) GenerateLotLabel(_ context.Context, lot *entity.Lot, payload string) ([]byte, error) {
	if lot == nil {
		return nil, fmt.Errorf("pdf: lote nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lote "+lot.ID, true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(lot))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailRows(lot)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(qrRow(payload))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(lot *entity.Lot) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("LOTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(lot.ID, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(5).Add(
			text.New(string(lot.Status), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+lot.Date, props.Text{Size: 8, Align: align.Right, Top: 7, Color: colorGray}),
		),
	)
}

func detailRows(lot *entity.Lot) []core.Row {
	field := func(label, value string) core.Row {
		return row.New(7).Add(
			col.New(4).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
			col.New(8).Add(text.New(nonEmpty(value, "—"), props.Text{Size: 9, Top: 1})),
		)
	}
	return []core.Row{
		field("Producto", lot.ProductType),
		field("Cantidad", lot.Quantity),
		field("Proveedor", lot.Supplier),
		field("Operador", fmt.Sprintf("%s (%s)", lot.OperatorName, lot.OperatorCode)),
	}
}

func qrRow(payload string) core.Row {
	return row.New(60).Add(
		col.New(6).Add(code.NewQr(payload, props.Rect{Percent: 95, Center: true})),
		col.New(6).Add(
			text.New("Escanee el código para ver\nlos datos del lote sin conexión.", props.Text{
				Size: 8, Top: 6, Left: 3, Color: colorGray,
			}),
			text.New("Con conexión, el enlace abre\nel detalle en vivo del lote.", props.Text{
				Size: 8, Top: 22, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
