// Package pdf genera el reporte de existencias en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Bodega | Stock | Costo | Valor   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: unidades / valor del inventario                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/warehouse-api/internal/application/report"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ report.StockPDFGenerator = (*MarotoStockReport)(nil)

// MarotoStockReport implementa report.StockPDFGenerator usando Maroto v2.
type MarotoStockReport struct{}

// NewMarotoStockReport construye el generador.
func NewMarotoStockReport() *MarotoStockReport { return &MarotoStockReport{} }

// GenerateStockPDF genera el PDF y devuelve sus bytes.
func (g *MarotoStockReport) GenerateStockPDF(_ context.Context, rep *report.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de existencias", true).
		WithAuthor(rep.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(rep.ByWarehouse))
	m.AddRows(tableRows(rep)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(rep))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(rep *report.StockReport) core.Row {
	scope := "Consolidado por producto"
	if rep.ByWarehouse {
		scope = "Por producto y bodega"
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New(rep.Title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("REPORTE DE EXISTENCIAS - "+scope, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow sin bodega la columna de producto toma su espacio.
func tableHeaderRow(byWarehouse bool) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	cols := []core.Col{h("Código", 2, align.Left)}
	if byWarehouse {
		cols = append(cols, h("Producto", 3, align.Left), h("Bodega", 2, align.Left))
	} else {
		cols = append(cols, h("Producto", 5, align.Left))
	}
	cols = append(cols, h("Stock", 1, align.Right), h("Costo unit.", 2, align.Right), h("Valor", 2, align.Right))
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(cols...)
}

func tableRows(rep *report.StockReport) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	out := make([]core.Row, 0, len(rep.Lines))
	for _, l := range rep.Lines {
		cost := "—"
		if l.UnitCost.Valid {
			cost = "$" + formatMoney(l.UnitCost.Decimal.StringFixed(0))
		}
		cols := []core.Col{cell(l.ProductCode, 2, align.Left)}
		if rep.ByWarehouse {
			cols = append(cols, cell(l.ProductName, 3, align.Left), cell(l.WarehouseName, 2, align.Left))
		} else {
			cols = append(cols, cell(l.ProductName, 5, align.Left))
		}
		cols = append(cols,
			cell(formatMoney(strconv.FormatInt(l.Stock, 10)), 1, align.Right),
			cell(cost, 2, align.Right),
			cell("$"+formatMoney(l.Value.StringFixed(0)), 2, align.Right),
		)
		out = append(out, row.New(6).Add(cols...))
	}
	return out
}

func totalsRow(rep *report.StockReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Right: 1})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(label("Total unidades:"), label("Valor inventario:")),
		col.New(3).Add(
			value(formatMoney(strconv.FormatInt(rep.TotalUnits, 10))),
			value("$"+formatMoney(rep.TotalValue.StringFixed(0))),
		),
	)
}

// formatMoney inserta puntos de miles en un string numérico entero (admite signo).
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
