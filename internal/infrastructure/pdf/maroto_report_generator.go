// Package pdf genera el reporte imprimible del inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  RESUMEN: Productos | Stock bajo | Agotados | Valor total    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Categoría | Stock | Mín | Precio | Valor  │
//	│         (código de barras bajo cada producto que lo tenga)   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

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

	"github.com/jhoicas/inventario-local/internal/application/inventory"
	"github.com/jhoicas/inventario-local/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-local/internal/domain/inventory"
)

var _ inventory.ReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning = &props.Color{Red: 245, Green: 158, Blue: 11}
	colorDanger  = &props.Color{Red: 239, Green: 68, Blue: 68}
)

// MarotoReportGenerator implementa inventory.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	title string
	now   func() time.Time
}

// NewMarotoReportGenerator construye el generador. title aparece en el encabezado.
func NewMarotoReportGenerator(title string) *MarotoReportGenerator {
	return &MarotoReportGenerator{title: title, now: time.Now}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateStockReport(
	_ context.Context,
	items []entity.Item,
	stats entity.InventoryStats,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, g.now()))
	m.AddRows(summaryRow(stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay productos registrados.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	for _, it := range items {
		m.AddRows(itemRows(it)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
		})),
		col.New(4).Add(text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Top: 3, Color: colorGray,
		})),
	)
}

func summaryRow(stats entity.InventoryStats) core.Row {
	cell := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Center, Color: color, Top: 5}),
		)
	}
	return row.New(14).Add(
		cell("PRODUCTOS", fmt.Sprint(stats.TotalItems), colorPrimary),
		cell("STOCK BAJO", fmt.Sprint(stats.LowStockCount), colorWarning),
		cell("AGOTADOS", fmt.Sprint(stats.OutOfStockCount), colorDanger),
		cell("VALOR TOTAL", "$"+domaininv.DisplayMoney(stats.TotalValue), colorPrimary),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Estado", 2, align.Center),
		h("Stock", 1, align.Right),
		h("Mín.", 1, align.Right),
		h("Precio", 1, align.Right),
		h("Valor", 2, align.Right),
	)
}

// itemRows una fila por producto y, si tiene código, una fila con el código de barras impreso.
func itemRows(it entity.Item) []core.Row {
	status := domaininv.StockStatus(it)
	statusColor := colorGray
	switch status {
	case entity.StockLow:
		statusColor = colorWarning
	case entity.StockOut:
		statusColor = colorDanger
	}
	cell := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{Size: 8, Align: a, Top: 1})
	}

	rows := []core.Row{row.New(7).Add(
		col.New(3).Add(cell(it.Name, align.Left)),
		col.New(2).Add(cell(it.Category, align.Left)),
		col.New(2).Add(text.New(status.Label(), props.Text{Size: 8, Align: align.Center, Top: 1, Color: statusColor})),
		col.New(1).Add(cell(fmt.Sprint(it.CurrentStock), align.Right)),
		col.New(1).Add(cell(fmt.Sprint(it.MinStock), align.Right)),
		col.New(1).Add(cell("$"+domaininv.DisplayMoney(it.Price), align.Right)),
		col.New(2).Add(cell("$"+domaininv.DisplayMoney(domaininv.LineValue(it)), align.Right)),
	)}
	if it.HasBarcode() {
		rows = append(rows, row.New(10).Add(
			col.New(3).Add(code.NewBar(it.BarcodeValue())),
			col.New(9).Add(text.New(it.BarcodeValue(), props.Text{Size: 7, Top: 3, Left: 2, Color: colorGray})),
		))
	}
	return rows
}
