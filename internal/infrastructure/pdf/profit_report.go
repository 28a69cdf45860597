// Package pdf genera el reporte de utilidad en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + rango            │  Periodo + moneda       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ingresos / COGS / Utilidad bruta / Gastos / Neta  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ubicación | Pedidos | Ingresos | COGS | Gastos | Neta│
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: conteos + aviso de costos incompletos               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 96, Blue: 70}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ProfitReportGenerator implementa ports.ProfitReportGenerator usando Maroto v2.
type ProfitReportGenerator struct{}

var _ ports.ProfitReportGenerator = (*ProfitReportGenerator)(nil)

// NewProfitReportGenerator construye el generador.
func NewProfitReportGenerator() *ProfitReportGenerator { return &ProfitReportGenerator{} }

// GenerateProfitReport genera el PDF y devuelve sus bytes.
func (g *ProfitReportGenerator) GenerateProfitReport(_ context.Context, report *dto.ProfitResponse) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de utilidad", true).
		WithAuthor(report.Shop, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))

	if len(report.Locations) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(tableHeaderRow())
		m.AddRows(tableLocationRows(report.Locations)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(report)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda (izq) y periodo (der).
func headerRow(r *dto.ProfitResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.Shop, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Rango: "+r.DateRange, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE UTILIDAD", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(periodLabel(r), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Moneda: "+nonEmpty(r.Currency, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// summaryRow: bloque de totales.
func summaryRow(r *dto.ProfitResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	netColor := colorPrimary
	if r.NetProfit.IsNegative() {
		netColor = colorRed
	}

	return row.New(34).Add(
		col.New(3),
		col.New(3).Add(
			label("Ingresos:"),
			label("Costo de ventas:"),
			label("Utilidad bruta:"),
			label("Margen bruto:"),
			label("Gastos:"),
			text.New("UTILIDAD NETA:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: netColor, Right: 2,
			}),
		),
		col.New(3).Add(
			value(formatMoney(r.Revenue)),
			value(formatMoney(r.COGS)),
			value(formatMoney(r.GrossProfit)),
			value(r.GrossMarginPct.StringFixed(2)+"%"),
			value(formatMoney(r.TotalExpenses)),
			text.New(formatMoney(r.NetProfit), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: netColor, Right: 1,
			}),
		),
		col.New(3),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Ubicación", 3, align.Left),
		h("Pedidos", 1, align.Center),
		h("Ingresos", 2, align.Right),
		h("COGS", 2, align.Right),
		h("Gastos", 2, align.Right),
		h("Utilidad neta", 2, align.Right),
	)
}

// tableLocationRows: una fila por ubicación del desglose.
func tableLocationRows(locs []dto.LocationProfitDTO) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	result := make([]core.Row, 0, len(locs))
	for _, l := range locs {
		result = append(result, row.New(7).Add(
			cell(l.LocationName, 3, align.Left),
			cell(fmt.Sprintf("%d", l.OrdersCount), 1, align.Center),
			cell(formatMoney(l.Revenue), 2, align.Right),
			cell(formatMoney(l.COGS), 2, align.Right),
			cell(formatMoney(l.Expenses), 2, align.Right),
			cell(formatMoney(l.NetProfit), 2, align.Right),
		))
	}
	return result
}

func footerRows(r *dto.ProfitResponse) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Pedidos: %d   |   Líneas: %d   |   Gastos registrados: %d",
				r.OrdersCount, r.LineItemsCount, r.ExpensesCount,
			), props.Text{Size: 8, Color: colorGray, Top: 1}),
		)),
	}
	if r.CostStatus == dto.CostStatusNotSet {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf(
				"%d líneas sin costo registrado se contaron con costo 0; el costo de ventas es parcial.",
				r.UnresolvedLineItems,
			), props.Text{Size: 8, Style: fontstyle.Bold, Color: colorRed, Top: 1}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func periodLabel(r *dto.ProfitResponse) string {
	if r.StartDate == "" && r.EndDate == "" {
		return "Todo el historial"
	}
	return nonEmpty(r.StartDate, "…") + " a " + nonEmpty(r.EndDate, "…")
}

// formatMoney inserta comas de miles y conserva 2 decimales.
// Ej: 1234567.5 → "1,234,567.50", -50 → "-50.00"
func formatMoney(m dto.Money) string {
	s := m.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "." + frac
}
