// Package profit calcula ingresos, costo de ventas, gastos y utilidad sobre pedidos ya leídos.
// No hace I/O: recibe pedidos, costos resueltos y gastos y devuelve totales exactos.
package profit

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopify-profit-api/internal/domain/daterange"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

// Window ventana de fechas calendario para filtrar gastos; ambos extremos inclusivos.
type Window struct {
	StartDate time.Time
	EndDate   time.Time
}

// WindowFrom toma las fechas calendario de un rango resuelto.
func WindowFrom(r daterange.Range) Window {
	return Window{StartDate: r.Start, EndDate: r.End}
}

// Contains compara solo año/mes/día de d contra la ventana, cada fecha en su propia zona.
func (w Window) Contains(d time.Time) bool {
	k := dateKey(d)
	return k >= dateKey(w.StartDate) && k <= dateKey(w.EndDate)
}

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Summary totales del periodo. Los montos no se redondean aquí.
type Summary struct {
	Revenue             decimal.Decimal
	COGS                decimal.Decimal
	GrossProfit         decimal.Decimal
	TotalExpenses       decimal.Decimal
	NetProfit           decimal.Decimal
	OrdersCount         int
	ExpensesCount       int
	LineItemsCount      int
	UnresolvedLineItems int // líneas cuyo costo quedó en "NOT SET"
}

// OrderCOGS costo de ventas de un pedido y cuántas líneas no tienen costo resuelto.
func OrderCOGS(o entity.Order, costs entity.VariantCosts) (decimal.Decimal, int) {
	total := decimal.Zero
	unresolved := 0
	for _, li := range o.LineItems {
		cost, ok := costs.Lookup(li.VariantID)
		if !ok {
			unresolved++
			continue
		}
		total = total.Add(cost.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	return total, unresolved
}

// Aggregate suma ingresos y costos de los pedidos y los gastos dentro de la ventana.
func Aggregate(orders []entity.Order, costs entity.VariantCosts, expenses []entity.Expense, w Window) Summary {
	var s Summary
	s.Revenue, s.COGS = decimal.Zero, decimal.Zero
	for _, o := range orders {
		s.OrdersCount++
		s.LineItemsCount += len(o.LineItems)
		s.Revenue = s.Revenue.Add(o.TotalPrice)
		cogs, unresolved := OrderCOGS(o, costs)
		s.COGS = s.COGS.Add(cogs)
		s.UnresolvedLineItems += unresolved
	}

	s.TotalExpenses = decimal.Zero
	for _, e := range expenses {
		if !w.Contains(e.ExpenseDate) {
			continue
		}
		s.ExpensesCount++
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
	}

	s.GrossProfit = s.Revenue.Sub(s.COGS)
	s.NetProfit = s.GrossProfit.Sub(s.TotalExpenses)
	return s
}

// UnassignedLocation nombre del grupo de pedidos sin ubicación.
const UnassignedLocation = "unassigned"

// LocationSummary totales de una ubicación.
type LocationSummary struct {
	LocationID    *int64 // nil en el grupo "unassigned"
	LocationName  string
	Revenue       decimal.Decimal
	COGS          decimal.Decimal
	GrossProfit   decimal.Decimal
	Expenses      decimal.Decimal
	NetProfit     decimal.Decimal
	OrdersCount   int
	ExpensesCount int
}

// ByLocation agrupa por location_id. Se incluye cada ubicación conocida (aunque no tenga
// pedidos), luego las ubicaciones que aparecen en pedidos pero no en la lista, y al final el
// grupo "unassigned" si hay pedidos sin ubicación.
// Los gastos se atribuyen por igualdad exacta entre LocationName y el nombre de la ubicación;
// los que no coinciden quedan fuera del desglose (siguen contando en Aggregate).
func ByLocation(orders []entity.Order, costs entity.VariantCosts, expenses []entity.Expense, locations []entity.Location, w Window) []LocationSummary {
	groups := make(map[int64]*LocationSummary, len(locations))
	ordered := make([]*LocationSummary, 0, len(locations)+1)
	byName := make(map[string]*LocationSummary, len(locations))

	newGroup := func(id *int64, name string) *LocationSummary {
		return &LocationSummary{
			LocationID: id, LocationName: name,
			Revenue: decimal.Zero, COGS: decimal.Zero, Expenses: decimal.Zero,
		}
	}

	for _, l := range locations {
		if _, dup := groups[l.ID]; dup {
			continue
		}
		id := l.ID
		g := newGroup(&id, l.Name)
		groups[l.ID] = g
		ordered = append(ordered, g)
		if _, taken := byName[l.Name]; !taken {
			byName[l.Name] = g
		}
	}

	var unknown []*LocationSummary
	var unassigned *LocationSummary
	for _, o := range orders {
		var g *LocationSummary
		if o.LocationID == nil {
			if unassigned == nil {
				unassigned = newGroup(nil, UnassignedLocation)
			}
			g = unassigned
		} else if g = groups[*o.LocationID]; g == nil {
			id := *o.LocationID
			g = newGroup(&id, "")
			groups[id] = g
			unknown = append(unknown, g)
		}
		cogs, _ := OrderCOGS(o, costs)
		g.Revenue = g.Revenue.Add(o.TotalPrice)
		g.COGS = g.COGS.Add(cogs)
		g.OrdersCount++
	}

	for _, e := range expenses {
		if !w.Contains(e.ExpenseDate) {
			continue
		}
		if g, ok := byName[e.LocationName]; ok {
			g.Expenses = g.Expenses.Add(e.Amount)
			g.ExpensesCount++
		}
	}

	sort.Slice(unknown, func(i, j int) bool { return *unknown[i].LocationID < *unknown[j].LocationID })
	ordered = append(ordered, unknown...)
	if unassigned != nil {
		ordered = append(ordered, unassigned)
	}

	out := make([]LocationSummary, 0, len(ordered))
	for _, g := range ordered {
		g.GrossProfit = g.Revenue.Sub(g.COGS)
		g.NetProfit = g.GrossProfit.Sub(g.Expenses)
		out = append(out, *g)
	}
	return out
}
