package profit_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/profit"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func id(n int64) *int64 { return &n }

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

var window = profit.Window{
	StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local),
	EndDate:   time.Date(2024, 5, 15, 14, 30, 0, 0, time.Local),
}

// ────────────────────────────────────────────────────────────────────────────
// Caso base: un pedido de 100, dos unidades a costo 15 y un gasto de 20.
// ────────────────────────────────────────────────────────────────────────────
func TestAggregate_PedidoConCostoYGasto(t *testing.T) {
	orders := []entity.Order{{
		ID: 1, TotalPrice: d("100"),
		LineItems: []entity.LineItem{{VariantID: id(5), Quantity: 2, Price: d("50")}},
	}}
	costs := entity.VariantCosts{5: {Cost: d("15"), Source: entity.CostSourceCache, Resolved: true}}
	expenses := []entity.Expense{{Amount: d("20"), ExpenseDate: date(2024, 5, 10)}}

	s := profit.Aggregate(orders, costs, expenses, window)

	assert.True(t, d("100").Equal(s.Revenue))
	assert.True(t, d("30").Equal(s.COGS))
	assert.True(t, d("70").Equal(s.GrossProfit))
	assert.True(t, d("20").Equal(s.TotalExpenses))
	assert.True(t, d("50").Equal(s.NetProfit))
	assert.Equal(t, 1, s.OrdersCount)
	assert.Equal(t, 1, s.ExpensesCount)
	assert.Equal(t, 0, s.UnresolvedLineItems)
}

func TestAggregate_DosLineasSinGastos(t *testing.T) {
	orders := []entity.Order{{
		ID: 1, TotalPrice: d("100.00"),
		LineItems: []entity.LineItem{
			{VariantID: id(1), Quantity: 1, Price: d("60")},
			{VariantID: id(2), Quantity: 1, Price: d("40")},
		},
	}}
	costs := entity.VariantCosts{
		1: {Cost: d("30"), Source: entity.CostSourceRemote, Resolved: true},
		2: {Cost: d("20"), Source: entity.CostSourceRemote, Resolved: true},
	}

	s := profit.Aggregate(orders, costs, nil, window)

	assert.Equal(t, "50.00", s.COGS.StringFixed(2))
	assert.Equal(t, "50.00", s.GrossProfit.StringFixed(2))
	assert.Equal(t, "50.00", s.NetProfit.StringFixed(2))
	assert.Equal(t, 2, s.LineItemsCount)
}

func TestAggregate_PedidoSinLineas(t *testing.T) {
	orders := []entity.Order{{ID: 1, TotalPrice: d("42.50")}}

	s := profit.Aggregate(orders, entity.VariantCosts{}, nil, window)

	assert.True(t, d("42.50").Equal(s.Revenue))
	assert.True(t, s.COGS.IsZero())
	assert.True(t, d("42.50").Equal(s.GrossProfit))
}

func TestAggregate_GastoEnLosBordesDeLaVentana(t *testing.T) {
	expenses := []entity.Expense{
		{Amount: d("1"), ExpenseDate: date(2024, 4, 30)},  // fuera
		{Amount: d("2"), ExpenseDate: date(2024, 5, 1)},   // inicio, incluido
		{Amount: d("4"), ExpenseDate: date(2024, 5, 15)},  // fin, incluido aunque now sea 14:30
		{Amount: d("8"), ExpenseDate: date(2024, 5, 16)},  // fuera
	}

	s := profit.Aggregate(nil, nil, expenses, window)

	assert.True(t, d("6").Equal(s.TotalExpenses), "got %s", s.TotalExpenses)
	assert.Equal(t, 2, s.ExpensesCount)
	assert.True(t, d("-6").Equal(s.NetProfit))
}

func TestAggregate_LineasSinCostoCuentanComoCero(t *testing.T) {
	orders := []entity.Order{{
		TotalPrice: d("30"),
		LineItems: []entity.LineItem{
			{VariantID: id(1), Quantity: 1},
			{VariantID: id(2), Quantity: 3},
			{VariantID: nil, Quantity: 1, Name: "Envoltura"},
		},
	}}
	costs := entity.VariantCosts{
		1: {Cost: d("4.25"), Source: entity.CostSourceRemote, Resolved: true},
		2: {Cost: decimal.Zero, Source: entity.CostSourceUnresolved},
	}

	s := profit.Aggregate(orders, costs, nil, window)

	assert.True(t, d("4.25").Equal(s.COGS))
	assert.Equal(t, 2, s.UnresolvedLineItems)
	assert.Equal(t, 3, s.LineItemsCount)
}

func TestAggregate_COGSNoDecreceAlAgregarLineas(t *testing.T) {
	costs := entity.VariantCosts{
		1: {Cost: d("3.10"), Resolved: true},
		2: {Cost: d("0"), Resolved: true},
		3: {Cost: d("7.99"), Resolved: true},
	}
	order := entity.Order{TotalPrice: d("100")}
	prev := decimal.Zero
	for i, vid := range []int64{1, 2, 3, 1, 99} {
		order.LineItems = append(order.LineItems, entity.LineItem{VariantID: id(vid), Quantity: i + 1})
		s := profit.Aggregate([]entity.Order{order}, costs, nil, window)
		assert.True(t, s.COGS.GreaterThanOrEqual(prev), "paso %d", i)
		assert.True(t, s.Revenue.Sub(s.COGS).Equal(s.GrossProfit))
		prev = s.COGS
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Desglose por ubicación
// ────────────────────────────────────────────────────────────────────────────
func TestByLocation_AgrupaYAtribuyeGastosPorNombre(t *testing.T) {
	locations := []entity.Location{
		{ID: 10, Name: "Kathmandu", Active: true},
		{ID: 20, Name: "Pokhara", Active: true},
	}
	orders := []entity.Order{
		{TotalPrice: d("100"), LocationID: id(10), LineItems: []entity.LineItem{{VariantID: id(1), Quantity: 2}}},
		{TotalPrice: d("50"), LocationID: id(10)},
		{TotalPrice: d("80"), LocationID: id(30)},
		{TotalPrice: d("5")},
	}
	costs := entity.VariantCosts{1: {Cost: d("10"), Resolved: true}}
	expenses := []entity.Expense{
		{LocationName: "Kathmandu", Amount: d("25"), ExpenseDate: date(2024, 5, 2)},
		{LocationName: "kathmandu", Amount: d("99"), ExpenseDate: date(2024, 5, 2)}, // no coincide
		{LocationName: "Pokhara", Amount: d("7"), ExpenseDate: date(2024, 6, 1)},    // fuera de ventana
	}

	groups := profit.ByLocation(orders, costs, expenses, locations, window)
	require.Len(t, groups, 4)

	ktm := groups[0]
	assert.Equal(t, "Kathmandu", ktm.LocationName)
	assert.Equal(t, 2, ktm.OrdersCount)
	assert.True(t, d("150").Equal(ktm.Revenue))
	assert.True(t, d("20").Equal(ktm.COGS))
	assert.True(t, d("25").Equal(ktm.Expenses))
	assert.True(t, d("105").Equal(ktm.NetProfit))

	pkr := groups[1]
	assert.Equal(t, 0, pkr.OrdersCount)
	assert.True(t, pkr.Expenses.IsZero())

	other := groups[2]
	require.NotNil(t, other.LocationID)
	assert.Equal(t, int64(30), *other.LocationID)
	assert.True(t, d("80").Equal(other.Revenue))

	un := groups[3]
	assert.Nil(t, un.LocationID)
	assert.Equal(t, profit.UnassignedLocation, un.LocationName)
	assert.True(t, d("5").Equal(un.Revenue))

	// Los gastos sin ubicación coincidente quedan fuera del desglose pero no del total.
	total := profit.Aggregate(orders, costs, expenses, window)
	assert.True(t, d("124").Equal(total.TotalExpenses))
	sumBreakdown := decimal.Zero
	for _, g := range groups {
		sumBreakdown = sumBreakdown.Add(g.Expenses)
	}
	assert.True(t, d("25").Equal(sumBreakdown))
}

func TestWindow_ComparaSoloFechas(t *testing.T) {
	w := profit.Window{
		StartDate: time.Date(2024, 5, 14, 0, 0, 0, 0, time.Local),
		EndDate:   time.Date(2024, 5, 14, 23, 59, 59, 999_000_000, time.Local),
	}
	assert.True(t, w.Contains(date(2024, 5, 14)))
	assert.False(t, w.Contains(date(2024, 5, 15)))
	assert.False(t, w.Contains(date(2024, 5, 13)))
}
