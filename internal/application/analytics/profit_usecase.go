package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain/daterange"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/profit"
)

// BreakdownLocation valor de ?breakdown= que pide el desglose por ubicación.
const BreakdownLocation = "location"

// Profit calcula ingresos, COGS, gastos y utilidad del rango pedido.
//
// Pedidos, gastos y (si se pide desglose) ubicaciones se leen en paralelo. Un fallo al leer
// pedidos o ubicaciones corta el request; un fallo al leer gastos se registra y se sigue con
// gastos en cero. Las líneas sin costo cuentan 0 y se informan en cost_status.
func (uc *UseCase) Profit(ctx context.Context, auth ports.ShopAuth, req dto.ProfitRequest) (*dto.ProfitResponse, error) {
	rng := daterange.Resolve(req.DateRange, uc.localNow())
	breakdown := req.Breakdown == BreakdownLocation

	var (
		orders    []entity.Order
		expenses  []entity.Expense
		locations []entity.Location
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = uc.client.ListOrders(gctx, auth, ports.OrderQuery{Since: rng.Start, Until: rng.End})
		if err != nil {
			return fmt.Errorf("profit: pedidos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		list, err := uc.expenses.ListByShopAndDates(gctx, auth.Shop, rng.Start, rng.End)
		if err != nil {
			uc.log.Warn().Err(err).Str("shop", auth.Shop).Msg("profit: no se pudieron leer los gastos, se usan 0")
			return nil
		}
		expenses = list
		return nil
	})
	if breakdown {
		g.Go(func() error {
			var err error
			locations, err = uc.client.ListLocations(gctx, auth)
			if err != nil {
				return fmt.Errorf("profit: ubicaciones: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	costs := uc.costs.Resolve(ctx, auth, entity.CollectVariantIDs(orders))
	w := profit.WindowFrom(rng)
	sum := profit.Aggregate(orders, costs, expenses, w)

	res := &dto.ProfitResponse{
		Shop:                auth.Shop,
		DateRange:           string(rng.Name),
		StartDate:           rng.StartDate(),
		EndDate:             rng.EndDate(),
		Currency:            uc.currencyOf(orders),
		Revenue:             dto.NewMoney(sum.Revenue),
		COGS:                dto.NewMoney(sum.COGS),
		GrossProfit:         dto.NewMoney(sum.GrossProfit),
		TotalExpenses:       dto.NewMoney(sum.TotalExpenses),
		NetProfit:           dto.NewMoney(sum.NetProfit),
		GrossMarginPct:      dto.NewMoney(marginPct(sum.GrossProfit, sum.Revenue)),
		OrdersCount:         sum.OrdersCount,
		ExpensesCount:       sum.ExpensesCount,
		LineItemsCount:      sum.LineItemsCount,
		UnresolvedLineItems: sum.UnresolvedLineItems,
		CostStatus:          dto.CostStatus(sum.UnresolvedLineItems),
	}

	if breakdown {
		groups := profit.ByLocation(orders, costs, expenses, locations, w)
		res.Locations = make([]dto.LocationProfitDTO, 0, len(groups))
		for _, gr := range groups {
			name := gr.LocationName
			if name == "" {
				name = UnknownLocationName
			}
			res.Locations = append(res.Locations, dto.LocationProfitDTO{
				LocationID:    gr.LocationID,
				LocationName:  name,
				Revenue:       dto.NewMoney(gr.Revenue),
				COGS:          dto.NewMoney(gr.COGS),
				GrossProfit:   dto.NewMoney(gr.GrossProfit),
				Expenses:      dto.NewMoney(gr.Expenses),
				NetProfit:     dto.NewMoney(gr.NetProfit),
				OrdersCount:   gr.OrdersCount,
				ExpensesCount: gr.ExpensesCount,
			})
		}
	}

	uc.log.Debug().Str("shop", auth.Shop).Str("range", res.DateRange).
		Int("orders", res.OrdersCount).Int("unresolved", res.UnresolvedLineItems).Msg("profit: calculado")
	return res, nil
}

// ProfitReport genera el PDF del mismo cálculo que Profit (con desglose por ubicación).
func (uc *UseCase) ProfitReport(ctx context.Context, auth ports.ShopAuth, dateRange string) ([]byte, error) {
	res, err := uc.Profit(ctx, auth, dto.ProfitRequest{DateRange: dateRange, Breakdown: BreakdownLocation})
	if err != nil {
		return nil, err
	}
	pdf, err := uc.report.GenerateProfitReport(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("profit report: %w", err)
	}
	return pdf, nil
}

var hundred = decimal.NewFromInt(100)

// marginPct porcentaje de part sobre total; 0 si total es 0.
func marginPct(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred)
}

// dayStart medianoche local del día de t.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
