package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

// OrderStats resumen de pedidos del dashboard: hoy, últimos 7 días y último mes.
//
// Tres llamadas en paralelo a Shopify:
//  1. desde la medianoche de hoy
//  2. desde hace 7 días (misma hora)
//  3. desde hace un mes (misma hora)
func (uc *UseCase) OrderStats(ctx context.Context, auth ports.ShopAuth) (*dto.OrderStatsDTO, error) {
	now := uc.localNow()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := dayStart(now)
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	// ── Llamadas en paralelo ──────────────────────────────────────────────────
	var today, week, month []entity.Order
	g, gctx := errgroup.WithContext(ctx)
	fetch := func(dst *[]entity.Order, label string, q ports.OrderQuery) {
		g.Go(func() error {
			orders, err := uc.client.ListOrders(gctx, auth, q)
			if err != nil {
				return fmt.Errorf("order stats: %s: %w", label, err)
			}
			*dst = orders
			return nil
		})
	}
	fetch(&today, "hoy", ports.OrderQuery{Since: todayStart})
	fetch(&week, "semana", ports.OrderQuery{Since: weekAgo})
	fetch(&month, "mes", ports.OrderQuery{Since: monthAgo})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	return &dto.OrderStatsDTO{
		TodayOrders:  len(today),
		WeekOrders:   len(week),
		MonthOrders:  len(month),
		TodayRevenue: dto.NewMoney(revenue(today)),
		WeekRevenue:  dto.NewMoney(revenue(week)),
		MonthRevenue: dto.NewMoney(revenue(month)),
		Currency:     uc.currencyOf(today),
	}, nil
}

// TodayOrders pedidos creados desde la medianoche local.
func (uc *UseCase) TodayOrders(ctx context.Context, auth ports.ShopAuth) (*dto.TodayOrdersDTO, error) {
	orders, err := uc.client.ListOrders(ctx, auth, ports.OrderQuery{Since: dayStart(uc.localNow())})
	if err != nil {
		return nil, fmt.Errorf("orders today: %w", err)
	}
	out := &dto.TodayOrdersDTO{
		Orders:   make([]dto.OrderSummaryDTO, 0, len(orders)),
		Count:    len(orders),
		Revenue:  dto.NewMoney(revenue(orders)),
		Currency: uc.currencyOf(orders),
	}
	for _, o := range orders {
		out.Orders = append(out.Orders, orderSummary(o))
	}
	return out, nil
}

func revenue(orders []entity.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalPrice)
	}
	return total
}

func orderSummary(o entity.Order) dto.OrderSummaryDTO {
	return dto.OrderSummaryDTO{
		ID:                o.ID,
		Name:              o.Name,
		CreatedAt:         o.CreatedAt,
		TotalPrice:        dto.NewMoney(o.TotalPrice),
		Currency:          o.Currency,
		FinancialStatus:   string(o.FinancialStatus),
		FulfillmentStatus: string(o.FulfillmentStatus),
	}
}
