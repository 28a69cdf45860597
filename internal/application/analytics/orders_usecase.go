package analytics

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain"
	"github.com/jhoicas/shopify-profit-api/internal/domain/daterange"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/profit"
)

const (
	// AllLocations valor de los filtros store/location que no filtra.
	AllLocations = "all"
	// recentOrdersLimit pedidos que trae el listado.
	recentOrdersLimit = 250
)

// parseLocationFilter "" o "all" -> nil; un entero positivo -> ese id.
func parseLocationFilter(s string) (*int64, error) {
	if s == "" || s == AllLocations {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: ubicación %q", domain.ErrInvalidInput, s)
	}
	return &id, nil
}

func atLocation(o entity.Order, loc *int64) bool {
	if loc == nil {
		return true
	}
	return o.LocationID != nil && *o.LocationID == *loc
}

// OrdersAnalytics totales del rango con desglose por ubicación; store filtra a una sola.
func (uc *UseCase) OrdersAnalytics(ctx context.Context, auth ports.ShopAuth, req dto.OrdersAnalyticsRequest) (*dto.OrdersAnalyticsDTO, error) {
	store, err := parseLocationFilter(req.Store)
	if err != nil {
		return nil, err
	}
	rng := daterange.Resolve(req.DateRange, uc.localNow())

	var (
		orders    []entity.Order
		locations []entity.Location
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var oerr error
		orders, oerr = uc.client.ListOrders(gctx, auth, ports.OrderQuery{Since: rng.Start, Until: rng.End})
		if oerr != nil {
			return fmt.Errorf("orders analytics: pedidos: %w", oerr)
		}
		return nil
	})
	g.Go(func() error {
		var lerr error
		locations, lerr = uc.client.ListLocations(gctx, auth)
		if lerr != nil {
			return fmt.Errorf("orders analytics: ubicaciones: %w", lerr)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		if atLocation(o, store) {
			filtered = append(filtered, o)
		}
	}

	total := revenue(filtered)
	avg := decimal.Zero
	if len(filtered) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(filtered))))
	}

	res := &dto.OrdersAnalyticsDTO{
		Shop:              auth.Shop,
		DateRange:         string(rng.Name),
		StartDate:         rng.StartDate(),
		EndDate:           rng.EndDate(),
		TotalOrders:       len(filtered),
		TotalRevenue:      dto.NewMoney(total),
		AverageOrderValue: dto.NewMoney(avg),
		Currency:          uc.currencyOf(filtered),
		Stores:            []dto.StoreAnalyticsDTO{},
	}
	for _, gr := range profit.ByLocation(filtered, nil, nil, locations, profit.WindowFrom(rng)) {
		if store != nil && (gr.LocationID == nil || *gr.LocationID != *store) {
			continue
		}
		name := gr.LocationName
		if name == "" {
			name = UnknownLocationName
		}
		res.Stores = append(res.Stores, dto.StoreAnalyticsDTO{
			LocationID:   gr.LocationID,
			LocationName: name,
			Orders:       gr.OrdersCount,
			Revenue:      dto.NewMoney(gr.Revenue),
		})
	}
	return res, nil
}

// ListOrders últimos pedidos con costo total, cantidad de ítems y ubicación.
// location filtra por id ("all" o vacío no filtra). Costos desde la caché y, si faltan, Shopify.
func (uc *UseCase) ListOrders(ctx context.Context, auth ports.ShopAuth, location string) (*dto.OrderListDTO, error) {
	loc, err := parseLocationFilter(location)
	if err != nil {
		return nil, err
	}

	var (
		orders    []entity.Order
		locations []entity.Location
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var oerr error
		orders, oerr = uc.client.ListOrders(gctx, auth, ports.OrderQuery{MaxResults: recentOrdersLimit})
		if oerr != nil {
			return fmt.Errorf("orders list: pedidos: %w", oerr)
		}
		return nil
	})
	g.Go(func() error {
		var lerr error
		locations, lerr = uc.client.ListLocations(gctx, auth)
		if lerr != nil {
			return fmt.Errorf("orders list: ubicaciones: %w", lerr)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		if atLocation(o, loc) {
			filtered = append(filtered, o)
		}
	}

	costs := uc.costs.Resolve(ctx, auth, entity.CollectVariantIDs(filtered))
	names := locationNames(locations)

	res := &dto.OrderListDTO{
		Orders:   make([]dto.OrderListItemDTO, 0, len(filtered)),
		Count:    len(filtered),
		Currency: uc.currencyOf(filtered),
	}
	for _, o := range filtered {
		res.Orders = append(res.Orders, orderListItem(o, costs, names))
	}
	return res, nil
}

func orderListItem(o entity.Order, costs entity.VariantCosts, names map[int64]string) dto.OrderListItemDTO {
	cogs, unresolved := profit.OrderCOGS(o, costs)
	item := dto.OrderListItemDTO{
		ID:                o.ID,
		Name:              o.Name,
		CreatedAt:         o.CreatedAt,
		TotalPrice:        dto.NewMoney(o.TotalPrice),
		TotalCost:         dto.NewMoney(cogs),
		Profit:            dto.NewMoney(o.TotalPrice.Sub(cogs)),
		Currency:          o.Currency,
		FinancialStatus:   string(o.FinancialStatus),
		FulfillmentStatus: string(o.FulfillmentStatus),
		ItemCount:         o.ItemCount(),
		LocationID:        o.LocationID,
		LocationName:      UnknownLocationName,
		CostStatus:        dto.CostStatus(unresolved),
		LineItems:         make([]dto.OrderLineDTO, 0, len(o.LineItems)),
	}
	if o.LocationID != nil {
		if n, ok := names[*o.LocationID]; ok {
			item.LocationName = n
		}
	}
	for _, li := range o.LineItems {
		cost, ok := costs.Lookup(li.VariantID)
		status := dto.CostStatusOK
		if !ok {
			status = dto.CostStatusNotSet
		}
		item.LineItems = append(item.LineItems, dto.OrderLineDTO{
			Name:         li.Name,
			VariantID:    li.VariantID,
			VariantTitle: li.VariantTitle,
			SKU:          li.SKU,
			Quantity:     li.Quantity,
			Price:        dto.NewMoney(li.Price),
			UnitCost:     dto.NewMoney(cost),
			CostStatus:   status,
		})
	}
	return item
}

// VariantCost costo de una variante consultando directo a Shopify. Nunca falla por Shopify:
// si no se obtiene, responde costo 0 con method "failed".
func (uc *UseCase) VariantCost(ctx context.Context, auth ports.ShopAuth, variantID int64) (*dto.VariantCostDTO, error) {
	if variantID <= 0 {
		return nil, fmt.Errorf("%w: variantId", domain.ErrInvalidInput)
	}
	c := uc.costs.ResolveOne(ctx, auth, variantID)
	return &dto.VariantCostDTO{
		VariantID:       c.VariantID,
		InventoryItemID: c.InventoryItemID,
		Cost:            dto.NewMoney(c.Cost),
		CostStatus:      dto.CostStatus(boolToUnresolved(c.Resolved)),
		Method:          c.Method,
		Error:           c.Error,
	}, nil
}

func boolToUnresolved(resolved bool) int {
	if resolved {
		return 0
	}
	return 1
}
