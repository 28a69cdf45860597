package dto

import "time"

// OrderSummaryDTO pedido en los listados simples.
type OrderSummaryDTO struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	CreatedAt         time.Time `json:"created_at"`
	TotalPrice        Money     `json:"total_price"`
	Currency          string    `json:"currency"`
	FinancialStatus   string    `json:"financial_status"`
	FulfillmentStatus string    `json:"fulfillment_status"`
}

// TodayOrdersDTO respuesta de GET /api/orders/today.
type TodayOrdersDTO struct {
	Orders   []OrderSummaryDTO `json:"orders"`
	Count    int               `json:"count"`
	Revenue  Money             `json:"revenue"`
	Currency string            `json:"currency"`
}

// OrderStatsDTO respuesta de GET /api/orders/stats.
type OrderStatsDTO struct {
	TodayOrders  int    `json:"today_orders"`
	WeekOrders   int    `json:"week_orders"`
	MonthOrders  int    `json:"month_orders"`
	TodayRevenue Money  `json:"today_revenue"`
	WeekRevenue  Money  `json:"week_revenue"`
	MonthRevenue Money  `json:"month_revenue"`
	Currency     string `json:"currency"`
}

// OrdersAnalyticsRequest query de GET /api/orders/analytics.
type OrdersAnalyticsRequest struct {
	DateRange string `query:"dateRange"`
	Store     string `query:"store"` // "all" o id de ubicación
}

// OrdersAnalyticsDTO respuesta de GET /api/orders/analytics.
type OrdersAnalyticsDTO struct {
	Shop              string              `json:"shop"`
	DateRange         string              `json:"date_range"`
	StartDate         string              `json:"start_date"`
	EndDate           string              `json:"end_date"`
	TotalOrders       int                 `json:"total_orders"`
	TotalRevenue      Money               `json:"total_revenue"`
	AverageOrderValue Money               `json:"average_order_value"`
	Currency          string              `json:"currency"`
	Stores            []StoreAnalyticsDTO `json:"stores"`
}

// StoreAnalyticsDTO pedidos e ingresos de una ubicación.
type StoreAnalyticsDTO struct {
	LocationID   *int64 `json:"location_id"`
	LocationName string `json:"location_name"`
	Orders       int    `json:"orders"`
	Revenue      Money  `json:"revenue"`
}

// OrderLineDTO línea de pedido con su costo resuelto.
type OrderLineDTO struct {
	Name         string `json:"name"`
	VariantID    *int64 `json:"variant_id"`
	VariantTitle string `json:"variant_title"`
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	Price        Money  `json:"price"`
	UnitCost     Money  `json:"unit_cost"`
	CostStatus   string `json:"cost_status"`
}

// OrderListItemDTO pedido con costo total, cantidad de ítems y nombre de ubicación.
type OrderListItemDTO struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	CreatedAt         time.Time      `json:"created_at"`
	TotalPrice        Money          `json:"total_price"`
	TotalCost         Money          `json:"total_cost"`
	Profit            Money          `json:"profit"`
	Currency          string         `json:"currency"`
	FinancialStatus   string         `json:"financial_status"`
	FulfillmentStatus string         `json:"fulfillment_status"`
	ItemCount         int            `json:"item_count"`
	LocationID        *int64         `json:"location_id"`
	LocationName      string         `json:"location_name"`
	CostStatus        string         `json:"cost_status"`
	LineItems         []OrderLineDTO `json:"line_items"`
}

// OrderListDTO respuesta de GET /api/orders/list.
type OrderListDTO struct {
	Orders   []OrderListItemDTO `json:"orders"`
	Count    int                `json:"count"`
	Currency string             `json:"currency"`
}

// VariantCostDTO respuesta de GET /api/orders/variant-cost.
type VariantCostDTO struct {
	VariantID       int64  `json:"variant_id"`
	InventoryItemID int64  `json:"inventory_item_id,omitempty"`
	Cost            Money  `json:"cost"`
	CostStatus      string `json:"cost_status"`
	Method          string `json:"method"`
	Error           string `json:"error,omitempty"`
}
