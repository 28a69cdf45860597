package dto

// ProfitRequest query de GET /api/profit.
type ProfitRequest struct {
	DateRange string `query:"dateRange"`
	Breakdown string `query:"breakdown"` // "location" agrega el desglose por ubicación
}

// ProfitResponse respuesta de GET /api/profit.
// CostStatus "NOT_SET" avisa que el COGS es parcial (líneas sin costo contadas como 0).
type ProfitResponse struct {
	Shop                string              `json:"shop"`
	DateRange           string              `json:"date_range"`
	StartDate           string              `json:"start_date"`
	EndDate             string              `json:"end_date"`
	Currency            string              `json:"currency"`
	Revenue             Money               `json:"revenue"`
	COGS                Money               `json:"cogs"`
	GrossProfit         Money               `json:"gross_profit"`
	TotalExpenses       Money               `json:"total_expenses"`
	NetProfit           Money               `json:"net_profit"`
	GrossMarginPct      Money               `json:"gross_margin_pct"`
	OrdersCount         int                 `json:"orders_count"`
	ExpensesCount       int                 `json:"expenses_count"`
	LineItemsCount      int                 `json:"line_items_count"`
	UnresolvedLineItems int                 `json:"unresolved_line_items"`
	CostStatus          string              `json:"cost_status"`
	Locations           []LocationProfitDTO `json:"locations,omitempty"`
}

// LocationProfitDTO fila del desglose por ubicación.
type LocationProfitDTO struct {
	LocationID    *int64 `json:"location_id"`
	LocationName  string `json:"location_name"`
	Revenue       Money  `json:"revenue"`
	COGS          Money  `json:"cogs"`
	GrossProfit   Money  `json:"gross_profit"`
	Expenses      Money  `json:"expenses"`
	NetProfit     Money  `json:"net_profit"`
	OrdersCount   int    `json:"orders_count"`
	ExpensesCount int    `json:"expenses_count"`
}
