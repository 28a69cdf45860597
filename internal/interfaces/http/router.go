package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopify-profit-api/internal/application/analytics"
	"github.com/jhoicas/shopify-profit-api/internal/application/auth"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/application/pricing"
	"github.com/jhoicas/shopify-profit-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	AnalyticsUC  *analytics.UseCase
	PricingUC    *pricing.UseCase
	ExpenseUC    *usecase.ExpenseUseCase
	Sessions     ports.SessionProvider
	JWTSecret    string
	RequireToken bool
	SyncTimeout  time.Duration
	SecureCookie bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.SecureCookie)
	api.Get("/auth", authHandler.Install)
	api.Get("/auth/callback", authHandler.Callback)
	api.Get("/auth/check", authHandler.Check)

	// Rutas por tienda (Bearer o ?shop= con sesión offline)
	shop := ShopMiddleware(deps.JWTSecret, deps.RequireToken, deps.Sessions)

	orders := api.Group("/orders", shop)
	ordersHandler := NewOrdersHandler(deps.AnalyticsUC)
	orders.Get("/today", ordersHandler.Today)
	orders.Get("/stats", ordersHandler.Stats)
	orders.Get("/analytics", ordersHandler.Analytics)
	orders.Get("/list", ordersHandler.List)
	orders.Get("/variant-cost", ordersHandler.VariantCost)

	profitHandler := NewProfitHandler(deps.AnalyticsUC)
	api.Get("/profit", shop, profitHandler.Get)
	api.Get("/profit/report.pdf", shop, profitHandler.Report)

	inventoryHandler := NewInventoryHandler(deps.AnalyticsUC)
	api.Get("/locations", shop, inventoryHandler.Locations)
	api.Get("/inventory/value", shop, inventoryHandler.Value)

	expenses := api.Group("/expenses", shop)
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expenses.Get("/", expenseHandler.List)
	expenses.Post("/", expenseHandler.Create)
	expenses.Delete("/:id", expenseHandler.Delete)

	pricingGroup := api.Group("/pricing", shop)
	pricingHandler := NewPricingHandler(deps.PricingUC, deps.SyncTimeout)
	pricingGroup.Post("/smart-sync", pricingHandler.SmartSync)
	pricingGroup.Post("/sync-all", pricingHandler.SyncAll)
	pricingGroup.Post("/sync-product", pricingHandler.SyncProduct)
	pricingGroup.Get("/stats", pricingHandler.Stats)
	pricingGroup.Get("/list", pricingHandler.List)
}
