package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/shopify-profit-api/internal/application/analytics"
	"github.com/jhoicas/shopify-profit-api/internal/application/auth"
	"github.com/jhoicas/shopify-profit-api/internal/application/costing"
	"github.com/jhoicas/shopify-profit-api/internal/application/pricing"
	"github.com/jhoicas/shopify-profit-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/shopify-profit-api/internal/infrastructure/pdf"
	"github.com/jhoicas/shopify-profit-api/internal/infrastructure/postgres"
	"github.com/jhoicas/shopify-profit-api/internal/infrastructure/shopify"
	httpRouter "github.com/jhoicas/shopify-profit-api/internal/interfaces/http"
	"github.com/jhoicas/shopify-profit-api/pkg/config"
	"github.com/jhoicas/shopify-profit-api/pkg/logger"
	"github.com/jhoicas/shopify-profit-api/pkg/tokencrypt"
)

// costFallbackDelay pausa entre la consulta directa y la consulta vía producto en variant-cost.
const costFallbackDelay = 500 * time.Millisecond

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	cipher, err := tokencrypt.New(cfg.Security.TokenKey)
	if err != nil {
		log.Fatal().Err(err).Msg("clave de cifrado de tokens")
	}

	shopifyClient := shopify.NewClient(shopify.Config{
		APIKey:     cfg.Shopify.APIKey,
		APISecret:  cfg.Shopify.APISecret,
		APIVersion: cfg.Shopify.APIVersion,
		Endpoint:   cfg.Shopify.Endpoint,
		Timeout:    cfg.Shopify.RequestTimeout,
		RetryCount: cfg.Shopify.RetryCount,
	})
	oauthApp := shopify.OAuthApp{
		APIKey:    cfg.Shopify.APIKey,
		APISecret: cfg.Shopify.APISecret,
		Scopes:    cfg.Shopify.Scopes,
	}

	pricingRepo := postgres.NewPricingRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	sessions := auth.NewSessionStore(sessionRepo, cipher)
	resolver := costing.NewResolver(pricingRepo, shopifyClient, log, costFallbackDelay)

	pricingUC := pricing.NewUseCase(pricingRepo, txRunner, shopifyClient, log, pricing.Delays{
		Page:    cfg.Sync.PageDelay,
		Product: cfg.Sync.ProductDelay,
		Item:    cfg.Sync.ItemDelay,
	})
	analyticsUC := analytics.NewUseCase(shopifyClient, resolver, expenseRepo,
		infrapdf.NewProfitReportGenerator(), log, analytics.Config{
			Location:        cfg.App.Location(),
			DefaultCurrency: cfg.App.DefaultCurrency,
		})
	expenseUC := usecase.NewExpenseUseCase(expenseRepo)
	authUC := auth.NewAuthUseCase(oauthApp, shopifyClient, sessions, auth.Config{
		BaseURL:       cfg.App.BaseURL,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
		JWTExpMinutes: cfg.JWT.Expiration,
	}, shopify.NewState)

	// Smart-sync puede durar minutos: el WriteTimeout acompaña al tiempo máximo de sincronización.
	writeTimeout := 10 * time.Second
	if cfg.Sync.Timeout+5*time.Second > writeTimeout {
		writeTimeout = cfg.Sync.Timeout + 5*time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: writeTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Shopify Profit API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		AnalyticsUC:  analyticsUC,
		PricingUC:    pricingUC,
		ExpenseUC:    expenseUC,
		Sessions:     sessions,
		JWTSecret:    cfg.JWT.Secret,
		RequireToken: cfg.Security.RequireToken,
		SyncTimeout:  cfg.Sync.Timeout,
		SecureCookie: cfg.App.Env == "production",
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
