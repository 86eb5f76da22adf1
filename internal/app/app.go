package app

import (
	"time"

	"nestegg-backend/internal/accounts"
	"nestegg-backend/internal/budget"
	"nestegg-backend/internal/config"
	"nestegg-backend/internal/currency"
	"nestegg-backend/internal/health"
	"nestegg-backend/internal/holdings"
	"nestegg-backend/internal/infrastructure/database"
	"nestegg-backend/internal/middleware"
	"nestegg-backend/internal/networth"
	"nestegg-backend/internal/notify"
	"nestegg-backend/internal/periodmark"
	"nestegg-backend/internal/prices"
	"nestegg-backend/internal/snapshot"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration, and returns the DB and Redis handles for startup checks.
// Quote providers are injected so tests can fake them; nil means the refresh
// endpoint reports every class as unserved.
func CreateApp(cfg *config.Config, providers map[string]prices.QuoteProvider) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	db, err := database.Open(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
	}

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.HealthMarker(rdb))

	converter := currency.New(cfg.BaseCurrency, cfg.ExchangeRates)
	marks := &periodmark.Store{DB: db}
	sink := notify.Gated{Enabled: cfg.NotificationsEnabled, Sink: notify.LogSink{}}

	priceService := &prices.Service{
		DB:        db,
		Rdb:       rdb,
		CacheTTL:  time.Duration(cfg.QuoteCacheTTLSeconds) * time.Second,
		Providers: providers,
	}
	accountService := &accounts.Service{DB: db}
	holdingService := &holdings.Service{DB: db, Prices: priceService}
	netWorthService := &networth.Service{DB: db, Prices: priceService}
	snapshotService := &snapshot.Service{DB: db, NetWorth: netWorthService}
	budgetService := &budget.Service{DB: db, Marks: marks, Sink: sink}

	healthHandlers := &health.Handlers{Rdb: rdb, DB: db}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	api := app.Group("/api/v1")

	accountHandlers := &accounts.Handlers{Service: accountService}
	api.Post("/wallets", accountHandlers.CreateWallet)
	api.Get("/wallets", accountHandlers.ListWallets)
	api.Post("/assets", accountHandlers.CreateAsset)
	api.Get("/assets", accountHandlers.ListAssets)
	api.Post("/liabilities", accountHandlers.CreateLiability)
	api.Get("/liabilities", accountHandlers.ListLiabilities)

	holdingHandlers := &holdings.Handlers{Service: holdingService}
	api.Post("/holdings/assets", holdingHandlers.CreateAsset)
	api.Post("/holdings/buy", holdingHandlers.Buy)
	api.Post("/holdings/sell", holdingHandlers.Sell)
	api.Get("/holdings", holdingHandlers.List)

	priceHandlers := &prices.Handlers{Service: priceService}
	api.Post("/prices/record", priceHandlers.RecordPrice)
	api.Post("/prices/refresh", priceHandlers.Refresh)
	api.Get("/prices/:asset_id/latest", priceHandlers.LatestPrice)

	netWorthHandlers := &networth.Handlers{Service: netWorthService, Converter: converter}
	api.Get("/networth", netWorthHandlers.GetTotals)

	snapshotHandlers := &snapshot.Handlers{Service: snapshotService, Converter: converter}
	api.Post("/networth/snapshots/ensure", snapshotHandlers.Ensure)
	api.Get("/networth/snapshots", snapshotHandlers.List)
	api.Patch("/networth/snapshots/:id/notes", snapshotHandlers.UpdateNotes)

	budgetHandlers := &budget.Handlers{Service: budgetService}
	api.Post("/budgets", budgetHandlers.CreateBudget)
	api.Post("/budgets/:id/evaluate", budgetHandlers.Evaluate)
	api.Get("/budgets/:id/alerts", budgetHandlers.ListAlerts)

	return app, db, rdb, nil
}
