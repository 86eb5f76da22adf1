package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"nestegg-backend/internal/app"
	"nestegg-backend/internal/config"
	"nestegg-backend/internal/prices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}

	// No real market-data providers are wired by default; POST
	// /api/v1/prices/record covers manual price entry, and refresh reports
	// unserved classes until providers are registered here.
	providers := map[string]prices.QuoteProvider{}

	fiberApp, db, rdb, err := app.CreateApp(cfg, providers)
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}

	// Verify connections before announcing readiness.
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("get DB handle")
		}
		if err := sqlDB.Ping(); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		log.Info().Msg("Database connected")
	}
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		log.Info().Msg("Redis connected")
	}

	log.Info().Str("port", cfg.Port).Msg(fmt.Sprintf("Server running at http://localhost:%s", cfg.Port))
	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
