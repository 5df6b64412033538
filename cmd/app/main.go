package main

import (
	"context"
	"salon/config"
	"salon/di"
	"salon/helper"
	"salon/shared/logger"
	"time"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// @title Salon Booking API
// @version 1.0
// @description Availability, capacity and reservations for a salon.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	app := di.InitializeApp()

	if err := app.Scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	app.HTTP.Serve()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	app.Close(ctx)
}
