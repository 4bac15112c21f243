// Command ticker performs a single pricing pass and exits. It is meant to be
// run on a schedule (cron or similar); every product whose change window has
// elapsed gets a new randomized price.
package main

import (
	"fmt"
	"os"
	"time"

	"minimarket/internal/config"
	"minimarket/internal/database"
	"minimarket/internal/logger"
	"minimarket/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Price tick error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	pricingService := services.NewPricingService(dbManager.DB(), services.PricingConfig{
		MinPercent: appConfig.PriceChangeMin,
		MaxPercent: appConfig.PriceChangeMax,
		Interval:   appConfig.PriceChangeInterval,
	}, nil)

	start := time.Now()
	changed, err := pricingService.RunPriceTick(start)
	if err != nil {
		return err
	}

	logger.Get().Infow("price tick completed",
		"changed", changed,
		"duration", time.Since(start).String(),
	)
	return nil
}
