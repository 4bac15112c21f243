// Command backfill retroactively creates seller-revenue records for
// historical purchases that predate revenue sharing. It is safe to run
// repeatedly; purchases already credited are skipped.
package main

import (
	"flag"
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
		logger.Get().Fatalf("Backfill error: %v", err)
	}
}

func run() error {
	dryRun := flag.Bool("dry-run", false, "report what would be created without writing anything")
	limit := flag.Int("limit", 0, "cap the number of purchases examined (0 means all)")
	flag.Parse()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	backfillService := services.NewBackfillService(dbManager.DB(), appConfig.FeeRate)

	start := time.Now()
	created, skipped, err := backfillService.Run(*dryRun, *limit)
	if err != nil {
		return err
	}

	logger.Get().Infow("backfill completed",
		"created", created,
		"skipped", skipped,
		"dry_run", *dryRun,
		"duration", time.Since(start).String(),
	)
	return nil
}
