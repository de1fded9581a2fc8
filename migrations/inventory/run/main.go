package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/treasuretrove/ledger/migrations/inventory"
	"github.com/treasuretrove/ledger/pkg/config"
	"github.com/treasuretrove/ledger/pkg/database"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)

	ctx := context.Background()
	db, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	applied, err := migrator.RunMigrations(ctx, db, inventory.FS)
	if err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	log.Info("migrations applied", "count", applied, "dialect", string(db.Dialect()))
}
