package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/treasuretrove/ledger/migrations/inventory"
	"github.com/treasuretrove/ledger/pkg/app"
	"github.com/treasuretrove/ledger/pkg/cache"
	"github.com/treasuretrove/ledger/pkg/config"
	"github.com/treasuretrove/ledger/pkg/database"
	"github.com/treasuretrove/ledger/pkg/events"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/pkg/migrator"
	"github.com/treasuretrove/ledger/pkg/telemetry"
	inventorySvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
	inventorySubs "github.com/treasuretrove/ledger/services/inventory/application/subscribers"
)

// env is the wired application for one command invocation.
type env struct {
	app  *app.Application
	svcs *inventorySvcs.Services
}

func (e *env) close() {
	_ = e.app.EventBus.Close()
	_ = e.app.Redis.Close()
	e.app.Db.Close()
	telemetry.SentryFlush()
}

type rootOptions struct {
	databaseURL string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "trove",
		Short:        "Household inventory ledger",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.databaseURL, "database", "", "Database URL (overrides DATABASE_URL)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newAddCmd(opts),
		newContainersCmd(opts),
		newItemsCmd(opts),
		newExportCmd(opts),
		newMigrateCmd(opts),
	)
	return root
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.databaseURL != "" {
		cfg.DatabaseURL = opts.databaseURL
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

// open wires the same services the api uses. Logs go to stderr so stdout
// stays machine-readable. SQLite databases are migrated on open, and their
// in-memory bus delivers synchronously to subscribers registered here, so
// labels print and caches are invalidated before the command exits.
func open(ctx context.Context, opts *rootOptions, stderr io.Writer) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter(stderr, cfg.LogLevel)
	if err := telemetry.SetupSentry(cfg, telemetry.ComponentCLI); err != nil {
		log.Warn("continuing without crash reporting", "error", err)
	}

	db, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	if db.Dialect() == database.DialectSQLite {
		if _, err := migrator.RunMigrations(ctx, db, inventory.FS); err != nil {
			db.Close()
			return nil, err
		}
	}

	bus, err := events.NewEventBus(cfg, db, log, events.WithSyncDelivery())
	if err != nil {
		db.Close()
		return nil, err
	}

	var redisClient *cache.RedisClient
	if cfg.RedisURL != "" {
		if redisClient, err = cache.NewRedisClient(ctx, cfg, true); err != nil {
			_ = bus.Close()
			db.Close()
			return nil, err
		}
	}

	a := &app.Application{
		Config:   cfg,
		Db:       db,
		Logger:   log,
		EventBus: bus,
		Redis:    redisClient,
	}
	svcs, err := inventorySvcs.New(a)
	if err != nil {
		e := &env{app: a}
		e.close()
		return nil, fmt.Errorf("wire services: %w", err)
	}
	e := &env{app: a, svcs: svcs}
	if !bus.Transactional() {
		if err := inventorySubs.Register(ctx, bus, svcs, log); err != nil {
			e.close()
			return nil, fmt.Errorf("register subscribers: %w", err)
		}
	}
	return e, nil
}
