package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/worker"

	"github.com/treasuretrove/ledger/pkg/app"
	"github.com/treasuretrove/ledger/pkg/cache"
	"github.com/treasuretrove/ledger/pkg/config"
	"github.com/treasuretrove/ledger/pkg/database"
	"github.com/treasuretrove/ledger/pkg/events"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/pkg/telemetry"
	"github.com/treasuretrove/ledger/pkg/workflows"
	inventorySvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
	inventorySubs "github.com/treasuretrove/ledger/services/inventory/application/subscribers"
	"github.com/treasuretrove/ledger/services/inventory/infrastructure/labels"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg, telemetry.ComponentWorker)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg, telemetry.ComponentWorker); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected", "dialect", string(pool.Dialect()))

	eventBus, err := events.NewEventBus(cfg, pool, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	var redisClient *cache.RedisClient
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg, false)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer redisClient.Close() //nolint:errcheck
		log.Info("redis connected", "addr", redisClient.Addr())
	}

	temporalClient, err := workflows.NewTemporalClient(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize temporal client", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer temporalClient.Close()

	appConfig := &app.Application{
		Config:         cfg,
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
	}

	if !eventBus.Transactional() && temporalClient == nil {
		log.Error("nothing to do: the SQLite event bus is served by the api process and TEMPORAL_HOST_PORT is empty")
		os.Exit(1) //nolint:gocritic
	}

	if eventBus.Transactional() {
		inventoryServices, err := inventorySvcs.New(appConfig)
		if err != nil {
			log.Error("failed to wire inventory services", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		if err := inventorySubs.Register(ctx, eventBus, inventoryServices, log); err != nil {
			log.Error("failed to register subscribers", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	var labelWorker worker.Worker
	if temporalClient != nil {
		labelWorker, err = startLabelWorker(appConfig)
		if err != nil {
			log.Error("failed to start label worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	if labelWorker != nil {
		labelWorker.Stop()
	}
	cancel()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// startLabelWorker polls the label task queue and prints through the local
// printer command.
func startLabelWorker(a *app.Application) (worker.Worker, error) {
	spooler, err := labels.NewSpooler(a.Config.LabelPrinterCommand, a.Config.LabelPrintTimeout)
	if err != nil {
		return nil, err
	}

	w := a.TemporalClient.NewWorker()
	labels.Register(w, spooler)
	if err := w.Start(); err != nil {
		return nil, err
	}
	a.Logger.Info("label worker started", "task_queue", a.TemporalClient.TaskQueue)
	return w, nil
}
