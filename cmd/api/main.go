package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/treasuretrove/ledger/docs/swagger"
	"github.com/treasuretrove/ledger/migrations/inventory"
	"github.com/treasuretrove/ledger/pkg/app"
	"github.com/treasuretrove/ledger/pkg/cache"
	"github.com/treasuretrove/ledger/pkg/config"
	"github.com/treasuretrove/ledger/pkg/database"
	"github.com/treasuretrove/ledger/pkg/events"
	"github.com/treasuretrove/ledger/pkg/httpx"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/pkg/migrator"
	"github.com/treasuretrove/ledger/pkg/session"
	"github.com/treasuretrove/ledger/pkg/telemetry"
	"github.com/treasuretrove/ledger/pkg/workflows"
	inventoryApi "github.com/treasuretrove/ledger/services/inventory/application/api"
	inventorySvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
	inventorySubs "github.com/treasuretrove/ledger/services/inventory/application/subscribers"
)

// @title			Treasure Trove API
// @version		1.0
// @description	Household inventory ledger: record free-text submissions, list containers and items, export and print labels.
// @contact.name	Treasure Trove maintainers
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
// @host			localhost:8080
// @BasePath		/api
// @schemes		http https
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

	// Telemetry: OTel tracing + metrics
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg, telemetry.ComponentAPI)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	// Crash reporting: Sentry (optional: log and continue on failure)
	if err := telemetry.SetupSentry(cfg, telemetry.ComponentAPI); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer pool.Close()
	log.Info("database pool connected", "dialect", string(pool.Dialect()))

	// A single-household install has no separate migrate step.
	if pool.Dialect() == database.DialectSQLite {
		applied, err := migrator.RunMigrations(ctx, pool, inventory.FS)
		if err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		log.Info("migrations applied", "count", applied)
	}

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
			os.Exit(1) //nolint:gocritic // intentional: startup failure
		}
		defer redisClient.Close() //nolint:errcheck
		log.Info("redis connected", "addr", redisClient.Addr())
	}

	temporalClient, err := workflows.NewTemporalClient(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize temporal client", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure
	}
	defer temporalClient.Close()

	sessionStore := newSessionStore(cfg, redisClient)
	log.Info("session store initialized", "backend", sessionBackend(redisClient))

	appConfig := &app.Application{
		Config:         cfg,
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
		SessionStore:   sessionStore,
	}

	inventoryServices, err := inventorySvcs.New(appConfig)
	if err != nil {
		log.Error("failed to wire inventory services", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	// The in-memory bus only reaches subscribers in this process.
	if !eventBus.Transactional() {
		if err := inventorySubs.Register(ctx, eventBus, inventoryServices, log); err != nil {
			log.Error("failed to register subscribers", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RequestsPerMinute:  cfg.HTTPRequestsPerMinute,
			MaxBodyBytes:       cfg.HTTPMaxBodyBytes,
			HandlerTimeout:     cfg.HTTPHandlerTimeout,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	checks := httpx.HealthChecks{
		Database: pool,
		EventBus: eventBus,
	}
	if redisClient != nil {
		checks.Redis = redisClient
	}
	r.Get("/health", httpx.HealthHandler(checks))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	if cfg.Environment != config.EnvProduction {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}
	r.Route("/api", func(r chi.Router) {
		inventoryApi.InventoryRoutes(r, appConfig, inventoryServices)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	stop()
	log.Info("server stopped")
}

func newSessionStore(cfg *config.Config, redisClient *cache.RedisClient) sessions.Store {
	authKey := []byte(cfg.SessionAuthKey)
	encKey := []byte(cfg.SessionEncryptionKey)
	secure := cfg.Environment == config.EnvProduction
	if redisClient == nil {
		return session.NewStore(nil, authKey, encKey, secure)
	}
	return session.NewStore(redisClient.Client(), authKey, encKey, secure)
}

func sessionBackend(redisClient *cache.RedisClient) string {
	if redisClient == nil {
		return "cookie"
	}
	return "redis"
}
