package app

import (
	"github.com/gorilla/sessions"

	"github.com/treasuretrove/ledger/pkg/cache"
	"github.com/treasuretrove/ledger/pkg/config"
	"github.com/treasuretrove/ledger/pkg/database"
	"github.com/treasuretrove/ledger/pkg/events"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to every service's Routes/Subscribe call during process start-up.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "inventory recorded", "submission_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient        // nil when REDIS_URL is empty
	TemporalClient *workflows.TemporalClient // nil when TEMPORAL_HOST_PORT is empty
	SessionStore   sessions.Store            // nil in worker and CLI processes
}
