// Package workflows connects processes to Temporal. Temporal is optional: when
// TEMPORAL_HOST_PORT is empty no client is created and callers fall back to
// in-process execution.
package workflows

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	temporallog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/treasuretrove/ledger/pkg/config"
	"github.com/treasuretrove/ledger/pkg/logger"
)

// TemporalClient wraps the Temporal SDK client with project-level configuration.
type TemporalClient struct {
	Client    client.Client
	Namespace string
	TaskQueue string
	log       logger.Logger
}

// NewTemporalClient dials Temporal with OTel tracing. Returns (nil, nil) when
// cfg.TemporalHostPort is empty.
func NewTemporalClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*TemporalClient, error) {
	if cfg.TemporalHostPort == "" {
		return nil, nil //nolint:nilnil
	}

	otelInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer("temporal-client"),
	})
	if err != nil {
		return nil, fmt.Errorf("create temporal otel interceptor: %w", err)
	}

	c, err := client.DialContext(ctx, client.Options{
		HostPort:     cfg.TemporalHostPort,
		Namespace:    cfg.TemporalNamespace,
		Logger:       newTemporalLogger(log),
		Interceptors: []interceptor.ClientInterceptor{otelInterceptor},
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal server at %s: %w", cfg.TemporalHostPort, err)
	}

	log.Info("temporal client connected",
		"host_port", cfg.TemporalHostPort,
		"namespace", cfg.TemporalNamespace,
		"task_queue", cfg.LabelTaskQueue,
	)

	return &TemporalClient{
		Client:    c,
		Namespace: cfg.TemporalNamespace,
		TaskQueue: cfg.LabelTaskQueue,
		log:       log,
	}, nil
}

// NewWorker creates a worker polling the client's task queue. Register
// workflows and activities on it, then call Run.
func (tc *TemporalClient) NewWorker() worker.Worker {
	return worker.New(tc.Client, tc.TaskQueue, worker.Options{})
}

// Close shuts down the client connection. Safe on a nil client.
func (tc *TemporalClient) Close() {
	if tc == nil {
		return
	}
	tc.Client.Close()
	tc.log.Info("temporal client closed")
}

// temporalLogger adapts logger.Logger to Temporal's log.Logger interface.
type temporalLogger struct {
	log logger.Logger
}

func newTemporalLogger(log logger.Logger) temporallog.Logger {
	return &temporalLogger{log: log}
}

func (l *temporalLogger) Debug(msg string, keyvals ...interface{}) {
	l.log.Debug(msg, keyvals...)
}

func (l *temporalLogger) Info(msg string, keyvals ...interface{}) {
	l.log.Info(msg, keyvals...)
}

func (l *temporalLogger) Warn(msg string, keyvals ...interface{}) {
	l.log.Warn(msg, keyvals...)
}

func (l *temporalLogger) Error(msg string, keyvals ...interface{}) {
	l.log.Error(msg, keyvals...)
}
