// Package events provides the pub/sub EventBus built on Watermill.
//
// Two transports sit behind the same EventBus:
//   - PostgreSQL: Watermill's SQL transport. Events can be written inside the
//     caller's *sql.Tx (NewTxPublisher), so "save rows + emit event" is atomic.
//     Subscribers share a ConsumerGroup (<service>-consumer), so each message is
//     processed by exactly one instance.
//   - SQLite: an in-process go-channel bus. There is no outbox; publishers must
//     publish after their transaction commits, and subscribers must live in the
//     same process as the publisher.
//
// Handlers should be idempotent. On failure a message is retried up to 3 times
// with exponential backoff, then Nacked.
//
// OTel context propagation: trace context is injected into message metadata on Publish
// and extracted in Subscribe.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/treasuretrove/ledger/pkg/config"
	"github.com/treasuretrove/ledger/pkg/database"
	"github.com/treasuretrove/ledger/pkg/logger"
)

const (
	maxRetries          = 3
	retryBaseDelay      = time.Second
	shutdownTimeout     = 30 * time.Second
	memoryChannelBuffer = 64
)

// EventBus publishes and subscribes to domain events.
type EventBus struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	db            *sql.DB // nil for the in-memory transport
	log           logger.Logger
	wg            sync.WaitGroup
	transactional bool
}

// InMemoryOption tunes the in-memory transport. The SQL transport ignores it.
type InMemoryOption func(*gochannel.Config)

// WithSyncDelivery makes Publish return only after every subscriber of the
// topic has acked the message. Short-lived processes use it so events are
// handled before the bus closes. Handlers must not fail permanently: a
// Nacked message is redelivered.
func WithSyncDelivery() InMemoryOption {
	return func(c *gochannel.Config) {
		c.BlockPublishUntilSubscriberAck = true
	}
}

// NewEventBus picks the transport from db's dialect: the SQL transport for
// PostgreSQL, the in-memory transport for SQLite. The bus shares db's pool and
// never closes it.
func NewEventBus(cfg *config.Config, db *database.Database, log logger.Logger, opts ...InMemoryOption) (*EventBus, error) {
	if db.Dialect() == database.DialectSQLite {
		return NewInMemoryEventBus(log, opts...), nil
	}
	return newSQLEventBus(cfg, db.DB(), log)
}

// NewInMemoryEventBus creates a bus that delivers messages to subscribers in
// the same process. Messages published with no subscriber are dropped.
func NewInMemoryEventBus(log logger.Logger, opts ...InMemoryOption) *EventBus {
	gcfg := gochannel.Config{OutputChannelBuffer: memoryChannelBuffer}
	for _, opt := range opts {
		opt(&gcfg)
	}
	pubSub := gochannel.NewGoChannel(gcfg, &slogAdapter{log: log})

	return &EventBus{
		publisher:  pubSub,
		subscriber: pubSub,
		log:        log,
	}
}

func newSQLEventBus(cfg *config.Config, db *sql.DB, log logger.Logger) (*EventBus, error) {
	wlog := &slogAdapter{log: log}

	pub, err := watermillsql.NewPublisher(
		db,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		wlog,
	)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := watermillsql.NewSubscriber(
		db,
		watermillsql.SubscriberConfig{
			SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
			ConsumerGroup:    cfg.ServiceName + "-consumer",
		},
		wlog,
	)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	return &EventBus{
		publisher:     pub,
		subscriber:    sub,
		db:            db,
		log:           log,
		transactional: true,
	}, nil
}

// Transactional reports whether events can be written inside a database
// transaction with NewTxPublisher.
func (q *EventBus) Transactional() bool {
	return q.transactional
}

// NewTxPublisher returns a Publisher bound to tx. Publish calls on it are part
// of tx and become visible to subscribers only when tx commits.
//
// AutoInitializeSchema is false: the tables exist once the bus has started.
func (q *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	if !q.transactional {
		return nil, fmt.Errorf("events: transactional publishing not supported by in-memory bus")
	}
	pub, err := watermillsql.NewPublisher(
		tx,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: false,
		},
		&slogAdapter{log: q.log},
	)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return pub, nil
}

// InjectTrace copies the OTel trace context of ctx into the metadata of msgs.
func InjectTrace(ctx context.Context, msgs ...*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

// Publish sends one or more messages to the given topic.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	InjectTrace(ctx, msgs...)
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe registers handler to process messages from topic asynchronously.
// The handler receives a context with the publisher's OTel trace restored.
//
// Ack/Nack is managed by the bus:
//   - handler returns nil   → Ack
//   - handler returns error → retried up to 3× with exponential backoff (1s, 2s, 4s)
//   - all retries exhausted → Nack + error forwarded to the returned channel
//
// The returned error channel is buffered (capacity 100) and closed when the
// subscription ends. Callers must drain it.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, 100)
	propagator := otel.GetTextMapPropagator()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			carrier := propagation.MapCarrier{}
			for k, v := range msg.Metadata {
				carrier[k] = v
			}
			msgCtx := propagator.Extract(ctx, carrier)

			if err := retryWithBackoff(msgCtx, msg, handler, maxRetries, retryBaseDelay, q.log); err != nil {
				msg.Nack()
				select {
				case errCh <- err:
				default:
					q.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
						"error", err, "topic", topic)
				}
			} else {
				msg.Ack()
			}
		}
	}()

	return errCh, nil
}

// retryWithBackoff calls handler up to maxRetries times with exponential backoff.
func retryWithBackoff(
	ctx context.Context,
	msg *message.Message,
	handler func(context.Context, *message.Message) error,
	maxRetries int,
	baseDelay time.Duration,
	log logger.Logger,
) error {
	delay := baseDelay
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt,
			"max_retries", maxRetries,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d retries: %w", maxRetries, err)
}

// Ping checks the transport. The in-memory bus is always healthy.
func (q *EventBus) Ping(ctx context.Context) error {
	if q.db == nil {
		return nil
	}
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber, waits for in-flight handlers (30 s max) and
// closes the publisher. The shared database pool stays open.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers to complete")
	}

	if q.db == nil {
		// go-channel publisher and subscriber are the same object
		return nil
	}
	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
