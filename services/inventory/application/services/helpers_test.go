package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/treasuretrove/ledger/pkg/database"
	"github.com/treasuretrove/ledger/pkg/database/dbtest"
	"github.com/treasuretrove/ledger/pkg/events"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
	"github.com/treasuretrove/ledger/services/inventory/domain/repositories"
	domainsvcs "github.com/treasuretrove/ledger/services/inventory/domain/services"
	"github.com/treasuretrove/ledger/services/inventory/infrastructure/persistence/sqlstore"
	"github.com/treasuretrove/ledger/services/inventory/infrastructure/structuring"
)

const seededContainers = 5

type fixture struct {
	db     *database.Database
	bus    *events.EventBus
	store  *sqlstore.Store
	reader *sdkmetric.ManualReader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.NewSQLite(t)
	bus := events.NewInMemoryEventBus(logger.Discard())
	t.Cleanup(func() { _ = bus.Close() })
	return &fixture{
		db:     db,
		bus:    bus,
		store:  sqlstore.NewStore(db, bus, logger.Discard()),
		reader: sdkmetric.NewManualReader(),
	}
}

func (f *fixture) extractor(t *testing.T, s *structuring.StaticStructurer, fallback domainsvcs.FallbackStrategy) *Extractor {
	t.Helper()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(f.reader)).Meter("test")
	e, err := NewExtractor(s, fallback, 0, meter, logger.Discard())
	require.NoError(t, err)
	return e
}

func (f *fixture) submissions(t *testing.T, s *structuring.StaticStructurer) *SubmissionService {
	t.Helper()
	return NewSubmissionService(f.store, f.extractor(t, s, domainsvcs.FallbackPerLine), logger.Discard())
}

// failingInsertRepo runs the real transaction but fails InsertItems, so
// everything done before it in the transaction must roll back.
type failingInsertRepo struct {
	repositories.InventoryRepository
}

func (r failingInsertRepo) WithinTx(ctx context.Context, fn func(tx repositories.InventoryTx) error) error {
	return r.InventoryRepository.WithinTx(ctx, func(tx repositories.InventoryTx) error {
		return fn(failingInsertTx{tx})
	})
}

type failingInsertTx struct {
	repositories.InventoryTx
}

func (failingInsertTx) InsertItems(context.Context, []*models.Item) error {
	return errors.New("disk I/O error")
}

type dispatched struct {
	key   string
	label models.Label
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []dispatched
	err   error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, key string, label models.Label) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dispatched{key: key, label: label})
	return d.err
}

func (d *recordingDispatcher) snapshot() []dispatched {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dispatched(nil), d.calls...)
}

func ptr(s string) *string { return &s }
