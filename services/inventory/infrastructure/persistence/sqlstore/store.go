// Package sqlstore implements repositories.InventoryRepository on
// database/sql for both PostgreSQL and SQLite. Queries are built with squirrel
// using the pool's placeholder format and scanned with scany.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/treasuretrove/ledger/pkg/database"
	"github.com/treasuretrove/ledger/pkg/events"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/services/inventory/domain"
	domainevents "github.com/treasuretrove/ledger/services/inventory/domain/events"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
	"github.com/treasuretrove/ledger/services/inventory/domain/repositories"
)

const eventVersion = 1

var (
	containerColumns = []string{"id", "name", "kind", "created_at"}
	itemColumns      = []string{"id", "name", "quantity", "container_id", "location_hint", "created_at"}
)

// Store is the inventory repository. bus may be nil, in which case emitted
// events are dropped.
type Store struct {
	db  *database.Database
	bus *events.EventBus
	log logger.Logger
}

var _ repositories.InventoryRepository = (*Store)(nil)

// NewStore returns a Store backed by the shared pool.
func NewStore(db *database.Database, bus *events.EventBus, log logger.Logger) *Store {
	return &Store{db: db, bus: bus, log: log}
}

// WithinTx runs fn in one database transaction. On a transactional bus
// events are written inside the transaction; otherwise they are published
// after commit and dropped on rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repositories.InventoryTx) error) error {
	var deferred []pendingEvent

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		t := &storeTx{tx: tx, sb: s.db.Builder(), bus: s.bus}
		if err := fn(t); err != nil {
			return err
		}
		deferred = t.deferred
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range deferred {
		if err := s.bus.Publish(ctx, p.topic, p.msg); err != nil {
			// The rows are committed; only the notification is lost.
			s.log.ErrorContext(ctx, "failed to publish event after commit",
				"topic", p.topic, "message_id", p.msg.UUID, "error", err)
		}
	}
	return nil
}

// ListContainers returns every container ordered by name.
func (s *Store) ListContainers(ctx context.Context) ([]*models.Container, error) {
	query, args, err := s.db.Builder().
		Select(containerColumns...).
		From("containers").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build containers query: %w", err)
	}

	var rows []containerRow
	if err := sqlscan.Select(ctx, s.db.DB(), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query containers: %w", err)
	}

	out := make([]*models.Container, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// ContainerByID looks up one container outside any transaction.
func (s *Store) ContainerByID(ctx context.Context, id uuid.UUID) (*models.Container, error) {
	return containerBy(ctx, s.db.DB(), s.db.Builder(), sq.Eq{"id": id.String()})
}

// ListItems returns one page of items in display order plus the total count.
func (s *Store) ListItems(ctx context.Context, opts repositories.QueryOpts) ([]models.InventoryEntry, int, error) {
	b := s.db.Builder().
		Select(
			"i.id", "i.name", "i.quantity", "i.container_id", "i.location_hint", "i.created_at",
			"c.name AS container_name",
		).
		From("items i").
		LeftJoin("containers c ON c.id = i.container_id").
		OrderBy("i.container_id IS NULL", "c.name", "i.created_at DESC", "i.name")
	if opts.Limit > 0 {
		b = b.Limit(uint64(opts.Limit))
	}
	if opts.Offset > 0 {
		b = b.Offset(uint64(opts.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build items query: %w", err)
	}

	var rows []itemRow
	if err := sqlscan.Select(ctx, s.db.DB(), &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("query items: %w", err)
	}

	countQuery, countArgs, err := s.db.Builder().Select("COUNT(*)").From("items").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := s.db.DB().QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	out := make([]models.InventoryEntry, len(rows))
	for i, r := range rows {
		out[i] = models.InventoryEntry{Item: r.toModel(), ContainerName: r.ContainerName}
	}
	return out, total, nil
}

// ItemsByContainer returns a container's items, oldest first.
func (s *Store) ItemsByContainer(ctx context.Context, containerID uuid.UUID) ([]*models.Item, error) {
	query, args, err := s.db.Builder().
		Select(itemColumns...).
		From("items").
		Where(sq.Eq{"container_id": containerID.String()}).
		OrderBy("created_at", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build container items query: %w", err)
	}

	var rows []itemRow
	if err := sqlscan.Select(ctx, s.db.DB(), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query container items: %w", err)
	}

	out := make([]*models.Item, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

type pendingEvent struct {
	topic string
	msg   *message.Message
}

// storeTx implements repositories.InventoryTx on one *sql.Tx.
type storeTx struct {
	tx       *sql.Tx
	sb       sq.StatementBuilderType
	bus      *events.EventBus
	txPub    message.Publisher
	deferred []pendingEvent
}

// EnsureContainer inserts name unless it exists, then reads back the
// surviving row. The unique constraint decides concurrent races: the losing
// insert affects zero rows and reads the winner's id.
func (t *storeTx) EnsureContainer(ctx context.Context, name models.ContainerName) (*models.Container, bool, error) {
	candidate := models.NewContainer(name)

	res, err := t.sb.
		Insert("containers").
		Columns(containerColumns...).
		Values(candidate.ID, candidate.Name.String(), nil, candidate.CreatedAt).
		Suffix("ON CONFLICT (name) DO NOTHING").
		RunWith(t.tx).
		ExecContext(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("insert container: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("insert container rows affected: %w", err)
	}

	c, err := containerBy(ctx, t.tx, t.sb, sq.Eq{"name": name.String()})
	if err != nil {
		return nil, false, fmt.Errorf("read back container: %w", err)
	}

	created := affected == 1
	if created {
		err := t.Emit(ctx, domainevents.TopicContainerCreated, domainevents.ContainerCreatedEvent{
			EventID:     uuid.New(),
			Version:     eventVersion,
			ContainerID: c.ID,
			Name:        c.Name.String(),
			OccurredAt:  c.CreatedAt,
		})
		if err != nil {
			return nil, false, err
		}
	}
	return c, created, nil
}

func (t *storeTx) ContainerByID(ctx context.Context, id uuid.UUID) (*models.Container, error) {
	return containerBy(ctx, t.tx, t.sb, sq.Eq{"id": id.String()})
}

// InsertItems writes all items with one multi-row INSERT.
func (t *storeTx) InsertItems(ctx context.Context, items []*models.Item) error {
	if len(items) == 0 {
		return nil
	}

	ins := t.sb.Insert("items").Columns(itemColumns...)
	for _, it := range items {
		ins = ins.Values(
			it.ID,
			it.Name.String(),
			it.Quantity.Int(),
			nullUUID(it.ContainerID),
			nullString(it.LocationHint),
			it.CreatedAt,
		)
	}

	if _, err := ins.RunWith(t.tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert %d items: %w", len(items), err)
	}
	return nil
}

// Emit encodes event as a Watermill message. With a transactional bus it is
// written through the transaction; otherwise it waits for commit.
func (t *storeTx) Emit(ctx context.Context, topic string, event any) error {
	if t.bus == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_version", fmt.Sprint(eventVersion))

	if !t.bus.Transactional() {
		t.deferred = append(t.deferred, pendingEvent{topic: topic, msg: msg})
		return nil
	}

	if t.txPub == nil {
		if t.txPub, err = t.bus.NewTxPublisher(t.tx); err != nil {
			return fmt.Errorf("create publisher: %w", err)
		}
	}
	events.InjectTrace(ctx, msg)
	if err := t.txPub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// containerBy loads one container. Ids are compared as strings: squirrel
// would expand a uuid.UUID ([16]byte) into an IN list.
func containerBy(ctx context.Context, q sqlscan.Querier, sb sq.StatementBuilderType, where sq.Eq) (*models.Container, error) {
	query, args, err := sb.Select(containerColumns...).From("containers").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build container query: %w", err)
	}

	var row containerRow
	if err := sqlscan.Get(ctx, q, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, domain.ErrContainerNotFound
		}
		return nil, fmt.Errorf("query container: %w", err)
	}
	return row.toModel(), nil
}

type containerRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Kind      *string   `db:"kind"`
	CreatedAt time.Time `db:"created_at"`
}

func (r containerRow) toModel() *models.Container {
	return &models.Container{
		ID:        r.ID,
		Name:      models.ContainerName(r.Name),
		Kind:      r.Kind,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type itemRow struct {
	ID            uuid.UUID     `db:"id"`
	Name          string        `db:"name"`
	Quantity      int           `db:"quantity"`
	ContainerID   uuid.NullUUID `db:"container_id"`
	LocationHint  *string       `db:"location_hint"`
	CreatedAt     time.Time     `db:"created_at"`
	ContainerName *string       `db:"container_name"`
}

func (r itemRow) toModel() *models.Item {
	item := &models.Item{
		ID:           r.ID,
		Name:         models.ItemName(r.Name),
		Quantity:     models.Quantity(r.Quantity),
		LocationHint: r.LocationHint,
		CreatedAt:    r.CreatedAt.UTC(),
	}
	if r.ContainerID.Valid {
		id := r.ContainerID.UUID
		item.ContainerID = &id
	}
	return item
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
