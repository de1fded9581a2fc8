package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// InventoryRepository is the persistence interface for containers and items.
// The domain layer owns this interface; infrastructure implements it.
type InventoryRepository interface {
	// WithinTx runs fn in one transaction. Everything fn does through tx,
	// including emitted events, commits or rolls back together.
	WithinTx(ctx context.Context, fn func(tx InventoryTx) error) error

	// ListContainers returns every container ordered by name.
	ListContainers(ctx context.Context) ([]*models.Container, error)

	// ContainerByID returns ErrContainerNotFound when id does not exist.
	ContainerByID(ctx context.Context, id uuid.UUID) (*models.Container, error)

	// ListItems returns items in display order: containerized before loose,
	// then by container name, then newest first. The int is the total count.
	ListItems(ctx context.Context, opts QueryOpts) ([]models.InventoryEntry, int, error)

	// ItemsByContainer returns a container's items, oldest first.
	ItemsByContainer(ctx context.Context, containerID uuid.UUID) ([]*models.Item, error)
}

// InventoryTx is the unit of work shared by container resolution and item
// insertion.
type InventoryTx interface {
	// EnsureContainer inserts a container named name unless one exists, then
	// returns the surviving row. created is true only for the caller whose
	// insert won.
	EnsureContainer(ctx context.Context, name models.ContainerName) (c *models.Container, created bool, err error)

	// ContainerByID returns ErrContainerNotFound when id does not exist.
	ContainerByID(ctx context.Context, id uuid.UUID) (*models.Container, error)

	// InsertItems writes all items in one statement.
	InsertItems(ctx context.Context, items []*models.Item) error

	// Emit schedules event (JSON-encoded) for topic. Subscribers see it only
	// if the transaction commits.
	Emit(ctx context.Context, topic string, event any) error
}
