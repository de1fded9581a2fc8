package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/treasuretrove/ledger/pkg/cache"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/services/inventory/domain/events"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
	"github.com/treasuretrove/ledger/services/inventory/domain/repositories"
	domainsvcs "github.com/treasuretrove/ledger/services/inventory/domain/services"
	"github.com/treasuretrove/ledger/services/inventory/infrastructure/export"
	"github.com/treasuretrove/ledger/services/inventory/infrastructure/labels"
)

// InventoryService serves the read side and label printing.
// The container list is served from Redis when a cache is configured.
type InventoryService struct {
	repo       repositories.InventoryRepository
	cache      *pkgcache.ContainerCache
	dispatcher labels.Dispatcher
	log        logger.Logger
}

// NewInventoryService wires the service. containerCache may be nil.
func NewInventoryService(repo repositories.InventoryRepository, containerCache *pkgcache.ContainerCache, dispatcher labels.Dispatcher, log logger.Logger) *InventoryService {
	return &InventoryService{repo: repo, cache: containerCache, dispatcher: dispatcher, log: log}
}

// ListContainers returns all containers ordered by name, read-through cached:
//  1. Check Redis first.
//  2. On miss (or cache error), query the database.
//  3. Store the database result for the next caller.
func (s *InventoryService) ListContainers(ctx context.Context) ([]*models.Container, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return fromCache(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "container cache unavailable", "error", err)
		}
	}

	containers, err := s.repo.ListContainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, toCache(containers)); err != nil {
			s.log.WarnContext(ctx, "container cache not refreshed", "error", err)
		}
	}
	return containers, nil
}

// InvalidateContainers drops the cached container list. No-op without a cache.
func (s *InventoryService) InvalidateContainers(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

// ListItems returns a page of items in display order plus the total count.
func (s *InventoryService) ListItems(ctx context.Context, opts repositories.QueryOpts) ([]models.InventoryEntry, int, error) {
	entries, total, err := s.repo.ListItems(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return entries, total, nil
}

// Export writes every item, in display order, as an XLSX workbook.
func (s *InventoryService) Export(ctx context.Context, w io.Writer) (int, error) {
	entries, _, err := s.repo.ListItems(ctx, repositories.QueryOpts{})
	if err != nil {
		return 0, fmt.Errorf("list items: %w", err)
	}
	if err := export.WriteItemsXLSX(w, entries); err != nil {
		return 0, fmt.Errorf("export items: %w", err)
	}
	return len(entries), nil
}

// PrintContainerLabel formats every item of a container under the container
// name and dispatches it. Each call prints a new copy.
func (s *InventoryService) PrintContainerLabel(ctx context.Context, id uuid.UUID) (models.Label, error) {
	c, err := s.repo.ContainerByID(ctx, id)
	if err != nil {
		return models.Label{}, fmt.Errorf("get container: %w", err)
	}
	items, err := s.repo.ItemsByContainer(ctx, id)
	if err != nil {
		return models.Label{}, fmt.Errorf("list container items: %w", err)
	}

	label := domainsvcs.FormatLabel(items, containerNameOf(c))
	key := fmt.Sprintf("container-%s-%s", id, uuid.New())
	if err := s.dispatcher.Dispatch(ctx, key, label); err != nil {
		return label, fmt.Errorf("print container label: %w", err)
	}
	return label, nil
}

// PrintLabel dispatches an already formatted label under key.
func (s *InventoryService) PrintLabel(ctx context.Context, key string, label models.Label) error {
	if err := s.dispatcher.Dispatch(ctx, key, label); err != nil {
		return fmt.Errorf("print label: %w", err)
	}
	return nil
}

// PrintRecorded prints the label of a committed submission. The event is
// the only input, so a redelivered event prints under the same key.
func (s *InventoryService) PrintRecorded(ctx context.Context, ev events.InventoryRecordedEvent) error {
	items, err := itemsFromEvent(ev)
	if err != nil {
		return fmt.Errorf("decode recorded items: %w", err)
	}
	label := domainsvcs.FormatLabel(items, ev.ContainerName)
	if err := s.dispatcher.Dispatch(ctx, ev.SubmissionID.String(), label); err != nil {
		return fmt.Errorf("print submission label: %w", err)
	}
	return nil
}

func itemsFromEvent(ev events.InventoryRecordedEvent) ([]*models.Item, error) {
	items := make([]*models.Item, 0, len(ev.Items))
	for _, r := range ev.Items {
		name, err := models.NewItemName(r.Name)
		if err != nil {
			return nil, err
		}
		qty, err := models.NewQuantity(r.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, &models.Item{
			ID:           r.ID,
			Name:         name,
			Quantity:     qty,
			ContainerID:  ev.ContainerID,
			LocationHint: ev.Location,
			CreatedAt:    ev.OccurredAt,
		})
	}
	return items, nil
}

func fromCache(cached []pkgcache.CachedContainer) []*models.Container {
	out := make([]*models.Container, 0, len(cached))
	for _, c := range cached {
		out = append(out, &models.Container{
			ID:        c.ID,
			Name:      models.ContainerName(c.Name),
			Kind:      c.Kind,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}

func toCache(containers []*models.Container) []pkgcache.CachedContainer {
	out := make([]pkgcache.CachedContainer, 0, len(containers))
	for _, c := range containers {
		out = append(out, pkgcache.CachedContainer{
			ID:        c.ID,
			Name:      c.Name.String(),
			Kind:      c.Kind,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}
