package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/events"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
	"github.com/treasuretrove/ledger/services/inventory/domain/repositories"
	domainsvcs "github.com/treasuretrove/ledger/services/inventory/domain/services"
)

const eventVersion = 1

// SubmissionResult is the outcome of one submission. When Persisted is
// false, Items and Label describe what would have been saved.
type SubmissionResult struct {
	SubmissionID uuid.UUID
	Persisted    bool
	Container    *models.Container
	Items        []*models.Item
	Label        models.Label
	Extraction   string
	Warnings     []string
}

// SubmissionService runs the submission pipeline: normalize, extract,
// resolve the container and insert the items in one transaction, format the
// label. Printing happens after commit, driven by the inventory.recorded event.
type SubmissionService struct {
	repo      repositories.InventoryRepository
	extractor *Extractor
	log       logger.Logger
	now       func() time.Time
}

// NewSubmissionService returns a SubmissionService using the wall clock.
func NewSubmissionService(repo repositories.InventoryRepository, extractor *Extractor, log logger.Logger) *SubmissionService {
	return &SubmissionService{repo: repo, extractor: extractor, log: log, now: time.Now}
}

// Submit records sub. Validation failures return a domain sentinel and no
// result. A storage failure returns both the unsaved result and an error
// wrapping domain.ErrStorage.
func (s *SubmissionService) Submit(ctx context.Context, sub models.Submission) (*SubmissionResult, error) {
	raw := domainsvcs.StripControl(sub.RawText)
	if strings.TrimSpace(raw) == "" {
		return nil, domain.ErrEmptySubmission
	}

	res := &SubmissionResult{SubmissionID: uuid.New()}

	newName := domainsvcs.NormalizeOptional(sub.ContainerNewName)
	location := domainsvcs.NormalizeOptional(sub.Location)
	var selectedID *uuid.UUID
	if sel := domainsvcs.NormalizeSelection(sub.ContainerSelection); sel != nil && newName == nil {
		id, err := uuid.Parse(*sel)
		if err != nil {
			res.Warnings = append(res.Warnings, containerNotFoundWarning(*sel))
		} else {
			selectedID = &id
		}
	}

	extraction := s.extractor.Extract(ctx, raw)
	res.Extraction = extraction.Source
	createdAt := s.now()

	// Reject bad names and quantities before opening a transaction.
	if _, err := domainsvcs.AssembleItems(extraction.Items, nil, location, createdAt); err != nil {
		return nil, err
	}

	var created bool
	err := s.repo.WithinTx(ctx, func(tx repositories.InventoryTx) error {
		container, err := domainsvcs.ResolveContainer(ctx, &creationTx{InventoryTx: tx, created: &created}, newName, selectedID)
		if errors.Is(err, domain.ErrContainerNotFound) {
			res.Warnings = append(res.Warnings, containerNotFoundWarning(selectedID.String()))
			container, err = nil, nil
		}
		if err != nil {
			return err
		}
		res.Container = container

		items, err := domainsvcs.AssembleItems(extraction.Items, containerIDOf(container), location, createdAt)
		if err != nil {
			return err
		}
		res.Items = items

		if err := tx.InsertItems(ctx, items); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}
		return tx.Emit(ctx, events.TopicInventoryRecorded, recordedEvent(res.SubmissionID, container, location, items, createdAt))
	})

	if res.Items == nil {
		res.Items, _ = domainsvcs.AssembleItems(extraction.Items, containerIDOf(res.Container), location, createdAt)
	}
	res.Label = domainsvcs.FormatLabel(res.Items, containerNameOf(res.Container))

	if err != nil {
		if isValidation(err) {
			return nil, err
		}
		if created {
			// The container was rolled back with the items.
			res.Container = nil
			for _, it := range res.Items {
				it.ContainerID = nil
			}
		}
		s.log.ErrorContext(ctx, "submission not saved",
			"submission_id", res.SubmissionID,
			"items", len(res.Items),
			"error", err,
		)
		return res, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	res.Persisted = true
	s.log.InfoContext(ctx, "inventory recorded",
		"submission_id", res.SubmissionID,
		"items", len(res.Items),
		"container", containerNameOf(res.Container),
		"extraction", res.Extraction,
	)
	return res, nil
}

// creationTx records whether EnsureContainer inserted a new row.
type creationTx struct {
	repositories.InventoryTx
	created *bool
}

func (t *creationTx) EnsureContainer(ctx context.Context, name models.ContainerName) (*models.Container, bool, error) {
	c, created, err := t.InventoryTx.EnsureContainer(ctx, name)
	if created {
		*t.created = true
	}
	return c, created, err
}

func containerNotFoundWarning(selection string) string {
	return fmt.Sprintf("container %q not found; items were recorded without a container", selection)
}

func isValidation(err error) bool {
	return errors.Is(err, domain.ErrInvalidContainerName) ||
		errors.Is(err, domain.ErrInvalidItemName) ||
		errors.Is(err, domain.ErrInvalidQuantity)
}

func containerIDOf(c *models.Container) *uuid.UUID {
	if c == nil {
		return nil
	}
	id := c.ID
	return &id
}

func containerNameOf(c *models.Container) *string {
	if c == nil {
		return nil
	}
	name := c.Name.String()
	return &name
}

func recordedEvent(submissionID uuid.UUID, c *models.Container, location *string, items []*models.Item, at time.Time) events.InventoryRecordedEvent {
	recorded := make([]events.RecordedItem, 0, len(items))
	for _, it := range items {
		recorded = append(recorded, events.RecordedItem{
			ID:       it.ID,
			Name:     it.Name.String(),
			Quantity: it.Quantity.Int(),
		})
	}
	return events.InventoryRecordedEvent{
		EventID:       uuid.New(),
		Version:       eventVersion,
		SubmissionID:  submissionID,
		ContainerID:   containerIDOf(c),
		ContainerName: containerNameOf(c),
		Location:      location,
		Items:         recorded,
		OccurredAt:    at.UTC(),
	}
}
