package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// AssembleItems maps parsed records 1:1 to Items. Every item gets the same
// container and location and the same createdAt.
func AssembleItems(parsed []models.ParsedItem, containerID *uuid.UUID, location *string, createdAt time.Time) ([]*models.Item, error) {
	items := make([]*models.Item, 0, len(parsed))
	for i, p := range parsed {
		name, err := models.NewItemName(p.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", domain.ErrInvalidItemName, i+1, err)
		}
		qty, err := models.NewQuantity(p.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", domain.ErrInvalidQuantity, i+1, err)
		}

		item := models.NewItem(name, qty, copyUUID(containerID), copyString(location), createdAt)
		if err := ValidateItemForCreation(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
