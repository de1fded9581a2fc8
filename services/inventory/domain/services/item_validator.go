package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// ValidateItemForCreation re-checks an assembled Item right before it is
// written.
func ValidateItemForCreation(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	if item.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}
	if _, err := models.NewItemName(item.Name.String()); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidItemName, err)
	}
	if _, err := models.NewQuantity(item.Quantity.Int()); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidQuantity, err)
	}
	if item.ContainerID != nil && *item.ContainerID == uuid.Nil {
		return fmt.Errorf("container_id must be nil or a valid id")
	}
	if item.CreatedAt.IsZero() {
		return fmt.Errorf("created_at must be set")
	}
	return nil
}
