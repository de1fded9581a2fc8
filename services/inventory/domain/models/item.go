package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is one persisted inventory line. ContainerID is a weak reference:
// nil means the item is loose.
type Item struct {
	ID           uuid.UUID
	Name         ItemName
	Quantity     Quantity
	ContainerID  *uuid.UUID
	LocationHint *string
	CreatedAt    time.Time
}

// NewItem constructs an Item with a generated ID. createdAt is normalized to UTC.
func NewItem(name ItemName, qty Quantity, containerID *uuid.UUID, location *string, createdAt time.Time) *Item {
	return &Item{
		ID:           uuid.New(),
		Name:         name,
		Quantity:     qty,
		ContainerID:  containerID,
		LocationHint: location,
		CreatedAt:    createdAt.UTC(),
	}
}

// InventoryEntry is an Item joined with its container's name for display.
type InventoryEntry struct {
	Item          *Item
	ContainerName *string
}
