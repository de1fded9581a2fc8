package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the inventory service.
const (
	// TopicInventoryRecorded is published once per committed submission.
	TopicInventoryRecorded = "inventory.recorded"
	// TopicContainerCreated is published when a submission creates a container.
	TopicContainerCreated = "container.created"
)

// RecordedItem is one item of an InventoryRecordedEvent.
type RecordedItem struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
}

// InventoryRecordedEvent is published after a submission's items commit.
// The label subscriber prints from this payload alone.
type InventoryRecordedEvent struct {
	EventID       uuid.UUID      `json:"event_id"` // Unique publish-time identifier for deduplication
	Version       int            `json:"version"`  // Schema version; increment on breaking changes
	SubmissionID  uuid.UUID      `json:"submission_id"`
	ContainerID   *uuid.UUID     `json:"container_id,omitempty"`
	ContainerName *string        `json:"container_name,omitempty"`
	Location      *string        `json:"location,omitempty"`
	Items         []RecordedItem `json:"items"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

// ContainerCreatedEvent is published when EnsureContainer inserts a new row.
type ContainerCreatedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	Version     int       `json:"version"`
	ContainerID uuid.UUID `json:"container_id"`
	Name        string    `json:"name"`
	OccurredAt  time.Time `json:"occurred_at"`
}
