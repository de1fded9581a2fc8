package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"container not found"`
} // @name ErrorResponse

// ContainerResponse is the JSON form of a container.
type ContainerResponse struct {
	ID        uuid.UUID `json:"id"             example:"0b7d7c9e-3f5a-4c1e-9a57-2f0c1d6b8e11"`
	Name      string    `json:"name"           example:"Spring 1"`
	Kind      *string   `json:"kind,omitempty" example:"bin"`
	CreatedAt time.Time `json:"created_at"     example:"2026-03-01T09:30:00Z"`
} // @name ContainerResponse

// ContainersResponse lists containers by name.
type ContainersResponse struct {
	Containers []ContainerResponse `json:"containers"`
} // @name ContainersResponse

// LabelResponse carries the label handed to the printer.
type LabelResponse struct {
	Label models.Label `json:"label"`
} // @name LabelResponse

// ItemResponse is the JSON form of an item. ContainerName is only set by
// listing endpoints.
type ItemResponse struct {
	ID            uuid.UUID  `json:"id"                       example:"5f0e2c1a-8b7d-4e3f-a1c2-9d8e7f6a5b4c"`
	Name          string     `json:"name"                     example:"boxes of nails"`
	Quantity      int        `json:"quantity"                 example:"3"`
	ContainerID   *uuid.UUID `json:"container_id,omitempty"   example:"0b7d7c9e-3f5a-4c1e-9a57-2f0c1d6b8e11"`
	ContainerName *string    `json:"container_name,omitempty" example:"Spring 1"`
	Location      *string    `json:"location,omitempty"       example:"garage shelf 2"`
	CreatedAt     time.Time  `json:"created_at"               example:"2026-03-01T09:30:00Z"`
} // @name ItemResponse

func toContainerResponse(c *models.Container) *ContainerResponse {
	if c == nil {
		return nil
	}
	return &ContainerResponse{
		ID:        c.ID,
		Name:      c.Name.String(),
		Kind:      c.Kind,
		CreatedAt: c.CreatedAt,
	}
}

func toContainerResponses(list []*models.Container) []ContainerResponse {
	out := make([]ContainerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toContainerResponse(c))
	}
	return out
}

func toItemResponse(it *models.Item, containerName *string) ItemResponse {
	return ItemResponse{
		ID:            it.ID,
		Name:          it.Name.String(),
		Quantity:      it.Quantity.Int(),
		ContainerID:   it.ContainerID,
		ContainerName: containerName,
		Location:      it.LocationHint,
		CreatedAt:     it.CreatedAt,
	}
}
