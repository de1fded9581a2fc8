package models

import (
	"time"

	"github.com/google/uuid"
)

// Container is a named bin, drawer or shelf that items can belong to.
// Identity is the name; ID is the storage surrogate.
type Container struct {
	ID        uuid.UUID
	Name      ContainerName
	Kind      *string
	CreatedAt time.Time
}

// NewContainer constructs a Container with a generated ID and current timestamp.
func NewContainer(name ContainerName) *Container {
	return &Container{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}
