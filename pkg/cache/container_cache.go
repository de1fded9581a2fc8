package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ContainerListTTL bounds staleness if an invalidation event is lost.
	ContainerListTTL = time.Hour

	containerListKey = "containers:all"
)

// CachedContainer is the read model stored for the container picker.
type CachedContainer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Kind      *string   `json:"kind,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContainerCache stores the full, ordered container list as one JSON value.
// The list is small (a household has tens of containers) and always read whole.
type ContainerCache struct {
	client *RedisClient
}

// NewContainerCache creates a ContainerCache backed by r.
func NewContainerCache(r *RedisClient) *ContainerCache {
	return &ContainerCache{client: r}
}

// Get returns the cached list. Returns redis.Nil when nothing is cached.
func (c *ContainerCache) Get(ctx context.Context) ([]CachedContainer, error) {
	raw, err := c.client.Client().Get(ctx, containerListKey).Bytes()
	if err != nil {
		if err == redis.Nil { //nolint:errorlint
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("cache get containers: %w", err)
	}

	var list []CachedContainer
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("cache decode containers: %w", err)
	}
	return list, nil
}

// Set replaces the cached list.
func (c *ContainerCache) Set(ctx context.Context, list []CachedContainer) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("cache encode containers: %w", err)
	}
	if err := c.client.Client().Set(ctx, containerListKey, raw, ContainerListTTL).Err(); err != nil {
		return fmt.Errorf("cache set containers: %w", err)
	}
	return nil
}

// Invalidate drops the cached list so the next read goes to the database.
func (c *ContainerCache) Invalidate(ctx context.Context) error {
	if err := c.client.Client().Del(ctx, containerListKey).Err(); err != nil {
		return fmt.Errorf("cache invalidate containers: %w", err)
	}
	return nil
}
