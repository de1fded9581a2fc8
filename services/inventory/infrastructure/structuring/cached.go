package structuring

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/treasuretrove/ledger/services/inventory/domain/models"
	"github.com/treasuretrove/ledger/services/inventory/domain/ports"
)

// CachedStructurer memoizes successful results by trimmed input text.
// Failures are never cached so a recovered backend is used immediately.
type CachedStructurer struct {
	next  ports.Structurer
	cache *lru.Cache[string, []models.ParsedItem]
}

// NewCachedStructurer keeps up to size results.
func NewCachedStructurer(next ports.Structurer, size int) (*CachedStructurer, error) {
	cache, err := lru.New[string, []models.ParsedItem](size)
	if err != nil {
		return nil, fmt.Errorf("structuring cache: %w", err)
	}
	return &CachedStructurer{next: next, cache: cache}, nil
}

func (c *CachedStructurer) Structure(ctx context.Context, raw string) ([]models.ParsedItem, error) {
	key := strings.TrimSpace(raw)
	if items, ok := c.cache.Get(key); ok {
		return clone(items), nil
	}

	items, err := c.next.Structure(ctx, raw)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, clone(items))
	return items, nil
}

func clone(items []models.ParsedItem) []models.ParsedItem {
	return append([]models.ParsedItem(nil), items...)
}
