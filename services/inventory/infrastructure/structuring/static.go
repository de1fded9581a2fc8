package structuring

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// StaticStructurer returns fixed output. Err takes precedence over Items.
type StaticStructurer struct {
	Items []models.ParsedItem
	Err   error

	calls atomic.Int64
}

func (s *StaticStructurer) Structure(ctx context.Context, _ string) ([]models.ParsedItem, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Items), nil
}

// Calls reports how many times Structure ran.
func (s *StaticStructurer) Calls() int {
	return int(s.calls.Load())
}

// Unavailable is the structurer of STRUCTURING_PROVIDER=none. Every call
// fails, so extraction always uses the local fallback.
type Unavailable struct{}

func (Unavailable) Structure(context.Context, string) ([]models.ParsedItem, error) {
	return nil, fmt.Errorf("%w: no structuring provider configured", domain.ErrExtractionFailed)
}
