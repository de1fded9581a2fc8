package services

import (
	"fmt"

	"github.com/treasuretrove/ledger/pkg/app"
	"github.com/treasuretrove/ledger/pkg/cache"
	"github.com/treasuretrove/ledger/pkg/telemetry"
	domainsvcs "github.com/treasuretrove/ledger/services/inventory/domain/services"
	"github.com/treasuretrove/ledger/services/inventory/infrastructure/labels"
	"github.com/treasuretrove/ledger/services/inventory/infrastructure/persistence/sqlstore"
	"github.com/treasuretrove/ledger/services/inventory/infrastructure/structuring"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Submission *SubmissionService
	Inventory  *InventoryService
}

// New wires all inventory application services with infrastructure from the
// Application container.
func New(a *app.Application) (*Services, error) {
	cfg := a.Config

	structurer, err := structuring.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("structurer: %w", err)
	}
	fallback, err := domainsvcs.ParseFallbackStrategy(cfg.ExtractionFallback)
	if err != nil {
		return nil, err
	}
	extractor, err := NewExtractor(structurer, fallback, cfg.StructuringTimeout, telemetry.Meter(), a.Logger)
	if err != nil {
		return nil, err
	}

	dispatcher, err := labels.NewDispatcher(cfg, a.TemporalClient, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("label dispatcher: %w", err)
	}

	var containerCache *cache.ContainerCache
	if a.Redis != nil {
		containerCache = cache.NewContainerCache(a.Redis)
	}

	repo := sqlstore.NewStore(a.Db, a.EventBus, a.Logger)
	return &Services{
		Submission: NewSubmissionService(repo, extractor, a.Logger),
		Inventory:  NewInventoryService(repo, containerCache, dispatcher, a.Logger),
	}, nil
}
