package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
	"github.com/treasuretrove/ledger/services/inventory/domain/ports"
	domainsvcs "github.com/treasuretrove/ledger/services/inventory/domain/services"
)

// Extraction sources reported in SubmissionResult.
const (
	SourceStructured = "structured"
	SourceFallback   = "fallback"
)

// Fallback reasons, recorded as the "reason" attribute of the fallback counter.
const (
	reasonTimeout  = "timeout"
	reasonCanceled = "canceled"
	reasonError    = "error"
	reasonEmpty    = "empty"
	reasonInvalid  = "invalid"
)

// Extraction is the outcome of Extractor.Extract.
type Extraction struct {
	Items  []models.ParsedItem
	Source string
}

// Extractor turns free text into items. The structurer gets exactly one
// attempt within the timeout; any failure falls back to the local parser
// and is never returned to the caller.
type Extractor struct {
	structurer ports.Structurer
	fallback   domainsvcs.FallbackStrategy
	timeout    time.Duration
	log        logger.Logger
	fallbacks  metric.Int64Counter
}

// NewExtractor wires an Extractor. A zero timeout leaves the structurer
// bounded only by the caller's context.
func NewExtractor(s ports.Structurer, fallback domainsvcs.FallbackStrategy, timeout time.Duration, meter metric.Meter, log logger.Logger) (*Extractor, error) {
	counter, err := meter.Int64Counter(
		"inventory.extraction.fallbacks",
		metric.WithDescription("Submissions parsed by the local fallback instead of the structurer"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create fallback counter: %w", err)
	}
	return &Extractor{
		structurer: s,
		fallback:   fallback,
		timeout:    timeout,
		log:        log,
		fallbacks:  counter,
	}, nil
}

// Extract returns at least one item for any non-blank raw. Items keep input
// order with duplicate names merged into their first occurrence.
func (e *Extractor) Extract(ctx context.Context, raw string) Extraction {
	raw = domainsvcs.StripControl(raw)
	if strings.TrimSpace(raw) == "" {
		return Extraction{Source: SourceFallback}
	}

	items, reason, err := e.structure(ctx, raw)
	if reason == "" {
		return Extraction{Items: domainsvcs.MergeDuplicates(items), Source: SourceStructured}
	}

	e.log.WarnContext(ctx, "structuring failed, using fallback parser",
		"reason", reason,
		"strategy", string(e.fallback),
		"error", err,
	)
	e.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))

	return Extraction{Items: domainsvcs.MergeDuplicates(e.fallback.Apply(raw)), Source: SourceFallback}
}

// structure returns a non-empty reason when the result must be discarded.
func (e *Extractor) structure(ctx context.Context, raw string) ([]models.ParsedItem, string, error) {
	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	items, err := e.structurer.Structure(callCtx, raw)
	switch {
	case err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded)):
		return nil, reasonTimeout, err
	case err != nil && errors.Is(err, context.Canceled):
		return nil, reasonCanceled, err
	case err != nil:
		return nil, reasonError, err
	case len(items) == 0:
		return nil, reasonEmpty, errors.New("structurer returned no items")
	}

	for i, it := range items {
		if _, err := models.NewItemName(it.Name); err != nil {
			return nil, reasonInvalid, fmt.Errorf("item %d: %w", i+1, err)
		}
		if _, err := models.NewQuantity(it.Quantity); err != nil {
			return nil, reasonInvalid, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return items, "", nil
}
