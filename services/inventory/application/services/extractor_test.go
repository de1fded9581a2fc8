package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
	domainsvcs "github.com/treasuretrove/ledger/services/inventory/domain/services"
	"github.com/treasuretrove/ledger/services/inventory/infrastructure/structuring"
)

// fallbackCounts returns the fallback counter's value per reason.
func fallbackCounts(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "inventory.extraction.fallbacks" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				reason, _ := dp.Attributes.Value(attribute.Key("reason"))
				counts[reason.AsString()] += dp.Value
			}
		}
	}
	return counts
}

// blockingStructurer waits for its context like a hung backend.
type blockingStructurer struct{}

func (blockingStructurer) Structure(ctx context.Context, _ string) ([]models.ParsedItem, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

const nailsAndHammer = "3 boxes of nails\nhammer"

func TestExtractor_Structured(t *testing.T) {
	f := newFixture(t)
	s := &structuring.StaticStructurer{Items: []models.ParsedItem{
		{Name: "boxes of nails", Quantity: 3},
		{Name: "hammer", Quantity: 1},
		{Name: "Boxes  of nails", Quantity: 2},
	}}

	got := f.extractor(t, s, domainsvcs.FallbackPerLine).Extract(context.Background(), nailsAndHammer)

	assert.Equal(t, SourceStructured, got.Source)
	assert.Equal(t, []models.ParsedItem{
		{Name: "boxes of nails", Quantity: 5},
		{Name: "hammer", Quantity: 1},
	}, got.Items)
	assert.Empty(t, fallbackCounts(t, f.reader))
	assert.Equal(t, 1, s.Calls())
}

func TestExtractor_FallbackStrategies(t *testing.T) {
	tests := []struct {
		strategy domainsvcs.FallbackStrategy
		want     []models.ParsedItem
	}{
		{domainsvcs.FallbackWholeText, []models.ParsedItem{{Name: nailsAndHammer, Quantity: 1}}},
		{domainsvcs.FallbackPerLine, []models.ParsedItem{{Name: "boxes of nails", Quantity: 3}, {Name: "hammer", Quantity: 1}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			f := newFixture(t)
			s := &structuring.StaticStructurer{Err: domain.ErrExtractionFailed}

			got := f.extractor(t, s, tt.strategy).Extract(context.Background(), nailsAndHammer)

			assert.Equal(t, SourceFallback, got.Source)
			assert.Equal(t, tt.want, got.Items)
			assert.Equal(t, map[string]int64{reasonError: 1}, fallbackCounts(t, f.reader))
			assert.Equal(t, 1, s.Calls(), "no retries")
		})
	}
}

func TestExtractor_FallbackReasons(t *testing.T) {
	tests := []struct {
		name   string
		items  []models.ParsedItem
		reason string
	}{
		{"empty result", []models.ParsedItem{}, reasonEmpty},
		{"zero quantity", []models.ParsedItem{{Name: "hammer", Quantity: 0}}, reasonInvalid},
		{"blank name", []models.ParsedItem{{Name: "", Quantity: 1}}, reasonInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			got := f.extractor(t, &structuring.StaticStructurer{Items: tt.items}, domainsvcs.FallbackPerLine).
				Extract(context.Background(), "hammer")

			assert.Equal(t, []models.ParsedItem{{Name: "hammer", Quantity: 1}}, got.Items)
			assert.Equal(t, map[string]int64{tt.reason: 1}, fallbackCounts(t, f.reader))
		})
	}
}

func TestExtractor_Timeout(t *testing.T) {
	f := newFixture(t)
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(f.reader)).Meter("test")
	e, err := NewExtractor(blockingStructurer{}, domainsvcs.FallbackPerLine, 20*time.Millisecond, meter, logger.Discard())
	require.NoError(t, err)

	start := time.Now()
	got := e.Extract(context.Background(), "2 tape")

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, []models.ParsedItem{{Name: "tape", Quantity: 2}}, got.Items)
	assert.Equal(t, map[string]int64{reasonTimeout: 1}, fallbackCounts(t, f.reader))
}

func TestExtractor_BlankInput(t *testing.T) {
	f := newFixture(t)
	s := &structuring.StaticStructurer{Err: errors.New("unused")}

	got := f.extractor(t, s, domainsvcs.FallbackPerLine).Extract(context.Background(), " \n\t")

	assert.Empty(t, got.Items)
	assert.Equal(t, 0, s.Calls())
}

func TestExtractor_NonEmptyForAnyText(t *testing.T) {
	inputs := []string{"x", "0 widgets", "-4 bolts", "3", "  spaced   out  ", "\n\nsecond line only"}
	f := newFixture(t)
	e := f.extractor(t, &structuring.StaticStructurer{Err: errors.New("down")}, domainsvcs.FallbackPerLine)

	for _, in := range inputs {
		got := e.Extract(context.Background(), in)
		require.NotEmpty(t, got.Items, "input %q", in)
		for _, it := range got.Items {
			assert.NotEmpty(t, it.Name)
			assert.GreaterOrEqual(t, it.Quantity, 1)
		}
	}
}
