package structuring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

func TestParseItemsJSON_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []models.ParsedItem
	}{
		{
			name: "plain",
			raw:  `{"items":[{"name":"boxes of nails","quantity":3},{"name":"hammer","quantity":1}]}`,
			want: []models.ParsedItem{{Name: "boxes of nails", Quantity: 3}, {Name: "hammer", Quantity: 1}},
		},
		{
			name: "fenced with language",
			raw:  "```json\n{\"items\":[{\"name\":\"tape\",\"quantity\":2}]}\n```",
			want: []models.ParsedItem{{Name: "tape", Quantity: 2}},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"items\":[{\"name\":\"tape\",\"quantity\":2}]}\n```",
			want: []models.ParsedItem{{Name: "tape", Quantity: 2}},
		},
		{
			name: "integral float and padded name",
			raw:  `{"items":[{"name":"  glue ","quantity":4.0}], "note":"ignored"}`,
			want: []models.ParsedItem{{Name: "glue", Quantity: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseItemsJSON(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseItemsJSON_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":           `here are your items: nails`,
		"array root":         `[{"name":"nails","quantity":1}]`,
		"missing items":      `{"things":[]}`,
		"items not array":    `{"items":{"name":"nails"}}`,
		"empty items":        `{"items":[]}`,
		"element not object": `{"items":["nails"]}`,
		"missing name":       `{"items":[{"quantity":1}]}`,
		"numeric name":       `{"items":[{"name":5,"quantity":1}]}`,
		"blank name":         `{"items":[{"name":"  ","quantity":1}]}`,
		"missing quantity":   `{"items":[{"name":"nails"}]}`,
		"string quantity":    `{"items":[{"name":"nails","quantity":"3"}]}`,
		"zero quantity":      `{"items":[{"name":"nails","quantity":0}]}`,
		"negative quantity":  `{"items":[{"name":"nails","quantity":-2}]}`,
		"fractional":         `{"items":[{"name":"nails","quantity":1.5}]}`,
		"too large":          `{"items":[{"name":"nails","quantity":3000000000}]}`,
		"one bad of many":    `{"items":[{"name":"nails","quantity":3},{"name":"","quantity":1}]}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseItemsJSON(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrExtractionFailed))
		})
	}
}
