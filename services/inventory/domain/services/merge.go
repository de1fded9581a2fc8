package services

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// MergeDuplicates folds items whose names match after NFKC normalization,
// lower-casing and whitespace collapsing into the first occurrence, summing
// quantities. A sum past math.MaxInt32 is held at math.MaxInt32.
// Order of first occurrences is preserved.
func MergeDuplicates(items []models.ParsedItem) []models.ParsedItem {
	if len(items) < 2 {
		return items
	}

	out := make([]models.ParsedItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		key := dedupeKey(it.Name)
		if i, ok := index[key]; ok {
			out[i].Quantity = addQuantity(out[i].Quantity, it.Quantity)
			continue
		}
		index[key] = len(out)
		out = append(out, it)
	}
	return out
}

func dedupeKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(norm.NFKC.String(name)), " "))
}

func addQuantity(a, b int) int {
	if a > math.MaxInt32-b {
		return math.MaxInt32
	}
	return a + b
}
