package services

import (
	"fmt"
	"strings"

	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// Label geometry in printer dots.
const (
	LabelTopOffset = 10
	LabelLineStep  = 22
)

// FormatLabel lays out one line per item, in order, below an optional header.
// Text is "<quantity> x <name>" with whitespace runs collapsed.
func FormatLabel(items []*models.Item, header *string) models.Label {
	var label models.Label
	y := LabelTopOffset

	if h := NormalizeOptional(header); h != nil {
		label.Header = &models.LabelLine{Y: y, Text: collapse(*h)}
		y += LabelLineStep
	}

	label.Lines = make([]models.LabelLine, 0, len(items))
	for _, it := range items {
		label.Lines = append(label.Lines, models.LabelLine{
			Y:    y,
			Text: fmt.Sprintf("%d x %s", it.Quantity, it.Name.SingleLine()),
		})
		y += LabelLineStep
	}
	return label
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
