package services

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// FallbackStrategy selects the local parser used when structuring fails.
type FallbackStrategy string

const (
	// FallbackPerLine parses each non-empty line as "<quantity> <name>".
	FallbackPerLine FallbackStrategy = "per-line"
	// FallbackWholeText records the entire text as one item of quantity 1.
	FallbackWholeText FallbackStrategy = "whole-text"
)

// ParseFallbackStrategy maps a config value to a strategy.
func ParseFallbackStrategy(s string) (FallbackStrategy, error) {
	switch f := FallbackStrategy(strings.TrimSpace(s)); f {
	case FallbackPerLine, FallbackWholeText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown extraction fallback %q", s)
	}
}

// Apply runs the strategy on raw with control characters stripped. Every
// returned name is a valid models.ItemName. Blank input yields nil.
func (f FallbackStrategy) Apply(raw string) []models.ParsedItem {
	raw = StripControl(raw)
	if f == FallbackWholeText {
		return ParseWholeText(raw)
	}
	return ParsePerLine(raw)
}

// ParseWholeText returns the trimmed text as a single item with quantity 1,
// cut to models.MaxItemNameLength characters.
func ParseWholeText(raw string) []models.ParsedItem {
	name := clampName(strings.TrimSpace(raw))
	if name == "" {
		return nil
	}
	return []models.ParsedItem{{Name: name, Quantity: 1}}
}

// ParsePerLine parses every non-empty line independently, in order.
func ParsePerLine(raw string) []models.ParsedItem {
	var out []models.ParsedItem
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, parseLine(line))
	}
	return out
}

// parseLine reads a leading count such as "3", "3x" or "12pcs". The count
// must be a positive 32-bit integer; anything else leaves the whole line as
// the name with quantity 1. A line holding only a count keeps the line as
// its name.
func parseLine(line string) models.ParsedItem {
	fields := strings.Fields(line)
	token := strings.TrimRightFunc(fields[0], func(r rune) bool { return r < '0' || r > '9' })

	qty, err := strconv.ParseInt(token, 10, 32)
	if err != nil || qty < 1 {
		return models.ParsedItem{Name: clampName(line), Quantity: 1}
	}

	name := strings.Join(fields[1:], " ")
	if name == "" {
		name = line
	}
	return models.ParsedItem{Name: clampName(name), Quantity: int(qty)}
}

// clampName cuts s to models.MaxItemNameLength characters and drops any
// whitespace left at the cut.
func clampName(s string) string {
	n := 0
	for i := range s {
		if n == models.MaxItemNameLength {
			return strings.TrimRightFunc(s[:i], unicode.IsSpace)
		}
		n++
	}
	return s
}
