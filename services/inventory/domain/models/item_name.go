package models

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ItemName is a value object representing a valid item name.
// Names may span lines: the whole-text fallback stores a multi-line
// submission verbatim as one item.
type ItemName string

// MaxItemNameLength is the longest accepted name, in characters.
const MaxItemNameLength = 4096

// NewItemName constructs a valid ItemName or returns an error if constraints are violated.
// s must already be trimmed.
func NewItemName(s string) (ItemName, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("item name must not be empty")
	}
	if s != strings.TrimSpace(s) {
		return "", fmt.Errorf("item name must not have leading or trailing whitespace")
	}
	if n := utf8.RuneCountInString(s); n > MaxItemNameLength {
		return "", fmt.Errorf("item name must not exceed %d characters (got %d)", MaxItemNameLength, n)
	}
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return "", fmt.Errorf("item name must not contain control characters")
		}
	}
	return ItemName(s), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}

// SingleLine returns the name with every whitespace run collapsed to one space.
func (n ItemName) SingleLine() string {
	return strings.Join(strings.Fields(string(n)), " ")
}
