// Package services contains stateless domain services for the inventory
// bounded context: the pure steps of the submission pipeline plus container
// resolution, which only talks to storage through repositories.InventoryTx.
package services

import (
	"strings"
	"unicode"
)

// legacySelectionPlaceholder is the "no container" option of older forms.
const legacySelectionPlaceholder = "-"

// NormalizeOptional trims s. Nil, empty and whitespace-only input all
// become nil, never a pointer to "".
func NormalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NormalizeSelection is NormalizeOptional for the container picker, which
// also treats the "-" placeholder as no selection.
func NormalizeSelection(s *string) *string {
	n := NormalizeOptional(s)
	if n != nil && *n == legacySelectionPlaceholder {
		return nil
	}
	return n
}

// StripControl replaces control characters other than line breaks and tabs
// with spaces.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return ' '
		}
		return r
	}, s)
}
