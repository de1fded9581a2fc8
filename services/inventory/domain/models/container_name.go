package models

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainerName is a value object: trimmed, 1 to 120 characters, single line.
// Comparison is case-sensitive.
type ContainerName string

const maxContainerNameLength = 120

// NewContainerName trims s and validates the result.
func NewContainerName(s string) (ContainerName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("container name must not be empty")
	}
	if n := utf8.RuneCountInString(s); n > maxContainerNameLength {
		return "", fmt.Errorf("container name must not exceed %d characters (got %d)", maxContainerNameLength, n)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("container name must not contain control characters")
		}
	}
	return ContainerName(s), nil
}

// String returns the underlying string value.
func (n ContainerName) String() string {
	return string(n)
}
