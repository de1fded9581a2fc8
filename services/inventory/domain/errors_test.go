package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{
		ErrEmptySubmission,
		ErrInvalidItemName,
		ErrInvalidQuantity,
		ErrInvalidContainerName,
		ErrContainerNotFound,
		ErrExtractionFailed,
		ErrStorage,
		ErrLabelTransmission,
	}
	for i, a := range all {
		if a == nil {
			t.Fatalf("sentinel %d is nil", i)
		}
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%q must not match %q", a, b)
			}
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("resolve container: %w", ErrContainerNotFound)
	if !errors.Is(wrapped, ErrContainerNotFound) {
		t.Fatal("errors.Is must match wrapped ErrContainerNotFound")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrStorage, errors.New("disk full"))
	if !errors.Is(wrapped2, ErrStorage) {
		t.Fatal("errors.Is must match double-wrapped ErrStorage")
	}
}
