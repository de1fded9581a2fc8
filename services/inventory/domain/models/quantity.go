package models

import (
	"fmt"
	"math"
)

// Quantity is a positive item count that fits a 32-bit INTEGER column.
type Quantity int

// NewQuantity validates n.
func NewQuantity(n int) (Quantity, error) {
	if n < 1 {
		return 0, fmt.Errorf("quantity must be at least 1 (got %d)", n)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("quantity must not exceed %d", math.MaxInt32)
	}
	return Quantity(n), nil
}

// Int returns the underlying value.
func (q Quantity) Int() int {
	return int(q)
}
