// Package ports declares the capabilities the inventory domain needs from the
// outside world without naming their implementations.
package ports

import (
	"context"

	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// Structurer turns free text into ordered (name, quantity) records.
// Any error, including a malformed response, is a total failure of the call;
// callers fall back to a local heuristic.
type Structurer interface {
	Structure(ctx context.Context, raw string) ([]models.ParsedItem, error)
}
