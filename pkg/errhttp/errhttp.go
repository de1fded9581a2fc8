// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/treasuretrove/ledger/pkg/httpx"
	inventorydomain "github.com/treasuretrove/ledger/services/inventory/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, StatusFor(err), err.Error())
}

// StatusFor returns the status WriteError would use for err.
func StatusFor(err error) int {
	return mapErrorToStatus(err)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, inventorydomain.ErrContainerNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, inventorydomain.ErrEmptySubmission),
		errors.Is(err, inventorydomain.ErrInvalidItemName),
		errors.Is(err, inventorydomain.ErrInvalidQuantity),
		errors.Is(err, inventorydomain.ErrInvalidContainerName):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, inventorydomain.ErrStorage):
		return http.StatusServiceUnavailable // 503
	case errors.Is(err, inventorydomain.ErrLabelTransmission):
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}
