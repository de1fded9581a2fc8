package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	inventorydomain "github.com/treasuretrove/ledger/services/inventory/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrContainerNotFound", inventorydomain.ErrContainerNotFound, http.StatusNotFound},
		{"ErrEmptySubmission", inventorydomain.ErrEmptySubmission, http.StatusUnprocessableEntity},
		{"ErrInvalidItemName", inventorydomain.ErrInvalidItemName, http.StatusUnprocessableEntity},
		{"ErrInvalidQuantity", inventorydomain.ErrInvalidQuantity, http.StatusUnprocessableEntity},
		{"ErrInvalidContainerName", inventorydomain.ErrInvalidContainerName, http.StatusUnprocessableEntity},
		{"ErrStorage", inventorydomain.ErrStorage, http.StatusServiceUnavailable},
		{"ErrLabelTransmission", inventorydomain.ErrLabelTransmission, http.StatusBadGateway},
		{"wrapped ErrContainerNotFound", fmt.Errorf("look up container: %w", inventorydomain.ErrContainerNotFound), http.StatusNotFound},
		{"wrapped ErrStorage", fmt.Errorf("%w: disk full", inventorydomain.ErrStorage), http.StatusServiceUnavailable},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, inventorydomain.ErrContainerNotFound)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatal("response body missing 'error' key")
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, inventorydomain.ErrContainerNotFound)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}
