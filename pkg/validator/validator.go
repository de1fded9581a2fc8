package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/treasuretrove/ledger/pkg/httpx"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Free text that is only whitespace carries nothing to record.
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
	})
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name → human-readable message.
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if !isValidationErrors(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	return errors.As(err, target)
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "Must contain more than whitespace"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "min":
		if e.Kind() == reflect.Int {
			return fmt.Sprintf("Must be at least %s", e.Param())
		}
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		if e.Kind() == reflect.Int {
			return fmt.Sprintf("Must be at most %s", e.Param())
		}
		return fmt.Sprintf("Maximum length is %s characters", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// WriteValidationError writes err as {"error": "Validation failed", "fields": {...}}.
func WriteValidationError(w http.ResponseWriter, status int, err error) {
	httpx.JSON(w, status, map[string]any{
		"error":  "Validation failed",
		"fields": FormatValidationErrors(err),
	})
}

// ValidateRequest decodes the JSON request body into T, validates it, and
// writes an appropriate error response if either step fails.
// Returns (parsedStruct, true) on success or (nil, false) on failure.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if err := Validate(&req); err != nil {
		WriteValidationError(w, http.StatusUnprocessableEntity, err)
		return nil, false
	}
	return &req, true
}
