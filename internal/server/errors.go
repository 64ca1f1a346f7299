package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a feature the server was started without.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return e.Feature + " is not available on this server"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		inputErr      *analysis.InputError
		schemaErr     *schemas.ValidationError
		validationErr *ErrValidation
		tooLarge      *http.MaxBytesError
		lowContent    *analysis.LowContentError
		extraction    *analysis.ExtractionError
		unavailable   *ErrUnavailable
	)
	switch {
	case errors.As(err, &inputErr), errors.As(err, &schemaErr), errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &lowContent), errors.As(err, &extraction):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBody renders err for a JSON error response. Schema failures list the
// offending fields and low-content failures carry a suggestion.
func errorBody(err error) map[string]any {
	body := map[string]any{"error": err.Error()}

	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		fields := make([]map[string]string, 0, len(schemaErr.Errors))
		for _, fe := range schemaErr.Errors {
			fields = append(fields, map[string]string{"field": fe.Field, "message": fe.Message})
		}
		body["fields"] = fields
	}

	var lowContent *analysis.LowContentError
	if errors.As(err, &lowContent) {
		body["suggestion"] = lowContent.Suggestion()
	}

	if HTTPStatus(err) >= http.StatusInternalServerError {
		body["error"] = "internal server error"
	}
	return body
}
