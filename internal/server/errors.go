// Package server provides the HTTP API for tailoring and rendering résumés.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/pipeline"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a feature that is not configured on this server.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		fieldErrs      validator.ValidationErrors
		unavailableErr *ErrUnavailable
		extractionErr  *ingestion.ExtractionError
		fetchErr       *fetch.Error
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs),
		errors.Is(err, llm.ErrMissingResume), errors.Is(err, llm.ErrMissingJobDescription):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrEmptyResume):
		return http.StatusUnprocessableEntity
	case errors.As(err, &extractionErr):
		if extractionErr.Kind == ingestion.KindUnsupported {
			return http.StatusUnsupportedMediaType
		}
		return http.StatusUnprocessableEntity
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &unavailableErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts validator errors into a single ErrValidation
// naming the first failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed %q", fe.Tag())}
	}
	return err
}
