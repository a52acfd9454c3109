package pipeline

import (
	"errors"
	"fmt"
)

// ErrEmptyResume is returned when the résumé text has no non-blank lines.
var ErrEmptyResume = errors.New("resume text is empty")

// GenerationError represents a failed document generation. Nothing is
// exported when it is returned.
type GenerationError struct {
	Message  string
	Template string
	Cause    error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (template %s): %v", e.Message, e.Template, e.Cause)
	}
	return fmt.Sprintf("%s (template %s)", e.Message, e.Template)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ExportError represents a failure while storing a finished document
type ExportError struct {
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
