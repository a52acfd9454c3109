// Package rendering lays segmented résumé sections out onto paginated PDF pages.
package rendering

import "fmt"

// SurfaceError represents a failure reported by the drawing backend
type SurfaceError struct {
	Message string
	Cause   error
}

func (e *SurfaceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("surface error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("surface error: %s", e.Message)
}

func (e *SurfaceError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
