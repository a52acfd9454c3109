// Package ingestion turns uploaded résumé files into plain text.
package ingestion

import "fmt"

// ErrorKind classifies an extraction failure.
type ErrorKind int

const (
	// KindUnsupported means the file format cannot be read.
	KindUnsupported ErrorKind = iota
	// KindNoText means the file was read but held no extractable text.
	KindNoText
	// KindRead means the file could not be opened or decoded.
	KindRead
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindNoText:
		return "no_text"
	case KindRead:
		return "read"
	default:
		return "unknown"
	}
}

// ExtractionError is returned when text cannot be obtained from a file.
type ExtractionError struct {
	Kind    ErrorKind
	Format  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func unsupported(mime string) *ExtractionError {
	return &ExtractionError{
		Kind:    KindUnsupported,
		Format:  mime,
		Message: "Unsupported file type. Please use PDF, DOCX, or TXT files.",
	}
}

func noText(format Format) *ExtractionError {
	msg := "Could not extract text from the file. Please try a different format."
	if format == FormatPDF {
		msg = "Could not extract text from the file. Please try a different format or ensure the PDF contains selectable text."
	}
	return &ExtractionError{Kind: KindNoText, Format: string(format), Message: msg}
}

func readFailure(format Format, msg string, cause error) *ExtractionError {
	return &ExtractionError{Kind: KindRead, Format: string(format), Message: msg, Cause: cause}
}
