package rendering

import "github.com/jonathan/resume-tailor/internal/templates"

// FontStyle selects the Helvetica variant used for subsequent text.
type FontStyle string

const (
	Regular FontStyle = ""
	Bold    FontStyle = "B"
	Italic  FontStyle = "I"
)

// Surface is a paginated drawing target. Pages are numbered from 1.
// Implementations are not safe for concurrent use; each render needs its
// own Surface.
type Surface interface {
	PageSize() (width, height float64)
	// AddPage appends a page and makes it current.
	AddPage()
	// SetPage makes an existing page current.
	SetPage(n int)
	PageCount() int

	SetFont(style FontStyle, size float64)
	SetTextColor(c templates.Color)
	SetFillColor(c templates.Color)

	// Text draws s with its baseline at y.
	Text(x, y float64, s string)
	FillRect(x, y, w, h float64)
	FillCircle(x, y, r float64)
	// MeasureText returns the width of s in the current font.
	MeasureText(s string) float64

	// Err returns the first error the surface ran into, if any.
	Err() error
}
