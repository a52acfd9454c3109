package rendering

// Page geometry shared by every preset, in millimetres.
const (
	Margin       = 20.0
	TopOffset    = 20.0
	BottomMargin = 30.0
	FooterOffset = 10.0
)

// Cursor is the drawing position of one column: the page it is on and the
// baseline of the next element.
type Cursor struct {
	Page int
	Y    float64
}

// Advance moves c down by dy. When the result passes the page break line
// (pageHeight - BottomMargin) the cursor moves to the top of the next page
// and broke is true.
func Advance(c Cursor, dy, pageHeight float64) (next Cursor, broke bool) {
	c.Y += dy
	if c.Y > pageHeight-BottomMargin {
		return Cursor{Page: c.Page + 1, Y: TopOffset}, true
	}
	return c, false
}
