package rendering

import (
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/templates"
)

type op struct {
	Kind  string // text, rect, circle
	Page  int
	X, Y  float64
	W, H  float64
	Text  string
	Style FontStyle
	Size  float64
	Color templates.Color
}

// fakeSurface records drawing operations on an A4 page. Text width is
// 0.2mm per rune per point of font size.
type fakeSurface struct {
	pages   int
	current int
	style   FontStyle
	size    float64
	text    templates.Color
	fill    templates.Color
	ops     []op
	err     error
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{}
}

func (f *fakeSurface) PageSize() (float64, float64) { return 210, 297 }

func (f *fakeSurface) AddPage() {
	f.pages++
	f.current = f.pages
}

func (f *fakeSurface) SetPage(n int) {
	if n < 1 || n > f.pages {
		panic("page out of range")
	}
	f.current = n
}

func (f *fakeSurface) PageCount() int { return f.pages }

func (f *fakeSurface) SetFont(style FontStyle, size float64) {
	f.style, f.size = style, size
}

func (f *fakeSurface) SetTextColor(c templates.Color) { f.text = c }
func (f *fakeSurface) SetFillColor(c templates.Color) { f.fill = c }

func (f *fakeSurface) Text(x, y float64, s string) {
	f.ops = append(f.ops, op{Kind: "text", Page: f.current, X: x, Y: y, Text: s, Style: f.style, Size: f.size, Color: f.text})
}

func (f *fakeSurface) FillRect(x, y, w, h float64) {
	f.ops = append(f.ops, op{Kind: "rect", Page: f.current, X: x, Y: y, W: w, H: h, Color: f.fill})
}

func (f *fakeSurface) FillCircle(x, y, r float64) {
	f.ops = append(f.ops, op{Kind: "circle", Page: f.current, X: x, Y: y, W: r, Color: f.fill})
}

func (f *fakeSurface) MeasureText(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * f.size * 0.2
}

func (f *fakeSurface) Err() error { return f.err }

func (f *fakeSurface) texts() []op {
	return f.filter("text")
}

func (f *fakeSurface) filter(kind string) []op {
	var out []op
	for _, o := range f.ops {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

func (f *fakeSurface) find(text string) (op, bool) {
	for _, o := range f.ops {
		if o.Kind == "text" && o.Text == text {
			return o, true
		}
	}
	return op{}, false
}
