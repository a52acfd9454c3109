package rendering

import (
	"bytes"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/jonathan/resume-tailor/internal/templates"
)

const fontFamily = "Helvetica"

// PDFSurface is a Surface backed by an A4 gofpdf document in millimetres.
type PDFSurface struct {
	pdf *gofpdf.Fpdf

	// Last state set through the Surface, written again after SetPage.
	fill, text templates.Color
	style      FontStyle
	size       float64
}

// NewPDFSurface creates an empty A4 document with the given title.
func NewPDFSurface(title string) *PDFSurface {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(Margin, TopOffset, Margin)
	pdf.SetCreator("resume-tailor", true)
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetFont(fontFamily, "", 10)
	return &PDFSurface{pdf: pdf, style: Regular, size: 10}
}

func (s *PDFSurface) PageSize() (float64, float64) {
	w, h := s.pdf.GetPageSize()
	return w, h
}

func (s *PDFSurface) AddPage() {
	// gofpdf appends relative to the current page; move to the last one first.
	if n := s.pdf.PageCount(); n > 0 && s.pdf.PageNo() != n {
		s.pdf.SetPage(n)
	}
	s.pdf.AddPage()
}

func (s *PDFSurface) SetPage(n int) {
	if n != s.pdf.PageNo() {
		s.pdf.SetPage(n)
		s.restoreState()
	}
}

// restoreState writes the current colours and font into the page just
// selected. gofpdf tracks them per document but emits them into the page
// that was current at the time, and Text only writes a colour when the text
// and fill colours differ.
func (s *PDFSurface) restoreState() {
	s.pdf.SetFillColor(int(s.fill.R), int(s.fill.G), int(s.fill.B))
	s.pdf.SetTextColor(int(s.text.R), int(s.text.G), int(s.text.B))
	s.pdf.SetFont(fontFamily, string(s.style), s.size)
}

func (s *PDFSurface) PageCount() int {
	return s.pdf.PageCount()
}

func (s *PDFSurface) SetFont(style FontStyle, size float64) {
	s.style, s.size = style, size
	s.pdf.SetFont(fontFamily, string(style), size)
}

func (s *PDFSurface) SetTextColor(c templates.Color) {
	s.text = c
	s.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}

func (s *PDFSurface) SetFillColor(c templates.Color) {
	s.fill = c
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func (s *PDFSurface) Text(x, y float64, text string) {
	s.pdf.Text(x, y, EncodeWinAnsi(text))
}

func (s *PDFSurface) FillRect(x, y, w, h float64) {
	s.pdf.Rect(x, y, w, h, "F")
}

func (s *PDFSurface) FillCircle(x, y, r float64) {
	s.pdf.Circle(x, y, r, "F")
}

func (s *PDFSurface) MeasureText(text string) float64 {
	return s.pdf.GetStringWidth(EncodeWinAnsi(text))
}

func (s *PDFSurface) Err() error {
	if err := s.pdf.Error(); err != nil {
		return &SurfaceError{Message: "pdf backend failed", Cause: err}
	}
	return nil
}

// Output writes the finished document to w. The surface must not be drawn
// on afterwards.
func (s *PDFSurface) Output(w io.Writer) error {
	if err := s.pdf.Output(w); err != nil {
		return &SurfaceError{Message: "failed to write pdf", Cause: err}
	}
	return nil
}

// Bytes renders the finished document into memory.
func (s *PDFSurface) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
