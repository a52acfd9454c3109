package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/resume"
	"github.com/jonathan/resume-tailor/internal/templates"
)

// Vertical gaps that do not vary by preset.
const (
	nameGap           = 10.0
	contactGap        = 15.0
	sidebarContactGap = 5.0
	singleHeadingGap  = 10.0
	sidebarHeadingGap = 8.0
	summaryTitleGap   = 8.0
	footerFontSize    = 8.0
	experienceLabel   = "WORK EXPERIENCE"
)

// Column describes where a column sits on the page and the colors used in it.
type Column struct {
	X, Width float64

	Heading templates.Color // section labels and the name
	Title   templates.Color // summary title line
	Text    templates.Color
	Bullet  templates.Color

	// HeadingGap is the space below a section label.
	HeadingGap float64
}

// Layout reports the outcome of a render.
type Layout struct {
	Pages int
	// Main and Sidebar are the final cursors of each column. Sidebar is
	// zero for single-column presets.
	Main    Cursor
	Sidebar Cursor
}

type pen struct {
	style FontStyle
	size  float64
	color templates.Color
}

type renderer struct {
	surf  Surface
	style templates.StylePreset
	pageW float64
	pageH float64
}

// Render draws doc onto surf using style and stamps page footers. surf is
// expected to be empty.
func Render(surf Surface, doc *resume.Document, style templates.StylePreset) (*Layout, error) {
	if doc == nil || doc.Sections == nil {
		return nil, &RenderError{Message: "no document to render"}
	}
	if style.TwoColumn && style.Sidebar == nil {
		return nil, &RenderError{Message: fmt.Sprintf("preset %q is two-column but has no sidebar", style.Name)}
	}

	r := &renderer{surf: surf, style: style}
	r.pageW, r.pageH = surf.PageSize()
	r.ensurePage(1)

	layout := &Layout{}
	if style.TwoColumn {
		layout.Sidebar, layout.Main = r.twoColumn(doc)
	} else {
		layout.Main = r.singleColumn(doc)
	}
	r.footer()
	layout.Pages = surf.PageCount()

	if err := surf.Err(); err != nil {
		return nil, &RenderError{Message: "drawing failed", Cause: err}
	}
	return layout, nil
}

func (r *renderer) singleColumn(doc *resume.Document) Cursor {
	c := r.style.Colors
	col := Column{
		X:          Margin,
		Width:      r.pageW - 2*Margin,
		Heading:    c.Primary,
		Title:      c.Secondary,
		Text:       c.Text,
		Bullet:     c.Accent,
		HeadingGap: singleHeadingGap,
	}
	cur := Cursor{Page: 1, Y: TopOffset}

	cur = r.drawHeader(col, cur, doc.Sections.Lines(resume.SectionHeader))
	cur = r.drawSummary(col, cur, doc)
	cur = r.drawExperience(col, cur, doc)
	cur = r.drawProjects(col, cur, doc)
	cur = r.drawSkills(col, cur, doc)
	cur = r.drawEducation(col, cur, doc)
	cur = r.drawList(col, cur, doc, resume.SectionCertifications)
	cur = r.drawList(col, cur, doc, resume.SectionAwards)
	return cur
}

func (r *renderer) sidebarWidth() float64 {
	return r.pageW * r.style.Sidebar.Width
}

// twoColumn draws the sidebar and main columns. Each column keeps its own
// cursor and breaks pages independently.
func (r *renderer) twoColumn(doc *resume.Document) (Cursor, Cursor) {
	c := r.style.Colors
	sb := r.style.Sidebar
	sidebarW := r.sidebarWidth()
	mainLeft := Margin + sidebarW + Margin/2

	side := Column{
		X:          Margin,
		Width:      sidebarW - Margin,
		Heading:    sb.Text,
		Title:      sb.Text,
		Text:       sb.Text,
		Bullet:     c.Accent,
		HeadingGap: sidebarHeadingGap,
	}
	main := Column{
		X:          mainLeft,
		Width:      r.pageW - mainLeft - Margin,
		Heading:    c.Primary,
		Title:      c.Secondary,
		Text:       c.Text,
		Bullet:     c.Accent,
		HeadingGap: sidebarHeadingGap,
	}

	s := Cursor{Page: 1, Y: TopOffset}
	s = r.drawSidebarHeader(side, s, doc.Sections.Lines(resume.SectionHeader))
	s = r.drawEducation(side, s, doc)
	s = r.drawSkills(side, s, doc)
	s = r.drawList(side, s, doc, resume.SectionCertifications)
	s = r.drawList(side, s, doc, resume.SectionAwards)

	m := Cursor{Page: 1, Y: TopOffset}
	m = r.drawSummary(main, m, doc)
	m = r.drawExperience(main, m, doc)
	m = r.drawProjects(main, m, doc)
	return s, m
}

// ensurePage creates pages up to n, painting page backgrounds as they appear.
func (r *renderer) ensurePage(n int) {
	for r.surf.PageCount() < n {
		r.surf.AddPage()
		r.decorate(r.surf.PageCount())
	}
}

func (r *renderer) decorate(page int) {
	if r.style.TwoColumn {
		r.surf.SetFillColor(r.style.Sidebar.Background)
		r.surf.FillRect(0, 0, r.sidebarWidth()+Margin, r.pageH)
		return
	}
	if page == 1 && r.style.HeaderHeight > 0 {
		r.surf.SetFillColor(r.style.Colors.LightGray)
		r.surf.FillRect(0, 0, r.pageW, r.style.HeaderHeight)
	}
}

func (r *renderer) at(c Cursor) {
	r.ensurePage(c.Page)
	r.surf.SetPage(c.Page)
}

func (r *renderer) advance(c Cursor, dy float64) Cursor {
	next, _ := Advance(c, dy, r.pageH)
	return next
}

func (r *renderer) text(c Cursor, x float64, s string, p pen) {
	r.at(c)
	r.surf.SetFont(p.style, p.size)
	r.surf.SetTextColor(p.color)
	r.surf.Text(x, c.Y, s)
}

func (r *renderer) wrap(s string, width float64, p pen) []string {
	r.surf.SetFont(p.style, p.size)
	return Wrap(s, width, r.surf.MeasureText)
}

// drawLines draws each line at x, advancing by the line height after each
// one so long paragraphs break across pages line by line.
func (r *renderer) drawLines(c Cursor, x float64, lines []string, p pen) Cursor {
	for _, line := range lines {
		r.text(c, x, line, p)
		c = r.advance(c, r.style.LineHeight)
	}
	return c
}

// drawWrapped draws s wrapped to width. The first line sits at the cursor;
// gap is added after the last line.
func (r *renderer) drawWrapped(c Cursor, x, width float64, s string, p pen, gap float64) Cursor {
	lines := r.wrap(s, width, p)
	for i, line := range lines {
		if i > 0 {
			c = r.advance(c, r.style.LineHeight)
		}
		r.text(c, x, line, p)
	}
	return r.advance(c, gap)
}

func (r *renderer) bodyPen(color templates.Color) pen {
	return pen{style: Regular, size: r.style.Fonts.Body, color: color}
}

func (r *renderer) drawLabel(col Column, c Cursor, label string) Cursor {
	r.text(c, col.X, label, pen{style: Bold, size: r.style.Fonts.SectionHeader, color: col.Heading})
	return r.advance(c, col.HeadingGap)
}

// drawHeader draws the name followed by a single contact line joined with
// bullets.
func (r *renderer) drawHeader(col Column, c Cursor, lines []string) Cursor {
	if len(lines) == 0 {
		return c
	}
	r.text(c, col.X, lines[0], pen{style: Bold, size: r.style.Fonts.Name, color: col.Heading})
	c = r.advance(c, nameGap)

	if len(lines) > 1 {
		contact := strings.Join(lines[1:], " • ")
		c = r.drawWrapped(c, col.X, col.Width, contact, r.bodyPen(col.Text), contactGap)
	}
	return c
}

// drawSidebarHeader draws the name and then each contact line on its own.
func (r *renderer) drawSidebarHeader(col Column, c Cursor, lines []string) Cursor {
	if len(lines) == 0 {
		return c
	}
	r.text(c, col.X, lines[0], pen{style: Bold, size: r.style.Fonts.Name, color: col.Heading})
	c = r.advance(c, nameGap)

	if len(lines) > 1 {
		c = r.advance(c, sidebarContactGap)
		p := r.bodyPen(col.Text)
		for _, line := range lines[1:] {
			c = r.drawLines(c, col.X, r.wrap(line, col.Width, p), p)
		}
		c = r.advance(c, r.style.SectionSpacing)
	}
	return c
}

// drawSummary draws the section label, a title line and the remaining
// lines as one wrapped paragraph.
func (r *renderer) drawSummary(col Column, c Cursor, doc *resume.Document) Cursor {
	sec, ok := doc.Sections.Get(resume.SectionSummary)
	if !ok || len(sec.Lines) == 0 {
		return c
	}
	c = r.drawLabel(col, c, sec.Label())

	r.text(c, col.X, sec.Lines[0], pen{style: Bold, size: r.style.Fonts.Title, color: col.Title})
	c = r.advance(c, summaryTitleGap)

	if rest := sec.Lines[1:]; len(rest) > 0 {
		p := r.bodyPen(col.Text)
		c = r.drawLines(c, col.X, r.wrap(strings.Join(rest, " "), col.Width, p), p)
	}
	return r.advance(c, r.style.SectionSpacing)
}

func (r *renderer) drawExperience(col Column, c Cursor, doc *resume.Document) Cursor {
	blocks := doc.Blocks[resume.SectionExperience]
	if len(blocks) == 0 {
		return c
	}
	c = r.drawLabel(col, c, experienceLabel)
	for _, b := range blocks {
		c = r.drawJob(col, c, b)
	}
	return r.advance(c, r.style.SectionSpacing)
}

func (r *renderer) drawProjects(col Column, c Cursor, doc *resume.Document) Cursor {
	blocks := doc.Blocks[resume.SectionProjects]
	if len(blocks) == 0 {
		return c
	}
	c = r.drawLabel(col, c, string(resume.SectionProjects))
	for _, b := range blocks {
		c = r.drawProject(col, c, b)
	}
	return r.advance(c, r.style.SectionSpacing)
}

func (r *renderer) drawEducation(col Column, c Cursor, doc *resume.Document) Cursor {
	blocks := doc.Blocks[resume.SectionEducation]
	if len(blocks) == 0 {
		return c
	}
	c = r.drawLabel(col, c, string(resume.SectionEducation))
	for _, b := range blocks {
		c = r.drawEducationBlock(col, c, b)
	}
	return r.advance(c, r.style.SectionSpacing)
}

// drawSkills joins every skills line into one wrapped paragraph.
func (r *renderer) drawSkills(col Column, c Cursor, doc *resume.Document) Cursor {
	lines := doc.Sections.Lines(resume.SectionSkills)
	if len(lines) == 0 {
		return c
	}
	c = r.drawLabel(col, c, string(resume.SectionSkills))
	p := r.bodyPen(col.Text)
	c = r.drawLines(c, col.X, r.wrap(strings.Join(lines, " "), col.Width, p), p)
	return r.advance(c, r.style.SectionSpacing)
}

// drawList draws a section as one item per line, honouring bullet markers.
func (r *renderer) drawList(col Column, c Cursor, doc *resume.Document, name resume.SectionName) Cursor {
	lines := doc.Sections.Lines(name)
	if len(lines) == 0 {
		return c
	}
	c = r.drawLabel(col, c, string(name))
	for _, line := range lines {
		c = r.drawDetail(col, c, line)
	}
	return r.advance(c, r.style.SectionSpacing)
}

func (r *renderer) footer() {
	n := r.surf.PageCount()
	for i := 1; i <= n; i++ {
		r.surf.SetPage(i)
		r.surf.SetFont(Italic, footerFontSize)
		r.surf.SetTextColor(r.style.Colors.Secondary)
		label := fmt.Sprintf("Page %d of %d", i, n)
		r.surf.Text(r.pageW-Margin-r.surf.MeasureText(label), r.pageH-FooterOffset, label)
	}
}
