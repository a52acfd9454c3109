package rendering

import "github.com/jonathan/resume-tailor/internal/resume"

// Gaps inside entry blocks.
const (
	blockTitleGap     = 7.0
	detailGap         = 2.0
	jobGap            = 5.0
	projectSummaryGap = 5.0
	institutionGap    = 10.0
	bulletRadius      = 1.0
)

func (r *renderer) titlePen(col Column) pen {
	return pen{style: Bold, size: r.style.Fonts.Body + 1, color: col.Text}
}

// drawJob draws company line, job title and details. Bulleted details get
// a filled marker and a hanging indent.
func (r *renderer) drawJob(col Column, c Cursor, b resume.Block) Cursor {
	if len(b.Lines) == 0 {
		return c
	}
	c = r.drawWrapped(c, col.X, col.Width, b.Title(), r.titlePen(col), blockTitleGap)
	if sub, ok := b.Subtitle(); ok {
		c = r.drawWrapped(c, col.X, col.Width, sub, r.bodyPen(col.Text), blockTitleGap)
	}
	for _, line := range b.Details() {
		c = r.drawDetail(col, c, line)
	}
	return r.advance(c, jobGap)
}

// drawDetail draws one detail line, as a bullet if it carries a marker.
func (r *renderer) drawDetail(col Column, c Cursor, line string) Cursor {
	p := r.bodyPen(col.Text)
	if !resume.IsBullet(line) {
		c = r.drawLines(c, col.X, r.wrap(line, col.Width, p), p)
		return r.advance(c, detailGap)
	}

	indent := r.style.BulletIndent
	lines := r.wrap(resume.StripBullet(line), col.Width-indent-5, p)
	if len(lines) == 0 {
		return c
	}
	r.at(c)
	r.surf.SetFillColor(col.Bullet)
	r.surf.FillCircle(col.X+2, c.Y-1, bulletRadius)
	c = r.drawLines(c, col.X+indent, lines, p)
	return r.advance(c, detailGap)
}

// drawProject draws the project name and its one-line summary. Further
// lines are not drawn.
func (r *renderer) drawProject(col Column, c Cursor, b resume.Block) Cursor {
	if len(b.Lines) == 0 {
		return c
	}
	c = r.drawWrapped(c, col.X, col.Width, b.Title(), r.titlePen(col), blockTitleGap)
	if sub, ok := b.Subtitle(); ok {
		p := r.bodyPen(col.Text)
		c = r.drawLines(c, col.X, r.wrap(sub, col.Width, p), p)
		c = r.advance(c, projectSummaryGap)
	}
	return c
}

// drawEducationBlock draws the program and the institution line. Further
// lines are not drawn.
func (r *renderer) drawEducationBlock(col Column, c Cursor, b resume.Block) Cursor {
	if len(b.Lines) == 0 {
		return c
	}
	c = r.drawWrapped(c, col.X, col.Width, b.Title(), r.titlePen(col), blockTitleGap)
	if sub, ok := b.Subtitle(); ok {
		c = r.drawWrapped(c, col.X, col.Width, sub, r.bodyPen(col.Text), institutionGap)
	}
	return c
}
