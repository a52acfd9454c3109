package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/resume"
)

func TestPrintOutline(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	text := "Jane Doe\nPROFILE:\nEngineer\nSKILLS:\nGo\nSQL\nRust\nC\nJava\nZig\nPython"
	p.PrintOutline(resume.Parse(text).Outline())
	output := buf.String()

	assert.Contains(t, output, "SEGMENTED SECTIONS")
	assert.Contains(t, output, "PROFILE")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Java")
	assert.NotContains(t, output, "Zig")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintOutline_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintOutline(resume.Outline{})
	assert.Contains(t, buf.String(), "(no content)")
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\n• "+strings.Repeat("é", 80))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume(ingestion.NewMetadata("Jane Doe", "cv.pdf", ingestion.FormatPDF))
	output := buf.String()
	assert.Contains(t, output, "RESUME INPUT")
	assert.Contains(t, output, "cv.pdf")
	assert.Contains(t, output, "pdf")

	buf.Reset()
	p.PrintResume(nil)
	assert.Empty(t, buf.String())
}

func TestPrintJob(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJob(&fetch.Job{URL: "https://boards.greenhouse.io/acme/jobs/1", Platform: fetch.PlatformGreenhouse, Text: "Go", FromBrowser: true})
	output := buf.String()
	assert.Contains(t, output, "JOB POSTING")
	assert.Contains(t, output, "greenhouse")
	assert.Contains(t, output, "headless browser")

	buf.Reset()
	p.PrintJob(nil)
	assert.Empty(t, buf.String())
}

func TestPrintDocuments(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDocuments([]*pipeline.Result{
		{Template: "classic", Pages: 1, Data: make([]byte, 2048), Location: "out/Professional_Resume_classic.pdf"},
		{Template: "modern", Pages: 2, Data: make([]byte, 10)},
	})
	output := buf.String()

	assert.Contains(t, output, "GENERATED DOCUMENTS")
	assert.Contains(t, output, "1 page, 2 KB")
	assert.Contains(t, output, "2 pages, 1 KB")
	assert.Contains(t, output, "Professional_Resume_classic.pdf")

	buf.Reset()
	p.PrintDocuments(nil)
	assert.Empty(t, buf.String())
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgress(pipeline.ProgressEvent{Step: pipeline.StepRender, Message: "Rendered 1 pages"})
	assert.Equal(t, "[render] Rendered 1 pages\n", buf.String())
}
