// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/resume"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of lines shown per section
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// PrintOutline outputs the segmented sections, their sizes and the first
// lines of each.
func (p *Printer) PrintOutline(outline resume.Outline) {
	if len(outline.Sections) == 0 {
		p.printBox("SEGMENTED SECTIONS", "(no content)")
		return
	}

	var sb strings.Builder
	for _, s := range outline.Sections {
		sb.WriteString(fmt.Sprintf("%-16s %3d lines", s.Label, len(s.Lines)))
		if len(s.Blocks) > 0 {
			sb.WriteString(fmt.Sprintf(", %d blocks", len(s.Blocks)))
		}
		sb.WriteString("\n")
	}
	p.printBox("SEGMENTED SECTIONS", sb.String())

	for _, s := range outline.Sections {
		sb.Reset()
		count := min(len(s.Lines), maxItemsToShow)
		for _, line := range s.Lines[:count] {
			sb.WriteString(line + "\n")
		}
		if len(s.Lines) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(s.Lines)-maxItemsToShow))
		}
		p.printBox(s.Label, sb.String())
	}
}

// PrintResume outputs what was ingested from the résumé file.
func (p *Printer) PrintResume(meta *ingestion.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	if meta.Filename != "" {
		sb.WriteString(fmt.Sprintf("File:     %s\n", meta.Filename))
	}
	sb.WriteString(fmt.Sprintf("Format:   %s\n", meta.Format))
	sb.WriteString(fmt.Sprintf("Chars:    %d\n", meta.Chars))
	sb.WriteString(fmt.Sprintf("SHA-256:  %s\n", meta.Hash))
	p.printBox("RESUME INPUT", sb.String())
}

// PrintJob outputs a summary of a fetched job posting.
func (p *Printer) PrintJob(job *fetch.Job) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:      %s\n", job.URL))
	sb.WriteString(fmt.Sprintf("Platform: %s\n", job.Platform))
	sb.WriteString(fmt.Sprintf("Chars:    %d\n", utf8.RuneCountInString(job.Text)))
	if job.FromBrowser {
		sb.WriteString("Rendered with headless browser\n")
	}
	p.printBox("JOB POSTING", sb.String())
}

// PrintDocuments outputs one line per generated document.
func (p *Printer) PrintDocuments(docs []*pipeline.Result) {
	if len(docs) == 0 {
		return
	}

	var sb strings.Builder
	for _, d := range docs {
		pages := "pages"
		if d.Pages == 1 {
			pages = "page"
		}
		sb.WriteString(fmt.Sprintf("%-15s %d %s, %d KB\n", d.Template, d.Pages, pages, (len(d.Data)+1023)/1024))
		if d.Location != "" {
			sb.WriteString(fmt.Sprintf("  → %s\n", d.Location))
		}
	}
	p.printBox("GENERATED DOCUMENTS", sb.String())
}

// PrintProgress outputs a single progress event.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	fmt.Fprintf(p.out, "[%s] %s\n", event.Step, event.Message)
}
