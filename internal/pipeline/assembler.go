// Package pipeline turns tailored résumé text into finished, exported PDF documents.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/resume"
	"github.com/jonathan/resume-tailor/internal/templates"
)

const generationFailed = "failed to generate document"

// Canvas is a drawing surface that can serialize itself once drawing is done.
type Canvas interface {
	rendering.Surface
	Bytes() ([]byte, error)
}

// CanvasFactory creates a fresh canvas for one generation.
type CanvasFactory func(title string) Canvas

func newPDFCanvas(title string) Canvas {
	return rendering.NewPDFSurface(title)
}

// Request is a single generation request.
type Request struct {
	// ID names the generation; a new one is assigned when nil.
	ID       uuid.UUID
	Text     string
	Template string
	// CandidateName is used for the document title and export paths. When
	// empty the first HEADER line is used.
	CandidateName string
}

// Result describes a generated document.
type Result struct {
	ID        uuid.UUID            `json:"id"`
	Template  string               `json:"template"`
	Filename  string               `json:"filename"`
	Pages     int                  `json:"pages"`
	Sections  []resume.SectionName `json:"sections"`
	Location  string               `json:"location,omitempty"`
	Candidate string               `json:"candidate,omitempty"`
	Data      []byte               `json:"-"`
}

// Filename returns the export file name for a template.
func Filename(template string) string {
	return fmt.Sprintf("Professional_Resume_%s.pdf", template)
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithRegistry replaces the built-in template registry.
func WithRegistry(r *templates.Registry) Option {
	return func(a *Assembler) { a.registry = r }
}

// WithCanvas replaces the PDF canvas factory.
func WithCanvas(f CanvasFactory) Option {
	return func(a *Assembler) { a.newCanvas = f }
}

// WithProgress registers a progress callback. Calls are serialised, so the
// callback need not be safe for concurrent use even under GenerateAll.
func WithProgress(cb ProgressCallback) Option {
	return func(a *Assembler) { a.onProgress = cb }
}

// Assembler runs segmentation, block splitting, rendering and export for
// a request. It holds no per-request state; each generation draws on its
// own canvas.
type Assembler struct {
	registry   *templates.Registry
	exporter   Exporter
	newCanvas  CanvasFactory
	log        *zap.Logger
	onProgress ProgressCallback
	progressMu sync.Mutex
}

// NewAssembler creates an Assembler. exporter may be nil, in which case
// Generate only builds documents in memory.
func NewAssembler(exporter Exporter, log *zap.Logger, opts ...Option) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Assembler{
		registry:  templates.Default(),
		exporter:  exporter,
		newCanvas: newPDFCanvas,
		log:       log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the template registry used by the assembler.
func (a *Assembler) Registry() *templates.Registry {
	return a.registry
}

func (a *Assembler) emit(step, message string, id uuid.UUID) {
	if a.onProgress != nil {
		a.progressMu.Lock()
		defer a.progressMu.Unlock()
		a.onProgress(ProgressEvent{
			Step:     step,
			Category: CategoryDocument,
			Message:  message,
			RunID:    id.String(),
		})
	}
}

// Build renders the request into memory without exporting it.
func (a *Assembler) Build(req Request) (res *Result, err error) {
	style := a.registry.Lookup(req.Template)

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &GenerationError{Message: generationFailed, Template: style.Name, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyResume
	}

	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	doc := resume.Parse(req.Text)
	if doc.Empty() {
		return nil, ErrEmptyResume
	}
	a.emit(StepSegment, fmt.Sprintf("Segmented %d sections", len(doc.Sections.Names())), id)

	candidate := req.CandidateName
	if candidate == "" {
		if hdr := doc.Sections.Lines(resume.SectionHeader); len(hdr) > 0 {
			candidate = hdr[0]
		}
	}

	canvas := a.newCanvas(documentTitle(candidate))
	layout, err := rendering.Render(canvas, doc, style)
	if err != nil {
		return nil, &GenerationError{Message: generationFailed, Template: style.Name, Cause: err}
	}
	data, err := canvas.Bytes()
	if err != nil {
		return nil, &GenerationError{Message: generationFailed, Template: style.Name, Cause: err}
	}
	a.emit(StepRender, fmt.Sprintf("Rendered %d pages with template %s", layout.Pages, style.Name), id)

	return &Result{
		ID:        id,
		Template:  style.Name,
		Filename:  Filename(style.Name),
		Pages:     layout.Pages,
		Sections:  doc.Sections.Names(),
		Candidate: candidate,
		Data:      data,
	}, nil
}

// Generate builds the document and hands it to the exporter. Nothing is
// exported unless rendering fully succeeded.
func (a *Assembler) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	res, err := a.Build(req)
	if err != nil {
		a.log.Warn("generation failed", zap.String("template", req.Template), zap.Error(err))
		return nil, err
	}

	if a.exporter != nil {
		loc, err := a.exporter.Export(ctx, Artifact{
			ID:       res.ID,
			Filename: res.Filename,
			Owner:    res.Candidate,
			Data:     res.Data,
		})
		if err != nil {
			a.log.Warn("export failed", zap.String("id", res.ID.String()), zap.Error(err))
			return nil, &GenerationError{Message: "failed to export document", Template: res.Template, Cause: err}
		}
		res.Location = loc
		a.emit(StepExport, fmt.Sprintf("Exported %s", loc), res.ID)
	}

	a.log.Info("document generated",
		zap.String("id", res.ID.String()),
		zap.String("template", res.Template),
		zap.Int("pages", res.Pages),
		zap.Int("bytes", len(res.Data)),
		zap.String("location", res.Location),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

// GenerateAll generates the request once per registered template, in
// parallel. Results are ordered by template name. Any failure fails the
// whole batch.
func (a *Assembler) GenerateAll(ctx context.Context, req Request) ([]*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyResume
	}

	names := a.registry.Names()
	results := make([]*Result, len(names))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			r := req
			r.ID = uuid.Nil
			r.Template = name
			res, err := a.Generate(gCtx, r)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func documentTitle(candidate string) string {
	if candidate == "" {
		return "Professional Resume"
	}
	return candidate + " - Resume"
}
