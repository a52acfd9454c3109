package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
)

// Step names reported in progress events.
const (
	StepIngest  = "ingest_resume"
	StepJob     = "job_description"
	StepTailor  = "tailor"
	StepAnalyze = "analyze_keywords"
	StepSegment = "segment"
	StepRender  = "render"
	StepExport  = "export"
	StepHistory = "history"
)

// Progress categories.
const (
	CategoryIngestion = "ingestion"
	CategoryLLM       = "llm"
	CategoryDocument  = "document"
	CategoryHistory   = "history"
)

// AllTemplates as RunOptions.Template renders every registered template.
const AllTemplates = "all"

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// HistoryStore persists finished generations.
type HistoryStore interface {
	SaveGeneration(ctx context.Context, g *db.Generation) error
}

// RunOptions holds one tailoring run's inputs.
type RunOptions struct {
	// ResumePath is read with the ingestion package. When empty ResumeText
	// is used as is.
	ResumePath string
	ResumeText string

	// JobURL is fetched when JobDescription is empty.
	JobDescription string
	JobURL         string

	Template      string
	CandidateName string

	// Analyze also streams a keyword analysis, concurrently with tailoring.
	Analyze         bool
	OnAnalysisChunk func(string) error

	OnProgress ProgressCallback
}

// RunResult is everything a run produced.
type RunResult struct {
	Resume       *ingestion.Metadata `json:"resume"`
	Job          *fetch.Job          `json:"job,omitempty"`
	TailoredText string              `json:"tailored_text"`
	Analysis     string              `json:"analysis,omitempty"`
	Documents    []*Result           `json:"documents"`
}

// Runner tailors a résumé to a job description and generates the PDFs.
type Runner struct {
	llm       llm.Client
	assembler *Assembler
	fetcher   *fetch.JobFetcher
	history   HistoryStore
	log       *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithFetcher enables job descriptions given as URLs.
func WithFetcher(f *fetch.JobFetcher) RunnerOption {
	return func(r *Runner) { r.fetcher = f }
}

// WithHistory saves every generated document.
func WithHistory(h HistoryStore) RunnerOption {
	return func(r *Runner) { r.history = h }
}

// NewRunner creates a Runner.
func NewRunner(client llm.Client, assembler *Assembler, log *zap.Logger, opts ...RunnerOption) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{llm: client, assembler: assembler, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes ingest, job description, tailoring (and optional analysis)
// then document generation. History failures are logged, not returned.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	emit := func(step, category, message string, content any) {
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressEvent{Step: step, Category: category, Message: message, Content: content})
		}
	}

	resumeText, meta, err := loadResume(opts)
	if err != nil {
		return nil, err
	}
	emit(StepIngest, CategoryIngestion, fmt.Sprintf("Loaded resume (%d characters)", meta.Chars), meta)

	jobText, job, err := r.jobDescription(ctx, opts)
	if err != nil {
		return nil, err
	}
	emit(StepJob, CategoryIngestion, fmt.Sprintf("Job description ready (%d characters)", len([]rune(jobText))), nil)

	result := &RunResult{Resume: meta, Job: job}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tailored, err := llm.Tailor(gCtx, r.llm, resumeText, jobText)
		if err != nil {
			return err
		}
		mu.Lock()
		result.TailoredText = tailored
		mu.Unlock()
		emit(StepTailor, CategoryLLM, "Generated tailored resume", nil)
		return nil
	})
	if opts.Analyze {
		g.Go(func() error {
			onChunk := opts.OnAnalysisChunk
			if onChunk == nil {
				onChunk = func(string) error { return nil }
			}
			analysis, err := llm.AnalyzeKeywords(gCtx, r.llm, resumeText, jobText, onChunk)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Analysis = analysis
			mu.Unlock()
			emit(StepAnalyze, CategoryLLM, "Keyword analysis complete", nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	req := Request{Text: result.TailoredText, Template: opts.Template, CandidateName: opts.CandidateName}
	if strings.EqualFold(opts.Template, AllTemplates) {
		result.Documents, err = r.assembler.GenerateAll(ctx, req)
	} else {
		var doc *Result
		doc, err = r.assembler.Generate(ctx, req)
		if doc != nil {
			result.Documents = []*Result{doc}
		}
	}
	if err != nil {
		return nil, err
	}
	for _, doc := range result.Documents {
		emit(StepRender, CategoryDocument, fmt.Sprintf("Generated %s (%d pages)", doc.Filename, doc.Pages), doc)
	}

	r.saveHistory(ctx, result, meta.Hash, emit)
	return result, nil
}

func loadResume(opts RunOptions) (string, *ingestion.Metadata, error) {
	if opts.ResumePath != "" {
		text, meta, err := ingestion.IngestFile(opts.ResumePath)
		if err != nil {
			return "", nil, err
		}
		return text, meta, nil
	}

	text := ingestion.CleanText(opts.ResumeText)
	if text == "" {
		return "", nil, llm.ErrMissingResume
	}
	return text, ingestion.NewMetadata(text, "", ingestion.FormatText), nil
}

func (r *Runner) jobDescription(ctx context.Context, opts RunOptions) (string, *fetch.Job, error) {
	if text := strings.TrimSpace(opts.JobDescription); text != "" {
		return text, nil, nil
	}
	if opts.JobURL == "" {
		return "", nil, llm.ErrMissingJobDescription
	}
	if r.fetcher == nil {
		return "", nil, fmt.Errorf("job URL given but fetching is not configured")
	}

	job, err := r.fetcher.JobDescription(ctx, opts.JobURL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch job description: %w", err)
	}
	return job.Text, job, nil
}

func (r *Runner) saveHistory(ctx context.Context, result *RunResult, resumeHash string, emit func(string, string, string, any)) {
	if r.history == nil {
		return
	}
	for _, doc := range result.Documents {
		err := r.history.SaveGeneration(ctx, &db.Generation{
			ID:           doc.ID,
			Template:     doc.Template,
			Filename:     doc.Filename,
			Pages:        doc.Pages,
			Candidate:    doc.Candidate,
			ResumeHash:   resumeHash,
			TailoredText: result.TailoredText,
			Location:     doc.Location,
			PDF:          doc.Data,
		})
		if err != nil {
			r.log.Warn("failed to save generation", zap.String("id", doc.ID.String()), zap.Error(err))
			continue
		}
		emit(StepHistory, CategoryHistory, fmt.Sprintf("Saved generation %s", doc.ID), nil)
	}
}
