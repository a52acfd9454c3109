package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/templates"
)

var errNoDatabase = errors.New("DATABASE_URL environment variable or database_url config is required")

// readResume ingests the résumé at path, or stdin when path is empty or "-".
func readResume(in io.Reader, path string) (string, *ingestion.Metadata, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return ingestion.Ingest("stdin", data)
	}
	return ingestion.IngestFile(path)
}

// readJob returns the trimmed contents of a job description file.
func readJob(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", llm.ErrMissingJobDescription
	}
	return text, nil
}

func checkJobFlags(jobPath, jobURL string) error {
	if jobPath == "" && jobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided")
	}
	if jobPath != "" && jobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}
	if jobURL != "" {
		return fetch.ValidateURL(jobURL)
	}
	return nil
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	llmCfg := llm.DefaultConfig()
	if cfg.Model != "" {
		llmCfg = llmCfg.WithAllModels(cfg.Model)
	}
	return llm.NewClient(ctx, llmCfg, cfg.APIKey)
}

func newFetcher(cfg *config.Config, log *zap.Logger) *fetch.JobFetcher {
	var render fetch.RenderFunc
	if cfg.UseBrowser {
		render = fetch.Browser(fetch.DefaultBrowserTimeout, log)
	}
	return fetch.NewJobFetcher(fetch.DefaultOptions(), render, log)
}

// newExporter writes documents to the output directory, and also to S3 when
// a bucket is configured. With localCopy unset and S3 enabled, documents
// only go to the bucket.
func newExporter(ctx context.Context, cfg *config.Config, localCopy bool) (pipeline.Exporter, error) {
	var exporters pipeline.MultiExporter
	if localCopy || !cfg.S3.Enabled() {
		files, err := pipeline.NewFileExporter(cfg.OutputDir)
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, files)
	}
	if cfg.S3.Enabled() {
		client, err := pipeline.NewS3Client(ctx, pipeline.S3Options{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, &pipeline.S3Exporter{Client: client, Bucket: cfg.S3.Bucket, Prefix: cfg.S3.Prefix})
	}
	if len(exporters) == 1 {
		return exporters[0], nil
	}
	return exporters, nil
}

// openHistory connects to the generation history database. It returns nil
// without error when no database is configured.
func openHistory(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// progressPrinter prints pipeline progress to stderr in verbose mode.
func progressPrinter(w io.Writer) pipeline.ProgressCallback {
	if !verbose {
		return nil
	}
	printer := observability.NewPrinter(w)
	return printer.PrintProgress
}

// chooseTemplate asks the user to pick a template from the registry.
func chooseTemplate(registry *templates.Registry, current string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("interactive template selection needs a terminal")
	}

	items := append(registry.Names(), pipeline.AllTemplates)
	cursor := 0
	for i, name := range items {
		if strings.EqualFold(name, current) {
			cursor = i
		}
	}

	prompt := promptui.Select{
		Label:     "Template",
		Items:     items,
		CursorPos: cursor,
	}
	_, choice, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("template selection cancelled: %w", err)
	}
	return choice, nil
}
