package fetch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Job is the plain text of a job posting.
type Job struct {
	URL         string   `json:"url"`
	Platform    Platform `json:"platform"`
	Text        string   `json:"text"`
	FromBrowser bool     `json:"from_browser"`
}

// JobFetcher fetches job postings over HTTP and, when the page is too thin
// to be the real posting, re-renders it with Render.
type JobFetcher struct {
	Options *Options
	Render  RenderFunc
	log     *zap.Logger
}

// NewJobFetcher creates a fetcher. A nil render disables the browser fallback.
func NewJobFetcher(opts *Options, render RenderFunc, log *zap.Logger) *JobFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JobFetcher{Options: opts, Render: render, log: log}
}

// JobDescription fetches urlStr and returns the posting text.
func (f *JobFetcher) JobDescription(ctx context.Context, urlStr string) (*Job, error) {
	urlStr = strings.TrimSpace(urlStr)
	platform := DetectPlatform(urlStr)
	log := f.log.With(zap.String("url", urlStr), zap.String("platform", string(platform)))

	result, err := URL(ctx, urlStr, f.Options)
	if err != nil {
		return nil, err
	}
	log.Debug("fetched page", zap.Int("bytes", len(result.HTML)))

	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	text, err := ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	job := &Job{URL: urlStr, Platform: platform, Text: text}
	if f.Render != nil && ShouldUseBrowser(text) {
		log.Info("page content too short, rendering in browser", zap.Int("chars", len(text)))
		if rendered, err := f.renderText(ctx, urlStr, content, noise); err != nil {
			log.Warn("browser fallback failed, using HTTP content", zap.Error(err))
		} else if len(rendered) > len(text) {
			job.Text = rendered
			job.FromBrowser = true
		}
	}

	if strings.TrimSpace(job.Text) == "" {
		return nil, &Error{URL: urlStr, Message: "no job description text found"}
	}
	log.Info("extracted job description", zap.Int("chars", len(job.Text)), zap.Bool("browser", job.FromBrowser))
	return job, nil
}

func (f *JobFetcher) renderText(ctx context.Context, urlStr string, content, noise []string) (string, error) {
	html, err := f.Render(ctx, urlStr)
	if err != nil {
		return "", err
	}
	text, err := ExtractMainText(html, content, noise...)
	if err != nil {
		return "", fmt.Errorf("failed to extract rendered content: %w", err)
	}
	return text, nil
}
