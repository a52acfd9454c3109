package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/prompts"
)

// Input validation errors, returned before any request is made.
var (
	ErrMissingResume         = errors.New("please upload your resume first")
	ErrMissingJobDescription = errors.New("please paste the job description first")
)

func validateInputs(resumeText, jobDescription string) error {
	if strings.TrimSpace(resumeText) == "" {
		return ErrMissingResume
	}
	if strings.TrimSpace(jobDescription) == "" {
		return ErrMissingJobDescription
	}
	return nil
}

func buildRequest(task Task, systemKey, userKey, resumeText, jobDescription string) (Request, error) {
	system, err := prompts.Get(prompts.Tailoring, systemKey)
	if err != nil {
		return Request{}, err
	}
	template, err := prompts.Get(prompts.Tailoring, userKey)
	if err != nil {
		return Request{}, err
	}
	prompt, err := prompts.Render(template, map[string]string{
		"JobDescription": strings.TrimSpace(jobDescription),
		"Resume":         strings.TrimSpace(resumeText),
	})
	if err != nil {
		return Request{}, err
	}
	return Request{Task: task, System: system, Prompt: prompt}, nil
}

// Tailor rewrites resumeText for jobDescription and returns plain résumé
// text ready for segmentation.
func Tailor(ctx context.Context, client Client, resumeText, jobDescription string) (string, error) {
	if err := validateInputs(resumeText, jobDescription); err != nil {
		return "", err
	}
	req, err := buildRequest(TaskTailor, "tailor-system", "tailor-user", resumeText, jobDescription)
	if err != nil {
		return "", err
	}

	out, err := client.GenerateContent(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to generate tailored resume: %w", err)
	}
	out = CleanPlainText(out)
	if out == "" {
		return "", fmt.Errorf("failed to generate tailored resume: empty response")
	}
	return out, nil
}

// AnalyzeKeywords streams an ATS keyword comparison of resumeText against
// jobDescription, calling onChunk as text arrives.
func AnalyzeKeywords(ctx context.Context, client Client, resumeText, jobDescription string, onChunk func(string) error) (string, error) {
	if err := validateInputs(resumeText, jobDescription); err != nil {
		return "", err
	}
	req, err := buildRequest(TaskAnalyze, "analyze-system", "analyze-user", resumeText, jobDescription)
	if err != nil {
		return "", err
	}

	out, err := client.StreamContent(ctx, req, onChunk)
	if err != nil {
		return out, fmt.Errorf("failed to analyze keywords: %w", err)
	}
	return out, nil
}

// CleanJobPosting asks the model to strip page boilerplate from scraped
// job posting text.
func CleanJobPosting(ctx context.Context, client Client, text string) (string, error) {
	template, err := prompts.Get(prompts.Tailoring, "clean-job-posting")
	if err != nil {
		return "", err
	}
	prompt, err := prompts.Render(template, map[string]string{"Text": text})
	if err != nil {
		return "", err
	}

	out, err := client.GenerateContent(ctx, Request{Task: TaskCleanJob, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to clean job posting: %w", err)
	}
	return CleanPlainText(out), nil
}
