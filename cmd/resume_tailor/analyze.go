package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/llm"
)

var (
	analyzeResume     string
	analyzeJob        string
	analyzeJobURL     string
	analyzeUseBrowser bool
	analyzeAPIKey     string
	analyzeModel      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare a résumé's keywords against a job description",
	Long:  `Streams an ATS keyword analysis of a résumé against a job description to stdout.`,
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the résumé (PDF, DOCX or TXT)")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to a job description text file (mutually exclusive with --job-url)")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Model name to use for every request")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if analyzeResume == "" {
		return fmt.Errorf("--resume is required")
	}
	if err := checkJobFlags(analyzeJob, analyzeJobURL); err != nil {
		return err
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = analyzeUseBrowser
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = analyzeAPIKey
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = analyzeModel
	}

	resumeText, _, err := readResume(cmd.InOrStdin(), analyzeResume)
	if err != nil {
		return err
	}
	jobText, err := loadJob(ctx, cfg, log, analyzeJob, analyzeJobURL)
	if err != nil {
		return err
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	out := cmd.OutOrStdout()
	_, err = llm.AnalyzeKeywords(ctx, client, resumeText, jobText, func(chunk string) error {
		_, err := fmt.Fprint(out, chunk)
		return err
	})
	_, _ = fmt.Fprintln(out)
	return err
}

// loadJob reads the job description from a file or fetches it from a URL.
func loadJob(ctx context.Context, cfg *config.Config, log *zap.Logger, path, url string) (string, error) {
	if path != "" {
		return readJob(path)
	}
	job, err := newFetcher(cfg, log).JobDescription(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job description: %w", err)
	}
	return job.Text, nil
}
