package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
)

var (
	tailorResume     string
	tailorJob        string
	tailorJobURL     string
	tailorTemplate   string
	tailorName       string
	tailorOut        string
	tailorAnalyze    bool
	tailorUseBrowser bool
	tailorAPIKey     string
	tailorModel      string
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a résumé to a job description and render it",
	Long: `Rewrites a résumé for a job description with the language model, then renders the
result. The job description comes from a file (--job) or a posting URL (--job-url).
Each generated document is saved to the history database when one is configured.`,
	RunE: runTailor,
}

func init() {
	tailorCmd.Flags().StringVarP(&tailorResume, "resume", "r", "", "Path to the résumé (PDF, DOCX or TXT)")
	tailorCmd.Flags().StringVarP(&tailorJob, "job", "j", "", "Path to a job description text file (mutually exclusive with --job-url)")
	tailorCmd.Flags().StringVar(&tailorJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	tailorCmd.Flags().StringVarP(&tailorTemplate, "template", "t", "", "Template name, or \"all\"")
	tailorCmd.Flags().StringVarP(&tailorName, "name", "n", "", "Candidate name")
	tailorCmd.Flags().StringVarP(&tailorOut, "out", "o", "", "Output directory")
	tailorCmd.Flags().BoolVar(&tailorAnalyze, "analyze", false, "Also print an ATS keyword analysis")
	tailorCmd.Flags().BoolVar(&tailorUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	tailorCmd.Flags().StringVar(&tailorAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	tailorCmd.Flags().StringVar(&tailorModel, "model", "", "Model name to use for every request")
	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if tailorResume == "" {
		return fmt.Errorf("--resume is required")
	}
	if err := checkJobFlags(tailorJob, tailorJobURL); err != nil {
		return err
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("template") {
		cfg.Template = tailorTemplate
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = tailorOut
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = tailorUseBrowser
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = tailorAPIKey
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = tailorModel
	}

	var jobText string
	if tailorJob != "" {
		if jobText, err = readJob(tailorJob); err != nil {
			return err
		}
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	exporter, err := newExporter(ctx, cfg, true)
	if err != nil {
		return err
	}

	opts := []pipeline.RunnerOption{pipeline.WithFetcher(newFetcher(cfg, log))}
	history, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	if history != nil {
		defer history.Close()
		opts = append(opts, pipeline.WithHistory(history))
	}

	runner := pipeline.NewRunner(client, pipeline.NewAssembler(exporter, log), log, opts...)
	result, err := runner.Run(ctx, pipeline.RunOptions{
		ResumePath:     tailorResume,
		JobDescription: jobText,
		JobURL:         tailorJobURL,
		Template:       cfg.Template,
		CandidateName:  tailorName,
		Analyze:        tailorAnalyze,
		OnProgress:     progressPrinter(cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	if verbose {
		printer.PrintResume(result.Resume)
		printer.PrintJob(result.Job)
	}
	printer.PrintDocuments(result.Documents)
	if result.Analysis != "" {
		_, _ = fmt.Fprintf(out, "\nKeyword analysis\n\n%s\n", result.Analysis)
	}
	return nil
}
