// Package main provides the resume_tailor command line tool and API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/logger"
)

var (
	configPath string
	verbose    bool
	jsonLogs   bool
)

var rootCmd = &cobra.Command{
	Use:   "resume_tailor",
	Short: "Tailor résumés to job postings and render them as PDFs",
	Long: `resume_tailor segments plain-text résumés into sections, renders them with one of several
style presets, and uses a language model to tailor a résumé to a job description.

Settings come from --config, RESUME_TAILOR_* environment variables and a .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print progress and debug logs")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, with the root flags
// taking priority for logging.
func loadConfig() (*config.Config, error) {
	v := config.New()
	flags := rootCmd.PersistentFlags()
	if err := v.BindPFlag("log.debug", flags.Lookup("verbose")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("log.json", flags.Lookup("json-logs")); err != nil {
		return nil, err
	}

	cfg, err := config.Load(v, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	merged := cfg.MergeWithDefaults(config.DefaultConfig())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// setup loads the configuration and builds the logger every command uses.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}
