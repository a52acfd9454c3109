package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the segment, render, tailor and analyze endpoints.
Tailoring needs an API key, and the /generations endpoints need a database.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	exporter, err := newExporter(ctx, cfg, false)
	if err != nil {
		return err
	}
	opts := []server.Option{server.WithFetcher(newFetcher(cfg, log))}

	if cfg.APIKey != "" {
		client, err := newLLMClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		opts = append(opts, server.WithLLM(client))
	} else {
		log.Warn("no API key configured, /tailor and /analyze are disabled")
	}

	history, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	if history != nil {
		defer history.Close()
		opts = append(opts, server.WithHistory(history))
	} else {
		log.Info("no database configured, generation history is disabled")
	}

	srv := server.New(server.Config{
		Port:      cfg.Server.Port,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	}, pipeline.NewAssembler(exporter, log), log, opts...)
	defer srv.Close()

	log.Info("starting API server", zap.Int("port", cfg.Server.Port), zap.Bool("s3", cfg.S3.Enabled()))
	return srv.Start(ctx)
}
