package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/queue"
)

var (
	submitTemplate string
	submitName     string
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume render jobs from RabbitMQ",
	Long: `Consumes render jobs from the configured AMQP queue, renders and exports each one, and
publishes status updates to the updates exchange with routing key generation.<id>.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

var submitCmd = &cobra.Command{
	Use:   "submit [resume-file]",
	Short: "Enqueue a render job",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitTemplate, "template", "t", "", "Template name")
	submitCmd.Flags().StringVarP(&submitName, "name", "n", "", "Candidate name")
	workerCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(workerCmd)
}

func dialQueue(cfg *config.Config) (*queue.Conn, error) {
	if cfg.AMQP.URL == "" {
		return nil, fmt.Errorf("AMQP_URL environment variable or amqp.url config is required")
	}
	conn, err := queue.Dial(cfg.AMQP.URL)
	if err != nil {
		return nil, err
	}
	if err := queue.Declare(conn, cfg.AMQP.Queue, cfg.AMQP.Exchange); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	conn, err := dialQueue(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warn("failed to close rabbitmq connection", zap.Error(err))
		}
	}()

	exporter, err := newExporter(ctx, cfg, false)
	if err != nil {
		return err
	}

	var history pipeline.HistoryStore
	database, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
		history = database
	}

	w := queue.NewWorker(conn, cfg.AMQP.Queue, cfg.AMQP.Exchange, pipeline.NewAssembler(exporter, log), history, log)
	log.Info("waiting for render jobs", zap.String("queue", cfg.AMQP.Queue))
	return w.Run(ctx)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	text, _, err := readResume(cmd.InOrStdin(), firstArg(args))
	if err != nil {
		return err
	}

	conn, err := dialQueue(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	job := queue.Job{ID: uuid.New(), Text: text, Template: submitTemplate, CandidateName: submitName}
	if err := queue.Submit(conn, cfg.AMQP.Queue, job); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Submitted job %s\n", job.ID)
	return nil
}
