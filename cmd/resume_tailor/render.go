package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
)

var (
	renderTemplate    string
	renderOut         string
	renderName        string
	renderInteractive bool
)

var renderCmd = &cobra.Command{
	Use:   "render [resume-file]",
	Short: "Render a résumé as a PDF",
	Long: `Segments a résumé and renders it with a style preset. Use --template all to render
every preset. Documents are written to --out, and uploaded when S3 is configured.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template name, or \"all\" (defaults to config template)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output directory (defaults to config output_dir)")
	renderCmd.Flags().StringVarP(&renderName, "name", "n", "", "Candidate name for the document title and header")
	renderCmd.Flags().BoolVarP(&renderInteractive, "interactive", "i", false, "Choose the template from a list")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cmd.Flags().Changed("template") {
		cfg.Template = renderTemplate
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = renderOut
	}

	text, _, err := readResume(cmd.InOrStdin(), firstArg(args))
	if err != nil {
		return err
	}

	exporter, err := newExporter(ctx, cfg, true)
	if err != nil {
		return err
	}
	assembler := pipeline.NewAssembler(exporter, log, pipeline.WithProgress(progressPrinter(cmd.ErrOrStderr())))

	if renderInteractive {
		if cfg.Template, err = chooseTemplate(assembler.Registry(), cfg.Template); err != nil {
			return err
		}
	}

	req := pipeline.Request{Text: text, Template: cfg.Template, CandidateName: renderName}
	var docs []*pipeline.Result
	if strings.EqualFold(cfg.Template, pipeline.AllTemplates) {
		docs, err = assembler.GenerateAll(ctx, req)
	} else {
		var doc *pipeline.Result
		if doc, err = assembler.Generate(ctx, req); doc != nil {
			docs = []*pipeline.Result{doc}
		}
	}
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintDocuments(docs)
	return nil
}
