package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/resume"
)

var segmentFormat string

var segmentCmd = &cobra.Command{
	Use:   "segment [resume-file]",
	Short: "Split a résumé into sections and entries",
	Long: `Reads a résumé (PDF, DOCX or plain text, or stdin when no file is given) and prints
the recognised sections with their entries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSegment,
}

func init() {
	segmentCmd.Flags().StringVarP(&segmentFormat, "format", "f", "text", "Output format: text, json or yaml")
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	text, _, err := readResume(cmd.InOrStdin(), firstArg(args))
	if err != nil {
		return err
	}
	return writeOutline(cmd.OutOrStdout(), resume.Parse(text).Outline(), segmentFormat)
}

func writeOutline(w io.Writer, outline resume.Outline, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		observability.NewPrinter(w).PrintOutline(outline)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outline)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(outline); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q: use text, json or yaml", format)
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
