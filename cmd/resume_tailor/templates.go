package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/templates"
)

var templatesJSON bool

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the available style presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listTemplates(cmd.OutOrStdout(), templates.Default(), templatesJSON)
	},
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Print the full presets as JSON")
	rootCmd.AddCommand(templatesCmd)
}

func listTemplates(w io.Writer, registry *templates.Registry, asJSON bool) error {
	presets := registry.Presets()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(presets)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range presets {
		layout := "single column"
		if p.TwoColumn {
			layout = "two column"
		}
		marker := ""
		if p.Name == templates.DefaultTemplate {
			marker = "(default)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, layout, p.Colors.Primary, marker)
	}
	return tw.Flush()
}
