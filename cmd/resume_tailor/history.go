package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/db"
)

var (
	historyLimit int
	historyPDF   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect previously generated résumés",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generations, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one generation and optionally save its PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryGet,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a generation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", db.DefaultListLimit, "Maximum number of generations to list")
	historyGetCmd.Flags().StringVar(&historyPDF, "pdf", "", "Write the stored PDF to this path")
	historyCmd.AddCommand(historyListCmd, historyGetCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func connectHistory(cmd *cobra.Command) (*db.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errNoDatabase
	}
	return openHistory(cmd.Context(), cfg)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyLimit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}
	database, err := connectHistory(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	generations, err := database.ListGenerations(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	return writeGenerations(cmd.OutOrStdout(), generations)
}

func writeGenerations(w io.Writer, generations []db.Generation) error {
	if len(generations) == 0 {
		_, err := fmt.Fprintln(w, "No generations found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTEMPLATE\tPAGES\tCANDIDATE\tCREATED")
	for _, g := range generations {
		candidate := g.Candidate
		if candidate == "" {
			candidate = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", g.ID, g.Template, g.Pages, candidate, g.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runHistoryGet(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid generation id: %w", err)
	}
	database, err := connectHistory(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	g, err := database.GetGeneration(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get generation %s: %w", id, err)
	}

	if historyPDF != "" {
		if len(g.PDF) == 0 {
			return fmt.Errorf("generation %s has no stored PDF", id)
		}
		if err := os.WriteFile(historyPDF, g.PDF, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid generation id: %w", err)
	}
	database, err := connectHistory(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.DeleteGeneration(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete generation %s: %w", id, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted generation %s\n", id)
	return nil
}
