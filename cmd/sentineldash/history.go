package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/user/sentineldash/internal/model"
	"github.com/user/sentineldash/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently finished operations",
	Long:  "Show the most recent dashboard operations recorded in the local run journal.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0,
		"number of runs to show (default: history_limit)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	successStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("46")).
		Bold(true)

	failureStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	db, err := storage.Initialize(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open run journal: %w", err)
	}
	defer db.Close()

	limit := historyLimit
	if limit <= 0 {
		limit = cfg.HistoryLimit
	}

	runs := storage.NewRunStorage(db)
	recent, err := runs.GetRecent(limit)
	if err != nil {
		return err
	}
	total, err := runs.Count()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("SentinelDash History"))
	fmt.Fprintf(out, "%s %d of %d\n\n", labelStyle.Render("Showing"), len(recent), total)

	if len(recent) == 0 {
		fmt.Fprintln(out, labelStyle.Render("No operations recorded yet"))
		return nil
	}

	for _, run := range recent {
		outcome := successStyle.Render(run.Outcome)
		if run.Outcome == model.OutcomeFailure {
			outcome = failureStyle.Render(run.Outcome)
		}
		fmt.Fprintf(out, "  %s  %-10s %8s  %s",
			labelStyle.Render(run.StartedAt.Local().Format("2006-01-02 15:04:05")),
			run.Operation,
			run.Duration.Round(time.Millisecond).String(),
			outcome)
		if run.Error != "" {
			fmt.Fprintf(out, "  %s", labelStyle.Render(run.Error))
		}
		fmt.Fprintln(out)
	}

	return nil
}
