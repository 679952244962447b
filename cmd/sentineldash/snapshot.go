package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/sentineldash/internal/report"
)

var snapshotOutput string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write a markdown snapshot of the dashboard",
	Long: `Load every dashboard section once and write a markdown report.

Tables are written as markdown tables and charts as Mermaid blocks.
Sections that fail to load are marked as not loaded; the command then
exits with an error after writing the report.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "",
		"output file, '-' for stdout (default: report_output_dir)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	in := openInstruments()
	defer in.Close()

	gen := report.NewGenerator(cfg.API.BaseURL, in.observers())
	data, genErr := gen.Generate(cmd.Context())

	switch snapshotOutput {
	case "":
		path, err := report.WriteMarkdownFile(data, cfg.ReportOutputDir)
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", path)
	case "-":
		fmt.Fprintln(cmd.OutOrStdout(), report.FormatMarkdown(data))
	default:
		if err := os.WriteFile(snapshotOutput, []byte(report.FormatMarkdown(data)), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", snapshotOutput)
	}

	if genErr != nil {
		return fmt.Errorf("snapshot incomplete: %w", genErr)
	}
	return nil
}
