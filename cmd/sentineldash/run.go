package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/user/sentineldash/internal/api"
	"github.com/user/sentineldash/internal/dashboard"
	"github.com/user/sentineldash/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run [intel|parse|correlate]",
	Short: "Run one workflow without the dashboard",
	Long: `Run one dashboard workflow against the backend and print its status lines.

  intel      fetch latest indicators, then reload intel and analytics
  parse      parse log files, then reload logs and analytics
  correlate  run the full refresh and reload every section`,
	ValidArgs: []string{"intel", "parse", "correlate"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:      runWorkflow,
}

var workflowActions = map[string]dashboard.Action{
	"intel":     dashboard.ActionFetchIntel,
	"parse":     dashboard.ActionParseLogs,
	"correlate": dashboard.ActionRunCorrelation,
}

// printView captures like report.Capture and echoes every status line.
type printView struct {
	*report.Capture

	mu  sync.Mutex
	out io.Writer
}

func (v *printView) SetStatus(message string, isError bool) {
	v.Capture.SetStatus(message, isError)

	style := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	if isError {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, style.Render(message))
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	in := openInstruments()
	defer in.Close()

	view := &printView{Capture: report.NewCapture(), out: cmd.OutOrStdout()}
	status := dashboard.NewStatusReporter(view)
	client := api.NewClient(cfg.API.BaseURL, status)
	orch := dashboard.New(client, view, status, in.observers()...)
	defer orch.Close()

	var err error
	switch action := workflowActions[args[0]]; action {
	case dashboard.ActionFetchIntel:
		err = orch.RunFetchIntel(cmd.Context())
	case dashboard.ActionParseLogs:
		err = orch.RunParseLogs(cmd.Context())
	default:
		err = orch.RunCorrelationWorkflow(cmd.Context())
	}
	orch.Wait()
	if err != nil {
		return fmt.Errorf("%s failed: %w", args[0], err)
	}

	t := view.Totals()
	fmt.Fprintf(cmd.OutOrStdout(), "Totals: ssh=%d apache=%d alerts=%d\n", t.SSHEvents, t.ApacheEvents, t.Alerts)
	return nil
}
