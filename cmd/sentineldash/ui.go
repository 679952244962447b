package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/user/sentineldash/internal/dashboard"
	"github.com/user/sentineldash/internal/tui"
	"github.com/user/sentineldash/internal/util"
	"github.com/user/sentineldash/internal/web"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the terminal dashboard",
	Long: `Launch the interactive terminal dashboard.

Keys:
  f  fetch latest threat intelligence
  p  parse log files
  c  run the correlation workflow
  r  reload every section
  tab / shift+tab  switch table
  q  quit

Workflow keys are ignored while an operation is in flight. When
metrics_addr is configured, /metrics, /api/status and /api/runs are
served on that address while the dashboard runs.`,
	RunE: runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	// The dashboard owns the screen; logs go to the file only.
	util.InitLogger(cfg.LogLevel, nil, cfg.LogFile)

	in := openInstruments()
	defer in.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app := tui.NewApp(cfg.API.BaseURL, in.observers()...).
		OnStart(func(orch *dashboard.Orchestrator) {
			if cfg.MetricsAddr == "" {
				return
			}
			srv := web.NewServer(cfg.MetricsAddr, web.NewHandlers(orch, in.runs, cfg.HistoryLimit), in.metrics.Registry())
			go func() {
				if err := srv.Start(ctx); err != nil {
					util.Error("Introspection server: %v", err)
				}
			}()
		})

	return app.Run(ctx)
}
