package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/sentineldash/internal/dashboard"
	"github.com/user/sentineldash/internal/metrics"
	"github.com/user/sentineldash/internal/storage"
	"github.com/user/sentineldash/internal/util"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile  string
	logLevel string
	apiURL   string
	cfg      *util.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "sentineldash",
	Short: "Security telemetry dashboard",
	Long: `SentinelDash is a terminal dashboard for a security telemetry backend.
It shows threat-intelligence indicators, SSH and Apache log events,
correlation alerts and analytics charts, and lets you trigger:
- threat-intel fetches
- log parsing
- the full correlation workflow

Finished operations are journaled locally and exported as prometheus metrics.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.sentineldash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "",
		"backend origin (default http://127.0.0.1:8000)")

	// Add subcommands
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add shell completion
	rootCmd.AddCommand(completionCmd)
}

func initConfig() {
	var err error
	cfg, err = util.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if apiURL != "" {
		cfg.API.BaseURL = util.NormalizeBaseURL(apiURL)
	}

	// Initialize logger
	util.InitLogger(cfg.LogLevel, os.Stderr, cfg.LogFile)
}

// instruments opens the run journal and the metrics collector. The journal
// is optional: when it cannot be opened the dashboard still runs.
type instruments struct {
	db      *storage.DB
	runs    *storage.RunStorage
	metrics *metrics.Metrics
}

func openInstruments() *instruments {
	in := &instruments{metrics: metrics.NewMetrics()}

	db, err := storage.Initialize(cfg.DataDir)
	if err != nil {
		util.Warn("Run journal disabled: %v", err)
		return in
	}
	in.db = db
	in.runs = storage.NewRunStorage(db)
	return in
}

func (in *instruments) observers() []dashboard.Observer {
	obs := []dashboard.Observer{in.metrics}
	if in.runs != nil {
		obs = append(obs, in.runs)
	}
	return obs
}

func (in *instruments) Close() {
	if in.db != nil {
		in.db.Close()
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sentineldash version %s\n", version)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for sentineldash.

To load completions:

Bash:
  $ source <(sentineldash completion bash)

Zsh:
  $ source <(sentineldash completion zsh)

Fish:
  $ sentineldash completion fish | source

PowerShell:
  PS> sentineldash completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		default:
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		}
	},
}
