// Package cli implements the trendwire command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/trendwire/internal/config"
	"github.com/Dicklesworthstone/trendwire/internal/output"
	"github.com/Dicklesworthstone/trendwire/internal/version"
)

var (
	cfgFile  string
	destFile string
	cfg      *config.Config

	// Global JSON output flag - inherited by all subcommands
	jsonOutput bool

	// Global color control flag - inherited by all subcommands
	noColor bool

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "trendwire",
	Short: "Deliver trending-topic reports to notification channels",
	Long: `TrendWire partitions trending-topic reports into byte-bounded batches
and delivers them to Feishu, DingTalk, WeCom, Telegram, ntfy, Bark,
Slack, and email.

Quick Start:
  trendwire send --report today.json        # Deliver a report everywhere
  trendwire preview --report today.json     # Inspect batches without sending
  trendwire doctor                          # Validate configuration
  trendwire watch --report today.json       # Redeliver whenever the file changes`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version.Current,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		cfg, err = config.Load(cfgFile)
		return err
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/trendwire/config.toml)")
	rootCmd.PersistentFlags().StringVar(&destFile, "destinations", "", "destinations file (default is trendwire.yaml next to the config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// formatter builds the CLI output formatter, honoring --no-color and
// non-TTY output.
func formatter() *output.Formatter {
	color := !noColor && isatty.IsTerminal(os.Stdout.Fd())
	return output.New(os.Stdout, color)
}
