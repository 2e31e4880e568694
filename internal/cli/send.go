package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/trendwire/internal/config"
	"github.com/Dicklesworthstone/trendwire/internal/dialect"
	"github.com/Dicklesworthstone/trendwire/internal/output"
	"github.com/Dicklesworthstone/trendwire/internal/pushwindow"
	"github.com/Dicklesworthstone/trendwire/internal/report"
	"github.com/Dicklesworthstone/trendwire/internal/sender"
	"github.com/Dicklesworthstone/trendwire/internal/version"
)

var (
	sendReportPath string
	sendMode       string
	sendForce      bool
)

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Deliver a report to every configured channel",
		RunE:  runSend,
	}
	cmd.Flags().StringVar(&sendReportPath, "report", "", "report JSON file (defaults to report.path from config)")
	cmd.Flags().StringVar(&sendMode, "mode", "", "report mode: daily, incremental, or current")
	cmd.Flags().BoolVar(&sendForce, "force", false, "ignore the push window gate")
	return cmd
}

func runSend(cmd *cobra.Command, args []string) error {
	f := formatter()

	if !cfg.Notification.Enabled {
		f.Warning("notifications are disabled in the configuration")
		return nil
	}

	r, mode, err := loadReport()
	if err != nil {
		return err
	}

	window, err := pushwindow.New(cfg.PushWindow)
	if err != nil {
		return err
	}
	if !sendForce {
		if ok, reason := window.Allowed(); !ok {
			f.Warning("delivery skipped: %s", reason)
			return nil
		}
	}

	dst, err := config.LoadDestinations(destFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var update *dialect.UpdateNotice
	if cfg.Version.Enabled && cfg.Notification.ShowVersionUpdate {
		update = version.CheckForUpdate(ctx, cfg.Version.URL, cfg.Version.Current)
	}

	results := sender.New(cfg, dst).Deliver(ctx, r, mode, update)
	if len(results) == 0 {
		return fmt.Errorf("no destination channels configured")
	}

	failed := printResults(f, results)
	if failed == 0 {
		if err := window.MarkSent(string(mode)); err != nil {
			f.Warning("could not record delivery: %v", err)
		}
		return nil
	}
	return fmt.Errorf("%d of %d deliveries failed", failed, len(results))
}

// loadReport resolves the report path and mode from flags and config.
func loadReport() (*report.Report, report.Mode, error) {
	path := sendReportPath
	if path == "" {
		path = cfg.Report.Path
	}
	if path == "" {
		return nil, "", fmt.Errorf("no report file given; use --report or set report.path")
	}

	r, err := report.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading report: %w", err)
	}

	modeStr := sendMode
	if modeStr == "" {
		modeStr = cfg.Report.Mode
	}
	mode, err := report.ParseMode(modeStr)
	if err != nil {
		return nil, "", err
	}
	return r, mode, nil
}

func printResults(f *output.Formatter, results []sender.Result) int {
	if jsonOutput {
		type row struct {
			Channel string `json:"channel"`
			Account int    `json:"account"`
			Batches int    `json:"batches"`
			Error   string `json:"error,omitempty"`
		}
		rows := make([]row, 0, len(results))
		failed := 0
		for _, r := range results {
			item := row{Channel: r.Channel, Account: r.Account, Batches: r.Batches}
			if r.Err != nil {
				item.Error = r.Err.Error()
				failed++
			}
			rows = append(rows, item)
		}
		json.NewEncoder(os.Stdout).Encode(rows)
		return failed
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			f.Error("%s account %d: %v", r.Channel, r.Account, r.Err)
		} else {
			f.Success("%s account %d: %d batch(es) delivered", r.Channel, r.Account, r.Batches)
		}
	}
	return failed
}
