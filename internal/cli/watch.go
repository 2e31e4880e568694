package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/trendwire/internal/config"
	"github.com/Dicklesworthstone/trendwire/internal/pushwindow"
	"github.com/Dicklesworthstone/trendwire/internal/sender"
	"github.com/Dicklesworthstone/trendwire/internal/watcher"
)

var watchDebounce time.Duration

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the report file and redeliver on every change",
		RunE:  runWatch,
	}
	cmd.Flags().StringVar(&sendReportPath, "report", "", "report JSON file (defaults to report.path from config)")
	cmd.Flags().StringVar(&sendMode, "mode", "", "report mode: daily, incremental, or current")
	cmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "quiet period before redelivering")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	f := formatter()

	path := sendReportPath
	if path == "" {
		path = cfg.Report.Path
	}
	if path == "" {
		return fmt.Errorf("no report file given; use --report or set report.path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	sendReportPath = abs

	deliver := func() {
		r, mode, err := loadReport()
		if err != nil {
			slog.Error("reload failed", "path", abs, "error", err)
			return
		}
		window, err := pushwindow.New(cfg.PushWindow)
		if err != nil {
			slog.Error("push window misconfigured", "error", err)
			return
		}
		if ok, reason := window.Allowed(); !ok {
			slog.Info("delivery skipped", "reason", reason)
			return
		}
		dst, err := config.LoadDestinations(destFile)
		if err != nil {
			slog.Error("destinations reload failed", "error", err)
			return
		}
		results := sender.New(cfg, dst).Deliver(cmd.Context(), r, mode, nil)
		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
			}
		}
		if failed == 0 && len(results) > 0 {
			if err := window.MarkSent(string(mode)); err != nil {
				slog.Warn("could not record delivery", "error", err)
			}
		}
		slog.Info("watch delivery finished", "channels", len(results), "failed", failed)
	}

	w, err := watcher.New(func(events []watcher.Event) {
		for _, ev := range events {
			if ev.Path == abs {
				deliver()
				return
			}
		}
	}, watcher.WithDebounceDuration(watchDebounce))
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory so the report can be replaced atomically.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	f.Textln("Watching %s (debounce %s). Press Ctrl+C to stop.", abs, watchDebounce)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-cmd.Context().Done():
	}
	return nil
}
