// Package pushwindow gates deliveries to a daily time range and
// optionally to a single delivery per calendar day, tracked through
// small JSON record files.
package pushwindow

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dicklesworthstone/trendwire/internal/config"
)

// recordRetentionDays bounds how long sent-records are kept around.
const recordRetentionDays = 7

// Record is the on-disk marker for a completed delivery.
type Record struct {
	SentAt string `json:"sent_at"`
	Mode   string `json:"mode,omitempty"`
}

// Window evaluates whether a delivery may run right now.
type Window struct {
	enabled    bool
	start      int // minutes since midnight
	end        int
	oncePerDay bool
	recordDir  string

	now func() time.Time
}

// New builds a Window from configuration. A disabled window allows
// everything and never records.
func New(cfg config.PushWindowConfig) (*Window, error) {
	w := &Window{
		enabled:    cfg.Enabled,
		oncePerDay: cfg.OncePerDay,
		recordDir:  cfg.RecordDir,
		now:        time.Now,
	}
	if !cfg.Enabled {
		return w, nil
	}

	var err error
	if w.start, err = config.ParseClock(cfg.Start); err != nil {
		return nil, fmt.Errorf("push window start: %w", err)
	}
	if w.end, err = config.ParseClock(cfg.End); err != nil {
		return nil, fmt.Errorf("push window end: %w", err)
	}
	if w.recordDir == "" {
		w.recordDir = filepath.Join(os.TempDir(), "trendwire", "push-records")
	}
	return w, nil
}

// Allowed reports whether a delivery may run now, with a human-readable
// reason when it may not.
func (w *Window) Allowed() (bool, string) {
	if !w.enabled {
		return true, ""
	}

	now := w.now()
	minute := now.Hour()*60 + now.Minute()
	if !w.inRange(minute) {
		return false, fmt.Sprintf("outside push window %s-%s",
			clockString(w.start), clockString(w.end))
	}

	if w.oncePerDay && w.sentOn(now) {
		return false, "already delivered today"
	}
	return true, ""
}

// inRange handles windows that wrap past midnight (start > end).
func (w *Window) inRange(minute int) bool {
	if w.start <= w.end {
		return minute >= w.start && minute <= w.end
	}
	return minute >= w.start || minute <= w.end
}

// MarkSent records a completed delivery for today and prunes old records.
func (w *Window) MarkSent(mode string) error {
	if !w.enabled || !w.oncePerDay {
		return nil
	}
	now := w.now()

	if err := os.MkdirAll(w.recordDir, 0o755); err != nil {
		return fmt.Errorf("creating record dir: %w", err)
	}

	rec := Record{
		SentAt: now.Format(time.RFC3339),
		Mode:   mode,
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(w.recordPath(now), data, 0o644); err != nil {
		return fmt.Errorf("writing push record: %w", err)
	}

	w.prune(now)
	return nil
}

func clockString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (w *Window) recordPath(t time.Time) string {
	return filepath.Join(w.recordDir, "sent-"+t.Format("2006-01-02")+".json")
}

func (w *Window) sentOn(t time.Time) bool {
	_, err := os.Stat(w.recordPath(t))
	return err == nil
}

// prune deletes records older than the retention horizon.
func (w *Window) prune(now time.Time) {
	entries, err := os.ReadDir(w.recordDir)
	if err != nil {
		return
	}
	cutoff := now.AddDate(0, 0, -recordRetentionDays).Format("2006-01-02")
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "sent-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		day := strings.TrimSuffix(strings.TrimPrefix(name, "sent-"), ".json")
		if day < cutoff {
			if err := os.Remove(filepath.Join(w.recordDir, name)); err != nil {
				slog.Warn("failed to prune push record", "file", name, "error", err)
			}
		}
	}
}
