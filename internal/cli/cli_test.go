package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/trendwire/internal/config"
	"github.com/Dicklesworthstone/trendwire/internal/report"
)

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"send": false, "preview": false, "doctor": false, "watch": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func writeReport(t *testing.T, r *report.Report) string {
	t.Helper()
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	runErr := fn()
	w.Close()
	out, _ := io.ReadAll(r)
	return string(out), runErr
}

func TestLoadReportRequiresPath(t *testing.T) {
	cfg = config.Default()
	sendReportPath = ""
	sendMode = ""
	t.Cleanup(func() { sendReportPath = ""; sendMode = "" })

	if _, _, err := loadReport(); err == nil {
		t.Fatal("expected error without a report path")
	}
}

func TestLoadReportResolvesModeFromConfig(t *testing.T) {
	cfg = config.Default()
	cfg.Report.Mode = "incremental"
	sendReportPath = writeReport(t, &report.Report{TotalNewCount: 1})
	sendMode = ""
	t.Cleanup(func() { sendReportPath = ""; sendMode = "" })

	_, mode, err := loadReport()
	if err != nil {
		t.Fatalf("loadReport: %v", err)
	}
	if mode != report.ModeIncremental {
		t.Errorf("mode = %q", mode)
	}
}

func TestLoadReportRejectsBadMode(t *testing.T) {
	cfg = config.Default()
	sendReportPath = writeReport(t, &report.Report{})
	sendMode = "hourly"
	t.Cleanup(func() { sendReportPath = ""; sendMode = "" })

	if _, _, err := loadReport(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestPreviewJSONOutput(t *testing.T) {
	// Build the command before assigning flag variables: flag registration
	// resets the shared package-level vars to their defaults.
	cmd := newPreviewCmd()
	cfg = config.Default()
	sendReportPath = writeReport(t, &report.Report{
		Stats: []report.WordStat{{
			Word:   "ai",
			Count:  3,
			Titles: []report.TitleEntry{{Title: "one"}, {Title: "two"}},
		}},
	})
	sendMode = ""
	previewChannel = "telegram"
	previewTUI = false
	jsonOutput = true
	t.Cleanup(func() {
		sendReportPath = ""
		jsonOutput = false
		previewChannel = "telegram"
	})

	out, err := captureStdout(t, func() error {
		return runPreview(cmd, nil)
	})
	if err != nil {
		t.Fatalf("runPreview: %v", err)
	}

	var rows []struct {
		Batch int    `json:"batch"`
		Bytes int    `json:"bytes"`
		Body  string `json:"body"`
	}
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d batches", len(rows))
	}
	if !strings.Contains(rows[0].Body, "one") || rows[0].Bytes != len(rows[0].Body) {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestPreviewEmptyReportSentinel(t *testing.T) {
	cmd := newPreviewCmd()
	cfg = config.Default()
	sendReportPath = writeReport(t, &report.Report{})
	sendMode = "current"
	previewChannel = "wework"
	jsonOutput = false
	t.Cleanup(func() { sendReportPath = ""; sendMode = ""; previewChannel = "telegram" })

	out, err := captureStdout(t, func() error {
		return runPreview(cmd, nil)
	})
	if err != nil {
		t.Fatalf("runPreview: %v", err)
	}
	if !strings.Contains(out, "📭") {
		t.Errorf("sentinel missing from preview:\n%s", out)
	}
}
