package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dicklesworthstone/trendwire/internal/dialect"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Notification.Enabled {
		t.Error("notifications should default to enabled")
	}
	if cfg.Notification.MessageBatchSize != DefaultBatchSize {
		t.Errorf("MessageBatchSize = %d, want %d", cfg.Notification.MessageBatchSize, DefaultBatchSize)
	}
	if cfg.Report.Mode != "daily" {
		t.Errorf("Mode = %q, want daily", cfg.Report.Mode)
	}
	if cfg.Notification.FeishuSeparator != dialect.DefaultSectionSeparator {
		t.Errorf("FeishuSeparator = %q", cfg.Notification.FeishuSeparator)
	}
}

func TestLoadTOMLOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[report]
path = "/var/data/report.json"
mode = "incremental"

[notification]
message_batch_size = 2000
batch_send_interval = 3
reverse_content_order = true
ntfy_batch_size = 1000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Report.Mode != "incremental" {
		t.Errorf("Mode = %q", cfg.Report.Mode)
	}
	if cfg.Notification.MessageBatchSize != 2000 {
		t.Errorf("MessageBatchSize = %d", cfg.Notification.MessageBatchSize)
	}
	if !cfg.Notification.ReverseOrder {
		t.Error("reverse_content_order not applied")
	}
	if got := cfg.Notification.SendInterval(); got != 3*time.Second {
		t.Errorf("SendInterval = %v", got)
	}
	if got := cfg.Notification.BatchSize(dialect.Ntfy); got != 1000 {
		t.Errorf("ntfy batch size = %d, want 1000", got)
	}
	// Unset per-channel sizes keep platform defaults.
	if got := cfg.Notification.BatchSize(dialect.Feishu); got != DefaultFeishuBatchSize {
		t.Errorf("feishu batch size = %d, want %d", got, DefaultFeishuBatchSize)
	}
}

func TestLoadEnvBeatsTOML(t *testing.T) {
	path := writeConfig(t, `
[notification]
message_batch_size = 2000
`)
	t.Setenv("TRENDWIRE_BATCH_SIZE", "500")
	t.Setenv("TRENDWIRE_REPORT_MODE", "current")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notification.MessageBatchSize != 500 {
		t.Errorf("env override lost: %d", cfg.Notification.MessageBatchSize)
	}
	if cfg.Report.Mode != "current" {
		t.Errorf("Mode = %q", cfg.Report.Mode)
	}
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	path := writeConfig(t, `
[report]
mode = "weekly"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestLoadRejectsBadPushWindow(t *testing.T) {
	path := writeConfig(t, `
[push_window]
enabled = true
start = "25:99"
end = "23:00"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid clock")
	}
}

func TestBatchSizePerDialect(t *testing.T) {
	n := Default().Notification
	cases := map[dialect.Dialect]int{
		dialect.DingTalk:   DefaultDingTalkBatchSize,
		dialect.Feishu:     DefaultFeishuBatchSize,
		dialect.Ntfy:       DefaultNtfyBatchSize,
		dialect.Bark:       DefaultBarkBatchSize,
		dialect.Slack:      DefaultSlackBatchSize,
		dialect.Telegram:   DefaultBatchSize,
		dialect.WeWork:     DefaultBatchSize,
		dialect.WeWorkText: DefaultBatchSize,
	}
	for d, want := range cases {
		if got := n.BatchSize(d); got != want {
			t.Errorf("%s: BatchSize = %d, want %d", d, got, want)
		}
	}
}

func TestParseClock(t *testing.T) {
	if m, err := ParseClock("08:30"); err != nil || m != 8*60+30 {
		t.Errorf("ParseClock(08:30) = %d, %v", m, err)
	}
	if _, err := ParseClock("8am"); err == nil {
		t.Error("expected error for non HH:MM input")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		t.Skip("no home dir")
	}
	if got := ExpandHome("~/x.toml"); got != filepath.Join(home, "x.toml") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/x.toml"); got != "/abs/x.toml" {
		t.Errorf("absolute path changed: %q", got)
	}
}
