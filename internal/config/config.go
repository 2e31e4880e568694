// Package config loads the main TOML configuration and the YAML
// destinations file. Precedence is environment > file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Dicklesworthstone/trendwire/internal/dialect"
)

// Config represents the main configuration.
type Config struct {
	Report       ReportConfig       `toml:"report"`
	Notification NotificationConfig `toml:"notification"`
	PushWindow   PushWindowConfig   `toml:"push_window"`
	Version      VersionConfig      `toml:"version_check"`
}

// ReportConfig controls which report file is delivered and in what mode.
type ReportConfig struct {
	Path string `toml:"path"` // JSON report file produced by the crawler
	Mode string `toml:"mode"` // daily, incremental, or current
}

// NotificationConfig holds delivery tuning shared by every channel.
type NotificationConfig struct {
	Enabled           bool   `toml:"enabled"`
	MessageBatchSize  int    `toml:"message_batch_size"`  // default budget for channels without an override
	BatchSendInterval int    `toml:"batch_send_interval"` // seconds between batches of one delivery
	ReverseOrder      bool   `toml:"reverse_content_order"`
	ShowVersionUpdate bool   `toml:"show_version_update"`
	FeishuSeparator   string `toml:"feishu_message_separator"`

	MaxAccountsPerChannel int `toml:"max_accounts_per_channel"`

	// Per-channel byte budgets. Zero falls back to the platform default.
	DingTalkBatchSize int `toml:"dingtalk_batch_size"`
	FeishuBatchSize   int `toml:"feishu_batch_size"`
	NtfyBatchSize     int `toml:"ntfy_batch_size"`
	BarkBatchSize     int `toml:"bark_batch_size"`
	SlackBatchSize    int `toml:"slack_batch_size"`
}

// PushWindowConfig gates delivery to a daily time range.
type PushWindowConfig struct {
	Enabled    bool   `toml:"enabled"`
	Start      string `toml:"start"` // HH:MM
	End        string `toml:"end"`   // HH:MM
	OncePerDay bool   `toml:"once_per_day"`
	RecordDir  string `toml:"record_dir"`
}

// VersionConfig controls the update check rendered into report footers.
type VersionConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Current string `toml:"current"`
}

// Platform default budgets, applied when the per-channel override is zero.
const (
	DefaultBatchSize         = 4000
	DefaultDingTalkBatchSize = 20000
	DefaultFeishuBatchSize   = 29000
	DefaultNtfyBatchSize     = 3800
	DefaultBarkBatchSize     = 3600
	DefaultSlackBatchSize    = 4000

	DefaultMaxAccountsPerChannel = 3
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Mode: "daily",
		},
		Notification: NotificationConfig{
			Enabled:               true,
			MessageBatchSize:      DefaultBatchSize,
			BatchSendInterval:     1,
			ShowVersionUpdate:     true,
			FeishuSeparator:       dialect.DefaultSectionSeparator,
			MaxAccountsPerChannel: DefaultMaxAccountsPerChannel,
			DingTalkBatchSize:     DefaultDingTalkBatchSize,
			FeishuBatchSize:       DefaultFeishuBatchSize,
			NtfyBatchSize:         DefaultNtfyBatchSize,
			BarkBatchSize:         DefaultBarkBatchSize,
			SlackBatchSize:        DefaultSlackBatchSize,
		},
		PushWindow: PushWindowConfig{
			Start:      "08:00",
			End:        "23:00",
			OncePerDay: true,
		},
		Version: VersionConfig{
			Enabled: true,
		},
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	if env := os.Getenv("TRENDWIRE_CONFIG"); env != "" {
		return ExpandHome(env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "trendwire", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "trendwire", "config.toml")
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil && home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Load loads configuration from a file. A missing file is not an error;
// defaults apply and environment overrides still run.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRENDWIRE_REPORT_PATH"); v != "" {
		cfg.Report.Path = ExpandHome(v)
	}
	if v := os.Getenv("TRENDWIRE_REPORT_MODE"); v != "" {
		cfg.Report.Mode = v
	}
	if v := os.Getenv("TRENDWIRE_NOTIFY_ENABLED"); v != "" {
		cfg.Notification.Enabled = v == "1" || v == "true"
	}
	if v := os.Getenv("TRENDWIRE_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Notification.MessageBatchSize = n
		}
	}
	if v := os.Getenv("TRENDWIRE_BATCH_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Notification.BatchSendInterval = n
		}
	}
	if v := os.Getenv("TRENDWIRE_REVERSE_ORDER"); v != "" {
		cfg.Notification.ReverseOrder = v == "1" || v == "true"
	}
	if v := os.Getenv("TRENDWIRE_FEISHU_SEPARATOR"); v != "" {
		cfg.Notification.FeishuSeparator = v
	}
	if v := os.Getenv("TRENDWIRE_MAX_ACCOUNTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Notification.MaxAccountsPerChannel = n
		}
	}
	if v := os.Getenv("TRENDWIRE_PUSH_WINDOW_ENABLED"); v != "" {
		cfg.PushWindow.Enabled = v == "1" || v == "true"
	}
	if v := os.Getenv("TRENDWIRE_VERSION_CHECK"); v != "" {
		cfg.Version.Enabled = v == "1" || v == "true"
	}
}

// Validate reports the first configuration error found.
func (c *Config) Validate() error {
	switch strings.TrimSpace(c.Report.Mode) {
	case "", "daily", "incremental", "current":
	default:
		return fmt.Errorf("invalid report.mode %q (supported: daily, incremental, current)", c.Report.Mode)
	}

	if c.Notification.MessageBatchSize < 0 {
		return fmt.Errorf("invalid message_batch_size %d (must be >= 0)", c.Notification.MessageBatchSize)
	}
	if c.Notification.BatchSendInterval < 0 {
		return fmt.Errorf("invalid batch_send_interval %d (must be >= 0)", c.Notification.BatchSendInterval)
	}
	if c.Notification.MaxAccountsPerChannel < 1 {
		return fmt.Errorf("invalid max_accounts_per_channel %d (must be >= 1)", c.Notification.MaxAccountsPerChannel)
	}

	if c.PushWindow.Enabled {
		if _, err := ParseClock(c.PushWindow.Start); err != nil {
			return fmt.Errorf("invalid push_window.start %q: %w", c.PushWindow.Start, err)
		}
		if _, err := ParseClock(c.PushWindow.End); err != nil {
			return fmt.Errorf("invalid push_window.end %q: %w", c.PushWindow.End, err)
		}
	}
	return nil
}

// BatchSize resolves the byte budget for one destination dialect.
func (c *NotificationConfig) BatchSize(d dialect.Dialect) int {
	pick := func(override, def int) int {
		if override > 0 {
			return override
		}
		return def
	}
	switch d {
	case dialect.DingTalk:
		return pick(c.DingTalkBatchSize, DefaultDingTalkBatchSize)
	case dialect.Feishu:
		return pick(c.FeishuBatchSize, DefaultFeishuBatchSize)
	case dialect.Ntfy:
		return pick(c.NtfyBatchSize, DefaultNtfyBatchSize)
	case dialect.Bark:
		return pick(c.BarkBatchSize, DefaultBarkBatchSize)
	case dialect.Slack:
		return pick(c.SlackBatchSize, DefaultSlackBatchSize)
	default:
		return pick(c.MessageBatchSize, DefaultBatchSize)
	}
}

// SendInterval returns the pause between batches of one delivery.
func (c *NotificationConfig) SendInterval() time.Duration {
	return time.Duration(c.BatchSendInterval) * time.Second
}

// ParseClock parses an HH:MM string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
