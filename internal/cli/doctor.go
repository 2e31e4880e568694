package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/trendwire/internal/config"
	"github.com/Dicklesworthstone/trendwire/internal/dialect"
	"github.com/Dicklesworthstone/trendwire/internal/output"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and show the delivery plan",
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	f := formatter()
	problems := 0

	f.Textln("Config: %s", configPathForDisplay())
	if err := cfg.Validate(); err != nil {
		f.Error("config: %v", err)
		problems++
	} else {
		f.Success("config is valid")
	}

	if cfg.Report.Path != "" {
		if _, err := os.Stat(cfg.Report.Path); err != nil {
			f.Warning("report file %s is not readable: %v", cfg.Report.Path, err)
		} else {
			f.Success("report file %s exists", cfg.Report.Path)
		}
	}

	dst, err := config.LoadDestinations(destFile)
	if err != nil {
		f.Error("destinations: %v", err)
		return fmt.Errorf("%d problem(s) found", problems+1)
	}
	f.Success("destinations are valid")

	f.Line()
	tbl := output.NewTable(os.Stdout, "CHANNEL", "ACCOUNTS", "BUDGET (BYTES)")
	max := cfg.Notification.MaxAccountsPerChannel
	addRow := func(channel string, d dialect.Dialect, accounts int) {
		if accounts == 0 {
			return
		}
		if accounts > max {
			accounts = max
		}
		tbl.AddRow(channel, fmt.Sprintf("%d", accounts), fmt.Sprintf("%d", cfg.Notification.BatchSize(d)))
	}
	addRow("feishu", dialect.Feishu, len(config.ParseAccounts(dst.Feishu.WebhookURL)))
	addRow("dingtalk", dialect.DingTalk, len(config.ParseAccounts(dst.DingTalk.WebhookURL)))
	addRow("wework", dialect.WeWork, len(config.ParseAccounts(dst.WeWork.WebhookURL)))
	addRow("telegram", dialect.Telegram, len(config.ParseAccounts(dst.Telegram.BotToken)))
	addRow("ntfy", dialect.Ntfy, len(config.ParseAccounts(dst.Ntfy.ServerURL)))
	addRow("bark", dialect.Bark, len(config.ParseAccounts(dst.Bark.URL)))
	addRow("slack", dialect.Slack, len(config.ParseAccounts(dst.Slack.WebhookURL)))
	if dst.Email.SMTPServer != "" {
		tbl.AddRow("email", "1", "-")
	}
	tbl.Render()

	if cfg.PushWindow.Enabled {
		f.Line()
		f.Textln("Push window: %s-%s (once per day: %v)",
			cfg.PushWindow.Start, cfg.PushWindow.End, cfg.PushWindow.OncePerDay)
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	return nil
}

func configPathForDisplay() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}
