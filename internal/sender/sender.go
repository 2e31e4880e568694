// Package sender delivers partitioned report batches to the configured
// destination channels. Every channel is tried even when another one
// fails; a delivery run returns one result per channel account.
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dicklesworthstone/trendwire/internal/batch"
	"github.com/Dicklesworthstone/trendwire/internal/config"
	"github.com/Dicklesworthstone/trendwire/internal/dialect"
	"github.com/Dicklesworthstone/trendwire/internal/report"
)

const defaultTimeout = 30 * time.Second

// Result records the outcome of delivering to one channel account.
type Result struct {
	Channel string
	Account int // 1-based account index within the channel
	Batches int
	Err     error
}

// channelSender is one configured account of one destination channel.
type channelSender interface {
	name() string
	dialect() dialect.Dialect

	// headerDialect renders batch sequence headers; it differs from
	// dialect only for WeWork text mode.
	headerDialect() dialect.Dialect

	// reverseDelivery sends the last batch first, for clients that
	// display the newest message on top.
	reverseDelivery() bool

	send(ctx context.Context, body string, index, total int) error
}

// Dispatcher fans a report out to every configured destination.
type Dispatcher struct {
	cfg *config.Config
	dst *config.Destinations

	client *http.Client
	now    func() time.Time
	sleep  func(time.Duration)
}

func New(cfg *config.Config, dst *config.Destinations) *Dispatcher {
	return &Dispatcher{
		cfg:    cfg,
		dst:    dst,
		client: &http.Client{Timeout: defaultTimeout},
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Deliver partitions r once per destination dialect and sends the batches
// to every configured channel account. Channels without credentials are
// skipped silently.
func (d *Dispatcher) Deliver(ctx context.Context, r *report.Report, mode report.Mode, update *dialect.UpdateNotice) []Result {
	senders := d.senders()
	if len(senders) == 0 {
		slog.Warn("no destination channels configured")
		return nil
	}

	var results []Result
	for _, s := range senders {
		batches := d.plan(r, s.sender, mode, update)
		err := d.sendBatches(ctx, s.sender, batches)
		if err != nil {
			slog.Error("delivery failed", "channel", s.sender.name(), "error", err)
		} else {
			slog.Info("delivery complete", "channel", s.sender.name(), "batches", len(batches))
		}
		results = append(results, Result{
			Channel: s.channel,
			Account: s.account,
			Batches: len(batches),
			Err:     err,
		})
	}
	return results
}

func (d *Dispatcher) plan(r *report.Report, s channelSender, mode report.Mode, update *dialect.UpdateNotice) []string {
	opts := dialect.Options{}
	if s.dialect() == dialect.Feishu {
		opts.SectionSeparator = d.cfg.Notification.FeishuSeparator
	}
	content := dialect.NewAssembler(s.dialect(), opts)
	headers := content
	if s.headerDialect() != s.dialect() {
		headers = dialect.NewAssembler(s.headerDialect(), opts)
	}

	cfg := batch.Config{
		ReverseSections: d.cfg.Notification.ReverseOrder,
		Mode:            mode,
		Timestamp:       d.now().Format("2006-01-02 15:04:05"),
		Update:          update,
	}
	if !d.cfg.Notification.ShowVersionUpdate {
		cfg.Update = nil
	}
	return batch.Plan(r, content, headers, d.cfg.Notification.BatchSize(s.dialect()), cfg)
}

func (d *Dispatcher) sendBatches(ctx context.Context, s channelSender, batches []string) error {
	order := make([]int, len(batches))
	for i := range order {
		order[i] = i
	}
	if s.reverseDelivery() {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	for n, i := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.send(ctx, batches[i], i+1, len(batches)); err != nil {
			return fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}
		slog.Debug("batch delivered",
			"channel", s.name(), "batch", i+1, "total", len(batches),
			"bytes", len(batches[i]))
		if n < len(order)-1 {
			d.sleep(d.cfg.Notification.SendInterval())
		}
	}
	return nil
}

type accountSender struct {
	channel string
	account int
	sender  channelSender
}

// senders expands every configured channel into per-account senders,
// capped at the configured account limit.
func (d *Dispatcher) senders() []accountSender {
	if d.dst == nil {
		return nil
	}
	max := d.cfg.Notification.MaxAccountsPerChannel
	var out []accountSender
	add := func(channel string, i int, s channelSender) {
		out = append(out, accountSender{channel: channel, account: i + 1, sender: s})
	}

	for i, u := range config.LimitAccounts("feishu", config.ParseAccounts(d.dst.Feishu.WebhookURL), max) {
		if u == "" {
			continue
		}
		add("feishu", i, &feishuSender{client: d.client, webhookURL: u, account: i + 1})
	}
	for i, u := range config.LimitAccounts("dingtalk", config.ParseAccounts(d.dst.DingTalk.WebhookURL), max) {
		if u == "" {
			continue
		}
		add("dingtalk", i, &dingTalkSender{client: d.client, webhookURL: u, account: i + 1})
	}
	for i, u := range config.LimitAccounts("wework", config.ParseAccounts(d.dst.WeWork.WebhookURL), max) {
		if u == "" {
			continue
		}
		add("wework", i, &weWorkSender{
			client:     d.client,
			webhookURL: u,
			textMode:   d.dst.WeWork.MsgType == "text",
			account:    i + 1,
		})
	}

	tokens := config.LimitAccounts("telegram", config.ParseAccounts(d.dst.Telegram.BotToken), max)
	chats := config.ParseAccounts(d.dst.Telegram.ChatID)
	for i, token := range tokens {
		chat := config.AccountAt(chats, i)
		if token == "" || chat == "" {
			continue
		}
		add("telegram", i, &telegramSender{client: d.client, botToken: token, chatID: chat, account: i + 1})
	}

	servers := config.LimitAccounts("ntfy", config.ParseAccounts(d.dst.Ntfy.ServerURL), max)
	topics := config.ParseAccounts(d.dst.Ntfy.Topic)
	ntfyTokens := config.ParseAccounts(d.dst.Ntfy.Token)
	for i, server := range servers {
		topic := config.AccountAt(topics, i)
		if server == "" || topic == "" {
			continue
		}
		add("ntfy", i, &ntfySender{
			client:    d.client,
			serverURL: server,
			topic:     topic,
			token:     config.AccountAt(ntfyTokens, i),
			account:   i + 1,
			sleep:     d.sleep,
		})
	}

	for i, u := range config.LimitAccounts("bark", config.ParseAccounts(d.dst.Bark.URL), max) {
		if u == "" {
			continue
		}
		add("bark", i, &barkSender{client: d.client, rawURL: u, account: i + 1})
	}
	for i, u := range config.LimitAccounts("slack", config.ParseAccounts(d.dst.Slack.WebhookURL), max) {
		if u == "" {
			continue
		}
		add("slack", i, &slackSender{client: d.client, webhookURL: u, account: i + 1})
	}

	if d.dst.Email.SMTPServer != "" && d.dst.Email.To != "" {
		add("email", 0, &emailSender{dst: d.dst.Email})
	}
	return out
}

// postJSON posts payload and returns the response body for channels that
// report errors inside a 200 response.
func postJSON(ctx context.Context, client *http.Client, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 400 {
		return body, fmt.Errorf("returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
