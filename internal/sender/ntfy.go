package sender

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Dicklesworthstone/trendwire/internal/dialect"
)

const ntfyRetryDelay = 5 * time.Second

// ntfySender publishes batches to an ntfy topic. Batches go out newest
// first because subscribed clients show the latest notification on top,
// and a 429 response is retried once after a short pause.
type ntfySender struct {
	client    *http.Client
	serverURL string
	topic     string
	token     string
	account   int
	sleep     func(time.Duration)
}

func (s *ntfySender) name() string                   { return fmt.Sprintf("ntfy[%d]", s.account) }
func (s *ntfySender) dialect() dialect.Dialect       { return dialect.Ntfy }
func (s *ntfySender) headerDialect() dialect.Dialect { return dialect.Ntfy }
func (s *ntfySender) reverseDelivery() bool          { return true }

func (s *ntfySender) send(ctx context.Context, body string, index, total int) error {
	status, err := s.publish(ctx, body, index, total)
	if err == nil && status == http.StatusTooManyRequests {
		slog.Warn("ntfy rate limited, retrying once",
			"topic", s.topic, "batch", index, "total", total)
		s.sleep(ntfyRetryDelay)
		status, err = s.publish(ctx, body, index, total)
	}
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("ntfy returned %d", status)
	}
	return nil
}

func (s *ntfySender) publish(ctx context.Context, body string, index, total int) (int, error) {
	url := strings.TrimSuffix(s.serverURL, "/") + "/" + s.topic

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	title := "TrendWire"
	if total > 1 {
		title = fmt.Sprintf("TrendWire (%d/%d)", index, total)
	}
	req.Header.Set("Title", title)
	req.Header.Set("Markdown", "yes")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, nil
}
