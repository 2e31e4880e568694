package sender

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Dicklesworthstone/trendwire/internal/dialect"
)

// slackSender posts mrkdwn text to a Slack incoming webhook. The webhook
// answers a literal "ok" body on success.
type slackSender struct {
	client     *http.Client
	webhookURL string
	account    int
}

func (s *slackSender) name() string                   { return fmt.Sprintf("slack[%d]", s.account) }
func (s *slackSender) dialect() dialect.Dialect       { return dialect.Slack }
func (s *slackSender) headerDialect() dialect.Dialect { return dialect.Slack }
func (s *slackSender) reverseDelivery() bool          { return false }

func (s *slackSender) send(ctx context.Context, body string, index, total int) error {
	payload := map[string]any{
		"text": ToMrkdwn(body),
	}

	respBody, err := postJSON(ctx, s.client, s.webhookURL, payload)
	if err != nil {
		return err
	}
	if reply := strings.TrimSpace(string(respBody)); reply != "" && reply != "ok" {
		return fmt.Errorf("slack error: %s", reply)
	}
	return nil
}
