package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Dicklesworthstone/trendwire/internal/dialect"
)

// dingTalkSender posts markdown messages to a DingTalk bot webhook.
type dingTalkSender struct {
	client     *http.Client
	webhookURL string
	account    int
}

func (s *dingTalkSender) name() string                   { return fmt.Sprintf("dingtalk[%d]", s.account) }
func (s *dingTalkSender) dialect() dialect.Dialect       { return dialect.DingTalk }
func (s *dingTalkSender) headerDialect() dialect.Dialect { return dialect.DingTalk }
func (s *dingTalkSender) reverseDelivery() bool          { return false }

func (s *dingTalkSender) send(ctx context.Context, body string, index, total int) error {
	payload := map[string]any{
		"msgtype": "markdown",
		"markdown": map[string]any{
			"title": "TrendWire",
			"text":  body,
		},
	}

	respBody, err := postJSON(ctx, s.client, s.webhookURL, payload)
	if err != nil {
		return err
	}

	var resp struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.Unmarshal(respBody, &resp); err == nil && resp.ErrCode != 0 {
		return fmt.Errorf("dingtalk error %d: %s", resp.ErrCode, resp.ErrMsg)
	}
	return nil
}
