package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Dicklesworthstone/trendwire/internal/dialect"
)

// feishuSender posts interactive cards to a Feishu bot webhook.
type feishuSender struct {
	client     *http.Client
	webhookURL string
	account    int
}

func (s *feishuSender) name() string                   { return fmt.Sprintf("feishu[%d]", s.account) }
func (s *feishuSender) dialect() dialect.Dialect       { return dialect.Feishu }
func (s *feishuSender) headerDialect() dialect.Dialect { return dialect.Feishu }
func (s *feishuSender) reverseDelivery() bool          { return false }

func (s *feishuSender) send(ctx context.Context, body string, index, total int) error {
	payload := map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"header": map[string]any{
				"title": map[string]any{
					"tag":     "plain_text",
					"content": "TrendWire",
				},
				"template": "red",
			},
			"elements": []any{
				map[string]any{
					"tag": "div",
					"text": map[string]any{
						"tag":     "lark_md",
						"content": body,
					},
				},
			},
		},
	}

	respBody, err := postJSON(ctx, s.client, s.webhookURL, payload)
	if err != nil {
		return err
	}

	var resp struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(respBody, &resp); err == nil && resp.Code != 0 {
		return fmt.Errorf("feishu error %d: %s", resp.Code, resp.Msg)
	}
	return nil
}
