package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Dicklesworthstone/trendwire/internal/dialect"
)

// weWorkSender posts to a WeCom (WeChat Work) bot webhook. In text mode
// content is partitioned with plain-text templates and any residual
// markdown is stripped before sending.
type weWorkSender struct {
	client     *http.Client
	webhookURL string
	textMode   bool
	account    int
}

func (s *weWorkSender) name() string { return fmt.Sprintf("wework[%d]", s.account) }

func (s *weWorkSender) dialect() dialect.Dialect {
	if s.textMode {
		return dialect.WeWorkText
	}
	return dialect.WeWork
}

func (s *weWorkSender) headerDialect() dialect.Dialect { return s.dialect() }
func (s *weWorkSender) reverseDelivery() bool          { return false }

func (s *weWorkSender) send(ctx context.Context, body string, index, total int) error {
	var payload map[string]any
	if s.textMode {
		payload = map[string]any{
			"msgtype": "text",
			"text":    map[string]any{"content": StripMarkdown(body)},
		}
	} else {
		payload = map[string]any{
			"msgtype":  "markdown",
			"markdown": map[string]any{"content": body},
		}
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
		return fmt.Errorf("wework error %d: %s", resp.ErrCode, resp.ErrMsg)
	}
	return nil
}
