package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Dicklesworthstone/trendwire/internal/dialect"
)

// telegramSender delivers HTML-formatted messages through the Bot API.
type telegramSender struct {
	client   *http.Client
	botToken string
	chatID   string
	account  int

	// apiBase is overridable in tests; empty means the public API.
	apiBase string
}

func (s *telegramSender) name() string                   { return fmt.Sprintf("telegram[%d]", s.account) }
func (s *telegramSender) dialect() dialect.Dialect       { return dialect.Telegram }
func (s *telegramSender) headerDialect() dialect.Dialect { return dialect.Telegram }
func (s *telegramSender) reverseDelivery() bool          { return false }

func (s *telegramSender) send(ctx context.Context, body string, index, total int) error {
	base := s.apiBase
	if base == "" {
		base = "https://api.telegram.org"
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", base, s.botToken)

	payload := map[string]any{
		"chat_id":                  s.chatID,
		"text":                     body,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	respBody, err := postJSON(ctx, s.client, url, payload)
	if err != nil {
		return err
	}

	var resp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(respBody, &resp); err == nil && !resp.OK {
		return fmt.Errorf("telegram error: %s", resp.Description)
	}
	return nil
}
