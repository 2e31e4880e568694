package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Dicklesworthstone/trendwire/internal/dialect"
)

// barkSender pushes to a Bark server. The configured URL carries the
// device key as its last path segment, e.g. https://api.day.app/<key>.
// Batches go out newest first, matching the client's notification list.
type barkSender struct {
	client  *http.Client
	rawURL  string
	account int
}

func (s *barkSender) name() string                   { return fmt.Sprintf("bark[%d]", s.account) }
func (s *barkSender) dialect() dialect.Dialect       { return dialect.Bark }
func (s *barkSender) headerDialect() dialect.Dialect { return dialect.Bark }
func (s *barkSender) reverseDelivery() bool          { return true }

func (s *barkSender) send(ctx context.Context, body string, index, total int) error {
	endpoint, deviceKey, err := splitBarkURL(s.rawURL)
	if err != nil {
		return err
	}

	title := "TrendWire"
	if total > 1 {
		title = fmt.Sprintf("TrendWire (%d/%d)", index, total)
	}
	payload := map[string]any{
		"title":      title,
		"body":       StripMarkdown(body),
		"device_key": deviceKey,
		"group":      "TrendWire",
	}

	respBody, err := postJSON(ctx, s.client, endpoint, payload)
	if err != nil {
		return err
	}

	var resp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &resp); err == nil && resp.Code != 0 && resp.Code != 200 {
		return fmt.Errorf("bark error %d: %s", resp.Code, resp.Message)
	}
	return nil
}

// splitBarkURL separates the server's /push endpoint from the device key.
func splitBarkURL(raw string) (endpoint, deviceKey string, err error) {
	u, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil {
		return "", "", fmt.Errorf("invalid bark url %q: %w", raw, err)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	key := segments[len(segments)-1]
	if key == "" {
		return "", "", fmt.Errorf("bark url %q is missing a device key", raw)
	}
	u.Path = "/push"
	return u.String(), key, nil
}
