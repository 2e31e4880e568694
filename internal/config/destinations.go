package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FeishuDestination is a Feishu bot webhook. Fields holding multiple
// accounts are semicolon-separated, one value per account.
type FeishuDestination struct {
	WebhookURL string `yaml:"webhook_url"`
}

type DingTalkDestination struct {
	WebhookURL string `yaml:"webhook_url"`
}

type WeWorkDestination struct {
	WebhookURL string `yaml:"webhook_url"`
	MsgType    string `yaml:"msg_type"` // markdown or text
}

type TelegramDestination struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

type NtfyDestination struct {
	ServerURL string `yaml:"server_url"`
	Topic     string `yaml:"topic"`
	Token     string `yaml:"token"`
}

type BarkDestination struct {
	URL string `yaml:"url"`
}

type SlackDestination struct {
	WebhookURL string `yaml:"webhook_url"`
}

type EmailDestination struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	From       string `yaml:"from"`
	To         string `yaml:"to"`
}

// Destinations is the parsed destinations file. Channels without
// credentials are simply inactive.
type Destinations struct {
	Feishu   FeishuDestination   `yaml:"feishu"`
	DingTalk DingTalkDestination `yaml:"dingtalk"`
	WeWork   WeWorkDestination   `yaml:"wework"`
	Telegram TelegramDestination `yaml:"telegram"`
	Ntfy     NtfyDestination     `yaml:"ntfy"`
	Bark     BarkDestination     `yaml:"bark"`
	Slack    SlackDestination    `yaml:"slack"`
	Email    EmailDestination    `yaml:"email"`
}

// ParseDestinations extracts and validates the `destinations:` mapping from
// a YAML file. ${VAR} placeholders are expanded from the environment first.
func ParseDestinations(yamlBytes []byte) (*Destinations, error) {
	dst := &Destinations{}
	if len(bytes.TrimSpace(yamlBytes)) == 0 {
		dst.applyEnv()
		return dst, dst.Validate()
	}

	expanded, err := expandEnvPlaceholders(yamlBytes)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(expanded, &root); err != nil {
		return nil, err
	}

	node := findTopLevelYAMLKey(&root, "destinations")
	if node != nil {
		raw, err := yaml.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("destinations: marshal: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(dst); err != nil {
			return nil, fmt.Errorf("destinations: %w", err)
		}
	}

	dst.applyEnv()
	if err := dst.Validate(); err != nil {
		return nil, err
	}
	return dst, nil
}

// LoadDestinations loads the destinations file from path, or from
// trendwire.yaml/trendwire.yml next to the main config when path is empty.
// A missing file yields env-only destinations.
func LoadDestinations(path string) (*Destinations, error) {
	paths := []string{path}
	if path == "" {
		dir := filepath.Dir(DefaultPath())
		paths = []string{
			filepath.Join(dir, "trendwire.yaml"),
			filepath.Join(dir, "trendwire.yml"),
		}
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		return ParseDestinations(data)
	}
	return ParseDestinations(nil)
}

// applyEnv applies direct environment overrides, which win over file values.
func (d *Destinations) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&d.Feishu.WebhookURL, "FEISHU_WEBHOOK_URL")
	set(&d.DingTalk.WebhookURL, "DINGTALK_WEBHOOK_URL")
	set(&d.WeWork.WebhookURL, "WEWORK_WEBHOOK_URL")
	set(&d.WeWork.MsgType, "WEWORK_MSG_TYPE")
	set(&d.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	set(&d.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	set(&d.Ntfy.ServerURL, "NTFY_SERVER_URL")
	set(&d.Ntfy.Topic, "NTFY_TOPIC")
	set(&d.Ntfy.Token, "NTFY_TOKEN")
	set(&d.Bark.URL, "BARK_URL")
	set(&d.Slack.WebhookURL, "SLACK_WEBHOOK_URL")
	set(&d.Email.SMTPServer, "EMAIL_SMTP_SERVER")
	set(&d.Email.Username, "EMAIL_USERNAME")
	set(&d.Email.Password, "EMAIL_PASSWORD")
	set(&d.Email.From, "EMAIL_FROM")
	set(&d.Email.To, "EMAIL_TO")
}

// Validate checks URL shapes and paired multi-account fields. Empty
// channels are valid; they are skipped at delivery time.
func (d *Destinations) Validate() error {
	for _, c := range []struct {
		channel string
		urls    string
	}{
		{"feishu", d.Feishu.WebhookURL},
		{"dingtalk", d.DingTalk.WebhookURL},
		{"wework", d.WeWork.WebhookURL},
		{"bark", d.Bark.URL},
		{"slack", d.Slack.WebhookURL},
	} {
		for _, u := range ParseAccounts(c.urls) {
			if u == "" {
				continue
			}
			if err := validateHTTPURL(u); err != nil {
				return fmt.Errorf("%s: %w", c.channel, err)
			}
		}
	}

	if mt := strings.TrimSpace(d.WeWork.MsgType); mt != "" && mt != "markdown" && mt != "text" {
		return fmt.Errorf("wework: invalid msg_type %q (supported: markdown, text)", mt)
	}

	if err := ValidatePaired("telegram",
		Field{"bot_token", ParseAccounts(d.Telegram.BotToken)},
		Field{"chat_id", ParseAccounts(d.Telegram.ChatID)},
	); err != nil {
		return err
	}
	if err := ValidatePaired("ntfy",
		Field{"server_url", ParseAccounts(d.Ntfy.ServerURL)},
		Field{"topic", ParseAccounts(d.Ntfy.Topic)},
	); err != nil {
		return err
	}

	if d.Email.SMTPServer != "" || d.Email.To != "" {
		if d.Email.SMTPServer == "" {
			return fmt.Errorf("email: smtp_server is required")
		}
		if d.Email.To == "" {
			return fmt.Errorf("email: to is required")
		}
	}
	return nil
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid url scheme %q (must be http or https)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", raw)
	}
	return nil
}

func findTopLevelYAMLKey(root *yaml.Node, key string) *yaml.Node {
	n := root
	if n == nil {
		return nil
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		v := n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.Value == key {
			return v
		}
	}
	return nil
}

var envPlaceholderRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnvPlaceholders(in []byte) ([]byte, error) {
	s := string(in)
	missing := make(map[string]struct{})

	out := envPlaceholderRe.ReplaceAllStringFunc(s, func(m string) string {
		key := strings.TrimSuffix(strings.TrimPrefix(m, "${"), "}")
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		missing[key] = struct{}{}
		return m
	})

	if len(missing) == 0 {
		return []byte(out), nil
	}

	keys := make([]string, 0, len(missing))
	for k := range missing {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return nil, fmt.Errorf("missing environment variables: %s", strings.Join(keys, ", "))
}
