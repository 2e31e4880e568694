package sender

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dicklesworthstone/trendwire/internal/config"
	"github.com/Dicklesworthstone/trendwire/internal/dialect"
)

// emailSender delivers batches as HTML mail over SMTP with STARTTLS.
type emailSender struct {
	dst config.EmailDestination

	// sendMail is overridable in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (s *emailSender) name() string                   { return "email" }
func (s *emailSender) dialect() dialect.Dialect       { return dialect.WeWork }
func (s *emailSender) headerDialect() dialect.Dialect { return dialect.WeWork }
func (s *emailSender) reverseDelivery() bool          { return false }

func (s *emailSender) send(ctx context.Context, body string, index, total int) error {
	subject := "TrendWire Report"
	if total > 1 {
		subject = fmt.Sprintf("TrendWire Report (%d/%d)", index, total)
	}

	port := s.dst.SMTPPort
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.dst.SMTPServer, port)

	from := s.dst.From
	if from == "" {
		from = s.dst.Username
	}
	recipients := config.ParseAccounts(s.dst.To)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(renderHTML(body))

	var auth smtp.Auth
	if s.dst.Username != "" {
		auth = smtp.PlainAuth("", s.dst.Username, s.dst.Password, s.dst.SMTPServer)
	}

	send := s.sendMail
	if send == nil {
		send = smtp.SendMail
	}
	if err := send(addr, auth, from, recipients, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// renderHTML converts a markdown batch into minimal HTML mail content.
func renderHTML(body string) string {
	s := mdLinkRe.ReplaceAllString(body, `<a href="$2">$1</a>`)
	s = mdBoldRe.ReplaceAllString(s, "<b>$1</b>")
	s = strings.ReplaceAll(s, "\n", "<br>\n")
	return "<html><body>" + s + "</body></html>"
}
