package sender

import (
	"regexp"
	"strings"
)

var (
	mdBoldRe    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	mdLinkRe    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	mdHeadingRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdFontRe    = regexp.MustCompile(`</?font[^>]*>`)
)

// StripMarkdown reduces markdown content to plain text for channels that
// render raw text only.
func StripMarkdown(s string) string {
	s = mdFontRe.ReplaceAllString(s, "")
	s = mdBoldRe.ReplaceAllString(s, "$1")
	s = mdLinkRe.ReplaceAllString(s, "$1 $2")
	s = mdHeadingRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}

// ToMrkdwn converts common markdown to Slack's mrkdwn flavor: *bold*
// instead of **bold**, <url|text> instead of [text](url).
func ToMrkdwn(s string) string {
	s = mdLinkRe.ReplaceAllString(s, "<$2|$1>")
	s = mdBoldRe.ReplaceAllString(s, "*$1*")
	return s
}
