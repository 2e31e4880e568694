package dialect

import (
	"fmt"

	"github.com/Dicklesworthstone/trendwire/internal/report"
)

// TitleFormatter renders a single title entry as one line of destination
// text. It must be pure and bounded: the partitioner treats its output as
// opaque bytes. showSource controls whether the originating source name is
// prefixed (on in the stats section, off in the per-source new-titles
// section).
type TitleFormatter func(d Dialect, entry report.TitleEntry, showSource bool) string

// FormatTitle is the default TitleFormatter: linked title where the dialect
// supports links, source prefix, rank and time labels, and a new-title
// marker.
func FormatTitle(d Dialect, entry report.TitleEntry, showSource bool) string {
	link := entry.URL
	if link == "" {
		link = entry.MobileURL
	}

	title := entry.Title
	switch {
	case link == "":
		// plain title
	case d == Telegram:
		title = fmt.Sprintf(`<a href="%s">%s</a>`, link, entry.Title)
	case d == Slack:
		title = fmt.Sprintf("<%s|%s>", link, entry.Title)
	case d == WeWorkText:
		title = fmt.Sprintf("%s %s", entry.Title, link)
	default:
		title = fmt.Sprintf("[%s](%s)", entry.Title, link)
	}

	s := title
	if showSource && entry.SourceName != "" {
		s = fmt.Sprintf("[%s] %s", entry.SourceName, s)
	}
	if len(entry.Ranks) > 0 {
		s += fmt.Sprintf(" (#%d)", entry.Ranks[0])
	}
	if entry.TimeLabel != "" {
		s += fmt.Sprintf(" - %s", entry.TimeLabel)
	}
	if entry.IsNew {
		s += " 🆕"
	}
	return s
}
