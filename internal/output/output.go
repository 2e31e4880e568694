// Package output renders CLI text: styled status lines, aligned tables,
// and small string helpers.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Formatter writes human-readable CLI output.
type Formatter struct {
	writer io.Writer
	color  bool
}

// New creates a formatter. With color disabled every style renders plain.
func New(w io.Writer, color bool) *Formatter {
	return &Formatter{writer: w, color: color}
}

// Text outputs plain text to the formatter's writer
func (f *Formatter) Text(format string, args ...any) {
	fmt.Fprintf(f.writer, format, args...)
}

// Textln outputs plain text with a newline to the formatter's writer
func (f *Formatter) Textln(format string, args ...any) {
	fmt.Fprintf(f.writer, format+"\n", args...)
}

// Line outputs a blank line
func (f *Formatter) Line() {
	fmt.Fprintln(f.writer)
}

// Success prints a green check line.
func (f *Formatter) Success(format string, args ...any) {
	f.statusLine(successStyle, "✓", format, args...)
}

// Warning prints an amber warning line.
func (f *Formatter) Warning(format string, args ...any) {
	f.statusLine(warningStyle, "!", format, args...)
}

// Error prints a red cross line.
func (f *Formatter) Error(format string, args ...any) {
	f.statusLine(errorStyle, "✗", format, args...)
}

// Dim prints a faint line.
func (f *Formatter) Dim(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if f.color {
		msg = dimStyle.Render(msg)
	}
	fmt.Fprintln(f.writer, msg)
}

func (f *Formatter) statusLine(style lipgloss.Style, mark, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if f.color {
		mark = style.Render(mark)
	}
	fmt.Fprintf(f.writer, "%s %s\n", mark, msg)
}

// Table outputs tabular data in text format. Column widths use display
// width, so CJK text stays aligned.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with headers
func NewTable(w io.Writer, headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	return &Table{
		writer:  w,
		headers: headers,
		rows:    [][]string{},
		widths:  widths,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cols ...string) {
	for i, c := range cols {
		if w := runewidth.StringWidth(c); i < len(t.widths) && w > t.widths[i] {
			t.widths[i] = w
		}
	}
	t.rows = append(t.rows, cols)
}

// Render outputs the table
func (t *Table) Render() {
	t.printRow(t.headers)

	seps := make([]string, len(t.widths))
	for i, w := range t.widths {
		seps[i] = strings.Repeat("-", w)
	}
	t.printRow(seps)

	for _, row := range t.rows {
		t.printRow(row)
	}
}

func (t *Table) printRow(cols []string) {
	cells := make([]string, len(t.headers))
	for i := range t.headers {
		var c string
		if i < len(cols) {
			c = cols[i]
		}
		cells[i] = runewidth.FillRight(c, t.widths[i])
	}
	fmt.Fprintf(t.writer, "  %s\n", strings.TrimRight(strings.Join(cells, "  "), " "))
}

// Truncate truncates a string to max length, adding "..." if needed, respecting UTF-8 boundaries.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		lastValid := 0
		for i := range s {
			if i > maxLen {
				break
			}
			lastValid = i
		}
		return s[:lastValid]
	}
	targetLen := maxLen - 3
	prevI := 0
	for i := range s {
		if i > targetLen {
			return s[:prevI] + "..."
		}
		prevI = i
	}
	return s[:prevI] + "..."
}

// Pluralize returns singular or plural form based on count
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// CountStr returns "N item(s)" string
func CountStr(count int, singular, plural string) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, singular, plural))
}
