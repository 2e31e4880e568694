// Package preview provides an interactive pager over partitioned report
// batches, one page per batch.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

// accentColor adapts to the terminal background.
func accentColor() lipgloss.Color {
	if termenv.HasDarkBackground() {
		return lipgloss.Color("212")
	}
	return lipgloss.Color("89")
}

// KeyMap defines pager keybindings.
type KeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Up    key.Binding
	Down  key.Binding
	First key.Binding
	Last  key.Binding
	Quit  key.Binding
}

var pagerKeys = KeyMap{
	Next:  key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/n", "next batch")),
	Prev:  key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/p", "prev batch")),
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	First: key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first batch")),
	Last:  key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last batch")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor()).Padding(0, 1)
	infoStyle  = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	bodyStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// Model pages through the batches of one destination channel.
type Model struct {
	channel string
	batches []string
	sizes   []int

	index    int
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a preview model. batches must be non-empty.
func New(channel string, batches []string) Model {
	sizes := make([]int, len(batches))
	for i, b := range batches {
		sizes[i] = len(b)
	}
	return Model{channel: channel, batches: batches, sizes: sizes}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 2
		footerHeight := 1
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-2)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - 2
		}
		m.setContent()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pagerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, pagerKeys.Next):
			if m.index < len(m.batches)-1 {
				m.index++
				m.setContent()
			}
		case key.Matches(msg, pagerKeys.Prev):
			if m.index > 0 {
				m.index--
				m.setContent()
			}
		case key.Matches(msg, pagerKeys.First):
			m.index = 0
			m.setContent()
		case key.Matches(msg, pagerKeys.Last):
			m.index = len(m.batches) - 1
			m.setContent()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) setContent() {
	if !m.ready || len(m.batches) == 0 {
		return
	}
	m.viewport.SetContent(wordwrap.String(m.batches[m.index], m.viewport.Width))
	m.viewport.GotoTop()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	title := titleStyle.Render(fmt.Sprintf("%s  batch %d/%d  (%d bytes)",
		m.channel, m.index+1, len(m.batches), m.sizes[m.index]))
	help := infoStyle.Render("←/→ switch batch · ↑/↓ scroll · q quit")

	body := bodyStyle.Width(m.viewport.Width + 2).Render(m.viewport.View())

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(help)
	if gap < 1 {
		gap = 1
	}
	header := title + strings.Repeat(" ", gap) + help

	return header + "\n" + body + "\n" + m.scrollLine()
}

func (m Model) scrollLine() string {
	pct := int(m.viewport.ScrollPercent() * 100)
	return infoStyle.Render(fmt.Sprintf("%d%%", pct))
}

// Run starts the pager over the given batches.
func Run(channel string, batches []string) error {
	if len(batches) == 0 {
		return fmt.Errorf("nothing to preview")
	}
	p := tea.NewProgram(New(channel, batches), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
