package preview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func keyPress(m Model, r rune) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return updated.(Model)
}

func TestViewShowsBatchPosition(t *testing.T) {
	m := sized(New("feishu", []string{"batch one", "batch two"}))
	view := m.View()
	if !strings.Contains(view, "batch 1/2") {
		t.Errorf("view missing position: %q", view)
	}
	if !strings.Contains(view, "feishu") {
		t.Error("view missing channel name")
	}
	if !strings.Contains(view, "batch one") {
		t.Error("view missing batch content")
	}
}

func TestNextPrevNavigation(t *testing.T) {
	m := sized(New("slack", []string{"alpha", "beta", "gamma"}))

	m = keyPress(m, 'n')
	if m.index != 1 {
		t.Errorf("after next: index = %d", m.index)
	}
	if !strings.Contains(m.View(), "beta") {
		t.Error("second batch not shown")
	}

	m = keyPress(m, 'p')
	if m.index != 0 {
		t.Errorf("after prev: index = %d", m.index)
	}

	// Prev at the first batch stays put.
	m = keyPress(m, 'p')
	if m.index != 0 {
		t.Errorf("prev should clamp at 0, got %d", m.index)
	}

	m = keyPress(m, 'G')
	if m.index != 2 {
		t.Errorf("G should jump to last batch, got %d", m.index)
	}
	m = keyPress(m, 'n')
	if m.index != 2 {
		t.Errorf("next should clamp at last, got %d", m.index)
	}
	m = keyPress(m, 'g')
	if m.index != 0 {
		t.Errorf("g should jump to first batch, got %d", m.index)
	}
}

func TestQuit(t *testing.T) {
	m := sized(New("ntfy", []string{"x"}))
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit should produce a command")
	}
	if updated.(Model).View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestRunRejectsEmpty(t *testing.T) {
	if err := Run("feishu", nil); err == nil {
		t.Error("expected error for empty batch list")
	}
}
