package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interomap/interomap/pkg/drawing"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestPersonaModelNavigation(t *testing.T) {
	m := NewPersonaModel()

	next, _ := m.Update(keyMsg("down"))
	m = next.(PersonaModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after down", m.Cursor)
	}

	next, _ = m.Update(keyMsg("up"))
	m = next.(PersonaModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up", m.Cursor)
	}

	// Cursor clamps at both ends.
	next, _ = m.Update(keyMsg("up"))
	m = next.(PersonaModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up at top", m.Cursor)
	}
	for i := 0; i < 10; i++ {
		next, _ = m.Update(keyMsg("j"))
		m = next.(PersonaModel)
	}
	if m.Cursor != len(m.Personas)-1 {
		t.Errorf("Cursor = %d after repeated down", m.Cursor)
	}
}

func TestPersonaModelSelect(t *testing.T) {
	m := NewPersonaModel()

	next, _ := m.Update(keyMsg("down"))
	m = next.(PersonaModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(PersonaModel)

	if cmd == nil {
		t.Error("enter should quit")
	}
	if m.Selected == nil || *m.Selected != drawing.PersonaMale {
		t.Errorf("Selected = %v", m.Selected)
	}
}

func TestPersonaModelQuit(t *testing.T) {
	m := NewPersonaModel()

	next, cmd := m.Update(keyMsg("esc"))
	m = next.(PersonaModel)
	if cmd == nil {
		t.Error("esc should quit")
	}
	if m.Selected != nil {
		t.Errorf("Selected = %v after quit", m.Selected)
	}
}

func TestPersonaModelView(t *testing.T) {
	view := NewPersonaModel().View()

	for _, persona := range drawing.Personas {
		if !strings.Contains(view, string(persona)) {
			t.Errorf("view missing %s", persona)
		}
	}
	if !strings.Contains(view, "▸") {
		t.Error("view missing cursor")
	}
}
