package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/interomap/interomap/pkg/drawing"
	"github.com/interomap/interomap/pkg/errors"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// PersonaModel is the bubbletea model for the interactive persona choice used
// when a demo run starts without a recognizable persona hint. Quitting
// without choosing leaves Selected nil.
type PersonaModel struct {
	Personas []drawing.Persona
	Cursor   int
	Selected *drawing.Persona
}

// NewPersonaModel creates a persona picker over all selectable personas.
func NewPersonaModel() PersonaModel {
	return PersonaModel{
		Personas: drawing.Personas,
	}
}

func (m PersonaModel) Init() tea.Cmd {
	return nil
}

func (m PersonaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Personas)-1 {
				m.Cursor++
			}
		case "enter":
			persona := m.Personas[m.Cursor]
			m.Selected = &persona
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PersonaModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Persona"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, persona := range m.Personas {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(string(persona)) + "\n")
	}

	return b.String()
}

// choosePersona resolves a persona from the hint, falling back to the
// interactive picker when the hint does not parse.
func choosePersona(hint string) (drawing.Persona, error) {
	if persona, ok := drawing.ParsePersona(hint); ok {
		return persona, nil
	}

	final, err := tea.NewProgram(NewPersonaModel()).Run()
	if err != nil {
		return "", err
	}
	model := final.(PersonaModel)
	if model.Selected == nil {
		return "", errors.New(errors.ErrCodePersonaNotSet, "no persona selected")
	}
	return *model.Selected, nil
}
