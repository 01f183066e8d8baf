package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// inputStep is a single text prompt. apply validates the value and stores it
// in the install state; a returned error keeps the step on screen.
type inputStep struct {
	prompt string
	hint   string
	input  textinput.Model
	apply  func(value string, state *InstallState) error
	err    error
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder
	return ti
}

func (s *inputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *inputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if err := s.apply(strings.TrimSpace(s.input.Value()), state); err != nil {
			s.err = err
			return s, cmd
		}
		return nil, nil
	}
	return s, cmd
}

func (s *inputStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	b.WriteString(s.input.View() + "\n\n")
	if s.err != nil {
		b.WriteString(errorStyle.Render(s.err.Error()) + "\n\n")
	}
	if s.hint != "" {
		b.WriteString(hintStyle.Render(s.hint) + "\n")
	}
	b.WriteString("(press enter to confirm)\n")
	return b.String()
}
