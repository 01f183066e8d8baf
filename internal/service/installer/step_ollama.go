package installer

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/deskpilot/internal/config"
	"github.com/sandevgo/deskpilot/internal/providers/llm"
)

const disableGenerationID = ""

func NewOllamaURLStep() Step {
	return &inputStep{
		prompt: "Enter Ollama Base URL:",
		hint:   "Press enter to keep the default.",
		input:  newInput(config.DefaultOllamaBaseURL),
		apply:  applyOllamaURL,
	}
}

func applyOllamaURL(value string, state *InstallState) error {
	if value == "" {
		value = config.DefaultOllamaBaseURL
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid URL %q", value)
	}
	state.Settings.OllamaBaseURL = value
	return nil
}

// ModelStep lets the user pick one of the models pulled on the Ollama
// server, or turn free-text replies off.
type ModelStep struct {
	list     list.Model
	loading  bool
	fetching bool // Ensures we only trigger the API call once
	err      error
}

func NewModelStep() Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select Ollama Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{
		list:    l,
		loading: true,
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return nil
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.loading && !s.fetching {
		s.fetching = true
		baseURL := state.Settings.OllamaBaseURL

		return s, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			models, err := llm.NewOllama(baseURL, "").Models(ctx)
			if err != nil {
				return errMsg(err)
			}
			return modelsMsg(modelItems(models))
		}
	}

	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.loading = false
		s.fetching = false
		return s, nil

	case errMsg:
		s.loading = false
		s.fetching = false
		s.err = msg
		return s, nil

	case tea.KeyMsg:
		if s.err != nil {
			switch msg.String() {
			case "enter":
				s.err = nil
				s.loading = true
				s.fetching = false
			case "s":
				state.Settings.OllamaModel = disableGenerationID
				return nil, nil
			}
			return s, nil
		}

		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				state.Settings.OllamaModel = i.id
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			"\n\nIs Ollama running at " + state.Settings.OllamaBaseURL + "?\n\n" +
			"(press enter to retry, s to skip generation, ctrl+c to quit)\n"
	}
	if s.loading {
		return "Fetching models from Ollama...\n"
	}
	return s.list.View()
}

// modelItems lists the pulled models after the option that disables
// generation.
func modelItems(models []llm.Model) []list.Item {
	items := make([]list.Item, 0, len(models)+1)
	items = append(items, item{
		id:    disableGenerationID,
		title: "No model",
		desc:  "Disable generation; free text gets a static reply",
	})
	for _, m := range models {
		items = append(items, item{
			id:    m.Name,
			title: m.Name,
			desc:  fmt.Sprintf("Size: %.1f GB", float64(m.Size)/1e9),
		})
	}
	return items
}
