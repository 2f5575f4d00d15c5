package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/shopdesk/internal/config"
)

// URLStep asks for a provider base URL; it is skipped for other providers.
type URLStep struct {
	input    textinput.Model
	provider string
	title    string
	required bool
	set      func(state *InstallState, url string)
}

func NewCustomURLStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Placeholder = "https://llm.example.com"
	ti.Width = 50
	return &URLStep{
		input:    ti,
		provider: config.ProviderCustom,
		title:    "Enter the OpenAI-compatible base URL (without /v1):",
		required: true,
		set:      func(st *InstallState, u string) { st.Provider.CustomOpenAIBaseURL = u },
	}
}

func NewOllamaURLStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Placeholder = "http://localhost:11434"
	ti.Width = 50
	return &URLStep{
		input:    ti,
		provider: config.ProviderOllama,
		title:    "Enter Ollama Base URL:",
		set:      func(st *InstallState, u string) { st.Provider.OllamaBaseURL = u },
	}
}

func (s *URLStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *URLStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if state.Provider.Provider != s.provider {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimRight(strings.TrimSpace(s.input.Value()), "/")
		if val == "" {
			if s.required {
				return s, cmd
			}
			val = s.input.Placeholder
		}
		s.set(state, val)
		return nil, nil
	}
	return s, cmd
}

func (s *URLStep) View(state *InstallState) string {
	return s.title + "\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
