package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/shopdesk/internal/config"
)

// APIKeyStep collects the key for the chosen provider. Ollama and custom endpoints may go without one.
type APIKeyStep struct {
	input      textinput.Model
	ready      bool
	title      string
	isOptional bool
	set        func(state *InstallState, key string)
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return nil
}

func (s *APIKeyStep) initProvider(state *InstallState) {
	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 40
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'

	switch state.Provider.Provider {
	case config.ProviderAnthropic:
		s.title = "Anthropic API Key"
		s.input.Placeholder = "sk-ant-..."
		s.set = func(st *InstallState, k string) { st.Provider.AnthropicAPIKey = k }
	case config.ProviderOpenRouter:
		s.title = "OpenRouter API Key"
		s.input.Placeholder = "sk-or-v1-..."
		s.set = func(st *InstallState, k string) { st.Provider.OpenRouterAPIKey = k }
	case config.ProviderOllama:
		s.title = "Ollama API Key"
		s.isOptional = true
		s.set = func(st *InstallState, k string) { st.Provider.OllamaAPIKey = k }
	case config.ProviderCustom:
		s.title = "API Key"
		s.isOptional = true
		s.set = func(st *InstallState, k string) { st.Provider.CustomOpenAIAPIKey = k }
	default:
		s.title = "OpenAI API Key"
		s.input.Placeholder = "sk-..."
		s.set = func(st *InstallState, k string) { st.Provider.OpenAIAPIKey = k }
	}

	if s.isOptional {
		s.input.Placeholder = "Optional - press Enter to skip"
	}
	s.ready = true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.ready {
		s.initProvider(state)
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if s.input.Value() == "" && !s.isOptional {
			return s, cmd
		}
		s.set(state, s.input.Value())
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if !s.ready {
		return "Loading..."
	}

	optionalHint := ""
	if s.isOptional {
		optionalHint = " (optional - press Enter to skip)"
	}
	return fmt.Sprintf("Enter your %s%s:\n\n%s\n\n(press enter to confirm)\n",
		s.title, optionalHint, s.input.View())
}
