package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/shopdesk/internal/config"
)

type choice struct {
	label string
	apply func(state *InstallState)
}

// ChoiceStep is a single-select menu; the selected choice writes itself into the state.
type ChoiceStep struct {
	title   string
	choices []choice
	cursor  int
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			s.choices[s.cursor].apply(state)
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, c := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", c.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}

func NewProviderStep() Step {
	pick := func(name string) func(*InstallState) {
		return func(state *InstallState) { state.Provider.Provider = name }
	}
	return &ChoiceStep{
		title: "Select your AI Provider:",
		choices: []choice{
			{label: "OpenAI", apply: pick(config.ProviderOpenAI)},
			{label: "Anthropic", apply: pick(config.ProviderAnthropic)},
			{label: "OpenRouter", apply: pick(config.ProviderOpenRouter)},
			{label: "Ollama", apply: pick(config.ProviderOllama)},
			{label: "Custom OpenAI-compatible", apply: pick(config.ProviderCustom)},
		},
	}
}

func NewChannelStep() Step {
	return &ChoiceStep{
		title: "Where should customers reach the assistant?",
		choices: []choice{
			{label: "HTTP API", apply: func(state *InstallState) {
				state.App.EnableTelegram = false
			}},
			{label: "HTTP API and Telegram", apply: func(state *InstallState) {
				state.App.EnableTelegram = true
			}},
		},
	}
}

func NewSessionBackendStep() Step {
	pick := func(backend string) func(*InstallState) {
		return func(state *InstallState) { state.App.SessionBackend = backend }
	}
	return &ChoiceStep{
		title: "Where should conversations be kept?",
		choices: []choice{
			{label: "In memory (lost on restart)", apply: pick(config.SessionBackendMemory)},
			{label: "SQLite, next to the catalog", apply: pick(config.SessionBackendSQLite)},
			{label: "Redis", apply: pick(config.SessionBackendRedis)},
		},
	}
}
