package installer

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/shopdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestEnvContent(t *testing.T) {
	state := NewInstallState()

	content, err := state.EnvContent()
	require.NoError(t, err)
	assert.Empty(t, content, "defaults are not written")

	state.Provider.OpenAIAPIKey = "sk-test"
	state.App.SessionBackend = config.SessionBackendSQLite
	state.Telegram.Token = "123:abc"

	content, err = state.EnvContent()
	require.NoError(t, err)
	assert.Contains(t, content, "DESK_OPENAI_API_KEY=sk-test\n")
	assert.Contains(t, content, "DESK_SESSION_BACKEND=sqlite\n")
	assert.NotContains(t, content, "DESK_TELEGRAM_TOKEN", "telegram answers only count when enabled")

	state.App.EnableTelegram = true
	state.Telegram.OwnerID = 42

	content, err = state.EnvContent()
	require.NoError(t, err)
	assert.Contains(t, content, "DESK_ENABLE_TELEGRAM=true\n")
	assert.Contains(t, content, "DESK_TELEGRAM_TOKEN=123:abc\n")
	assert.Contains(t, content, "DESK_TELEGRAM_OWNER_ID=42\n")
}

func TestChoiceSteps(t *testing.T) {
	state := NewInstallState()

	step := NewProviderStep()
	step, _ = step.Update(keyDown, state, 80, 24)
	require.NotNil(t, step)
	assert.Contains(t, step.View(state), "❯ Anthropic")

	next, _ := step.Update(keyEnter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, config.ProviderAnthropic, state.Provider.Provider)

	step = NewChannelStep()
	step, _ = step.Update(keyDown, state, 80, 24)
	next, _ = step.Update(keyEnter, state, 80, 24)
	assert.Nil(t, next)
	assert.True(t, state.App.EnableTelegram)
}

func TestConditionalStepsSkip(t *testing.T) {
	state := NewInstallState() // openai, no telegram

	for name, step := range map[string]Step{
		"custom url":     NewCustomURLStep(),
		"ollama url":     NewOllamaURLStep(),
		"telegram token": NewTelegramTokenStep(),
		"telegram owner": NewTelegramOwnerStep(),
	} {
		next, _ := step.Update(keyEnter, state, 80, 24)
		assert.Nil(t, next, name)
	}
}

func TestOllamaURLDefaultsToPlaceholder(t *testing.T) {
	state := NewInstallState()
	state.Provider.Provider = config.ProviderOllama
	state.Provider.OllamaBaseURL = ""

	next, _ := NewOllamaURLStep().Update(keyEnter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "http://localhost:11434", state.Provider.OllamaBaseURL)
}

func TestCustomURLIsRequired(t *testing.T) {
	state := NewInstallState()
	state.Provider.Provider = config.ProviderCustom

	step := NewCustomURLStep()
	next, _ := step.Update(keyEnter, state, 80, 24)
	assert.NotNil(t, next)
	assert.Empty(t, state.Provider.CustomOpenAIBaseURL)
}

func TestTelegramOwnerMustBeNumeric(t *testing.T) {
	state := NewInstallState()
	state.App.EnableTelegram = true

	step := NewTelegramOwnerStep()
	for _, r := range "abc" {
		step, _ = step.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, state, 80, 24)
	}
	next, _ := step.Update(keyEnter, state, 80, 24)
	require.NotNil(t, next)
	assert.Contains(t, next.View(state), "must be a number")
	assert.Zero(t, state.Telegram.OwnerID)
}
