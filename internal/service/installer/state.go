package installer

import (
	"fmt"
	"strings"

	"github.com/sandevgo/shopdesk/internal/config"
	"github.com/sandevgo/shopdesk/pkg/env"
)

// InstallState collects the answers as the config structs the service later parses.
type InstallState struct {
	App      config.AppConfig
	Provider config.ProviderConfig
	Telegram config.TelegramConfig
}

func NewInstallState() *InstallState {
	return &InstallState{
		App: config.AppConfig{
			DBDriver:       "sqlite3",
			SeedOnStart:    true,
			EnableHTTP:     true,
			SessionBackend: config.SessionBackendMemory,
		},
		Provider: config.ProviderConfig{
			Provider:        config.ProviderOpenAI,
			Model:           "gpt-4o",
			ClassifierModel: "gpt-4o-mini",
			OllamaBaseURL:   "http://localhost:11434",
		},
	}
}

// EnvContent renders the non-default answers as .env lines.
func (s *InstallState) EnvContent() (string, error) {
	var sb strings.Builder

	sections := []any{&s.App, &s.Provider}
	if s.App.EnableTelegram {
		sections = append(sections, &s.Telegram)
	}

	for _, section := range sections {
		content, err := env.MarshalEnv(section)
		if err != nil {
			return "", fmt.Errorf("failed to render %T: %w", section, err)
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}
