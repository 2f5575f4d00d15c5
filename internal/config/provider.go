package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/shopdesk/pkg/log"
)

const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"
)

type ProviderConfig struct {
	Provider string `env:"DESK_MODEL_PROVIDER" envDefault:"openai"`

	// Planner model; the classifier gets a cheaper one
	Model           string `env:"DESK_MAIN_MODEL" envDefault:"gpt-4o"`
	ClassifierModel string `env:"DESK_CLASSIFIER_MODEL" envDefault:"gpt-4o-mini"`

	OpenAIAPIKey        string `env:"DESK_OPENAI_API_KEY"`
	AnthropicAPIKey     string `env:"DESK_ANTHROPIC_API_KEY"`
	OpenRouterAPIKey    string `env:"DESK_OPENROUTER_API_KEY"`
	OllamaBaseURL       string `env:"DESK_OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey        string `env:"DESK_OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"DESK_CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"DESK_CUSTOM_OPENAI_API_KEY"`
}

func NewProviderConfig(ctx context.Context) *ProviderConfig {
	c := &ProviderConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Provider config")
	}
	return c
}

func (c ProviderConfig) GetProvider() string {
	return c.Provider
}

func (c ProviderConfig) GetModel() string {
	return c.Model
}

func (c ProviderConfig) GetClassifierModel() string {
	if c.ClassifierModel == "" {
		return c.Model
	}
	return c.ClassifierModel
}
