package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Provider  string        `env:"DESK_MODEL_PROVIDER" envDefault:"openai"`
	Model     string        `env:"DESK_MAIN_MODEL,required"`
	OwnerID   int64         `env:"DESK_TELEGRAM_OWNER_ID"`
	Telegram  bool          `env:"DESK_ENABLE_TELEGRAM"`
	Timeout   time.Duration `env:"DESK_LLM_TIMEOUT" envDefault:"60s"`
	Origins   []string      `env:"DESK_HTTP_CORS_ORIGINS"`
	Untagged  string
	unexposed string `env:"IGNORED"`
}

func TestMarshalEnv(t *testing.T) {
	tests := []struct {
		name     string
		input    sampleConfig
		expected string
	}{
		{
			name:     "zero struct",
			input:    sampleConfig{},
			expected: "",
		},
		{
			name:     "defaults are skipped",
			input:    sampleConfig{Provider: "openai", Timeout: time.Minute, Model: "gpt-4o"},
			expected: "DESK_MAIN_MODEL=gpt-4o\n",
		},
		{
			name: "sorted keys with typed values",
			input: sampleConfig{
				Provider: "anthropic",
				Model:    "claude-sonnet",
				OwnerID:  42,
				Telegram: true,
				Timeout:  90 * time.Second,
				Origins:  []string{"http://a", "http://b"},
				Untagged: "x",
			},
			expected: "DESK_ENABLE_TELEGRAM=true\n" +
				"DESK_HTTP_CORS_ORIGINS=http://a,http://b\n" +
				"DESK_LLM_TIMEOUT=1m30s\n" +
				"DESK_MAIN_MODEL=claude-sonnet\n" +
				"DESK_MODEL_PROVIDER=anthropic\n" +
				"DESK_TELEGRAM_OWNER_ID=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.input
			got, err := MarshalEnv(&cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMarshalEnv_RejectsNonPointer(t *testing.T) {
	_, err := MarshalEnv(sampleConfig{})
	assert.Error(t, err)
}

func TestMarshalMap_QuotesSpaces(t *testing.T) {
	got := MarshalMap(map[string]string{"B": "two words", "A": "plain"})
	assert.Equal(t, "A=plain\nB=\"two words\"\n", got)
}
