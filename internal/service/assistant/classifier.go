// Package assistant wraps the language model in the two roles a turn needs:
// a cheap intent classifier and a tool-calling planner.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/internal/metrics"
	"github.com/sandevgo/shopdesk/pkg/log"
)

type Classifier struct {
	ai      core.AIProvider
	metrics *metrics.Recorder
}

func NewClassifier(ai core.AIProvider, rec *metrics.Recorder) *Classifier {
	return &Classifier{ai: ai, metrics: rec}
}

// Classify labels the last message of recent, using the rest as context.
// Labels outside the known set come back as GENERAL.
func (c *Classifier) Classify(ctx context.Context, recent []core.Message) (core.Intent, error) {
	if len(recent) == 0 {
		return core.IntentGeneral, nil
	}

	prompt := buildClassifierPrompt(recent)

	start := time.Now()
	resp, err := c.ai.Chat(ctx, []core.Message{{Role: core.RoleUser, Content: prompt}}, nil)
	c.metrics.LLMCall("classify", time.Since(start))
	if err != nil {
		return core.IntentGeneral, fmt.Errorf("intent classification failed: %w", err)
	}

	intent := core.ParseIntent(resp.Content)
	log.FromCtx(ctx).Debug().Str("raw", resp.Content).Str("intent", string(intent)).Msg("classified intent")
	return intent, nil
}

func buildClassifierPrompt(recent []core.Message) string {
	lines := make([]string, 0, len(recent))
	for _, m := range recent {
		speaker := "Assistant"
		if m.Role == core.RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+m.Content)
	}

	var sb strings.Builder
	sb.WriteString(intentSystemPrompt)
	sb.WriteString("\n\nRECENT CONVERSATION:\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\nUSER'S LATEST MESSAGE:\n")
	sb.WriteString(recent[len(recent)-1].Content)
	sb.WriteString("\n\nINTENT:")
	return sb.String()
}
