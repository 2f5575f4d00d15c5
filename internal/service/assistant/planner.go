package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/internal/metrics"
	"github.com/sandevgo/shopdesk/pkg/log"
)

var ErrEmptyResponse = errors.New("model returned neither text nor a tool call")

type Planner struct {
	ai       core.AIProvider
	metrics  *metrics.Recorder
	tokenize func(texts ...string) int
}

func NewPlanner(ai core.AIProvider, rec *metrics.Recorder) *Planner {
	return &Planner{ai: ai, metrics: rec, tokenize: countTokens}
}

// Plan asks the model for the next step. Only the first proposed tool call is
// used; any further calls in the same response are dropped.
func (p *Planner) Plan(ctx context.Context, history []core.Message, intent core.Intent, tools []core.Tool) (core.Plan, error) {
	logger := log.FromCtx(ctx)

	messages := make([]core.Message, 0, len(history)+1)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: fmt.Sprintf(plannerSystemPrompt, intent)})
	messages = append(messages, history...)

	if n := p.promptTokens(messages); n >= 0 {
		p.metrics.PromptTokens(n)
		logger.Debug().Int("tokens", n).Int("messages", len(messages)).Msg("planner prompt")
	}

	start := time.Now()
	resp, err := p.ai.Chat(ctx, messages, tools)
	p.metrics.LLMCall("plan", time.Since(start))
	if err != nil {
		return core.Plan{}, fmt.Errorf("planner call failed: %w", err)
	}

	if len(resp.ToolCalls) == 0 {
		if strings.TrimSpace(resp.Content) == "" {
			return core.Plan{}, ErrEmptyResponse
		}
		return core.Plan{Text: resp.Content}, nil
	}

	if len(resp.ToolCalls) > 1 {
		logger.Warn().Int("count", len(resp.ToolCalls)).Msg("model proposed several actions, keeping the first")
	}

	call := resp.ToolCalls[0]
	args, err := decodeArguments(call.Function.Arguments)
	if err != nil {
		return core.Plan{}, fmt.Errorf("invalid arguments for %s: %w", call.Function.Name, err)
	}

	logger.Debug().Str("action", call.Function.Name).Msg("planner proposed action")
	return core.Plan{
		Text:   resp.Content,
		Action: &core.ActionCall{Name: call.Function.Name, Arguments: args},
	}, nil
}

func decodeArguments(raw string) (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func (p *Planner) promptTokens(messages []core.Message) int {
	if p.tokenize == nil {
		return -1
	}
	texts := make([]string, 0, len(messages))
	for _, m := range messages {
		texts = append(texts, m.Content)
	}
	return p.tokenize(texts...)
}
