// Package session runs the conversation state machine: one turn in, one reply out,
// with mutating actions parked until the user confirms them.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/internal/metrics"
	"github.com/sandevgo/shopdesk/internal/service/catalog"
	"github.com/sandevgo/shopdesk/internal/service/confirm"
	"github.com/sandevgo/shopdesk/internal/service/format"
	"github.com/sandevgo/shopdesk/pkg/log"
)

// classifierWindow is how many trailing messages the classifier sees.
const classifierWindow = 3

type Classifier interface {
	Classify(ctx context.Context, recent []core.Message) (core.Intent, error)
}

type Planner interface {
	Plan(ctx context.Context, history []core.Message, intent core.Intent, tools []core.Tool) (core.Plan, error)
}

type Executor interface {
	Execute(ctx context.Context, name string, args map[string]any) core.ActionResult
}

type Engine struct {
	classifier Classifier
	planner    Planner
	executor   Executor
	tools      []core.Tool
	metrics    *metrics.Recorder
	llmTimeout time.Duration
}

type Option func(*Engine)

func WithMetrics(rec *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = rec
	}
}

// WithLLMTimeout bounds each classifier and planner call. Zero disables it.
func WithLLMTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.llmTimeout = d
	}
}

func NewEngine(classifier Classifier, planner Planner, executor Executor, opts ...Option) *Engine {
	e := &Engine{
		classifier: classifier,
		planner:    planner,
		executor:   executor,
		tools:      catalog.Tools(),
		llmTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Checkpoint persists state before an action with side effects runs.
type Checkpoint func(ctx context.Context, state *core.SessionState) error

// Turn applies one user message to state and returns the reply, which is also
// appended to the history. Model and catalog problems become replies. The only
// error is a failed checkpoint, in which case the confirmed action did not run.
func (e *Engine) Turn(ctx context.Context, state *core.SessionState, text string, checkpoint Checkpoint) (string, error) {
	state.Append(core.RoleUser, text)

	// A flag without an action can only come from a hand-edited store; treat it as idle.
	if state.AwaitingConfirmation && state.Pending == nil {
		log.FromCtx(ctx).Warn().Msg("awaiting confirmation without a pending action, resetting")
		state.ClearPending()
	}

	var reply string
	if state.AwaitingConfirmation {
		var err error
		if reply, err = e.resolvePending(ctx, state, text, checkpoint); err != nil {
			return "", err
		}
	} else {
		reply = e.plan(ctx, state)
	}

	state.Append(core.RoleAssistant, reply)
	return reply, nil
}

func (e *Engine) resolvePending(ctx context.Context, state *core.SessionState, text string, checkpoint Checkpoint) (string, error) {
	logger := log.FromCtx(ctx)
	decision := confirm.Resolve(text)
	logger.Debug().Str("decision", decision.String()).Str("action", state.Pending.Name).Msg("confirmation reply")

	switch decision {
	case confirm.Confirm:
		pending := *state.Pending
		state.ClearPending()

		// Store the cleared state first; a lost save must not replay the action.
		if checkpoint != nil {
			if err := checkpoint(ctx, state); err != nil {
				return "", err
			}
		}

		e.metrics.Turn(metrics.BranchConfirmed)
		return format.Result(e.execute(ctx, pending.Name, pending.Arguments)), nil

	case confirm.Deny:
		state.ClearPending()
		e.metrics.Turn(metrics.BranchDenied)
		return format.DenyReply, nil

	default:
		e.metrics.Turn(metrics.BranchUnclear)
		return format.UnclearReply, nil
	}
}

func (e *Engine) plan(ctx context.Context, state *core.SessionState) string {
	logger := log.FromCtx(ctx)

	intent, err := e.classify(ctx, state.Recent(classifierWindow))
	if err != nil {
		logger.Warn().Err(err).Msg("intent classification failed, falling back to GENERAL")
		intent = core.IntentGeneral
	}

	planCtx, cancel := e.withTimeout(ctx)
	plan, err := e.planner.Plan(planCtx, state.Messages, intent, e.tools)
	cancel()
	if err != nil {
		logger.Error().Err(err).Str("intent", string(intent)).Msg("planning failed")
		e.metrics.Turn(metrics.BranchFallback)
		return format.FallbackReply
	}

	if plan.Action == nil {
		e.metrics.Turn(metrics.BranchText)
		return plan.Text
	}

	name := plan.Action.Name
	d, ok := catalog.Lookup(name)
	if !ok {
		logger.Warn().Str("action", name).Msg("planner proposed an unknown action")
		e.metrics.Turn(metrics.BranchUnknownAction)
		return fmt.Sprintf("⚠️ Unknown action '%s'.", name)
	}

	if d.Kind == catalog.KindMutating {
		state.Stage(core.PendingAction{Name: name, Arguments: plan.Action.Arguments})
		logger.Info().Str("action", name).Str("intent", string(intent)).Msg("action staged for confirmation")
		e.metrics.Turn(metrics.BranchStaged)
		return format.ConfirmPrompt(name, plan.Action.Arguments)
	}

	e.metrics.Turn(metrics.BranchRead)
	return format.Result(e.execute(ctx, name, plan.Action.Arguments))
}

func (e *Engine) classify(ctx context.Context, recent []core.Message) (core.Intent, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.classifier.Classify(ctx, recent)
}

func (e *Engine) execute(ctx context.Context, name string, args map[string]any) core.ActionResult {
	res := e.executor.Execute(ctx, name, args)
	e.metrics.Action(name, res.Success)
	log.FromCtx(ctx).Info().Str("action", name).Bool("success", res.Success).Msg("action executed")
	return res
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.llmTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.llmTimeout)
}
