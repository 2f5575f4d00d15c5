// Package metrics exposes conversation counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Turn branches.
const (
	BranchRead          = "read"
	BranchStaged        = "staged"
	BranchText          = "text"
	BranchConfirmed     = "confirmed"
	BranchDenied        = "denied"
	BranchUnclear       = "unclear"
	BranchFallback      = "fallback"
	BranchUnknownAction = "unknown_action"
)

// Recorder methods are no-ops on a nil receiver, so callers never check.
type Recorder struct {
	registry     *prometheus.Registry
	turns        *prometheus.CounterVec
	actions      *prometheus.CounterVec
	llmDuration  *prometheus.HistogramVec
	promptTokens prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopdesk_turns_total",
				Help: "Conversation turns by the branch they took",
			},
			[]string{"branch"},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopdesk_actions_total",
				Help: "Catalog actions executed, by outcome",
			},
			[]string{"action", "outcome"},
		),
		llmDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shopdesk_llm_duration_seconds",
				Help:    "Duration of model calls",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"call"},
		),
		promptTokens: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shopdesk_prompt_tokens",
				Help:    "Estimated planner prompt size in cl100k_base tokens",
				Buckets: prometheus.ExponentialBuckets(64, 2, 10),
			},
		),
	}

	r.registry.MustRegister(r.turns, r.actions, r.llmDuration, r.promptTokens)
	return r
}

func (r *Recorder) Turn(branch string) {
	if r == nil {
		return
	}
	r.turns.WithLabelValues(branch).Inc()
}

func (r *Recorder) Action(name string, success bool) {
	if r == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	r.actions.WithLabelValues(name, outcome).Inc()
}

func (r *Recorder) LLMCall(call string, d time.Duration) {
	if r == nil {
		return
	}
	r.llmDuration.WithLabelValues(call).Observe(d.Seconds())
}

func (r *Recorder) PromptTokens(n int) {
	if r == nil {
		return
	}
	r.promptTokens.Observe(float64(n))
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
