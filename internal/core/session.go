package core

import (
	"context"
	"maps"
	"slices"
	"strings"
)

type Intent string

const (
	IntentRead         Intent = "READ"
	IntentCreate       Intent = "CREATE"
	IntentUpdate       Intent = "UPDATE"
	IntentDelete       Intent = "DELETE"
	IntentGeneral      Intent = "GENERAL"
	IntentConfirmation Intent = "CONFIRMATION"
)

// ParseIntent normalises a model label. Anything outside the known set is GENERAL.
func ParseIntent(label string) Intent {
	switch i := Intent(strings.ToUpper(strings.TrimSpace(label))); i {
	case IntentRead, IntentCreate, IntentUpdate, IntentDelete, IntentGeneral, IntentConfirmation:
		return i
	default:
		return IntentGeneral
	}
}

// PendingAction is a mutating action staged until the user confirms it.
type PendingAction struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// SessionState is one conversation. AwaitingConfirmation is true iff Pending is set.
type SessionState struct {
	Messages             []Message      `json:"messages"`
	Pending              *PendingAction `json:"pending,omitempty"`
	AwaitingConfirmation bool           `json:"awaiting_confirmation"`
}

func NewSessionState() *SessionState {
	return &SessionState{Messages: []Message{}}
}

func (s *SessionState) Stage(action PendingAction) {
	s.Pending = &action
	s.AwaitingConfirmation = true
}

func (s *SessionState) ClearPending() {
	s.Pending = nil
	s.AwaitingConfirmation = false
}

func (s *SessionState) Append(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// Clone copies the history and the pending action so the copy can be mutated freely.
func (s *SessionState) Clone() *SessionState {
	c := &SessionState{
		Messages:             slices.Clone(s.Messages),
		AwaitingConfirmation: s.AwaitingConfirmation,
	}
	if c.Messages == nil {
		c.Messages = []Message{}
	}
	if s.Pending != nil {
		c.Pending = &PendingAction{Name: s.Pending.Name, Arguments: maps.Clone(s.Pending.Arguments)}
	}
	return c
}

// Recent returns at most n trailing messages.
func (s *SessionState) Recent(n int) []Message {
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*SessionState, error)
	Save(ctx context.Context, sessionID string, state *SessionState) error
	Delete(ctx context.Context, sessionID string) error
	Count(ctx context.Context) (int, error)
}

// ActionCall is a planner proposal, not yet validated against the catalog.
type ActionCall struct {
	Name      string
	Arguments map[string]any
}

// Plan is either a free-text reply or a proposed action.
type Plan struct {
	Text   string
	Action *ActionCall
}
