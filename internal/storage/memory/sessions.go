// Package memory keeps conversation state in process. It is the default
// backend and loses everything on restart.
package memory

import (
	"context"
	"sync"

	"github.com/sandevgo/shopdesk/internal/core"
)

// SessionStore implements core.SessionStore. Safe for concurrent use.
type SessionStore struct {
	data map[string]*core.SessionState
	mu   sync.RWMutex
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		data: make(map[string]*core.SessionState),
	}
}

func (s *SessionStore) Save(_ context.Context, sessionID string, state *core.SessionState) error {
	copied := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load returns a copy so callers can't mutate stored state through the pointer.
func (s *SessionStore) Load(_ context.Context, sessionID string) (*core.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[sessionID]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return state.Clone(), nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SessionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}
