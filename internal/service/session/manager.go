package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/pkg/log"
)

// lockEntry is a per-session mutex with a reference count so idle entries can be dropped.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes turns per session: load, run, save all happen under one lock.
// Different sessions proceed in parallel.
type Manager struct {
	engine *Engine
	store  core.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry
}

func NewManager(engine *Engine, store core.SessionStore) *Manager {
	return &Manager{
		engine: engine,
		store:  store,
		locks:  make(map[string]*lockEntry),
	}
}

func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

func (m *Manager) withLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	return fn(log.WithFields(ctx, "session", sessionID))
}

// loadOrNew must run under the session lock.
func (m *Manager) loadOrNew(ctx context.Context, sessionID string) (*core.SessionState, bool, error) {
	state, err := m.store.Load(ctx, sessionID)
	if err == nil {
		return state, false, nil
	}
	if !errors.Is(err, core.ErrSessionNotFound) {
		return nil, false, fmt.Errorf("failed to load session: %w", err)
	}
	return core.NewSessionState(), true, nil
}

// GetOrCreate returns a handle to the session, creating and persisting an empty
// one if the id is new.
func (m *Manager) GetOrCreate(ctx context.Context, sessionID string) (*Handle, error) {
	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		state, created, err := m.loadOrNew(ctx, sessionID)
		if err != nil || !created {
			return err
		}

		if err := m.store.Save(ctx, sessionID, state); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		log.FromCtx(ctx).Debug().Msg("session created")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Handle{id: sessionID, m: m}, nil
}

// Count reports how many sessions the store holds.
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.store.Count(ctx)
}

// Handle is a lightweight reference to one conversation.
type Handle struct {
	id string
	m  *Manager
}

func (h *Handle) ID() string {
	return h.id
}

// Submit runs one turn. Only session store failures surface as errors.
func (h *Handle) Submit(ctx context.Context, text string) (string, error) {
	var reply string
	err := h.m.withLock(ctx, h.id, func(ctx context.Context) error {
		state, _, err := h.m.loadOrNew(ctx, h.id)
		if err != nil {
			return err
		}

		reply, err = h.m.engine.Turn(ctx, state, text, h.save)
		if err != nil {
			return err
		}
		return h.save(ctx, state)
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (h *Handle) save(ctx context.Context, state *core.SessionState) error {
	if err := h.m.store.Save(ctx, h.id, state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Reset drops history and any pending action.
func (h *Handle) Reset(ctx context.Context) error {
	return h.m.withLock(ctx, h.id, func(ctx context.Context) error {
		if err := h.m.store.Save(ctx, h.id, core.NewSessionState()); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
		log.FromCtx(ctx).Info().Msg("session reset")
		return nil
	})
}

// State returns a snapshot of the conversation.
func (h *Handle) State(ctx context.Context) (*core.SessionState, error) {
	var state *core.SessionState
	err := h.m.withLock(ctx, h.id, func(ctx context.Context) error {
		var err error
		state, _, err = h.m.loadOrNew(ctx, h.id)
		return err
	})
	return state, err
}
