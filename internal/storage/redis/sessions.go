// Package redis keeps conversation state in Redis so several shopdesk
// processes can serve the same conversations.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/shopdesk/internal/core"
	backend "github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "shopdesk:session:"

	// score used for sessions that never expire (2100-01-01)
	noExpiryScore = 4102444800
)

// SessionStore implements core.SessionStore. Every state is a JSON string under
// prefix+id, and a sorted set scored by expiry tracks the live ids for Count.
type SessionStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*SessionStore)

func WithTTL(ttl time.Duration) Option {
	return func(s *SessionStore) {
		s.ttl = ttl
	}
}

func WithPrefix(prefix string) Option {
	return func(s *SessionStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

func New(address, password string, db int, opts ...Option) *SessionStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

func NewFromClient(client *backend.Client, opts ...Option) *SessionStore {
	store := &SessionStore{
		client: client,
		prefix: defaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *SessionStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *SessionStore) indexKey() string {
	return s.prefix + "index"
}

// Ping verifies connectivity at startup.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, state *core.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	score := float64(noExpiryScore)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	pipe := s.client.Pipeline()

	// 1. State with TTL (0 keeps it forever)
	pipe.Set(ctx, s.key(sessionID), data, s.ttl)

	// 2. Index entry scored by expiry
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: sessionID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (*core.SessionState, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	state := core.NewSessionState()
	if err := json.Unmarshal(val, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return state, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(sessionID))
	pipe.ZRem(ctx, s.indexKey(), sessionID)

	_, err := pipe.Exec(ctx)
	return err
}

// Count prunes index entries whose TTL has passed and returns what is left.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return 0, fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	n, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return int(n), nil
}

func (s *SessionStore) Close() error {
	return s.client.Close()
}
