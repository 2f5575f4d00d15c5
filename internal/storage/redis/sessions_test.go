package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/internal/storage/redis"
	"github.com/sandevgo/shopdesk/internal/storage/storetest"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestSessionStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	storetest.RunSessionStoreContract(t, store)
}

func TestSessionStore_TTL(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(time.Hour), redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Save(ctx, "s1", core.NewSessionState()))

	assert.True(t, mr.Exists("test:s1"))
	assert.Equal(t, time.Hour, mr.TTL("test:s1"))

	mr.FastForward(2 * time.Hour)

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}
