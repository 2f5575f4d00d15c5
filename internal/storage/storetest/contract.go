// Package storetest holds the behaviour every core.SessionStore backend must share.
package storetest

import (
	"context"
	"testing"

	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func RunSessionStoreContract(t *testing.T, store core.SessionStore) {
	ctx := context.Background()
	sessionID := "contract-" + t.Name()

	t.Run("Save and Load", func(t *testing.T) {
		state := core.NewSessionState()
		state.Append(core.RoleUser, "Update order ORD-1002 to Shipped")
		state.Append(core.RoleAssistant, "I'm about to perform the following action:")
		state.Stage(core.PendingAction{
			Name:      "update_order_status",
			Arguments: map[string]any{"order_number": "ORD-1002", "new_status": "Shipped"},
		})

		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		require.Len(t, loaded.Messages, 2)
		assert.Equal(t, core.RoleUser, loaded.Messages[0].Role)
		assert.True(t, loaded.AwaitingConfirmation)
		require.NotNil(t, loaded.Pending)
		assert.Equal(t, "update_order_status", loaded.Pending.Name)
		assert.Equal(t, "Shipped", loaded.Pending.Arguments["new_status"])
	})

	t.Run("Loaded state is a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)

		loaded.Append(core.RoleUser, "yes")
		loaded.Pending.Arguments["new_status"] = "Delivered"
		loaded.ClearPending()

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Len(t, again.Messages, 2)
		assert.True(t, again.AwaitingConfirmation)
		assert.Equal(t, "Shipped", again.Pending.Arguments["new_status"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+sessionID)
		assert.ErrorIs(t, err, core.ErrSessionNotFound)
	})

	t.Run("Count", func(t *testing.T) {
		other := sessionID + "-other"
		require.NoError(t, store.Save(ctx, other, core.NewSessionState()))
		defer func() { _ = store.Delete(ctx, other) }()

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, core.ErrSessionNotFound)

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		// deleting twice is not an error
		assert.NoError(t, store.Delete(ctx, sessionID))
	})
}
