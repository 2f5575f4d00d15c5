package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		label    string
		expected Intent
	}{
		{"READ", IntentRead},
		{" create\n", IntentCreate},
		{"Update", IntentUpdate},
		{"DELETE", IntentDelete},
		{"CONFIRMATION", IntentConfirmation},
		{"GENERAL", IntentGeneral},
		{"READ.", IntentGeneral},
		{"The intent is READ", IntentGeneral},
		{"", IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseIntent(tt.label))
		})
	}
}

func TestSessionState_StageAndClearKeepFlagInSync(t *testing.T) {
	s := NewSessionState()
	assert.False(t, s.AwaitingConfirmation)
	assert.Nil(t, s.Pending)

	s.Stage(PendingAction{Name: "cancel_order", Arguments: map[string]any{"order_number": "ORD-1002"}})
	assert.True(t, s.AwaitingConfirmation)
	assert.Equal(t, "cancel_order", s.Pending.Name)

	s.ClearPending()
	assert.False(t, s.AwaitingConfirmation)
	assert.Nil(t, s.Pending)
}

func TestSessionState_Recent(t *testing.T) {
	s := NewSessionState()
	assert.Empty(t, s.Recent(3))

	for i := 0; i < 5; i++ {
		s.Append(RoleUser, fmt.Sprintf("m%d", i))
	}

	recent := s.Recent(3)
	assert.Len(t, recent, 3)
	assert.Equal(t, "m2", recent[0].Content)
	assert.Equal(t, "m4", recent[2].Content)
}

func TestErrorTaxonomy(t *testing.T) {
	assert.ErrorIs(t, OrderNotFound("ORD-9999"), ErrNotFound)
	assert.Equal(t, "Order ORD-9999 not found.", OrderNotFound("ORD-9999").Error())
	assert.Equal(t, "Product 'Tablet' not found.", ProductNotFound("Tablet").Error())

	wrapped := fmt.Errorf("create order: %w", &InsufficientStockError{Available: 3})
	assert.True(t, IsConflict(wrapped))
	assert.Equal(t, "Insufficient stock. Only 3 units available.", errors.Unwrap(wrapped).Error())

	assert.True(t, IsConflict(&ActiveOrdersError{Product: "USB-C Hub", Count: 1}))
	assert.True(t, IsConflict(&ConflictError{Reason: "dup"}))
	assert.False(t, IsConflict(OrderNotFound("ORD-1")))
}
