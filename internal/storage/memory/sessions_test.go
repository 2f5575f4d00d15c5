package memory_test

import (
	"testing"

	"github.com/sandevgo/shopdesk/internal/storage/memory"
	"github.com/sandevgo/shopdesk/internal/storage/storetest"
)

func TestSessionStore_Contract(t *testing.T) {
	storetest.RunSessionStoreContract(t, memory.NewSessionStore())
}
