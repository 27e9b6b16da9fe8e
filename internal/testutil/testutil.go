package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meera/leitbox/internal/repository/kv"
	"github.com/meera/leitbox/internal/services"
	"github.com/meera/leitbox/internal/storage"
)

// NewTestStore returns an in-memory store with the given byte quota
// (0 for unlimited).
func NewTestStore(t *testing.T, maxBytes int) *storage.MemoryStore {
	t.Helper()
	return storage.NewMemoryStore(maxBytes)
}

// NewTestDeckService builds a loaded DeckService over an in-memory store.
func NewTestDeckService(t *testing.T, store storage.Store) services.DeckService {
	t.Helper()
	svc := services.NewDeckService(kv.NewDeckRepository(store))
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
