package testutil

import (
	"testing"
	"time"

	"github.com/nhle/listly/internal/ids"
	"github.com/nhle/listly/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(store.MemoryPath)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// Epoch is the fixed starting instant used by NewTestClock.
var Epoch = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

// NewTestClock returns a clock starting at Epoch that advances one second
// per reading.
func NewTestClock() *ids.FixedClock {
	return ids.NewFixedClock(Epoch, time.Second)
}
