package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skanderbz/tutord/internal/logging"
)

func newTestStore() *Store {
	return NewStore(24*time.Hour, logging.Nop())
}

func TestCreateAndHistory(t *testing.T) {
	store := newTestStore()

	id := store.Create()
	require.NotEmpty(t, id)
	assert.Empty(t, store.GetHistory(id))

	store.Append(id, "what is ML?", "Machine learning is...")
	history := store.GetHistory(id)
	require.Len(t, history, 1)
	assert.Equal(t, "what is ML?", history[0].UserText)
	assert.Equal(t, "Machine learning is...", history[0].AIText)
	assert.False(t, history[0].Timestamp.IsZero())
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	store := newTestStore()
	id := store.Create()

	for i := 0; i < 25; i++ {
		store.Append(id, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	history := store.GetHistory(id)
	require.Len(t, history, MaxHistory)
	// The retained tail is the 20 most recent, in original order.
	assert.Equal(t, "q5", history[0].UserText)
	assert.Equal(t, "q24", history[MaxHistory-1].UserText)
}

func TestReadMissVersusWriteMissAsymmetry(t *testing.T) {
	store := newTestStore()

	// A read-only probe must not conjure a session.
	assert.Empty(t, store.GetHistory("ghost-read"))
	assert.Empty(t, store.List())

	// A write to an unknown id materializes it under that exact id.
	store.Append("ghost-write", "hi", "hello")
	infos := store.List()
	require.Len(t, infos, 1)
	assert.Equal(t, "ghost-write", infos[0].ID)
	assert.Equal(t, 1, infos[0].MessageCount)
}

func TestClearIsIdempotent(t *testing.T) {
	store := newTestStore()
	id := store.Create()

	store.Clear(id)
	assert.Empty(t, store.List())

	// Clearing again (or clearing garbage) must not panic.
	store.Clear(id)
	store.Clear("never-existed")
}

func TestExpirySweep(t *testing.T) {
	store := NewStore(time.Hour, logging.Nop())
	current := time.Now()
	store.now = func() time.Time { return current }

	stale := store.Create()
	store.Append(stale, "old", "answer")

	current = current.Add(2 * time.Hour)
	fresh := store.Create()

	infos := store.List()
	require.Len(t, infos, 1)
	assert.Equal(t, fresh, infos[0].ID)

	// The stale id is gone for reads too.
	assert.Empty(t, store.GetHistory(stale))
}

func TestStatsEmptyStore(t *testing.T) {
	store := newTestStore()
	st := store.GetStats()

	assert.Equal(t, 0, st.TotalSessions)
	assert.Equal(t, 0, st.TotalMessages)
	assert.Equal(t, 0.0, st.AvgMessagesPerSession)
}

func TestStatsAverages(t *testing.T) {
	store := newTestStore()

	a := store.Create()
	b := store.Create()
	store.Append(a, "q", "a")
	store.Append(a, "q", "a")
	store.Append(b, "q", "a")

	st := store.GetStats()
	assert.Equal(t, 2, st.TotalSessions)
	assert.Equal(t, 3, st.TotalMessages)
	assert.Equal(t, 1.5, st.AvgMessagesPerSession)
}

func TestContextBag(t *testing.T) {
	store := newTestStore()
	id := store.Create()

	store.UpdateContext(id, map[string]any{"topic": "calculus"})
	store.UpdateContext(id, map[string]any{"level": 2})

	ctx := store.GetContext(id)
	assert.Equal(t, "calculus", ctx["topic"])
	assert.Equal(t, 2, ctx["level"])

	// Updates to unknown sessions are dropped, not materialized.
	store.UpdateContext("ghost", map[string]any{"x": 1})
	assert.Empty(t, store.GetContext("ghost"))
	assert.Len(t, store.List(), 1)
}

func TestConcurrentAppendsSameSession(t *testing.T) {
	store := newTestStore()
	id := store.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.Append(id, fmt.Sprintf("q%d", n), fmt.Sprintf("a%d", n))
		}(i)
	}
	wg.Wait()

	history := store.GetHistory(id)
	require.Len(t, history, MaxHistory)

	// No exchange may be duplicated or torn.
	seen := make(map[string]bool, len(history))
	for _, ex := range history {
		require.False(t, seen[ex.UserText], "duplicate exchange %s", ex.UserText)
		seen[ex.UserText] = true
	}

	st := store.GetStats()
	assert.Equal(t, 1, st.TotalSessions)
	assert.Equal(t, MaxHistory, st.TotalMessages)
}

func TestConcurrentMixedOperations(t *testing.T) {
	store := newTestStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := store.Create()
			store.Append(id, "q", "a")
			_ = store.GetHistory(id)
			_ = store.List()
			_ = store.GetStats()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, store.GetStats().TotalSessions)
}
