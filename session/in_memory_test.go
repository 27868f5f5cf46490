package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noeul-sumini/travel-agent/core"
)

// Interface compliance (compile-time assertion)
var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_GetUnknownReturnsEmpty(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Equal(t, "nope", sess.ID)
	assert.Empty(t, sess.Messages)
	assert.Empty(t, sess.Context)
}

func TestInMemoryStore_AppendAndGet(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "abc", core.NewUserMessage("Hello"), core.NewAssistantMessage("Hi")))

	sess, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, core.RoleUser, sess.Messages[0].Role)
	assert.Equal(t, "Hello", sess.Messages[0].Content)
	assert.Equal(t, core.RoleAssistant, sess.Messages[1].Role)
}

func TestInMemoryStore_GetReturnsSnapshot(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "abc", core.NewUserMessage("Hello")))

	sess, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	sess.Messages[0].Content = "mutated"

	again, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Hello", again.Messages[0].Content)
}

func TestInMemoryStore_TTLExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	store := NewInMemoryStore(func(o *Options) {
		o.TTL = time.Hour
		o.Clock = func() time.Time { return clock() }
	})
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "abc", core.NewUserMessage("Hello")))

	now = now.Add(30 * time.Minute)
	sess, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Len(t, sess.Messages, 1, "unexpired session keeps history")

	now = now.Add(2 * time.Hour)
	sess, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, sess.Messages, "expired session reads as empty")
}

func TestInMemoryStore_TTLSlidesOnWrite(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	store := NewInMemoryStore(func(o *Options) {
		o.TTL = time.Hour
		o.Clock = func() time.Time { return clock() }
	})
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "abc", core.NewUserMessage("one")))

	// A write 50 minutes in extends the lifetime past the original expiry.
	now = now.Add(50 * time.Minute)
	require.NoError(t, store.Append(ctx, "abc", core.NewUserMessage("two")))

	now = now.Add(50 * time.Minute)
	sess, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Len(t, sess.Messages, 2)
}

func TestInMemoryStore_ConcurrentAppendsLoseNothing(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Append(ctx, "abc", core.NewUserMessage("q"), core.NewAssistantMessage("a"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2*n)

	// Each request's user-then-assistant pair must land adjacently.
	for i := 0; i < len(sess.Messages); i += 2 {
		assert.Equal(t, core.RoleUser, sess.Messages[i].Role)
		assert.Equal(t, core.RoleAssistant, sess.Messages[i+1].Role)
	}
}

func TestInMemoryStore_Context(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetContext(ctx, "abc", map[string]any{"destination": "Busan"}))

	got, err := store.GetContext(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Busan", got["destination"])

	// Last write wins wholesale.
	require.NoError(t, store.SetContext(ctx, "abc", map[string]any{"budget": 500000}))
	got, err = store.GetContext(ctx, "abc")
	require.NoError(t, err)
	assert.NotContains(t, got, "destination")
	assert.Equal(t, 500000, got["budget"])
}

func TestInMemoryStore_Clear(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "abc", core.NewUserMessage("Hello")))
	require.NoError(t, store.Clear(ctx, "abc"))

	sess, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, sess.Messages)
}
