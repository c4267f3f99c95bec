package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetOrCreate(t *testing.T) {
	m := NewManager()
	id := uuid.New()

	first := m.GetOrCreate(id)
	second := m.GetOrCreate(id)

	assert.Same(t, first, second)
	assert.Equal(t, 1, m.Len())

	other := m.GetOrCreate(uuid.New())
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, m.Len())
}

func TestManager_Remove(t *testing.T) {
	m := NewManager()
	id := uuid.New()
	m.GetOrCreate(id)

	m.Remove(id)

	_, ok := m.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	// Removing twice is harmless.
	m.Remove(id)
	assert.Equal(t, 0, m.Len())
}

func TestManager_Expired(t *testing.T) {
	m := NewManager()
	stale := m.GetOrCreate(uuid.New())
	fresh := m.GetOrCreate(uuid.New())

	stale.mu.Lock()
	stale.lastSeen = time.Now().UTC().Add(-2 * time.Hour)
	stale.mu.Unlock()

	expired := m.Expired(time.Hour)
	require.Len(t, expired, 1)
	assert.Same(t, stale, expired[0])
	assert.NotContains(t, expired, fresh)

	// A touch brings an idle session back into the active set.
	stale.Touch()
	assert.Empty(t, m.Expired(time.Hour))
}

func TestSessionIsolation(t *testing.T) {
	m := NewManager()
	a := m.GetOrCreate(uuid.New())
	b := m.GetOrCreate(uuid.New())

	a.Conversation().AppendUserTurn("hello from a")
	a.Cache().Store("fp-a", "text a")

	assert.Equal(t, 0, b.Conversation().Len())
	assert.Equal(t, "", b.Conversation().RenderContext())
	_, ok := b.Cache().Lookup("fp-a")
	assert.False(t, ok)

	b.Conversation().AppendUserTurn("hello from b")
	assert.Equal(t, "User: hello from a", a.Conversation().RenderContext())
	assert.Equal(t, "User: hello from b", b.Conversation().RenderContext())
}
