// Package session holds the per-visitor state of the matcher: the chat
// history and the extraction cache. Sessions live in memory only and no
// state survives their removal.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the unit of isolation. Each visitor gets their own
// conversation and document cache; nothing is shared across sessions.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	conversation *Conversation
	cache        *DocumentCache

	mu       sync.Mutex
	lastSeen time.Time
}

// New constructs an empty session.
func New(id uuid.UUID) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		conversation: NewConversation(),
		cache:        NewDocumentCache(),
		lastSeen:     now,
	}
}

// Conversation returns the session's chat history.
func (s *Session) Conversation() *Conversation { return s.conversation }

// Cache returns the session's extraction cache.
func (s *Session) Cache() *DocumentCache { return s.cache }

// Touch marks the session as active now.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now().UTC()
	s.mu.Unlock()
}

// LastSeen reports when the session last served a request.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager is the in-memory registry of live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager constructs an empty registry.
func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session)}
}

// GetOrCreate returns the session for id, creating it on first use, and
// marks it active.
func (m *Manager) GetOrCreate(id uuid.UUID) *Session {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		s = New(id)
		m.sessions[id] = s
	}
	m.mu.Unlock()
	s.Touch()
	return s
}

// Get returns the session for id if it exists.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove forgets the session. Its conversation and cache become
// unreachable immediately.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Expired returns the sessions that have been idle for longer than maxIdle.
func (m *Manager) Expired(maxIdle time.Duration) []*Session {
	cutoff := time.Now().UTC().Add(-maxIdle)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Session
	for _, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}
