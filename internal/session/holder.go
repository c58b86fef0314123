package session

import (
	"context"
	"sync"
	"time"

	userdomain "github.com/tair/storefront/internal/user/domain"
)

// Session is the identity a holder keeps for a signed-in caller
type Session struct {
	Token     string                `json:"token"`
	User      userdomain.PublicUser `json:"user"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// HolderStore persists sessions outside the entity store
type HolderStore interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Load(ctx context.Context, token string) (Session, bool, error)
	Delete(ctx context.Context, token string) error
}

// MemoryHolderStore keeps sessions in process memory
type MemoryHolderStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	nowFn    func() time.Time
}

type memoryEntry struct {
	session Session
	expires time.Time
}

// NewMemoryHolderStore creates an empty in-memory holder
func NewMemoryHolderStore() *MemoryHolderStore {
	return &MemoryHolderStore{
		sessions: make(map[string]memoryEntry),
		nowFn:    time.Now,
	}
}

// Save stores s until ttl elapses
func (m *MemoryHolderStore) Save(_ context.Context, s Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = memoryEntry{session: s, expires: m.nowFn().Add(ttl)}
	return nil
}

// Load returns the live session for token
func (m *MemoryHolderStore) Load(_ context.Context, token string) (Session, bool, error) {
	m.mu.RLock()
	e, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return Session{}, false, nil
	}
	if !m.nowFn().Before(e.expires) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return Session{}, false, nil
	}
	return e.session, true, nil
}

// Delete forgets the session for token
func (m *MemoryHolderStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
