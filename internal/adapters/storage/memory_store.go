package storage

import (
	"context"
	"sync"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/ports"
)

// MemorySessionStore keeps the session for the lifetime of the process only
type MemorySessionStore struct {
	mu      sync.Mutex
	session *domain.Session
}

// Verify interface compliance at compile time
var _ ports.SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates an empty MemorySessionStore
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (m *MemorySessionStore) Load(_ context.Context) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	copied := *m.session
	return &copied, nil
}

func (m *MemorySessionStore) Save(_ context.Context, session domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &session
	return nil
}

func (m *MemorySessionStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

func (m *MemorySessionStore) Close() error { return nil }
