package feepanel

import (
	"sync"

	"github.com/google/uuid"
)

// Manager tracks the open panel sessions of the running server. One
// instance is wired into the billing routes; there is no package-level
// state, so two panels can never perturb each other's totals.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Open creates a session for a fee snapshot and returns its panel id.
func (m *Manager) Open(records []FeeRecord, cfg Config) (string, *Session, error) {
	session, err := NewSession(records, cfg)
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()
	return id, session, nil
}

// Get looks up an open panel by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	return session, ok
}

// Close tears down one panel and cancels its pending recompute. Closing
// an unknown id is a no-op.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		session.Close()
	}
}

// Count returns the number of open panels.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
