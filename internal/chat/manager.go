package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type sessionKey struct {
	userID   uuid.UUID
	recordID uuid.UUID
}

// ClientFactory builds a Client bound to a specific API key, so each user's
// tutoring runs under their own key.
type ClientFactory func(ctx context.Context, apiKey string) (Client, error)

// Manager caches one session per (user, record). A session is rebuilt when
// the record's study material changes, since the system instruction bakes
// the material in at conversation start.
type Manager struct {
	mu       sync.Mutex
	factory  ClientFactory
	sessions map[sessionKey]*Session
}

func NewManager(factory ClientFactory) *Manager {
	return &Manager{
		factory:  factory,
		sessions: make(map[sessionKey]*Session),
	}
}

func (m *Manager) Session(ctx context.Context, userID, recordID uuid.UUID, contextText, apiKey string) (*Session, error) {
	key := sessionKey{userID: userID, recordID: recordID}

	m.mu.Lock()
	existing, ok := m.sessions[key]
	m.mu.Unlock()

	if ok && existing.ContextText() == contextText {
		return existing, nil
	}

	client, err := m.factory(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	session, err := NewSession(ctx, client, contextText)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[key] = session
	m.mu.Unlock()
	return session, nil
}

// Drop removes any session for the record, e.g. after the record is
// deleted from history.
func (m *Manager) Drop(userID, recordID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey{userID: userID, recordID: recordID})
}
