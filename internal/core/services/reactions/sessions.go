package reactions

import (
	"sync"
	"time"

	"crafty-bot/internal/core/domain"
)

// SessionStore maps message IDs to their interaction session.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return newSessionStore(time.Now)
}

func newSessionStore(now func() time.Time) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		now:      now,
	}
}

// Create replaces any session already attached to the message.
func (s *SessionStore) Create(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.MessageID] = session
}

// Get reports a session as missing once it has expired, even before a sweep.
func (s *SessionStore) Get(messageID string) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[messageID]
	if !ok || session.Expired(s.now()) {
		return domain.Session{}, false
	}
	return session, true
}

func (s *SessionStore) Remove(messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, messageID)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
