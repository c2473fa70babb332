package store

import (
	"context"
	"sync"
	"time"

	"shopstream/internal/session/models"
	id "shopstream/pkg/domain"
	"shopstream/pkg/platform/sentinel"
)

// InMemory keeps sessions in process memory with lazy expiry: expired
// entries are dropped when touched by a read.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]models.Session
}

func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[id.SessionID]models.Session)}
}

func (s *InMemory) Save(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *InMemory) FindByID(_ context.Context, sessionID id.SessionID) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return models.Session{}, sentinel.ErrNotFound
	}
	if session.Expired(time.Now()) {
		delete(s.sessions, sessionID)
		return models.Session{}, sentinel.ErrNotFound
	}
	return session, nil
}

func (s *InMemory) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemory) ListActive(_ context.Context, now time.Time) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := make([]models.Session, 0, len(s.sessions))
	for sessionID, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, sessionID)
			continue
		}
		active = append(active, session)
	}
	return active, nil
}
