package store

import (
	"context"
	"sync"

	"shopstream/internal/cart/models"
	id "shopstream/pkg/domain"
)

// InMemory is the development cart store.
type InMemory struct {
	mu    sync.RWMutex
	carts map[id.SessionID][]models.Line
}

func NewInMemory() *InMemory {
	return &InMemory{carts: make(map[id.SessionID][]models.Line)}
}

func (s *InMemory) Get(_ context.Context, sessionID id.SessionID) ([]models.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.carts[sessionID]
	out := make([]models.Line, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *InMemory) Put(_ context.Context, sessionID id.SessionID, lines []models.Line) error {
	stored := make([]models.Line, len(lines))
	copy(stored, lines)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = stored
	return nil
}

func (s *InMemory) Clear(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
