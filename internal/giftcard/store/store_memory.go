package store

import (
	"context"
	"sync"

	"shopstream/internal/giftcard/models"
)

// InMemory is the development gift card store.
type InMemory struct {
	mu    sync.RWMutex
	cards []models.GiftCard
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, card models.GiftCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = append(s.cards, card)
	return nil
}

func (s *InMemory) List(_ context.Context) ([]models.GiftCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.GiftCard, len(s.cards))
	copy(out, s.cards)
	return out, nil
}
