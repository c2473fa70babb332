package store

import (
	"context"
	"sync"
	"time"

	"shopstream/pkg/platform/sentinel"
)

// InMemory keeps the stock ledger in process memory. Used in tests and when
// no Postgres URL is configured.
type InMemory struct {
	mu          sync.RWMutex
	initialized bool
	lastReset   time.Time
	quantities  map[string]int64
}

func NewInMemory() *InMemory {
	return &InMemory{quantities: make(map[string]int64)}
}

func (s *InMemory) Snapshot(_ context.Context) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return State{}, sentinel.ErrNotFound
	}
	out := State{LastReset: s.lastReset, Quantities: make(map[string]int64, len(s.quantities))}
	for name, qty := range s.quantities {
		out.Quantities[name] = qty
	}
	return out, nil
}

func (s *InMemory) Get(_ context.Context, productName string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Unknown products read as zero stock, matching the ledger's contract.
	return s.quantities[productName], nil
}

func (s *InMemory) ReplaceAll(_ context.Context, quantities map[string]int64, resetAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quantities = make(map[string]int64, len(quantities))
	for name, qty := range quantities {
		s.quantities[name] = qty
	}
	s.lastReset = resetAt
	s.initialized = true
	return nil
}

func (s *InMemory) Decrement(_ context.Context, productName string, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.quantities[productName] - qty
	if remaining < 0 {
		remaining = 0
	}
	s.quantities[productName] = remaining
	return nil
}
