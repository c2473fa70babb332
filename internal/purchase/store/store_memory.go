package store

import (
	"context"
	"sync"

	"shopstream/internal/purchase/models"
	id "shopstream/pkg/domain"
)

// InMemory is the development purchase ledger.
type InMemory struct {
	mu      sync.RWMutex
	records []models.Record
	byBuyer map[id.AccountID][]int
}

func NewInMemory() *InMemory {
	return &InMemory{byBuyer: make(map[id.AccountID][]int)}
}

func (s *InMemory) Append(_ context.Context, record models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(record)
	return nil
}

func (s *InMemory) AppendBatch(_ context.Context, records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		s.append(record)
	}
	return nil
}

func (s *InMemory) append(record models.Record) {
	s.records = append(s.records, record)
	s.byBuyer[record.AccountID] = append(s.byBuyer[record.AccountID], len(s.records)-1)
}

func (s *InMemory) ListByBuyer(_ context.Context, accountID id.AccountID) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexes := s.byBuyer[accountID]
	out := make([]models.Record, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, s.records[i])
	}
	return out, nil
}
