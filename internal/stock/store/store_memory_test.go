package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"shopstream/pkg/platform/sentinel"
)

type StockStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *StockStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestStockStoreSuite(t *testing.T) {
	suite.Run(t, new(StockStoreSuite))
}

func (s *StockStoreSuite) TestSnapshotBeforeInit() {
	_, err := s.store.Snapshot(s.ctx)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StockStoreSuite) TestReplaceAllAndGet() {
	resetAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.ReplaceAll(s.ctx, map[string]int64{"Laptop": 2000, "Monitor": 2000}, resetAt))

	qty, err := s.store.Get(s.ctx, "Laptop")
	s.Require().NoError(err)
	s.Equal(int64(2000), qty)

	state, err := s.store.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(resetAt, state.LastReset)
	s.Len(state.Quantities, 2)
}

func (s *StockStoreSuite) TestUnknownProductReadsZero() {
	s.Require().NoError(s.store.ReplaceAll(s.ctx, map[string]int64{"Laptop": 2000}, time.Now()))

	qty, err := s.store.Get(s.ctx, "Toaster")
	s.Require().NoError(err)
	s.Zero(qty)
}

func (s *StockStoreSuite) TestDecrementClampsAtZero() {
	s.Require().NoError(s.store.ReplaceAll(s.ctx, map[string]int64{"Monitor": 3}, time.Now()))

	s.Require().NoError(s.store.Decrement(s.ctx, "Monitor", 5))

	qty, err := s.store.Get(s.ctx, "Monitor")
	s.Require().NoError(err)
	s.Zero(qty)
}

func (s *StockStoreSuite) TestSnapshotReturnsCopy() {
	s.Require().NoError(s.store.ReplaceAll(s.ctx, map[string]int64{"Laptop": 10}, time.Now()))

	state, err := s.store.Snapshot(s.ctx)
	s.Require().NoError(err)
	state.Quantities["Laptop"] = 0

	qty, err := s.store.Get(s.ctx, "Laptop")
	s.Require().NoError(err)
	s.Equal(int64(10), qty)
}
