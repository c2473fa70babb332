// Package store persists the shared stock ledger: remaining sellable
// quantity per product plus the timestamp of the last periodic reset.
package store

import (
	"context"
	"time"
)

// State is a snapshot of the whole ledger.
type State struct {
	LastReset  time.Time
	Quantities map[string]int64
}

// Store is the stock ledger persistence contract.
//
// Decrement clamps at zero rather than failing; callers that care about
// sufficiency must pre-check under the same transactional boundary. Returns
// sentinel.ErrNotFound from Snapshot when the ledger has never been
// initialized.
type Store interface {
	Snapshot(ctx context.Context) (State, error)
	Get(ctx context.Context, productName string) (int64, error)
	ReplaceAll(ctx context.Context, quantities map[string]int64, resetAt time.Time) error
	Decrement(ctx context.Context, productName string, qty int64) error
}
