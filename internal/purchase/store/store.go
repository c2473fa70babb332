// Package store persists the append-only purchase ledger.
package store

import (
	"context"

	"shopstream/internal/purchase/models"
	id "shopstream/pkg/domain"
)

// Store is the purchase ledger persistence contract.
type Store interface {
	// Append writes one record.
	Append(ctx context.Context, record models.Record) error

	// AppendBatch writes several records in one round trip. Used by checkout
	// so a multi-line purchase lands atomically.
	AppendBatch(ctx context.Context, records []models.Record) error

	// ListByBuyer returns a buyer's records, oldest first.
	ListByBuyer(ctx context.Context, accountID id.AccountID) ([]models.Record, error)
}
