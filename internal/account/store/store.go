// Package store persists shopper accounts.
package store

import (
	"context"

	"shopstream/internal/account/models"
	id "shopstream/pkg/domain"
)

// Store is the account persistence contract.
//
// Create returns sentinel.ErrConflict when the name is already taken; finds
// return sentinel.ErrNotFound. AdjustWallet and CreditInventory are raw
// field mutations; validation is the purchase service's job. Execute runs
// validate-then-mutate atomically with respect to the account record (mutex
// in memory, row lock in Postgres); mutate is skipped when validate fails.
type Store interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	FindByName(ctx context.Context, name string) (*models.Account, error)
	AdjustWallet(ctx context.Context, accountID id.AccountID, delta int64) error
	CreditInventory(ctx context.Context, accountID id.AccountID, itemLabel string, qty int64) error
	Execute(ctx context.Context, accountID id.AccountID,
		validate func(*models.Account) error,
		mutate func(*models.Account)) (*models.Account, error)
}
