// Package models defines the account entity. Accounts deliberately carry no
// session state; sessions live in their own store keyed by session ID.
package models

import (
	"time"

	id "shopstream/pkg/domain"
)

// Account is one shopper: credentials, wallet balance, and owned inventory.
//
// Password is an opaque comparison string, stored and compared verbatim
// with no hashing. Wallet is an integer currency amount;
// the purchase service is responsible for keeping it non-negative, the store
// applies whatever delta it is handed.
type Account struct {
	ID        id.AccountID
	Name      string
	Email     string
	Password  string
	Wallet    int64
	Inventory map[string]int64
	CreatedAt time.Time
}

// Clone returns a deep copy so store snapshots cannot be mutated by callers.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	out := *a
	out.Inventory = make(map[string]int64, len(a.Inventory))
	for label, qty := range a.Inventory {
		out.Inventory[label] = qty
	}
	return &out
}
