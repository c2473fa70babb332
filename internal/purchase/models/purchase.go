// Package models defines the purchase ledger records.
package models

import (
	"time"

	id "shopstream/pkg/domain"
)

// Record is one appended purchase ledger entry. The ledger is append-only;
// records are never updated or deleted.
type Record struct {
	ID          id.PurchaseID `json:"id"`
	AccountID   id.AccountID  `json:"account_id"`
	AccountName string        `json:"account_name"`
	Item        string        `json:"item"`
	Quantity    int64         `json:"quantity"`
	UnitPrice   int64         `json:"unit_price"`
	Total       int64         `json:"total"`
	At          time.Time     `json:"at"`
}

// Receipt summarizes one completed purchase flow: the records written plus
// the buyer's wallet after payment.
type Receipt struct {
	Records     []Record `json:"records"`
	TotalSpent  int64    `json:"total_spent"`
	WalletAfter int64    `json:"wallet_after"`
}
