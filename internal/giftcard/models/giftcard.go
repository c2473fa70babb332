// Package models defines the gift card entity.
package models

import (
	"time"

	id "shopstream/pkg/domain"
)

// GiftCard is an issued card. Cards are not tied to any account and are
// never redeemed here; Used exists for a future redemption flow and is
// always false at issuance.
type GiftCard struct {
	ID       id.GiftCardID `json:"id"`
	Code     string        `json:"code"`
	Amount   int64         `json:"amount"`
	Used     bool          `json:"used"`
	IssuedAt time.Time     `json:"issued_at"`
}
