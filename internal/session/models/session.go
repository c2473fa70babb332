// Package models defines the login session entity. Sessions live in their
// own store, keyed by session ID, with a TTL; the account record carries no
// login state.
package models

import (
	"time"

	id "shopstream/pkg/domain"
)

// Session is one live login.
type Session struct {
	ID          id.SessionID `json:"id"`
	AccountID   id.AccountID `json:"account_id"`
	AccountName string       `json:"account_name"`
	Device      string       `json:"device,omitempty"`
	ClientIP    string       `json:"client_ip,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Expired reports whether the session has passed its TTL at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
