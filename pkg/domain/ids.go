// Package domain holds typed identifiers shared across the service. IDs are
// distinct types over uuid.UUID so an AccountID can never be passed where a
// SessionID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "shopstream/pkg/domain-errors"
)

type (
	// AccountID identifies a shopper account.
	AccountID uuid.UUID
	// SessionID identifies a live login session.
	SessionID uuid.UUID
	// PurchaseID identifies one ledger entry.
	PurchaseID uuid.UUID
	// GiftCardID identifies an issued gift card.
	GiftCardID uuid.UUID
)

func (id AccountID) String() string  { return uuid.UUID(id).String() }
func (id SessionID) String() string  { return uuid.UUID(id).String() }
func (id PurchaseID) String() string { return uuid.UUID(id).String() }
func (id GiftCardID) String() string { return uuid.UUID(id).String() }

func (id AccountID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id PurchaseID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id GiftCardID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// The text marshalers delegate to uuid.UUID so IDs cross JSON and other
// text-based wire formats as canonical UUID strings, not raw byte arrays.

func (id AccountID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id SessionID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id PurchaseID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id GiftCardID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *AccountID) UnmarshalText(text []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(text)
}

func (id *SessionID) UnmarshalText(text []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(text)
}

func (id *PurchaseID) UnmarshalText(text []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(text)
}

func (id *GiftCardID) UnmarshalText(text []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(text)
}

// NewAccountID mints a fresh account identifier.
func NewAccountID() AccountID { return AccountID(uuid.New()) }

// NewSessionID mints a fresh session identifier.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

// NewPurchaseID mints a fresh purchase identifier.
func NewPurchaseID() PurchaseID { return PurchaseID(uuid.New()) }

// NewGiftCardID mints a fresh gift card identifier.
func NewGiftCardID() GiftCardID { return GiftCardID(uuid.New()) }

// parseUUID enforces the trust-boundary invariant: IDs must be valid,
// non-empty, non-nil UUIDs.
func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is not a valid uuid")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil uuid")
	}
	return parsed, nil
}

// ParseAccountID parses an account ID from its string form.
func ParseAccountID(raw string) (AccountID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return AccountID{}, err
	}
	return AccountID(parsed), nil
}

// ParseSessionID parses a session ID from its string form.
func ParseSessionID(raw string) (SessionID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return SessionID{}, err
	}
	return SessionID(parsed), nil
}

// ParsePurchaseID parses a purchase ID from its string form.
func ParsePurchaseID(raw string) (PurchaseID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return PurchaseID{}, err
	}
	return PurchaseID(parsed), nil
}

// ParseGiftCardID parses a gift card ID from its string form.
func ParseGiftCardID(raw string) (GiftCardID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return GiftCardID{}, err
	}
	return GiftCardID(parsed), nil
}
