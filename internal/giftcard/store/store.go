// Package store persists issued gift cards.
package store

import (
	"context"

	"shopstream/internal/giftcard/models"
)

// Store is the gift card persistence contract. Codes are not checked for
// collisions on append; with 36^12 possible codes that gap is accepted.
type Store interface {
	Append(ctx context.Context, card models.GiftCard) error
	List(ctx context.Context) ([]models.GiftCard, error)
}
