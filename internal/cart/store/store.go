// Package store persists carts keyed by session ID. A cart lives and dies
// with its session; there is no cross-session cart.
package store

import (
	"context"

	"shopstream/internal/cart/models"
	id "shopstream/pkg/domain"
)

// Store holds cart contents per session.
type Store interface {
	// Get returns the cart lines for a session. A session with no cart
	// yields an empty slice, not an error.
	Get(ctx context.Context, sessionID id.SessionID) ([]models.Line, error)

	// Put replaces the cart for a session.
	Put(ctx context.Context, sessionID id.SessionID, lines []models.Line) error

	// Clear removes the cart. Clearing an absent cart is a no-op.
	Clear(ctx context.Context, sessionID id.SessionID) error
}
