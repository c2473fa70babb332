// Package store persists login sessions.
package store

import (
	"context"
	"time"

	"shopstream/internal/session/models"
	id "shopstream/pkg/domain"
)

// Store is the session persistence contract. FindByID returns
// sentinel.ErrNotFound for unknown or already-expired sessions; expiry is
// enforced by the store (TTL in Redis, lazy check in memory) so callers
// never see a stale session. ListActive powers the "who is online" view.
type Store interface {
	Save(ctx context.Context, session models.Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (models.Session, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
	ListActive(ctx context.Context, now time.Time) ([]models.Session, error)
}
