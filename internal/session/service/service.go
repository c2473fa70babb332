// Package service manages login sessions. Sessions live in an explicit
// store keyed by session ID and are surfaced to clients as a signed bearer
// token; the account record carries no login state.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	accountmodels "shopstream/internal/account/models"
	"shopstream/internal/session/models"
	"shopstream/internal/session/store"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/platform/sentinel"
	"shopstream/pkg/requestcontext"
)

// Authenticator verifies credentials. The account service implements this.
type Authenticator interface {
	Authenticate(ctx context.Context, name, password string) (*accountmodels.Account, error)
}

// Service issues, resolves, and revokes sessions.
type Service struct {
	sessions store.Store
	accounts Authenticator
	tokens   *TokenSigner
	ttl      time.Duration
	logger   *slog.Logger
}

func New(sessions store.Store, accounts Authenticator, tokens *TokenSigner, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sessions: sessions, accounts: accounts, tokens: tokens, ttl: ttl, logger: logger}
}

// Login authenticates and opens a session. The same account may hold
// several concurrent sessions; each is independent.
func (s *Service) Login(ctx context.Context, name, password string) (string, models.Session, error) {
	account, err := s.accounts.Authenticate(ctx, name, password)
	if err != nil {
		return "", models.Session{}, err
	}

	now := requestcontext.Now(ctx)
	session := models.Session{
		ID:          id.NewSessionID(),
		AccountID:   account.ID,
		AccountName: account.Name,
		Device:      requestcontext.Device(ctx),
		ClientIP:    requestcontext.ClientIP(ctx),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save session")
	}

	token, err := s.tokens.Sign(account.ID, session.ID, session.ExpiresAt)
	if err != nil {
		return "", models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}

	s.logger.InfoContext(ctx, "session opened",
		"account_id", account.ID.String(),
		"session_id", session.ID.String(),
		"device", session.Device,
	)
	return token, session, nil
}

// Logout removes the session. Deleting an already-gone session is a no-op.
func (s *Service) Logout(ctx context.Context, sessionID id.SessionID) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete session")
	}
	s.logger.InfoContext(ctx, "session closed", "session_id", sessionID.String())
	return nil
}

// Resolve validates a bearer token and confirms its session is still live in
// the store. Implements the auth middleware's SessionResolver.
func (s *Service) Resolve(ctx context.Context, token string) (id.AccountID, id.SessionID, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return id.AccountID{}, id.SessionID{}, err
	}
	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return id.AccountID{}, id.SessionID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.AccountID{}, id.SessionID{}, dErrors.New(dErrors.CodeUnauthorized, "session no longer active")
		}
		return id.AccountID{}, id.SessionID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	return session.AccountID, session.ID, nil
}

// Online lists the distinct account names with at least one live session,
// sorted for stable output.
func (s *Service) Online(ctx context.Context) ([]string, error) {
	sessions, err := s.sessions.ListActive(ctx, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sessions")
	}
	seen := make(map[string]struct{}, len(sessions))
	names := make([]string, 0, len(sessions))
	for _, session := range sessions {
		if _, dup := seen[session.AccountName]; dup {
			continue
		}
		seen[session.AccountName] = struct{}{}
		names = append(names, session.AccountName)
	}
	sort.Strings(names)
	return names, nil
}
