package testutil

import (
	"net/http"

	id "shopstream/pkg/domain"
	"shopstream/pkg/requestcontext"
)

// WithAccount adds an account ID to the request context, simulating what the
// session middleware does for authenticated requests. Invalid IDs are
// silently ignored.
func WithAccount(req *http.Request, accountID string) *http.Request {
	if parsed, err := id.ParseAccountID(accountID); err == nil {
		return req.WithContext(requestcontext.WithAccountID(req.Context(), parsed))
	}
	return req
}

// WithSession adds both account ID and session ID to the request context.
// This is the typical state for an authenticated request.
func WithSession(req *http.Request, accountID, sessionID string) *http.Request {
	ctx := req.Context()
	if parsed, err := id.ParseAccountID(accountID); err == nil {
		ctx = requestcontext.WithAccountID(ctx, parsed)
	}
	if parsed, err := id.ParseSessionID(sessionID); err == nil {
		ctx = requestcontext.WithSessionID(ctx, parsed)
	}
	return req.WithContext(ctx)
}
