package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "shopstream/pkg/domain"
	"shopstream/pkg/requestcontext"
)

// SessionResolver validates a bearer token and returns the session's account
// and session IDs. The session service implements this.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (id.AccountID, id.SessionID, error)
}

// RequireSession rejects requests without a valid bearer session token and
// populates the context with the account and session IDs for handlers.
func RequireSession(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			accountID, sessionID, err := resolver.Resolve(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid session",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx = requestcontext.WithAccountID(ctx, accountID)
			ctx = requestcontext.WithSessionID(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
