// Package handler exposes login, logout, and online-presence endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shopstream/internal/session/models"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/platform/httputil"
	"shopstream/pkg/requestcontext"
)

// Service is the slice of the session service the handler uses.
type Service interface {
	Login(ctx context.Context, name, password string) (string, models.Session, error)
	Logout(ctx context.Context, sessionID id.SessionID) error
	Online(ctx context.Context) ([]string, error)
}

type Handler struct {
	sessions Service
	logger   *slog.Logger
}

func New(sessions Service, logger *slog.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Get("/online", h.handleOnline)
}

func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	token, session, err := h.sessions.Login(ctx, req.Name, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"session_id": session.ID.String(),
		"expires_at": session.ExpiresAt,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.sessions.Logout(ctx, requestcontext.SessionID(ctx)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) handleOnline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	names, err := h.sessions.Online(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"online": names})
}
