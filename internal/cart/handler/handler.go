// Package handler exposes cart endpoints. All routes run behind
// RequireSession; the cart is keyed by the caller's session.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"shopstream/internal/cart/models"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/platform/httputil"
	"shopstream/pkg/requestcontext"
)

// Service is the slice of the cart service the handler uses.
type Service interface {
	Add(ctx context.Context, sessionID id.SessionID, productName, option string, quantity int64) error
	Remove(ctx context.Context, sessionID id.SessionID, label string) error
	List(ctx context.Context, sessionID id.SessionID) (models.View, error)
}

type Handler struct {
	carts  Service
	logger *slog.Logger
}

func New(carts Service, logger *slog.Logger) *Handler {
	return &Handler{carts: carts, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/cart", h.handleList)
	r.Post("/cart/items", h.handleAdd)
	r.Delete("/cart/items/{label}", h.handleRemove)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Product  string `json:"product"`
		Option   string `json:"option"`
		Quantity int64  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	sessionID := requestcontext.SessionID(ctx)
	if err := h.carts.Add(ctx, sessionID, req.Product, req.Option, req.Quantity); err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.carts.List(ctx, sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Labels may contain spaces and parentheses, e.g. "Laptop (16GB RAM)".
	label, err := url.PathUnescape(chi.URLParam(r, "label"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid item label"))
		return
	}

	sessionID := requestcontext.SessionID(ctx)
	if err := h.carts.Remove(ctx, sessionID, label); err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.carts.List(ctx, sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.carts.List(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}
