// Package handler exposes gift card endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shopstream/internal/giftcard/models"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/platform/httputil"
)

// Service is the slice of the gift card service the handler uses.
type Service interface {
	Issue(ctx context.Context, amount int64) (models.GiftCard, error)
	List(ctx context.Context) ([]models.GiftCard, error)
}

type Handler struct {
	cards  Service
	logger *slog.Logger
}

func New(cards Service, logger *slog.Logger) *Handler {
	return &Handler{cards: cards, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/giftcards", h.handleIssue)
	r.Get("/giftcards", h.handleList)
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	card, err := h.cards.Issue(ctx, req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, card)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cards, err := h.cards.List(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"giftcards": cards})
}
