// Package handler exposes the purchase endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shopstream/internal/purchase/models"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/platform/httputil"
	"shopstream/pkg/requestcontext"
)

// Service is the slice of the purchase service the handler uses.
type Service interface {
	PurchaseDirect(ctx context.Context, accountID id.AccountID, productName, option string, quantity int64) (models.Receipt, error)
	Checkout(ctx context.Context, accountID id.AccountID, sessionID id.SessionID) (models.Receipt, error)
	History(ctx context.Context, accountID id.AccountID) ([]models.Record, error)
}

type Handler struct {
	purchases Service
	logger    *slog.Logger
}

func New(purchases Service, logger *slog.Logger) *Handler {
	return &Handler{purchases: purchases, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/purchase", h.handlePurchase)
	r.Post("/checkout", h.handleCheckout)
	r.Get("/me/purchases", h.handleHistory)
}

func (h *Handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
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

	receipt, err := h.purchases.PurchaseDirect(ctx, requestcontext.AccountID(ctx), req.Product, req.Option, req.Quantity)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, receipt)
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	receipt, err := h.purchases.Checkout(ctx, requestcontext.AccountID(ctx), requestcontext.SessionID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, receipt)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.purchases.History(ctx, requestcontext.AccountID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"purchases": records})
}
