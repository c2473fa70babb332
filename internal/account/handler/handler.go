// Package handler exposes account endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shopstream/internal/account/models"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/platform/httputil"
	"shopstream/pkg/requestcontext"
)

// Service is the slice of the account service the handler uses.
type Service interface {
	Signup(ctx context.Context, name, email, password string) (*models.Account, error)
	Get(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	TopUp(ctx context.Context, accountID id.AccountID, amount int64) (*models.Account, error)
	Inventory(ctx context.Context, accountID id.AccountID) (map[string]int64, error)
}

type Handler struct {
	accounts Service
	logger   *slog.Logger
}

func New(accounts Service, logger *slog.Logger) *Handler {
	return &Handler{accounts: accounts, logger: logger}
}

// RegisterPublic attaches the routes that need no session.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/signup", h.handleSignup)
}

// RegisterProtected attaches the routes that run behind RequireSession.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Get("/me/inventory", h.handleInventory)
	r.Post("/me/wallet/topup", h.handleTopUp)
}

// accountView is the client-facing account shape. The password never leaves
// the store.
type accountView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Wallet int64  `json:"wallet"`
}

func viewOf(account *models.Account) accountView {
	return accountView{
		ID:     account.ID.String(),
		Name:   account.Name,
		Email:  account.Email,
		Wallet: account.Wallet,
	}
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	account, err := h.accounts.Signup(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, viewOf(account))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.accounts.Get(ctx, requestcontext.AccountID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, viewOf(account))
}

func (h *Handler) handleInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	inventory, err := h.accounts.Inventory(ctx, requestcontext.AccountID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"inventory": inventory})
}

func (h *Handler) handleTopUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	account, err := h.accounts.TopUp(ctx, requestcontext.AccountID(ctx), req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, viewOf(account))
}
