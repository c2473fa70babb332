// Package handler exposes the product listing with live stock levels.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shopstream/internal/catalog"
	"shopstream/pkg/platform/httputil"
)

// StockReader is the slice of the stock ledger the handler uses. Reading the
// listing runs the periodic reset so stock is never stale past its window.
type StockReader interface {
	ResetIfDue(ctx context.Context) error
	Stock(ctx context.Context, productName string) (int64, error)
}

type Handler struct {
	stock  StockReader
	logger *slog.Logger
}

func New(stock StockReader, logger *slog.Logger) *Handler {
	return &Handler{stock: stock, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/products", h.handleProducts)
}

type productView struct {
	catalog.Product
	Stock int64 `json:"stock"`
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.stock.ResetIfDue(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}

	products := catalog.All()
	views := make([]productView, 0, len(products))
	for _, p := range products {
		qty, err := h.stock.Stock(ctx, p.Name)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		views = append(views, productView{Product: p, Stock: qty})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"products": views})
}
