// Package service implements the stock ledger: per-product remaining
// quantity with a time-gated periodic reset.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shopstream/internal/catalog"
	"shopstream/internal/stock/store"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/platform/sentinel"
	"shopstream/pkg/requestcontext"
)

const (
	// ResetQuantity is the stock level every catalog product returns to on a
	// periodic reset.
	ResetQuantity int64 = 2000
	// ResetInterval is how long stock levels run down before the next reset.
	ResetInterval = 7 * 24 * time.Hour
)

// Ledger tracks remaining quantity per product.
type Ledger struct {
	store  store.Store
	logger *slog.Logger
}

func NewLedger(st store.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: st, logger: logger}
}

// Stock returns the current remaining quantity for a product, zero if the
// product is unknown to the ledger.
func (l *Ledger) Stock(ctx context.Context, productName string) (int64, error) {
	qty, err := l.store.Get(ctx, productName)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read stock")
	}
	return qty, nil
}

// ResetIfDue initializes the ledger on first use and resets every catalog
// product to ResetQuantity once ResetInterval has elapsed since the last
// reset. Calling it again inside the window is a no-op, so it is safe to run
// on every request.
func (l *Ledger) ResetIfDue(ctx context.Context) error {
	now := requestcontext.Now(ctx)

	state, err := l.store.Snapshot(ctx)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		// First access: seed every catalog product.
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read stock state")
	case now.Sub(state.LastReset) < ResetInterval:
		return nil
	}

	quantities := make(map[string]int64)
	for _, p := range catalog.All() {
		quantities[p.Name] = ResetQuantity
	}
	if err := l.store.ReplaceAll(ctx, quantities, now); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset stock")
	}

	l.logger.InfoContext(ctx, "stock ledger reset",
		"products", len(quantities),
		"quantity", ResetQuantity,
	)
	return nil
}

// Decrement lowers a product's remaining quantity, clamping at zero. It does
// not validate sufficiency; the purchase service must pre-check under the
// same transactional boundary. The clamp means an unchecked oversized
// decrement silently truncates instead of failing.
func (l *Ledger) Decrement(ctx context.Context, productName string, qty int64) error {
	if err := l.store.Decrement(ctx, productName, qty); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to decrement stock")
	}
	return nil
}
