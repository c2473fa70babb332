// Package service implements cart operations. Carts are advisory: nothing
// is reserved or charged until checkout, and prices shown in the cart are
// resolved against the catalog at read time.
package service

import (
	"context"
	"log/slog"

	"shopstream/internal/cart/models"
	"shopstream/internal/cart/store"
	"shopstream/internal/catalog"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
)

type Service struct {
	carts  store.Store
	logger *slog.Logger
}

func New(carts store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{carts: carts, logger: logger}
}

// Add puts quantity units of a product into the session's cart. Lines with
// the same label merge; "Laptop (16GB RAM)" and "Laptop (32GB RAM)" stay
// separate lines even though they price identically.
func (s *Service) Add(ctx context.Context, sessionID id.SessionID, productName, option string, quantity int64) error {
	if quantity <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "quantity must be positive")
	}
	product, err := catalog.Lookup(productName)
	if err != nil {
		return err
	}
	if !product.HasOption(option) {
		return dErrors.Newf(dErrors.CodeInvalidInput, "product %q has no option %q", productName, option)
	}

	lines, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cart")
	}

	label := catalog.ItemLabel(product, option)
	merged := false
	for i := range lines {
		if lines[i].Label == label {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, models.Line{
			Label:       label,
			ProductName: product.Name,
			Option:      option,
			Quantity:    quantity,
		})
	}

	if err := s.carts.Put(ctx, sessionID, lines); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save cart")
	}
	s.logger.DebugContext(ctx, "cart line added", "session_id", sessionID.String(), "label", label, "quantity", quantity)
	return nil
}

// Remove drops the line with the given label from the cart.
func (s *Service) Remove(ctx context.Context, sessionID id.SessionID, label string) error {
	lines, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cart")
	}

	kept := lines[:0]
	found := false
	for _, line := range lines {
		if line.Label == label {
			found = true
			continue
		}
		kept = append(kept, line)
	}
	if !found {
		return dErrors.Newf(dErrors.CodeNotFound, "no cart line %q", label)
	}

	if err := s.carts.Put(ctx, sessionID, kept); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save cart")
	}
	return nil
}

// List returns the priced cart.
func (s *Service) List(ctx context.Context, sessionID id.SessionID) (models.View, error) {
	lines, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return models.View{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cart")
	}
	return Price(lines)
}

// Clear empties the cart, typically after a successful checkout.
func (s *Service) Clear(ctx context.Context, sessionID id.SessionID) error {
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear cart")
	}
	return nil
}

// Lines returns the raw cart lines for checkout.
func (s *Service) Lines(ctx context.Context, sessionID id.SessionID) ([]models.Line, error) {
	lines, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cart")
	}
	return lines, nil
}

// Price resolves catalog prices for a set of cart lines. It fails if any
// line references a product no longer in the catalog.
func Price(lines []models.Line) (models.View, error) {
	view := models.View{Lines: make([]models.PricedLine, 0, len(lines))}
	for _, line := range lines {
		product, err := catalog.Lookup(line.ProductName)
		if err != nil {
			return models.View{}, err
		}
		unit := product.UnitPrice(line.Option)
		subtotal := unit * line.Quantity
		view.Lines = append(view.Lines, models.PricedLine{
			Label:     line.Label,
			Quantity:  line.Quantity,
			UnitPrice: unit,
			Subtotal:  subtotal,
		})
		view.Total += subtotal
	}
	return view, nil
}
