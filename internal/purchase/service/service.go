// Package service implements the purchase engine: the single place where a
// buyer's wallet, their inventory, the stock ledger, and the purchase ledger
// are mutated together.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	accountmodels "shopstream/internal/account/models"
	accountstore "shopstream/internal/account/store"
	cartmodels "shopstream/internal/cart/models"
	"shopstream/internal/catalog"
	"shopstream/internal/events"
	"shopstream/internal/platform/metrics"
	"shopstream/internal/purchase/models"
	"shopstream/internal/purchase/store"
	stockservice "shopstream/internal/stock/service"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/platform/sentinel"
	"shopstream/pkg/requestcontext"
)

// Carts is the slice of the cart service checkout needs.
type Carts interface {
	Lines(ctx context.Context, sessionID id.SessionID) ([]cartmodels.Line, error)
	Clear(ctx context.Context, sessionID id.SessionID) error
}

// Service runs purchases.
type Service struct {
	accounts  accountstore.Store
	stock     *stockservice.Ledger
	purchases store.Store
	carts     Carts
	runner    Runner
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer

	// legacyPartialCheckout restores the historical checkout behavior where
	// the wallet is debited up front and each cart line commits on its own,
	// so a mid-cart stock failure leaves earlier lines and the full debit in
	// place. Off by default; checkout is then all-or-nothing.
	legacyPartialCheckout bool
}

// Option configures the Service.
type Option func(*Service)

// WithLegacyPartialCheckout enables the historical partial-commit checkout.
func WithLegacyPartialCheckout() Option {
	return func(s *Service) {
		s.legacyPartialCheckout = true
	}
}

func New(accounts accountstore.Store, stock *stockservice.Ledger, purchases store.Store,
	carts Carts, runner Runner, publisher events.Publisher, m *metrics.Metrics,
	logger *slog.Logger, opts ...Option) *Service {

	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.NewLogPublisher(logger)
	}
	s := &Service{
		accounts:  accounts,
		stock:     stock,
		purchases: purchases,
		carts:     carts,
		runner:    runner,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer("shopstream/purchase"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PurchaseDirect buys quantity units of one product immediately, without
// touching the cart. Wallet debit, inventory credit, stock decrement, and
// the ledger append happen atomically; any validation failure leaves all
// four untouched.
func (s *Service) PurchaseDirect(ctx context.Context, accountID id.AccountID, productName, option string, quantity int64) (models.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "purchase.direct",
		trace.WithAttributes(
			attribute.String("account_id", accountID.String()),
			attribute.String("product", productName),
			attribute.Int64("quantity", quantity),
		))
	defer span.End()

	receipt, err := s.purchaseDirect(ctx, accountID, productName, option, quantity)
	if err != nil {
		s.metrics.RecordPurchaseFailure(string(dErrors.CodeOf(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, dErrors.MessageOf(err))
		return models.Receipt{}, err
	}

	s.metrics.RecordPurchase(events.FlowDirect, 1)
	s.publish(ctx, receipt, events.FlowDirect)
	return receipt, nil
}

func (s *Service) purchaseDirect(ctx context.Context, accountID id.AccountID, productName, option string, quantity int64) (models.Receipt, error) {
	if quantity <= 0 {
		return models.Receipt{}, dErrors.New(dErrors.CodeInvalidInput, "quantity must be positive")
	}
	product, err := catalog.Lookup(productName)
	if err != nil {
		return models.Receipt{}, err
	}
	if !product.HasOption(option) {
		return models.Receipt{}, dErrors.Newf(dErrors.CodeInvalidInput, "product %q has no option %q", productName, option)
	}

	label := catalog.ItemLabel(product, option)
	unit := product.UnitPrice(option)
	total := unit * quantity

	var receipt models.Receipt
	err = s.runner.RunInTx(ctx, accountID, func(ctx context.Context) error {
		account, err := s.findBuyer(ctx, accountID)
		if err != nil {
			return err
		}
		if err := s.stock.ResetIfDue(ctx); err != nil {
			return err
		}

		if account.Wallet < total {
			return dErrors.Newf(dErrors.CodeInsufficientFunds,
				"wallet has %d, purchase costs %d", account.Wallet, total)
		}
		remaining, err := s.stock.Stock(ctx, product.Name)
		if err != nil {
			return err
		}
		if remaining < quantity {
			return dErrors.Newf(dErrors.CodeInsufficientStock,
				"only %d of %q in stock", remaining, product.Name)
		}

		record := models.Record{
			ID:          id.NewPurchaseID(),
			AccountID:   account.ID,
			AccountName: account.Name,
			Item:        label,
			Quantity:    quantity,
			UnitPrice:   unit,
			Total:       total,
			At:          requestcontext.Now(ctx),
		}
		if err := s.applyLine(ctx, account.ID, record, product.Name); err != nil {
			return err
		}
		receipt = models.Receipt{
			Records:     []models.Record{record},
			TotalSpent:  total,
			WalletAfter: account.Wallet - total,
		}
		return nil
	})
	if err != nil {
		return models.Receipt{}, err
	}

	s.logger.InfoContext(ctx, "purchase completed",
		"account_id", accountID.String(),
		"item", label,
		"quantity", quantity,
		"total", total,
	)
	return receipt, nil
}

// Checkout buys the session's whole cart. By default it is all-or-nothing:
// funds for the full total and stock for every line are validated before
// anything is mutated, and the cart is cleared only on success.
func (s *Service) Checkout(ctx context.Context, accountID id.AccountID, sessionID id.SessionID) (models.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "purchase.checkout",
		trace.WithAttributes(
			attribute.String("account_id", accountID.String()),
			attribute.Bool("legacy_partial", s.legacyPartialCheckout),
		))
	defer span.End()

	lines, err := s.carts.Lines(ctx, sessionID)
	if err == nil && len(lines) == 0 {
		err = dErrors.New(dErrors.CodeInvalidInput, "cart is empty")
	}

	var receipt models.Receipt
	if err == nil {
		span.SetAttributes(attribute.Int("lines", len(lines)))
		if s.legacyPartialCheckout {
			receipt, err = s.checkoutLegacy(ctx, accountID, lines)
		} else {
			receipt, err = s.checkoutAtomic(ctx, accountID, lines)
		}
	}
	if err != nil {
		s.metrics.RecordPurchaseFailure(string(dErrors.CodeOf(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, dErrors.MessageOf(err))
		return models.Receipt{}, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "cart clear after checkout failed",
			"session_id", sessionID.String(), "error", err)
	}
	s.metrics.RecordPurchase(events.FlowCheckout, len(receipt.Records))
	s.publish(ctx, receipt, events.FlowCheckout)

	s.logger.InfoContext(ctx, "checkout completed",
		"account_id", accountID.String(),
		"lines", len(receipt.Records),
		"total", receipt.TotalSpent,
	)
	return receipt, nil
}

// checkoutAtomic validates everything, then mutates everything, inside one
// transaction.
func (s *Service) checkoutAtomic(ctx context.Context, accountID id.AccountID, lines []cartmodels.Line) (models.Receipt, error) {
	var receipt models.Receipt
	err := s.runner.RunInTx(ctx, accountID, func(ctx context.Context) error {
		account, err := s.findBuyer(ctx, accountID)
		if err != nil {
			return err
		}
		if err := s.stock.ResetIfDue(ctx); err != nil {
			return err
		}

		// Phase one: validate. Lines for the same product share one stock
		// pool regardless of option, so requirements aggregate by product.
		total := int64(0)
		required := make(map[string]int64)
		priced := make([]models.Record, 0, len(lines))
		productNames := make([]string, 0, len(lines))
		now := requestcontext.Now(ctx)
		for _, line := range lines {
			product, err := catalog.Lookup(line.ProductName)
			if err != nil {
				return err
			}
			unit := product.UnitPrice(line.Option)
			total += unit * line.Quantity
			required[product.Name] += line.Quantity
			productNames = append(productNames, product.Name)
			priced = append(priced, models.Record{
				ID:          id.NewPurchaseID(),
				AccountID:   account.ID,
				AccountName: account.Name,
				Item:        line.Label,
				Quantity:    line.Quantity,
				UnitPrice:   unit,
				Total:       unit * line.Quantity,
				At:          now,
			})
		}
		if account.Wallet < total {
			return dErrors.Newf(dErrors.CodeInsufficientFunds,
				"wallet has %d, cart costs %d", account.Wallet, total)
		}
		for productName, qty := range required {
			remaining, err := s.stock.Stock(ctx, productName)
			if err != nil {
				return err
			}
			if remaining < qty {
				return dErrors.Newf(dErrors.CodeInsufficientStock,
					"only %d of %q in stock", remaining, productName)
			}
		}

		// Phase two: mutate.
		if err := s.accounts.AdjustWallet(ctx, account.ID, -total); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to debit wallet")
		}
		for i, line := range lines {
			if err := s.accounts.CreditInventory(ctx, account.ID, line.Label, line.Quantity); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit inventory")
			}
			if err := s.stock.Decrement(ctx, productNames[i], line.Quantity); err != nil {
				return err
			}
		}
		if err := s.purchases.AppendBatch(ctx, priced); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append purchases")
		}

		receipt = models.Receipt{
			Records:     priced,
			TotalSpent:  total,
			WalletAfter: account.Wallet - total,
		}
		return nil
	})
	return receipt, err
}

// checkoutLegacy reproduces the historical behavior: funds are checked for
// the whole cart, then each line commits independently, and the wallet is
// debited once at the end. A stock failure partway aborts the remaining
// lines but leaves the already-committed ones in place, with the wallet
// never debited. Each step runs in its own transaction so the partial state
// survives on every backend.
func (s *Service) checkoutLegacy(ctx context.Context, accountID id.AccountID, lines []cartmodels.Line) (models.Receipt, error) {
	total := int64(0)
	for _, line := range lines {
		product, err := catalog.Lookup(line.ProductName)
		if err != nil {
			return models.Receipt{}, err
		}
		total += product.UnitPrice(line.Option) * line.Quantity
	}

	err := s.runner.RunInTx(ctx, accountID, func(ctx context.Context) error {
		account, err := s.findBuyer(ctx, accountID)
		if err != nil {
			return err
		}
		if err := s.stock.ResetIfDue(ctx); err != nil {
			return err
		}
		if account.Wallet < total {
			return dErrors.Newf(dErrors.CodeInsufficientFunds,
				"wallet has %d, cart costs %d", account.Wallet, total)
		}
		return nil
	})
	if err != nil {
		return models.Receipt{}, err
	}

	records := make([]models.Record, 0, len(lines))
	for _, line := range lines {
		line := line
		err := s.runner.RunInTx(ctx, accountID, func(ctx context.Context) error {
			product, err := catalog.Lookup(line.ProductName)
			if err != nil {
				return err
			}
			remaining, err := s.stock.Stock(ctx, product.Name)
			if err != nil {
				return err
			}
			if remaining < line.Quantity {
				return dErrors.Newf(dErrors.CodeInsufficientStock,
					"only %d of %q in stock", remaining, product.Name)
			}

			account, err := s.findBuyer(ctx, accountID)
			if err != nil {
				return err
			}
			unit := product.UnitPrice(line.Option)
			record := models.Record{
				ID:          id.NewPurchaseID(),
				AccountID:   account.ID,
				AccountName: account.Name,
				Item:        line.Label,
				Quantity:    line.Quantity,
				UnitPrice:   unit,
				Total:       unit * line.Quantity,
				At:          requestcontext.Now(ctx),
			}
			if err := s.accounts.CreditInventory(ctx, account.ID, line.Label, line.Quantity); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit inventory")
			}
			if err := s.stock.Decrement(ctx, product.Name, line.Quantity); err != nil {
				return err
			}
			if err := s.purchases.Append(ctx, record); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append purchase")
			}
			records = append(records, record)
			return nil
		})
		if err != nil {
			// Earlier lines already committed and stay committed.
			return models.Receipt{}, err
		}
	}

	var walletAfter int64
	err = s.runner.RunInTx(ctx, accountID, func(ctx context.Context) error {
		account, err := s.findBuyer(ctx, accountID)
		if err != nil {
			return err
		}
		if err := s.accounts.AdjustWallet(ctx, account.ID, -total); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to debit wallet")
		}
		walletAfter = account.Wallet - total
		return nil
	})
	if err != nil {
		return models.Receipt{}, err
	}

	return models.Receipt{Records: records, TotalSpent: total, WalletAfter: walletAfter}, nil
}

// History returns the buyer's purchase records, oldest first.
func (s *Service) History(ctx context.Context, accountID id.AccountID) ([]models.Record, error) {
	records, err := s.purchases.ListByBuyer(ctx, accountID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list purchases")
	}
	return records, nil
}

func (s *Service) findBuyer(ctx context.Context, accountID id.AccountID) (*accountmodels.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "unknown account")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return account, nil
}

// applyLine performs the four mutations for one committed purchase line.
func (s *Service) applyLine(ctx context.Context, accountID id.AccountID, record models.Record, productName string) error {
	if err := s.accounts.AdjustWallet(ctx, accountID, -record.Total); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to debit wallet")
	}
	if err := s.accounts.CreditInventory(ctx, accountID, record.Item, record.Quantity); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit inventory")
	}
	if err := s.stock.Decrement(ctx, productName, record.Quantity); err != nil {
		return err
	}
	if err := s.purchases.Append(ctx, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append purchase")
	}
	return nil
}

func (s *Service) publish(ctx context.Context, receipt models.Receipt, flow string) {
	now := requestcontext.Now(ctx)
	for _, record := range receipt.Records {
		event := events.PurchaseEvent{
			PurchaseID:  record.ID,
			AccountID:   record.AccountID,
			AccountName: record.AccountName,
			Item:        record.Item,
			Quantity:    record.Quantity,
			UnitPrice:   record.UnitPrice,
			Total:       record.Total,
			Flow:        flow,
			OccurredAt:  now,
		}
		if err := s.publisher.PublishPurchase(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "purchase event publish failed",
				"purchase_id", record.ID.String(), "error", err)
		}
	}
}
