// Package service implements account lifecycle: signup, authentication,
// wallet top-ups, and inventory reads. All purchase-path mutations live in
// the purchase service.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"shopstream/internal/account/models"
	"shopstream/internal/account/store"
	"shopstream/internal/platform/metrics"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/platform/sentinel"
	"shopstream/pkg/requestcontext"
)

// InitialWallet is the balance every new account starts with.
const InitialWallet int64 = 10000

// Service orchestrates account operations over a Store.
type Service struct {
	accounts store.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func New(accounts store.Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{accounts: accounts, logger: logger, metrics: m}
}

// Signup creates an account with the fixed starting balance and an empty
// inventory. Names are unique; duplicates are rejected with a conflict.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "password is required")
	}

	account := &models.Account{
		ID:        id.NewAccountID(),
		Name:      name,
		Email:     strings.TrimSpace(email),
		Password:  password,
		Wallet:    InitialWallet,
		Inventory: make(map[string]int64),
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "account name already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	s.metrics.IncrementAccountsCreated()
	s.logger.InfoContext(ctx, "account created", "account_id", account.ID.String())
	return account, nil
}

// Authenticate checks name and password. The comparison is an exact string
// match on the stored password, with no hashing. Unknown names and wrong
// passwords produce the same error so the response does not reveal which
// half failed.
func (s *Service) Authenticate(ctx context.Context, name, password string) (*models.Account, error) {
	account, err := s.accounts.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown name or wrong password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}
	if account.Password != password {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown name or wrong password")
	}
	return account, nil
}

// Get fetches an account by ID.
func (s *Service) Get(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "unknown account")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return account, nil
}

// TopUp adds funds to the wallet. Amount must be positive.
func (s *Service) TopUp(ctx context.Context, accountID id.AccountID, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "top-up amount must be positive")
	}

	account, err := s.accounts.Execute(ctx, accountID, nil,
		func(a *models.Account) { a.Wallet += amount })
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "unknown account")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to top up wallet")
	}

	if s.metrics != nil {
		s.metrics.WalletTopUps.Inc()
	}
	s.logger.InfoContext(ctx, "wallet topped up",
		"account_id", accountID.String(),
		"amount", amount,
	)
	return account, nil
}

// Inventory returns the account's owned items keyed by item label.
func (s *Service) Inventory(ctx context.Context, accountID id.AccountID) (map[string]int64, error) {
	account, err := s.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account.Inventory, nil
}
