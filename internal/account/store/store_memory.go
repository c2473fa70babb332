package store

import (
	"context"
	"sync"

	"shopstream/internal/account/models"
	id "shopstream/pkg/domain"
	"shopstream/pkg/platform/sentinel"
)

// InMemory keeps accounts in process memory, guarded by one RWMutex. It
// favors clarity over performance and is the store used in tests and
// standalone runs.
type InMemory struct {
	mu       sync.RWMutex
	accounts map[id.AccountID]*models.Account
	byName   map[string]id.AccountID
}

func NewInMemory() *InMemory {
	return &InMemory{
		accounts: make(map[id.AccountID]*models.Account),
		byName:   make(map[string]id.AccountID),
	}
}

func (s *InMemory) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[account.Name]; taken {
		return sentinel.ErrConflict
	}
	s.accounts[account.ID] = account.Clone()
	s.byName[account.Name] = account.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, accountID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if account, ok := s.accounts[accountID]; ok {
		return account.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if accountID, ok := s.byName[name]; ok {
		return s.accounts[accountID].Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) AdjustWallet(_ context.Context, accountID id.AccountID, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return sentinel.ErrNotFound
	}
	account.Wallet += delta
	return nil
}

func (s *InMemory) CreditInventory(_ context.Context, accountID id.AccountID, itemLabel string, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return sentinel.ErrNotFound
	}
	account.Inventory[itemLabel] += qty
	return nil
}

// Execute holds the store lock across both validate and mutate so no other
// writer can slip between the check and the update.
func (s *InMemory) Execute(_ context.Context, accountID id.AccountID,
	validate func(*models.Account) error,
	mutate func(*models.Account)) (*models.Account, error) {

	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(account.Clone()); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(account)
	}
	return account.Clone(), nil
}
