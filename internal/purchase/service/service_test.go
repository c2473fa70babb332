package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	accountmodels "shopstream/internal/account/models"
	accountstore "shopstream/internal/account/store"
	cartservice "shopstream/internal/cart/service"
	cartstore "shopstream/internal/cart/store"
	purchasestore "shopstream/internal/purchase/store"
	stockservice "shopstream/internal/stock/service"
	stockstore "shopstream/internal/stock/store"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/requestcontext"
)

type PurchaseServiceSuite struct {
	suite.Suite
	accounts  accountstore.Store
	stockSt   *stockstore.InMemory
	stock     *stockservice.Ledger
	purchases *purchasestore.InMemory
	carts     *cartservice.Service
	svc       *Service
	now       time.Time
	ctx       context.Context
	session   id.SessionID
}

func (s *PurchaseServiceSuite) SetupTest() {
	s.accounts = accountstore.NewInMemory()
	s.stockSt = stockstore.NewInMemory()
	s.stock = stockservice.NewLedger(s.stockSt, nil)
	s.purchases = purchasestore.NewInMemory()
	s.carts = cartservice.New(cartstore.NewInMemory(), nil)
	s.svc = New(s.accounts, s.stock, s.purchases, s.carts, NewShardedRunner(), nil, nil, nil)
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.session = id.NewSessionID()
}

func TestPurchaseServiceSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceSuite))
}

func (s *PurchaseServiceSuite) createAccount(name string, wallet int64) *accountmodels.Account {
	account := &accountmodels.Account{
		ID:        id.NewAccountID(),
		Name:      name,
		Email:     name + "@example.com",
		Password:  "pw",
		Wallet:    wallet,
		Inventory: map[string]int64{},
		CreatedAt: s.now,
	}
	s.Require().NoError(s.accounts.Create(s.ctx, account))
	return account
}

// setStock pins every product to the given quantity with the reset window
// freshly started, so ResetIfDue stays a no-op during the test.
func (s *PurchaseServiceSuite) setStock(quantities map[string]int64) {
	s.Require().NoError(s.stockSt.ReplaceAll(s.ctx, quantities, s.now))
}

func (s *PurchaseServiceSuite) reload(accountID id.AccountID) *accountmodels.Account {
	account, err := s.accounts.FindByID(s.ctx, accountID)
	s.Require().NoError(err)
	return account
}

func (s *PurchaseServiceSuite) stockOf(productName string) int64 {
	qty, err := s.stock.Stock(s.ctx, productName)
	s.Require().NoError(err)
	return qty
}

func (s *PurchaseServiceSuite) TestDirectPurchaseHappyPath() {
	buyer := s.createAccount("mina", 200_000)

	receipt, err := s.svc.PurchaseDirect(s.ctx, buyer.ID, "Robux 150000", "", 1)
	s.Require().NoError(err)

	s.Equal(int64(150_000), receipt.TotalSpent)
	s.Equal(int64(50_000), receipt.WalletAfter)
	s.Require().Len(receipt.Records, 1)
	s.Equal("Robux 150000", receipt.Records[0].Item)
	s.Equal(s.now, receipt.Records[0].At)

	after := s.reload(buyer.ID)
	s.Equal(int64(50_000), after.Wallet)
	s.Equal(int64(1), after.Inventory["Robux 150000"])
	s.Equal(int64(1999), s.stockOf("Robux 150000"))

	history, err := s.svc.History(s.ctx, buyer.ID)
	s.Require().NoError(err)
	s.Len(history, 1)
}

func (s *PurchaseServiceSuite) TestFirstPurchaseSeedsStockLedger() {
	buyer := s.createAccount("mina", 200_000)

	// No reset has ever run; the purchase itself must seed the ledger.
	_, err := s.svc.PurchaseDirect(s.ctx, buyer.ID, "Robux 150000", "", 1)
	s.Require().NoError(err)
	s.Equal(stockservice.ResetQuantity-1, s.stockOf("Robux 150000"))
}

func (s *PurchaseServiceSuite) TestInsufficientFundsLeavesEverythingUntouched() {
	buyer := s.createAccount("mina", 10_000)

	_, err := s.svc.PurchaseDirect(s.ctx, buyer.ID, "Robux 150000", "", 1)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientFunds))

	after := s.reload(buyer.ID)
	s.Equal(int64(10_000), after.Wallet)
	s.Empty(after.Inventory)
	s.Equal(stockservice.ResetQuantity, s.stockOf("Robux 150000"))

	history, err := s.svc.History(s.ctx, buyer.ID)
	s.Require().NoError(err)
	s.Empty(history)
}

func (s *PurchaseServiceSuite) TestInsufficientStock() {
	buyer := s.createAccount("mina", 1_000_000)
	s.setStock(map[string]int64{"Robux 150000": 0})

	_, err := s.svc.PurchaseDirect(s.ctx, buyer.ID, "Robux 150000", "", 1)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientStock))

	s.Equal(int64(1_000_000), s.reload(buyer.ID).Wallet)
}

func (s *PurchaseServiceSuite) TestUnknownAccountAndProduct() {
	_, err := s.svc.PurchaseDirect(s.ctx, id.NewAccountID(), "Robux 150000", "", 1)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	buyer := s.createAccount("mina", 1_000_000)
	_, err = s.svc.PurchaseDirect(s.ctx, buyer.ID, "Toaster", "", 1)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *PurchaseServiceSuite) TestInputValidation() {
	buyer := s.createAccount("mina", 1_000_000)

	_, err := s.svc.PurchaseDirect(s.ctx, buyer.ID, "Robux 150000", "", 0)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = s.svc.PurchaseDirect(s.ctx, buyer.ID, "Monitor", "40 inch", 1)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *PurchaseServiceSuite) TestOptionLabelsInventoryButSharesStock() {
	buyer := s.createAccount("mina", 5_000_000)

	_, err := s.svc.PurchaseDirect(s.ctx, buyer.ID, "Laptop", "16GB RAM", 1)
	s.Require().NoError(err)
	_, err = s.svc.PurchaseDirect(s.ctx, buyer.ID, "Laptop", "32GB RAM", 1)
	s.Require().NoError(err)

	after := s.reload(buyer.ID)
	s.Equal(int64(1), after.Inventory["Laptop (16GB RAM)"])
	s.Equal(int64(1), after.Inventory["Laptop (32GB RAM)"])
	// Both options draw from the one "Laptop" pool at the same price.
	s.Equal(stockservice.ResetQuantity-2, s.stockOf("Laptop"))
	s.Equal(int64(5_000_000-2*2_190_000), after.Wallet)
}

func (s *PurchaseServiceSuite) TestCheckoutHappyPath() {
	buyer := s.createAccount("mina", 2_000_000)
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Monitor", "27 inch", 2))
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Robux 150000", "", 1))

	receipt, err := s.svc.Checkout(s.ctx, buyer.ID, s.session)
	s.Require().NoError(err)

	wantTotal := int64(2*640_000 + 150_000)
	s.Equal(wantTotal, receipt.TotalSpent)
	s.Equal(2_000_000-wantTotal, receipt.WalletAfter)
	s.Len(receipt.Records, 2)

	after := s.reload(buyer.ID)
	s.Equal(2_000_000-wantTotal, after.Wallet)
	s.Equal(int64(2), after.Inventory["Monitor (27 inch)"])
	s.Equal(stockservice.ResetQuantity-2, s.stockOf("Monitor"))

	// The cart is consumed.
	view, err := s.carts.List(s.ctx, s.session)
	s.Require().NoError(err)
	s.Empty(view.Lines)

	history, err := s.svc.History(s.ctx, buyer.ID)
	s.Require().NoError(err)
	s.Len(history, 2)
}

func (s *PurchaseServiceSuite) TestCheckoutEmptyCart() {
	buyer := s.createAccount("mina", 2_000_000)

	_, err := s.svc.Checkout(s.ctx, buyer.ID, s.session)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *PurchaseServiceSuite) TestCheckoutIsAllOrNothingOnFunds() {
	// Enough for the first line alone, not for the whole cart.
	buyer := s.createAccount("mina", 700_000)
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Monitor", "27 inch", 1))
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Robux 150000", "", 1))

	_, err := s.svc.Checkout(s.ctx, buyer.ID, s.session)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientFunds))

	after := s.reload(buyer.ID)
	s.Equal(int64(700_000), after.Wallet)
	s.Empty(after.Inventory)

	// The cart survives a failed checkout.
	view, err := s.carts.List(s.ctx, s.session)
	s.Require().NoError(err)
	s.Len(view.Lines, 2)
}

func (s *PurchaseServiceSuite) TestCheckoutIsAllOrNothingOnStock() {
	buyer := s.createAccount("mina", 5_000_000)
	s.setStock(map[string]int64{"Monitor": 2000, "Robux 150000": 0})
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Monitor", "27 inch", 1))
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Robux 150000", "", 1))

	_, err := s.svc.Checkout(s.ctx, buyer.ID, s.session)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientStock))

	after := s.reload(buyer.ID)
	s.Equal(int64(5_000_000), after.Wallet)
	s.Empty(after.Inventory)
	s.Equal(int64(2000), s.stockOf("Monitor"))
}

func (s *PurchaseServiceSuite) TestCheckoutAggregatesStockAcrossOptions() {
	buyer := s.createAccount("mina", 20_000_000)
	s.setStock(map[string]int64{"Laptop": 3})
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Laptop", "16GB RAM", 2))
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Laptop", "32GB RAM", 2))

	// Each line fits the pool on its own; together they do not.
	_, err := s.svc.Checkout(s.ctx, buyer.ID, s.session)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientStock))
	s.Equal(int64(3), s.stockOf("Laptop"))
}

func (s *PurchaseServiceSuite) TestLegacyCheckoutCommitsPartially() {
	legacy := New(s.accounts, s.stock, s.purchases, s.carts, NewShardedRunner(), nil, nil, nil,
		WithLegacyPartialCheckout())

	buyer := s.createAccount("mina", 5_000_000)
	s.setStock(map[string]int64{"Monitor": 2000, "Robux 150000": 0})
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Monitor", "27 inch", 1))
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Robux 150000", "", 1))

	_, err := legacy.Checkout(s.ctx, buyer.ID, s.session)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientStock))

	// The historical flaw: the first line's inventory, stock, and ledger
	// mutations stand, while the wallet was never debited because the debit
	// only happens after every line commits.
	after := s.reload(buyer.ID)
	s.Equal(int64(5_000_000), after.Wallet)
	s.Equal(int64(1), after.Inventory["Monitor (27 inch)"])
	s.Equal(int64(1999), s.stockOf("Monitor"))

	history, err := legacy.History(s.ctx, buyer.ID)
	s.Require().NoError(err)
	s.Len(history, 1)

	// The cart survives the failed legacy checkout.
	view, err := s.carts.List(s.ctx, s.session)
	s.Require().NoError(err)
	s.Len(view.Lines, 2)
}

func (s *PurchaseServiceSuite) TestLegacyCheckoutDebitsOnceOnFullSuccess() {
	legacy := New(s.accounts, s.stock, s.purchases, s.carts, NewShardedRunner(), nil, nil, nil,
		WithLegacyPartialCheckout())

	buyer := s.createAccount("mina", 2_000_000)
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Monitor", "27 inch", 1))
	s.Require().NoError(s.carts.Add(s.ctx, s.session, "Robux 150000", "", 1))

	receipt, err := legacy.Checkout(s.ctx, buyer.ID, s.session)
	s.Require().NoError(err)
	s.Equal(int64(790_000), receipt.TotalSpent)
	s.Equal(int64(2_000_000-790_000), receipt.WalletAfter)
	s.Equal(int64(2_000_000-790_000), s.reload(buyer.ID).Wallet)
	s.Len(receipt.Records, 2)
}

func (s *PurchaseServiceSuite) TestHistoryIsOldestFirst() {
	buyer := s.createAccount("mina", 1_000_000)

	_, err := s.svc.PurchaseDirect(s.ctx, buyer.ID, "Robux 150000", "", 1)
	s.Require().NoError(err)

	later := requestcontext.WithTime(context.Background(), s.now.Add(time.Minute))
	_, err = s.svc.PurchaseDirect(later, buyer.ID, "Monitor", "27 inch", 1)
	s.Require().NoError(err)

	history, err := s.svc.History(s.ctx, buyer.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal("Robux 150000", history[0].Item)
	s.Equal("Monitor (27 inch)", history[1].Item)
	s.True(history[0].At.Before(history[1].At))
}
