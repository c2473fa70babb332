package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"shopstream/internal/purchase/handler/mocks"
	"shopstream/internal/purchase/models"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/purchase-mocks.go -package=mocks Service
type PurchaseHandlerSuite struct {
	suite.Suite
	router    chi.Router
	service   *mocks.MockService
	accountID id.AccountID
	sessionID id.SessionID
}

func (s *PurchaseHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	s.service = mocks.NewMockService(ctrl)
	s.accountID = id.NewAccountID()
	s.sessionID = id.NewSessionID()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)
}

func TestPurchaseHandlerSuite(t *testing.T) {
	suite.Run(t, new(PurchaseHandlerSuite))
}

// do issues a request with the session identity already in context, the way
// RequireSession would leave it.
func (s *PurchaseHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	ctx := requestcontext.WithAccountID(req.Context(), s.accountID)
	ctx = requestcontext.WithSessionID(ctx, s.sessionID)
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *PurchaseHandlerSuite) TestPurchase() {
	receipt := models.Receipt{
		Records: []models.Record{{
			ID:        id.NewPurchaseID(),
			AccountID: s.accountID,
			Item:      "Robux 150000",
			Quantity:  1,
			UnitPrice: 150_000,
			Total:     150_000,
			At:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}},
		TotalSpent:  150_000,
		WalletAfter: 50_000,
	}
	s.service.EXPECT().
		PurchaseDirect(gomock.Any(), s.accountID, "Robux 150000", "", int64(1)).
		Return(receipt, nil)

	w := s.do(http.MethodPost, "/purchase", map[string]any{
		"product": "Robux 150000", "quantity": 1,
	})

	s.Equal(http.StatusOK, w.Code)
	var got models.Receipt
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(int64(50_000), got.WalletAfter)
	s.Len(got.Records, 1)
}

func (s *PurchaseHandlerSuite) TestPurchaseInsufficientFunds() {
	s.service.EXPECT().
		PurchaseDirect(gomock.Any(), s.accountID, "Robux 150000", "", int64(1)).
		Return(models.Receipt{}, dErrors.New(dErrors.CodeInsufficientFunds, "wallet has 10000, purchase costs 150000"))

	w := s.do(http.MethodPost, "/purchase", map[string]any{
		"product": "Robux 150000", "quantity": 1,
	})

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("insufficient_funds", resp["error"])
}

func (s *PurchaseHandlerSuite) TestPurchaseRejectsBadBody() {
	req := httptest.NewRequest(http.MethodPost, "/purchase", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *PurchaseHandlerSuite) TestCheckout() {
	s.service.EXPECT().
		Checkout(gomock.Any(), s.accountID, s.sessionID).
		Return(models.Receipt{TotalSpent: 790_000, WalletAfter: 210_000}, nil)

	w := s.do(http.MethodPost, "/checkout", nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *PurchaseHandlerSuite) TestHistory() {
	s.service.EXPECT().
		History(gomock.Any(), s.accountID).
		Return([]models.Record{{Item: "Monitor (27 inch)", Quantity: 2}}, nil)

	w := s.do(http.MethodGet, "/me/purchases", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp struct {
		Purchases []models.Record `json:"purchases"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Purchases, 1)
	s.Equal("Monitor (27 inch)", resp.Purchases[0].Item)
}
