package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"shopstream/internal/cart/models"
	cartservice "shopstream/internal/cart/service"
	cartstore "shopstream/internal/cart/store"
	id "shopstream/pkg/domain"
	"shopstream/pkg/testutil"
)

type CartHandlerSuite struct {
	suite.Suite
	router    chi.Router
	accountID id.AccountID
	sessionID id.SessionID
}

func (s *CartHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := cartservice.New(cartstore.NewInMemory(), logger)

	s.router = chi.NewRouter()
	New(svc, logger).Register(s.router)
	s.accountID = id.NewAccountID()
	s.sessionID = id.NewSessionID()
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerSuite))
}

func (s *CartHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	req = testutil.WithSession(req, s.accountID.String(), s.sessionID.String())
	return testutil.DoRequest(s.router, req)
}

func (s *CartHandlerSuite) addMonitor(qty int64) {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/cart/items", map[string]any{
		"product": "Monitor", "option": "27 inch", "quantity": qty,
	})
	rr := s.do(req)
	testutil.AssertStatusOK(s.T(), rr)
}

func (s *CartHandlerSuite) TestAddReturnsPricedCart() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/cart/items", map[string]any{
		"product": "Monitor", "option": "27 inch", "quantity": 2,
	})
	rr := s.do(req)

	testutil.AssertStatusOK(s.T(), rr)
	view := testutil.UnmarshalResponse[models.View](s.T(), rr)
	s.Require().Len(view.Lines, 1)
	s.Equal("Monitor (27 inch)", view.Lines[0].Label)
	s.Equal(int64(1_280_000), view.Total)
}

func (s *CartHandlerSuite) TestAddUnknownProduct() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/cart/items", map[string]any{
		"product": "Toaster", "quantity": 1,
	})
	rr := s.do(req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *CartHandlerSuite) TestRemoveEscapedLabel() {
	s.addMonitor(1)

	path := "/cart/items/" + url.PathEscape("Monitor (27 inch)")
	rr := s.do(testutil.NewRequest(s.T(), http.MethodDelete, path))

	testutil.AssertStatusOK(s.T(), rr)
	view := testutil.UnmarshalResponse[models.View](s.T(), rr)
	s.Empty(view.Lines)
}

func (s *CartHandlerSuite) TestRemoveUnknownLabel() {
	rr := s.do(testutil.NewRequest(s.T(), http.MethodDelete, "/cart/items/Nothing"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *CartHandlerSuite) TestListEmptyCart() {
	rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/cart"))

	testutil.AssertStatusOK(s.T(), rr)
	view := testutil.UnmarshalResponse[models.View](s.T(), rr)
	s.Empty(view.Lines)
	s.Zero(view.Total)
}
