package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"shopstream/internal/cart/store"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
)

type CartServiceSuite struct {
	suite.Suite
	svc     *Service
	session id.SessionID
	ctx     context.Context
}

func (s *CartServiceSuite) SetupTest() {
	s.svc = New(store.NewInMemory(), nil)
	s.session = id.NewSessionID()
	s.ctx = context.Background()
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(CartServiceSuite))
}

func (s *CartServiceSuite) TestEmptyCart() {
	view, err := s.svc.List(s.ctx, s.session)
	s.Require().NoError(err)
	s.Empty(view.Lines)
	s.Zero(view.Total)
}

func (s *CartServiceSuite) TestAddAndPrice() {
	s.Require().NoError(s.svc.Add(s.ctx, s.session, "Monitor", "27 inch", 2))
	s.Require().NoError(s.svc.Add(s.ctx, s.session, "Robux 150000", "", 1))

	view, err := s.svc.List(s.ctx, s.session)
	s.Require().NoError(err)
	s.Require().Len(view.Lines, 2)

	s.Equal("Monitor (27 inch)", view.Lines[0].Label)
	s.Equal(int64(640_000), view.Lines[0].UnitPrice)
	s.Equal(int64(1_280_000), view.Lines[0].Subtotal)
	s.Equal("Robux 150000", view.Lines[1].Label)
	s.Equal(int64(1_280_000+150_000), view.Total)
}

func (s *CartServiceSuite) TestSameLabelMerges() {
	s.Require().NoError(s.svc.Add(s.ctx, s.session, "Laptop", "16GB RAM", 1))
	s.Require().NoError(s.svc.Add(s.ctx, s.session, "Laptop", "16GB RAM", 2))

	view, err := s.svc.List(s.ctx, s.session)
	s.Require().NoError(err)
	s.Require().Len(view.Lines, 1)
	s.Equal(int64(3), view.Lines[0].Quantity)
}

func (s *CartServiceSuite) TestDifferentOptionsStaySeparate() {
	s.Require().NoError(s.svc.Add(s.ctx, s.session, "Laptop", "16GB RAM", 1))
	s.Require().NoError(s.svc.Add(s.ctx, s.session, "Laptop", "32GB RAM", 1))

	view, err := s.svc.List(s.ctx, s.session)
	s.Require().NoError(err)
	s.Len(view.Lines, 2)
	// Options never affect the price.
	s.Equal(view.Lines[0].UnitPrice, view.Lines[1].UnitPrice)
}

func (s *CartServiceSuite) TestAddValidation() {
	err := s.svc.Add(s.ctx, s.session, "Monitor", "27 inch", 0)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	err = s.svc.Add(s.ctx, s.session, "Toaster", "", 1)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.svc.Add(s.ctx, s.session, "Monitor", "40 inch", 1)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *CartServiceSuite) TestRemove() {
	s.Require().NoError(s.svc.Add(s.ctx, s.session, "Monitor", "27 inch", 1))
	s.Require().NoError(s.svc.Remove(s.ctx, s.session, "Monitor (27 inch)"))

	view, err := s.svc.List(s.ctx, s.session)
	s.Require().NoError(err)
	s.Empty(view.Lines)

	err = s.svc.Remove(s.ctx, s.session, "Monitor (27 inch)")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *CartServiceSuite) TestClear() {
	s.Require().NoError(s.svc.Add(s.ctx, s.session, "Monitor", "27 inch", 1))
	s.Require().NoError(s.svc.Clear(s.ctx, s.session))

	view, err := s.svc.List(s.ctx, s.session)
	s.Require().NoError(err)
	s.Empty(view.Lines)
}

func (s *CartServiceSuite) TestCartsAreSessionScoped() {
	other := id.NewSessionID()
	s.Require().NoError(s.svc.Add(s.ctx, s.session, "Monitor", "27 inch", 1))

	view, err := s.svc.List(s.ctx, other)
	s.Require().NoError(err)
	s.Empty(view.Lines)
}
