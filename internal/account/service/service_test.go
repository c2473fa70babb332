package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"shopstream/internal/account/store"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
)

type AccountServiceSuite struct {
	suite.Suite
	svc *Service
	ctx context.Context
}

func (s *AccountServiceSuite) SetupTest() {
	s.svc = New(store.NewInMemory(), nil, nil)
	s.ctx = context.Background()
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) TestSignup() {
	s.Run("new account starts with fixed wallet and empty inventory", func() {
		account, err := s.svc.Signup(s.ctx, "mina", "mina@example.com", "secret")
		s.Require().NoError(err)
		s.Equal(InitialWallet, account.Wallet)
		s.Empty(account.Inventory)
		s.False(account.ID.IsNil())
	})

	s.Run("duplicate name is rejected", func() {
		_, err := s.svc.Signup(s.ctx, "dupe", "a@example.com", "pw")
		s.Require().NoError(err)

		_, err = s.svc.Signup(s.ctx, "dupe", "b@example.com", "pw2")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("blank name is rejected", func() {
		_, err := s.svc.Signup(s.ctx, "   ", "x@example.com", "pw")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *AccountServiceSuite) TestSignupThenGetRoundTrip() {
	created, err := s.svc.Signup(s.ctx, "round", "round@example.com", "trip")
	s.Require().NoError(err)

	got, err := s.svc.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.Name, got.Name)
	s.Equal(created.Email, got.Email)
	s.Equal(created.Password, got.Password)
	s.Equal(created.Wallet, got.Wallet)
}

func (s *AccountServiceSuite) TestAuthenticate() {
	_, err := s.svc.Signup(s.ctx, "auth", "auth@example.com", "right-password")
	s.Require().NoError(err)

	s.Run("succeeds only with the exact original password", func() {
		account, err := s.svc.Authenticate(s.ctx, "auth", "right-password")
		s.Require().NoError(err)
		s.Equal("auth", account.Name)
	})

	s.Run("wrong password fails", func() {
		_, err := s.svc.Authenticate(s.ctx, "auth", "Right-Password")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown name fails with the same error", func() {
		_, err := s.svc.Authenticate(s.ctx, "nobody", "whatever")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *AccountServiceSuite) TestTopUp() {
	account, err := s.svc.Signup(s.ctx, "topup", "t@example.com", "pw")
	s.Require().NoError(err)

	s.Run("adds funds", func() {
		updated, err := s.svc.TopUp(s.ctx, account.ID, 5000)
		s.Require().NoError(err)
		s.Equal(InitialWallet+5000, updated.Wallet)
	})

	s.Run("rejects non-positive amounts", func() {
		_, err := s.svc.TopUp(s.ctx, account.ID, 0)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

		_, err = s.svc.TopUp(s.ctx, account.ID, -100)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown account is not_found", func() {
		_, err := s.svc.TopUp(s.ctx, id.NewAccountID(), 1000)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
