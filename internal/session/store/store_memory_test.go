package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"shopstream/internal/session/models"
	id "shopstream/pkg/domain"
	"shopstream/pkg/platform/sentinel"
)

type SessionStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *SessionStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}

func (s *SessionStoreSuite) newSession(name string, ttl time.Duration) models.Session {
	now := time.Now()
	return models.Session{
		ID:          id.NewSessionID(),
		AccountID:   id.NewAccountID(),
		AccountName: name,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

func (s *SessionStoreSuite) TestSaveAndFind() {
	session := s.newSession("mina", time.Hour)
	s.Require().NoError(s.store.Save(s.ctx, session))

	found, err := s.store.FindByID(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.AccountID, found.AccountID)
	s.Equal("mina", found.AccountName)
}

func (s *SessionStoreSuite) TestUnknownSessionIsNotFound() {
	_, err := s.store.FindByID(s.ctx, id.NewSessionID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *SessionStoreSuite) TestExpiredSessionIsNotFound() {
	session := s.newSession("stale", -time.Minute)
	s.Require().NoError(s.store.Save(s.ctx, session))

	_, err := s.store.FindByID(s.ctx, session.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *SessionStoreSuite) TestDelete() {
	session := s.newSession("gone", time.Hour)
	s.Require().NoError(s.store.Save(s.ctx, session))
	s.Require().NoError(s.store.Delete(s.ctx, session.ID))

	_, err := s.store.FindByID(s.ctx, session.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// Deleting again is a no-op.
	s.Require().NoError(s.store.Delete(s.ctx, session.ID))
}

func (s *SessionStoreSuite) TestListActiveSkipsExpired() {
	s.Require().NoError(s.store.Save(s.ctx, s.newSession("live", time.Hour)))
	s.Require().NoError(s.store.Save(s.ctx, s.newSession("dead", -time.Minute)))

	active, err := s.store.ListActive(s.ctx, time.Now())
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("live", active[0].AccountName)
}
