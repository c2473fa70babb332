//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"shopstream/internal/session/models"
	"shopstream/internal/session/store"
	id "shopstream/pkg/domain"
	"shopstream/pkg/platform/sentinel"
	"shopstream/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.Redis
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeSession(name string, ttl time.Duration) models.Session {
	now := time.Now()
	return models.Session{
		ID:          id.NewSessionID(),
		AccountID:   id.NewAccountID(),
		AccountName: name,
		Device:      "Chrome (Linux)",
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

func (s *RedisStoreSuite) TestSaveFindRoundTrip() {
	ctx := context.Background()
	session := makeSession("mina", time.Hour)

	s.Require().NoError(s.store.Save(ctx, session))

	found, err := s.store.FindByID(ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.AccountID, found.AccountID)
	s.Equal(session.AccountName, found.AccountName)
	s.Equal(session.Device, found.Device)
}

func (s *RedisStoreSuite) TestTTLExpiryIsEnforcedByRedis() {
	ctx := context.Background()
	session := makeSession("brief", 1*time.Second)

	s.Require().NoError(s.store.Save(ctx, session))

	time.Sleep(1500 * time.Millisecond)

	_, err := s.store.FindByID(ctx, session.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestSaveRejectsAlreadyExpired() {
	err := s.store.Save(context.Background(), makeSession("stale", -time.Minute))
	s.Require().ErrorIs(err, sentinel.ErrExpired)
}

func (s *RedisStoreSuite) TestDeleteAndListActive() {
	ctx := context.Background()
	first := makeSession("mina", time.Hour)
	second := makeSession("noah", time.Hour)

	s.Require().NoError(s.store.Save(ctx, first))
	s.Require().NoError(s.store.Save(ctx, second))

	active, err := s.store.ListActive(ctx, time.Now())
	s.Require().NoError(err)
	s.Len(active, 2)

	s.Require().NoError(s.store.Delete(ctx, first.ID))

	active, err = s.store.ListActive(ctx, time.Now())
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("noah", active[0].AccountName)
}
