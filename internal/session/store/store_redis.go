package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shopstream/internal/session/models"
	id "shopstream/pkg/domain"
	"shopstream/pkg/platform/sentinel"
)

const sessionKeyPrefix = "session:"

// Redis is the production session store: sessions are JSON values with a
// Redis TTL, so expiry needs no sweeper and survives process restarts.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Save(ctx context.Context, session models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return sentinel.ErrExpired
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	key := sessionKeyPrefix + session.ID.String()
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Redis) FindByID(ctx context.Context, sessionID id.SessionID) (models.Session, error) {
	key := sessionKeyPrefix + sessionID.String()
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return models.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

func (s *Redis) Delete(ctx context.Context, sessionID id.SessionID) error {
	key := sessionKeyPrefix + sessionID.String()
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ListActive scans session keys. The online view is a small demo surface;
// SCAN with a prefix is fine at this scale.
func (s *Redis) ListActive(ctx context.Context, _ time.Time) ([]models.Session, error) {
	var sessions []models.Session
	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		payload, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, fmt.Errorf("load session during scan: %w", err)
		}
		var session models.Session
		if err := json.Unmarshal(payload, &session); err != nil {
			return nil, fmt.Errorf("unmarshal session during scan: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return sessions, nil
}
