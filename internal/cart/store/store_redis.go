package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shopstream/internal/cart/models"
	id "shopstream/pkg/domain"
)

const cartKeyPrefix = "cart:"

// Redis is the production cart store. Carts carry a TTL so abandoned ones
// vanish on their own; the TTL is refreshed on every write.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (s *Redis) Get(ctx context.Context, sessionID id.SessionID) ([]models.Line, error) {
	payload, err := s.client.Get(ctx, cartKeyPrefix+sessionID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var lines []models.Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return lines, nil
}

func (s *Redis) Put(ctx context.Context, sessionID id.SessionID, lines []models.Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKeyPrefix+sessionID.String(), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *Redis) Clear(ctx context.Context, sessionID id.SessionID) error {
	if err := s.client.Del(ctx, cartKeyPrefix+sessionID.String()).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
