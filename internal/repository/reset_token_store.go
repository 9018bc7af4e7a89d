package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resetTokenKeyPrefix = "password_reset:used:"

// RedisResetTokenStore keeps consumed reset token IDs in Redis until the
// token would have expired anyway.
type RedisResetTokenStore struct {
	client *redis.Client
}

// NewResetTokenStore creates a Redis backed ResetTokenStore
func NewResetTokenStore(client *redis.Client) ResetTokenStore {
	return &RedisResetTokenStore{client: client}
}

// Consume marks tokenID as used. SETNX makes concurrent resets with the same
// token race safely: only one caller gets true.
func (s *RedisResetTokenStore) Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Second
	}
	ok, err := s.client.SetNX(ctx, resetTokenKeyPrefix+tokenID, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return ok, nil
}

// Release forgets a consumed token
func (s *RedisResetTokenStore) Release(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, resetTokenKeyPrefix+tokenID).Err(); err != nil {
		return fmt.Errorf("failed to release reset token: %w", err)
	}
	return nil
}
