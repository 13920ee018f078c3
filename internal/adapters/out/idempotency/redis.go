package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared idempotency store: SETNX with TTL makes the claim
// atomic across processes, GET reads back the recorded outcome.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store over an existing redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// MarkProcessed records the key and its outcome with SET NX.
func (s *RedisStore) MarkProcessed(ctx context.Context, key, outcome string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, outcome, ttl).Result()
}

// ProcessedOutcome returns the outcome recorded for the key.
func (s *RedisStore) ProcessedOutcome(ctx context.Context, key string) (string, bool, error) {
	outcome, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return outcome, true, nil
}
