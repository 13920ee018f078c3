package idempotency

import (
	"log/slog"

	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// NewStore builds the idempotency store for the deployment. A redis URL
// selects the shared RedisStore; an empty URL falls back to the in-memory
// store, which is only safe for a single process.
func NewStore(redisURL string, logger *slog.Logger) (ports.IdempotencyStore, error) {
	if redisURL == "" {
		logger.Info("idempotency store: in-memory (single process)")
		return NewMemoryStore(), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	logger.Info("idempotency store: redis", "addr", opts.Addr)
	return NewRedisStore(redis.NewClient(opts)), nil
}
