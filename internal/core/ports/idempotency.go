package ports

import (
	"context"
	"time"
)

// IdempotencyStore remembers operation keys that already executed, so retried
// jobs and duplicate webhooks do not repeat side effects. A key carries the
// outcome of its first execution; duplicates read it back instead of
// re-executing. Keys expire after the given TTL.
type IdempotencyStore interface {
	// MarkProcessed records the key and its outcome atomically (SETNX
	// semantics). Returns true when this call claimed the key, false when it
	// was already present; the stored value is never overwritten.
	MarkProcessed(ctx context.Context, key, outcome string, ttl time.Duration) (bool, error)

	// ProcessedOutcome returns the outcome recorded for the key. The second
	// return is false when the key was never claimed or has expired.
	ProcessedOutcome(ctx context.Context, key string) (string, bool, error)
}
