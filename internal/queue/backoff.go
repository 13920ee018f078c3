package queue

import "time"

// DefaultMaxAttempts is the retry budget applied when the enqueue call does
// not override it.
const DefaultMaxAttempts = 3

// defaultBackoffBase is the base delay of the default exponential policy.
const defaultBackoffBase = 2 * time.Second

// BackoffKind selects the function mapping attempt count to retry delay.
type BackoffKind int

const (
	// BackoffExponential delays base * 2^attempts.
	BackoffExponential BackoffKind = iota

	// BackoffFixed delays a constant base regardless of attempts.
	BackoffFixed
)

// Backoff is a retry-delay policy: a kind and a base duration.
type Backoff struct {
	Kind BackoffKind
	Base time.Duration
}

// DefaultBackoff returns the fabric default: exponential from a 2s base.
func DefaultBackoff() Backoff {
	return Backoff{Kind: BackoffExponential, Base: defaultBackoffBase}
}

// FixedBackoff returns a constant-delay policy, used by the notification
// channel queues which retry once with a short pause.
func FixedBackoff(base time.Duration) Backoff {
	return Backoff{Kind: BackoffFixed, Base: base}
}

// Delay returns the wait before the next execution given the number of
// attempts already made.
func (b Backoff) Delay(attempts int) time.Duration {
	base := b.Base
	if base <= 0 {
		base = defaultBackoffBase
	}

	switch b.Kind {
	case BackoffFixed:
		return base
	case BackoffExponential:
	}

	delay := base
	for i := 0; i < attempts; i++ {
		delay *= 2
		if delay > maxBackoffDelay {
			return maxBackoffDelay
		}
	}
	return delay
}

// maxBackoffDelay caps exponential growth so a misconfigured retry budget
// cannot schedule a job days out.
const maxBackoffDelay = 15 * time.Minute
