package queue_test

import (
	"testing"
	"time"

	"fulfillment/internal/queue"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_Exponential(t *testing.T) {
	b := queue.DefaultBackoff()

	testCases := []struct {
		attempts int
		delay    time.Duration
	}{
		{0, 2 * time.Second},
		{1, 4 * time.Second},
		{2, 8 * time.Second},
		{3, 16 * time.Second},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.delay, b.Delay(tc.attempts), "attempts=%d", tc.attempts)
	}
}

func TestBackoff_ExponentialIsCapped(t *testing.T) {
	b := queue.DefaultBackoff()
	assert.Equal(t, 15*time.Minute, b.Delay(30))
}

func TestBackoff_Fixed(t *testing.T) {
	b := queue.FixedBackoff(500 * time.Millisecond)

	for attempts := 0; attempts < 5; attempts++ {
		assert.Equal(t, 500*time.Millisecond, b.Delay(attempts))
	}
}

func TestBackoff_ZeroBaseFallsBackToDefault(t *testing.T) {
	b := queue.Backoff{Kind: queue.BackoffExponential}
	assert.Equal(t, 2*time.Second, b.Delay(0))
}
