package scorer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	t.Run("bucket drains and refills from elapsed time", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		rl := newRateLimiter(60)
		rl.now = func() time.Time { return now }
		rl.lastRefill = now

		for i := 0; i < 60; i++ {
			require.True(t, rl.tryAcquire(), "token %d", i)
		}
		assert.False(t, rl.tryAcquire(), "bucket should be empty")

		// 60/min refills one token per second.
		now = now.Add(1500 * time.Millisecond)
		assert.True(t, rl.tryAcquire())
		assert.False(t, rl.tryAcquire())

		// Refill never exceeds capacity.
		now = now.Add(time.Hour)
		require.True(t, rl.tryAcquire())
		assert.Equal(t, 59, rl.available())
	})

	t.Run("defaults to 60 per minute", func(t *testing.T) {
		rl := newRateLimiter(0)
		assert.Equal(t, 60, rl.available())
	})

	t.Run("context cancellation", func(t *testing.T) {
		now := time.Now()
		rl := newRateLimiter(1)
		rl.now = func() time.Time { return now }
		rl.lastRefill = now
		require.NoError(t, rl.wait(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := rl.wait(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
