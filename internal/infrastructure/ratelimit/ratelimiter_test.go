package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemoryRateLimiter()
	now := time.Date(2026, 3, 1, 10, 0, 45, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	rule := Rule{Limit: 2, Window: time.Minute}

	tests := []struct {
		name      string
		key       string
		allowed   bool
		remaining int
	}{
		{"first request", "a", true, 1},
		{"second request", "a", true, 0},
		{"over the limit", "a", false, 0},
		{"other key has its own window", "b", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := limiter.Allow(ctx, tt.key, rule)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, res.Allowed)
			assert.Equal(t, tt.remaining, res.Remaining)
		})
	}

	res, err := limiter.Allow(ctx, "a", rule)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, res.RetryAfter)

	now = now.Add(15 * time.Second)
	res, err = limiter.Allow(ctx, "a", rule)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	require.NoError(t, limiter.Reset(ctx, "b"))
	res, err = limiter.Allow(ctx, "b", Rule{Limit: 1, Window: time.Minute})
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryRateLimiter_DisabledRule(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	for i := 0; i < 10; i++ {
		res, err := limiter.Allow(context.Background(), "k", Rule{})
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
}
