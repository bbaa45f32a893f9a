package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/pkg/kvstore"
	"github.com/stretchr/testify/require"
)

func TestLimiter_SeventhCallWithinWindowIsLimited(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	limiter := NewLimiter(kvstore.NewMemoryStore(), 60*time.Second, 6).
		WithClock(func() time.Time { return clock })

	for i := 0; i < 6; i++ {
		clock = base.Add(time.Duration(i) * time.Second)
		require.False(t, limiter.Limited(ctx, "14155550100"), "call %d should pass", i+1)
	}

	clock = base.Add(30 * time.Second)
	require.True(t, limiter.Limited(ctx, "14155550100"))
}

func TestLimiter_WindowSlides(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	limiter := NewLimiter(kvstore.NewMemoryStore(), 60*time.Second, 6).
		WithClock(func() time.Time { return clock })

	for i := 0; i < 6; i++ {
		clock = base.Add(time.Duration(i) * time.Second)
		limiter.Limited(ctx, "14155550100")
	}

	// 61 seconds after the first call the early timestamps have aged out.
	clock = base.Add(61 * time.Second)
	require.False(t, limiter.Limited(ctx, "14155550100"))
}

func TestLimiter_IdentitiesAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter := NewLimiter(kvstore.NewMemoryStore(), 60*time.Second, 1)

	require.False(t, limiter.Limited(ctx, "14155550100"))
	require.False(t, limiter.Limited(ctx, "14155550199"))
	require.True(t, limiter.Limited(ctx, "14155550100"))
}
