// Package ratelimit implements a sliding-window request limiter keyed by
// identity, backed by the shared key/value store. With the store fully
// degraded to memory the limiter still counts correctly within one
// process; cross-process limiting is lost, which is accepted.
package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/pkg/kvstore"
)

const keyPrefix = "rate:"

type Limiter struct {
	store  kvstore.Store
	window time.Duration
	max    int
	now    func() time.Time
}

func NewLimiter(store kvstore.Store, window time.Duration, max int) *Limiter {
	return &Limiter{
		store:  store,
		window: window,
		max:    max,
		now:    time.Now,
	}
}

// WithClock overrides the limiter's clock. Test hook.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Limited records the current request and reports whether the identity
// has exceeded max requests within the window. The call itself counts:
// timestamps are appended before trimming and checking.
func (l *Limiter) Limited(ctx context.Context, identity string) bool {
	key := keyPrefix + identity
	now := l.now()
	cutoff := now.Add(-l.window)

	var stamps []int64
	raw, err := l.store.Get(ctx, key)
	if err == nil {
		if err := json.Unmarshal(raw, &stamps); err != nil {
			stamps = nil
		}
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		// The fallback store swallows backend errors, so this branch is
		// defensive only; treat it as an empty window.
		stamps = nil
	}

	kept := stamps[:0]
	for _, ts := range stamps {
		if time.UnixMilli(ts).After(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now.UnixMilli())

	if encoded, err := json.Marshal(kept); err == nil {
		_ = l.store.Put(ctx, key, encoded, l.window)
	}

	return len(kept) > l.max
}

// Message is the user-facing rejection text for a limited identity.
func (l *Limiter) Message() string {
	return fmt.Sprintf("You're sending requests too quickly. Please wait a moment (limit: %d per %s).", l.max, l.window)
}
