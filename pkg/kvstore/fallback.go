package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
)

// FallbackStore fronts a durable backend with an in-process memory
// backend. Any durable-backend failure degrades the call to memory and
// is logged as a warning; callers only ever see ErrNotFound or a value.
// With the durable backend down the service keeps best-effort,
// single-process semantics, which is the accepted degradation mode.
type FallbackStore struct {
	durable Store
	memory  *MemoryStore
	logger  logger.Logger
}

// NewFallbackStore builds the shared store. durable may be nil, in which
// case every operation runs against memory from the start.
func NewFallbackStore(durable Store, memory *MemoryStore, log logger.Logger) *FallbackStore {
	if memory == nil {
		memory = NewMemoryStore()
	}
	return &FallbackStore{durable: durable, memory: memory, logger: log}
}

func (f *FallbackStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if f.durable != nil {
		if err := f.durable.Put(ctx, key, value, ttl); err == nil {
			return nil
		} else {
			f.logger.Warnf("kvstore: durable put failed for %s, using memory: %v", key, err)
		}
	}
	return f.memory.Put(ctx, key, value, ttl)
}

func (f *FallbackStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.durable != nil {
		val, err := f.durable.Get(ctx, key)
		if err == nil {
			return val, nil
		}
		if !errors.Is(err, ErrNotFound) {
			f.logger.Warnf("kvstore: durable get failed for %s, using memory: %v", key, err)
		}
		// A durable miss still consults memory so that entries written
		// while degraded stay readable after the backend recovers.
	}
	return f.memory.Get(ctx, key)
}

func (f *FallbackStore) Delete(ctx context.Context, key string) error {
	if f.durable != nil {
		if err := f.durable.Delete(ctx, key); err != nil {
			f.logger.Warnf("kvstore: durable delete failed for %s: %v", key, err)
		}
	}
	return f.memory.Delete(ctx, key)
}

func (f *FallbackStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if f.durable != nil {
		if n, err := f.durable.Increment(ctx, key, ttl); err == nil {
			return n, nil
		} else {
			f.logger.Warnf("kvstore: durable increment failed for %s, using memory: %v", key, err)
		}
	}
	return f.memory.Increment(ctx, key, ttl)
}

func (f *FallbackStore) Scan(ctx context.Context, prefix string) ([]string, error) {
	seen := make(map[string]struct{})
	if f.durable != nil {
		keys, err := f.durable.Scan(ctx, prefix)
		if err != nil {
			f.logger.Warnf("kvstore: durable scan failed for %s, using memory: %v", prefix, err)
		} else {
			for _, k := range keys {
				seen[k] = struct{}{}
			}
		}
	}
	memKeys, _ := f.memory.Scan(ctx, prefix)
	for _, k := range memKeys {
		seen[k] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out, nil
}
