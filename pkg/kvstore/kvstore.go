package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is the only error callers should branch on. Backend
// connectivity problems never escape the store.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a key-addressed, TTL-bearing map. It is the single shared
// mutable resource of the service and must be safe for concurrent use.
type Store interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Scan(ctx context.Context, prefix string) ([]string, error)
}
