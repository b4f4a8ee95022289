package ports

import (
	"context"
	"time"
)

// CacheStore is the minimal textual key-value contract behind the read-through cache.
// Implementations report connectivity problems as cache.ErrStoreUnavailable so callers
// can tell an unreachable store from a failed command.
type CacheStore interface {
	// Get returns the raw bytes for key. ok=false if not found or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// SetEX stores value for key and (re)sets its expiration to ttl.
	SetEX(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Close releases the connection; later calls fail with cache.ErrStoreUnavailable.
	Close() error
}
