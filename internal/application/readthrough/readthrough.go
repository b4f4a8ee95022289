// Package readthrough memoizes the results of expensive queries in a
// key-value store. On a hit the stored JSON is decoded and returned; on a miss
// the caller's producer runs, its result is written with a fixed TTL and then
// returned. The cache knows nothing about what it stores.
//
// By default concurrent misses on the same key are not coalesced: each call
// runs its own producer and the last write wins. WithSingleFlight coalesces
// them within one process.
package readthrough

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/avatarctic/finance-tracker/internal/core/domain/cache"
	"github.com/avatarctic/finance-tracker/internal/core/ports"
)

// Cache is a read-through cache over a ports.CacheStore. It owns the store:
// Close releases it.
type Cache struct {
	store   ports.CacheStore
	ttl     time.Duration
	logger  *logrus.Logger
	metrics *Metrics
	group   *singleflight.Group

	closeOnce sync.Once
	closeErr  error
}

type Option func(*Cache)

// WithTTL overrides cache.DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// WithSingleFlight makes concurrent misses on the same key share one producer
// invocation. Callers sharing a result receive the same value, so returned
// slices and pointers must be treated as read-only.
func WithSingleFlight() Option {
	return func(c *Cache) { c.group = &singleflight.Group{} }
}

// New creates a read-through cache that takes ownership of store.
func New(store ports.CacheStore, opts ...Option) *Cache {
	c := &Cache{store: store, ttl: cache.DefaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the expiration applied to every write.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Close releases the underlying store. It is safe to call more than once.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() {
		if c.store != nil {
			c.closeErr = c.store.Close()
		}
	})
	return c.closeErr
}

// GetOrCompute returns the live cached value for key, or runs produce, stores
// its result for the cache TTL and returns it.
//
// A store read failure is returned without running produce. A producer
// failure is returned wrapped in cache.ErrProducer and nothing is stored. A
// write failure after a successful produce is returned as an error; the
// produced value is discarded.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, produce func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if key == "" {
		return zero, cache.ErrEmptyKey
	}
	if produce == nil {
		return zero, fmt.Errorf("%w: nil producer for key %q", cache.ErrProducer, key)
	}

	v, hit, err := lookup[T](ctx, c, key, true)
	if err != nil || hit {
		return v, err
	}

	if c.group == nil {
		return fill(ctx, c, key, produce)
	}

	// The flight outlives any single waiter: it runs on a context that keeps
	// the caller's values but not its cancellation, and each waiter stops
	// waiting when its own context is done.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// another flight may have filled the key while we waited
		if v, hit, err := lookup[T](flightCtx, c, key, false); err != nil || hit {
			return v, err
		}
		return fill(flightCtx, c, key, produce)
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		out, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("%w: key %q shared by incompatible result types", cache.ErrSerialization, key)
		}
		return out, nil
	}
}

// lookup reads and decodes key. With record unset the outcome is not counted
// or logged, so a re-check inside a flight does not count the miss twice.
func lookup[T any](ctx context.Context, c *Cache, key string, record bool) (T, bool, error) {
	var zero T
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		err = classify(err, cache.ErrStoreRead)
		if record {
			c.observe(key, resultError)
		}
		c.logFailure(key, "read", err)
		return zero, false, err
	}
	if !ok {
		if record {
			c.observe(key, resultMiss)
			c.logResult(key, resultMiss)
		}
		return zero, false, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		err = fmt.Errorf("%w: decode %q: %w", cache.ErrSerialization, key, err)
		if record {
			c.observe(key, resultError)
		}
		c.logFailure(key, "decode", err)
		return zero, false, err
	}
	if record {
		c.observe(key, resultHit)
		c.logResult(key, resultHit)
	}
	return v, true, nil
}

func fill[T any](ctx context.Context, c *Cache, key string, produce func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	start := time.Now()
	v, err := produce(ctx)
	c.observeProducer(key, time.Since(start))
	if err != nil {
		return zero, fmt.Errorf("%w: %w", cache.ErrProducer, err)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		c.observe(key, resultError)
		err = fmt.Errorf("%w: encode %q: %w", cache.ErrSerialization, key, err)
		c.logFailure(key, "encode", err)
		return zero, err
	}

	if err := c.store.SetEX(ctx, key, raw, c.ttl); err != nil {
		err = classify(err, cache.ErrStoreWrite)
		c.observe(key, resultError)
		c.logFailure(key, "write", err)
		return zero, err
	}
	return v, nil
}

// classify keeps errors the store already categorized and tags the rest with fallback.
func classify(err, fallback error) error {
	if errors.Is(err, cache.ErrStoreUnavailable) || errors.Is(err, fallback) {
		return err
	}
	return fmt.Errorf("%w: %w", fallback, err)
}

func namespaceOf(key string) string {
	ns, _, _ := strings.Cut(key, ":")
	return ns
}

func (c *Cache) logResult(key, result string) {
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"key": key, "result": result}).Debug("cache lookup")
	}
}

func (c *Cache) logFailure(key, op string, err error) {
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"key": key, "op": op}).WithError(err).Warn("cache operation failed")
	}
}
