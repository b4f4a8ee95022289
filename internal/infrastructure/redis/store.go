package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	config "github.com/avatarctic/finance-tracker/configs"
	"github.com/avatarctic/finance-tracker/internal/core/domain/cache"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Store implements ports.CacheStore with GET / SETEX on a Redis client it owns.
//
// A Store must be opened before use. Calls made before Open succeeds, or
// after Close, fail with cache.ErrStoreUnavailable.
type Store struct {
	client redis.UniversalClient
	// optional key prefix to namespace entries
	prefix string
	open   atomic.Bool
	closed atomic.Bool
}

// NewStore wraps client. The Store takes ownership and closes it on Close.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// OpenStore builds a dedicated client from cfg and opens it. The client is
// released if the connection cannot be established.
func OpenStore(ctx context.Context, cfg *config.RedisConfig, prefix string, logger *logrus.Logger) (*Store, error) {
	s := NewStore(newClient(cfg, logger), prefix)
	if err := s.Open(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Open verifies the connection and marks the store ready.
func (s *Store) Open(ctx context.Context) error {
	if s.closed.Load() {
		return fmt.Errorf("%w: store is closed", cache.ErrStoreUnavailable)
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", cache.ErrStoreUnavailable, err)
	}
	s.open.Store(true)
	return nil
}

// Close releases the client. It is safe to call more than once.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.open.Store(false)
	return s.client.Close()
}

func (s *Store) namespaced(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *Store) ready() error {
	if !s.open.Load() {
		return fmt.Errorf("%w: store is not open", cache.ErrStoreUnavailable)
	}
	return nil
}

// Get implements CacheStore.Get.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.ready(); err != nil {
		return nil, false, err
	}
	val, err := s.client.Get(ctx, s.namespaced(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify(err, cache.ErrStoreRead)
	}
	return val, true, nil
}

// SetEX implements CacheStore.SetEX.
func (s *Store) SetEX(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.client.SetEX(ctx, s.namespaced(key), value, ttl).Err(); err != nil {
		return classify(err, cache.ErrStoreWrite)
	}
	return nil
}

func classify(err, opErr error) error {
	if isConnError(err) {
		return fmt.Errorf("%w: %w", cache.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%w: %w", opErr, err)
}

// isConnError reports failures of the connection itself rather than of a command.
func isConnError(err error) bool {
	if errors.Is(err, redis.ErrClosed) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Ping reports whether the store is open and the server answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return classify(err, cache.ErrStoreRead)
	}
	return nil
}
