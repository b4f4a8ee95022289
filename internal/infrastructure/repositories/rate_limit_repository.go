package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimitRedisRepository keeps fixed-window request counters in Redis,
// one key per subject and window: <prefix>:<subject>:<windowStartUnix>.
type RateLimitRedisRepository struct {
	r   redis.Cmdable
	now func() time.Time
}

func NewRateLimitRedisRepository(r redis.Cmdable) *RateLimitRedisRepository {
	return &RateLimitRedisRepository{r: r, now: time.Now}
}

// WithClock replaces the clock used to pick the current window.
func (repo *RateLimitRedisRepository) WithClock(now func() time.Time) *RateLimitRedisRepository {
	repo.now = now
	return repo
}

func windowKey(prefix, subject string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", prefix, subject, windowStart.Unix())
}

// IncrementWindow counts one request for subject. The counter expires ttl
// after its window opened, so every request in a window agrees on the deadline.
func (repo *RateLimitRedisRepository) IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	windowStart := repo.now().Truncate(window)
	key := windowKey(keyPrefix, subject, windowStart)

	var incr *redis.IntCmd
	_, err := repo.r.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, windowStart.Add(ttl))
		return nil
	})
	if err != nil {
		return 0, windowStart, fmt.Errorf("rate limit counter %s: %w", key, err)
	}
	return int(incr.Val()), windowStart, nil
}
