package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/avatarctic/finance-tracker/internal/core/ports"
)

// Pinger is satisfied by the database pool and the cache store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// pingChecker reports a dependency healthy when its probe returns nil.
type pingChecker struct {
	name  string
	probe func(ctx context.Context) error
}

func (p pingChecker) Name() string                    { return p.name }
func (p pingChecker) Check(ctx context.Context) error { return p.probe(ctx) }

func NewDBHealthChecker(db Pinger) ports.HealthChecker {
	return pingChecker{name: "database", probe: db.Ping}
}

func NewRedisHealthChecker(client redis.Cmdable) ports.HealthChecker {
	return pingChecker{name: "redis", probe: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

// NewCacheHealthChecker probes the result cache store, which holds its own connection.
func NewCacheHealthChecker(store Pinger) ports.HealthChecker {
	return pingChecker{name: "cache", probe: store.Ping}
}
