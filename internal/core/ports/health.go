package ports

import "context"

// HealthChecker probes one dependency for GET /health.
// Check returns nil when the dependency is usable.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
