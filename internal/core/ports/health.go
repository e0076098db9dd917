package ports

import "context"

// HealthChecker probes one backing service for GET /health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
