package ports

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store shared by the directory read-through
// caches and the redis content backend. Errors are returned, never swallowed;
// read-through callers treat them as a miss.
type Cache interface {
	// Get reports ok=false for an absent key.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set with ttl <= 0 keeps the value until it is overwritten.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
