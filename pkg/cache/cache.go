// Package cache stores fetched report bodies. Reports never change once the
// backend has produced them, so cached entries only expire by TTL or explicit
// deletion.
package cache

import (
	"context"
	"time"
)

// Repository defines the caching operations used by the report service.
type Repository interface {
	// Set stores a value with the given TTL. A zero TTL never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns nil, nil when the key is missing or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)

	Exists(ctx context.Context, key string) (bool, error)

	Health(ctx context.Context) error
}

// ReportKey is the cache key for a report body.
func ReportKey(name string) string {
	return "webslayer:report:" + name
}
