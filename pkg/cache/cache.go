// Package cache provides caching for parsed POM descriptors.
//
// Two backends are available: FileCache for local CLI usage and
// RedisCache for shared environments. Keys are derived from a POM
// file's path, modification time, and size (see Keyer), so entries
// invalidate themselves when the underlying file changes.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the default time-to-live for cached descriptors.
const DefaultTTL = 24 * time.Hour

// Cache is the interface for descriptor caching backends.
type Cache interface {
	// Get retrieves a value. Returns (data, true, nil) on a hit and
	// (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
