// Package cache provides response caching for the image-generation client.
//
// Generated artifacts are expensive to produce, so responses are cached
// keyed by a content hash of the full request (source artifact plus the
// structured placement description). Three backends are provided:
//
//   - file: directory-based cache for CLI usage (the default)
//   - redis: shared cache when several machines point at the same service
//   - null: caching disabled (--no-cache, tests)
//
// Cached entries carry a TTL; an entry past its TTL reads as a miss. The
// cache stores opaque bytes - callers decide the encoding.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
