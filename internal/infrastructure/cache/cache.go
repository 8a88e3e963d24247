// Package cache provides caching for remote assets fetched during
// rendering, primarily business logos referenced by URL.
package cache

import (
	"context"
	"time"
)

// AssetCache stores fetched asset bytes keyed by their source URL
type AssetCache interface {
	// Get returns the cached bytes for a URL, or (nil, false) on a miss
	Get(ctx context.Context, url string) ([]byte, bool, error)
	// Set stores the bytes for a URL with a TTL
	Set(ctx context.Context, url string, data []byte, ttl time.Duration) error
	// Close releases cache resources
	Close() error
}
