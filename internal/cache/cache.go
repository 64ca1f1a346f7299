// Package cache provides the expiring key-value stores used to avoid re-fetching
// the same job posting within a short window.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long fetched page text stays fresh.
const DefaultTTL = 5 * time.Minute

// Store is an expiring string cache safe for concurrent use.
type Store interface {
	// Get returns the value for key and whether it was present and fresh.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
