// Package cache provides a key-value cache abstraction and a read-through
// wrapper for slow, deterministic computations.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache defines the operations required from a cache backend.
// Expiry is enforced by the backend itself, not by callers.
type Cache interface {
	// Get returns the value stored under key.
	// Returns ErrCacheMiss if the key is absent or expired; any other
	// error indicates a backend failure.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given time-to-live.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
