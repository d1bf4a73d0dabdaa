// Package cache provides the windowed counters behind request rate limiting.
package cache

import (
	"context"
	"time"
)

// Store counts hits per key inside a fixed window.
type Store interface {
	// IncrementWithTTL bumps the counter for key, starting a new window of the
	// given length when none is open, and reports the count and time left.
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}
