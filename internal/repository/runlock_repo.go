package repository

import (
	"context"
	"time"
)

// RunLockRepository defines the interface for the lock that keeps
// deliberately triggered harvest runs from overlapping.
type RunLockRepository interface {
	// Acquire takes the lock with the given TTL. Returns false if another
	// run currently holds it.
	Acquire(ctx context.Context, ttl time.Duration) (bool, error)
	// Release drops the lock. Safe to call when the lock has expired.
	Release(ctx context.Context) error
}
