package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const runLockKey = "crawler:run_lock"

// RunLockRepoImpl provides a concrete implementation for the
// RunLockRepository interface using a Redis SETNX key with expiry.
type RunLockRepoImpl struct {
	client *redis.Client
}

// NewRunLockRepo creates a new instance of RunLockRepoImpl.
func NewRunLockRepo(client *redis.Client) *RunLockRepoImpl {
	return &RunLockRepoImpl{client: client}
}

// Acquire takes the run lock with the given TTL. SETNX is atomic, so of two
// concurrent triggers exactly one gets true. The TTL bounds how long a
// crashed run can keep the lock.
func (r *RunLockRepoImpl) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, runLockKey, "1", ttl).Result()
}

// Release drops the run lock.
func (r *RunLockRepoImpl) Release(ctx context.Context) error {
	return r.client.Del(ctx, runLockKey).Err()
}
