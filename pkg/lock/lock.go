package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout is returned when the lock could not be obtained before acquireTimeout.
var ErrLockTimeout = errors.New("timeout acquiring lock")

// Locker serialises a critical section across service instances.
type Locker interface {
	Acquire(ctx context.Context) (string, error)
	Release(ctx context.Context, lockID string) error
}

// DistributedLock implements a global exclusive lock backed by Redis.
type DistributedLock struct {
	client         redis.Cmdable
	lockKey        string
	lockTTL        time.Duration
	acquireTimeout time.Duration
}

// New creates a DistributedLock.
//   - key: the Redis key used for the lock (e.g. "itam:notification_run")
//   - ttl: how long the lock is held before auto-expiry (prevents deadlock)
//   - acquireTimeout: max time to wait when trying to acquire the lock
func New(client redis.Cmdable, key string, ttl, acquireTimeout time.Duration) *DistributedLock {
	return &DistributedLock{
		client:         client,
		lockKey:        key,
		lockTTL:        ttl,
		acquireTimeout: acquireTimeout,
	}
}

// Acquire attempts to obtain the lock, blocking with exponential backoff
// until success or timeout. Returns a unique lockID used for Release.
func (l *DistributedLock) Acquire(ctx context.Context) (string, error) {
	lockID := uuid.New().String()
	deadline := time.Now().Add(l.acquireTimeout)
	backoff := 50 * time.Millisecond

	for {
		ok, err := l.client.SetNX(ctx, l.lockKey, lockID, l.lockTTL).Result()
		if err != nil {
			return "", fmt.Errorf("redis setnx: %w", err)
		}
		if ok {
			return lockID, nil
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w %q after %s", ErrLockTimeout, l.lockKey, l.acquireTimeout)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > 500*time.Millisecond {
			backoff = 500 * time.Millisecond
		}
	}
}

// releaseScript deletes the key only while it still holds our lockID.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`)

// Release releases the lock only if it is still owned by the given lockID.
func (l *DistributedLock) Release(ctx context.Context, lockID string) error {
	_, err := releaseScript.Run(ctx, l.client, []string{l.lockKey}, lockID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// With runs fn while holding l. A nil Locker runs fn directly, which is the
// single-instance mode used when Redis is disabled.
func With(ctx context.Context, l Locker, fn func(ctx context.Context) error) error {
	if l == nil {
		return fn(ctx)
	}
	lockID, err := l.Acquire(ctx)
	if err != nil {
		return err
	}
	// release must survive a cancelled request context
	defer func() { _ = l.Release(context.WithoutCancel(ctx), lockID) }()
	return fn(ctx)
}
