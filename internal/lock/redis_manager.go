package lock

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// tokenSequenceKey backs the fencing-token counter shared by all replicas.
	tokenSequenceKey = "lock:token:seq"

	// acquirePollInterval is how often a blocked claimant re-attempts SETNX.
	acquirePollInterval = 50 * time.Millisecond
)

// releaseScript deletes the lock only while we still own it, so a release
// arriving after lease expiry cannot remove a successor's lock.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// RedisManager implements Manager on a shared Redis instance, giving
// mutual exclusion across all application replicas.
type RedisManager struct {
	client *redis.Client
}

// NewRedisManager creates a Redis-backed lock manager
func NewRedisManager(client *redis.Client) *RedisManager {
	return &RedisManager{client: client}
}

// Acquire claims the key with SET NX and the lease as TTL, polling until
// the wait budget is spent. The stored value is a monotonic token drawn
// from a shared Redis counter.
func (m *RedisManager) Acquire(ctx context.Context, key string, waitBudget, leaseBudget time.Duration) (string, error) {
	seq, err := m.client.Incr(ctx, tokenSequenceKey).Result()
	if err != nil {
		return "", fmt.Errorf("failed to draw lock token: %w", err)
	}
	token := strconv.FormatInt(seq, 10)

	deadline := time.Now().Add(waitBudget)
	for {
		ok, err := m.client.SetNX(ctx, key, token, leaseBudget).Result()
		if err != nil {
			return "", fmt.Errorf("failed to acquire lock: %w", err)
		}
		if ok {
			return token, nil
		}

		if time.Now().After(deadline) {
			return "", ErrLockUnavailable
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(acquirePollInterval):
		}
	}
}

// Release frees the key if the token still owns it
func (m *RedisManager) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, m.client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
