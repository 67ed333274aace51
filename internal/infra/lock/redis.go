// Package lock provides leases that keep a batch job from running on two replicas at once.
//
// A lease only reduces duplicate work. The jobs stay correct without it because every
// status change is a compare-and-set inside a serializable transaction.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Unlock releases a lease
type Unlock func(ctx context.Context) error

// RedisClient subset of *redis.Client used by the locker
type RedisClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker SET NX PX lease with a token-checked release
type RedisLocker struct {
	client RedisClient
	prefix string
}

// NewRedisLocker creates a locker; keys are stored as prefix + key
func NewRedisLocker(client RedisClient, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix}
}

// TryLock takes the lease for ttl or returns ErrNotAcquired
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (Unlock, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: SETNX %s: %v", ErrBackend, fullKey, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err(); err != nil {
			return fmt.Errorf("%w: release %s: %v", ErrBackend, fullKey, err)
		}
		return nil
	}, nil
}
