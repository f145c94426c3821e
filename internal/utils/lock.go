package utils

import (
	"context" // Context for Redis operations
	"errors"  // Sentinel errors
	"time"    // Durations

	"github.com/google/uuid"       // Lock ownership tokens
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging release failures
)

// ErrLockTimeout is returned when a lock could not be taken before the deadline
var ErrLockTimeout = errors.New("timed out waiting for lock")

// releaseScript deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a slot lock shared by every instance talking to the same Redis
type RedisLocker struct {
	rdb   *redis.Client
	ttl   time.Duration // Lock expiry, guards against crashed holders
	retry time.Duration // Delay between acquisition attempts
}

// NewRedisLocker creates a locker whose locks expire after ttl
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: ttl, retry: 25 * time.Millisecond}
}

// Lock takes key with SET NX PX, polling until ctx is done
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString() // Identifies this holder
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrLockTimeout
			}
			return nil, err // Redis unavailable
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(l.retry):
		}
	}
	return func() {
		// Release on a fresh context, the request context may already be done
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
			logrus.WithFields(logrus.Fields{
				"key":   key,
				"error": err.Error(),
			}).Warn("Failed to release slot lock")
		}
	}, nil
}
