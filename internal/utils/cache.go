package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Sentinel comparison
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil // Caching disabled
	}
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// CacheVersion returns the current generation of a cache namespace. Keys built
// with it go stale as soon as BumpCacheVersion is called, so range-keyed
// entries never need to be enumerated for invalidation.
func CacheVersion(ctx context.Context, rdb *redis.Client, namespace string) (string, error) {
	if rdb == nil {
		return "0", nil
	}
	v, err := rdb.Get(ctx, namespace+":version").Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil // Never bumped
	} else if err != nil {
		return "", err
	}
	return v, nil
}

// BumpCacheVersion invalidates every key built from the previous version
func BumpCacheVersion(ctx context.Context, rdb *redis.Client, namespace string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Incr(ctx, namespace+":version").Err()
}

// VersionedKey joins namespace, version and key parts
func VersionedKey(namespace, version string, parts ...string) string {
	key := namespace + ":v" + version
	for _, p := range parts {
		key += ":" + p
	}
	return key
}
