package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)

	type payload struct {
		Page  int   `json:"page"`
		Items []int `json:"items"`
	}
	found, err := GetCache(ctx, rdb, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, "k", payload{Page: 2, Items: []int{1, 2}}, time.Minute))

	var got payload
	found, err = GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Page: 2, Items: []int{1, 2}}, got)
}

func TestCacheExpires(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)

	require.NoError(t, SetCache(ctx, rdb, "k", 1, time.Second))
	mr.FastForward(2 * time.Second)

	var v int
	found, err := GetCache(ctx, rdb, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheVersionBump(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)

	v0, err := CacheVersion(ctx, rdb, "reservations")
	require.NoError(t, err)
	assert.Equal(t, "0", v0)

	require.NoError(t, BumpCacheVersion(ctx, rdb, "reservations"))
	v1, err := CacheVersion(ctx, rdb, "reservations")
	require.NoError(t, err)
	assert.Equal(t, "1", v1)

	assert.NotEqual(t,
		VersionedKey("reservations", v0, "page=1"),
		VersionedKey("reservations", v1, "page=1"))
	assert.Equal(t, "reservations:v1:a:b", VersionedKey("reservations", v1, "a", "b"))
}

func TestCacheNilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	var v int
	found, err := GetCache(ctx, nil, "k", &v)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetCache(ctx, nil, "k", 1, time.Second))
	assert.NoError(t, BumpCacheVersion(ctx, nil, "ns"))
	v0, err := CacheVersion(ctx, nil, "ns")
	assert.NoError(t, err)
	assert.Equal(t, "0", v0)
}
