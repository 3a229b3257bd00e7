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
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestCacheRoundTrip(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	var out map[string]int
	found, err := GetCache(ctx, rdb, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, "k", map[string]int{"a": 1}, time.Minute))
	found, err = GetCache(ctx, rdb, "k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, out["a"])

	mr.FastForward(2 * time.Minute)
	found, err = GetCache(ctx, rdb, "k", &out)
	require.NoError(t, err)
	assert.False(t, found, "entry must expire")
}

func TestDeleteCachePrefix(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(AdminUsersPrefix+"page=1:size=20", "x"))
	require.NoError(t, mr.Set(AdminUsersPrefix+"page=2:size=20", "x"))
	require.NoError(t, mr.Set(UserHistoryPrefix+"7", "x"))

	require.NoError(t, DeleteCachePrefix(ctx, rdb, AdminUsersPrefix))
	assert.False(t, mr.Exists(AdminUsersPrefix+"page=1:size=20"))
	assert.False(t, mr.Exists(AdminUsersPrefix+"page=2:size=20"))
	assert.True(t, mr.Exists(UserHistoryPrefix+"7"))

	require.NoError(t, DeleteCachePrefix(ctx, rdb, "nothing:"))
	require.NoError(t, DeleteCache(ctx, rdb, UserHistoryPrefix+"7"))
	assert.False(t, mr.Exists(UserHistoryPrefix+"7"))
}
