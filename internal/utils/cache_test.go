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

type cachedRow struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCache(rdb, time.Minute), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	var rows []cachedRow
	found, err := cache.Get(ctx, CacheKeyMenus, &rows)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, CacheKeyMenus, []cachedRow{{ID: 1, Name: "Tools"}}))
	assert.Equal(t, time.Minute, mr.TTL(CacheKeyMenus))

	found, err = cache.Get(ctx, CacheKeyMenus, &rows)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []cachedRow{{ID: 1, Name: "Tools"}}, rows)
}

func TestCacheInvalidateNestedKeys(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, CacheKeyCards+":menu=all", []cachedRow{}))
	require.NoError(t, cache.Set(ctx, CacheKeyCards+":menu=3", []cachedRow{}))
	require.NoError(t, cache.Set(ctx, CacheKeyAds, []cachedRow{}))

	require.NoError(t, cache.Invalidate(ctx, CacheKeyCards))

	assert.False(t, mr.Exists(CacheKeyCards+":menu=all"))
	assert.False(t, mr.Exists(CacheKeyCards+":menu=3"))
	assert.True(t, mr.Exists(CacheKeyAds))
}

func TestNilCacheIsInert(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	assert.Nil(t, NewCache(nil, time.Minute))
	found, err := cache.Get(ctx, CacheKeyAds, &[]cachedRow{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Set(ctx, CacheKeyAds, 1))
	assert.NoError(t, cache.Invalidate(ctx, CacheKeyAds))
}

func TestListKeyFollowsGeneration(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	key, err := cache.ListKey(ctx, CacheKeyCards, ":menu=all")
	require.NoError(t, err)
	assert.Equal(t, CacheKeyCards+":g0:menu=all", key)
	require.NoError(t, cache.Set(ctx, key, []cachedRow{{ID: 1}}))

	require.NoError(t, cache.Invalidate(ctx, CacheKeyCards))
	next, err := cache.ListKey(ctx, CacheKeyCards, ":menu=all")
	require.NoError(t, err)
	assert.Equal(t, CacheKeyCards+":g1:menu=all", next)
	assert.True(t, mr.Exists(CacheKeyCards+":gen"), "generation must survive invalidation")

	// A result computed before the invalidation lands under the old key
	require.NoError(t, cache.Set(ctx, key, []cachedRow{{ID: 1}}))
	var rows []cachedRow
	found, err := cache.Get(ctx, next, &rows)
	require.NoError(t, err)
	assert.False(t, found)

	var nilCache *Cache
	key, err = nilCache.ListKey(ctx, CacheKeyAds, "")
	assert.NoError(t, err)
	assert.Empty(t, key)
}
