package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageCacheIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDRESS not set, skipping redis integration test")
	}
	InitRedis(addr, "", "")
	ctx := context.Background()
	require.NoError(t, Ping(ctx))

	cache := NewImageCache(Rdb)
	key := "venues:image:test"
	defer Rdb.Del(ctx, key)

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, key, []byte{0xff, 0xd8, 0xff}, time.Minute))

	data, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
}
