package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(10)

	c.Set(ctx, "k1", []byte("v1"), time.Minute)
	got, ok := c.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestLocalCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(10)

	c.Set(ctx, "k1", []byte("v1"), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
	assert.Zero(t, c.Len(), "expired entry is removed on read")
}

func TestLocalCacheOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(10)

	c.Set(ctx, "k1", []byte("old"), time.Minute)
	c.Set(ctx, "k1", []byte("new"), time.Minute)

	got, _ := c.Get(ctx, "k1")
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 1, c.Len())
}

func TestLocalCacheLRUEviction(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(3)

	for i := 0; i < 3; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Minute)
	}

	// Touch k0 so k1 becomes the eviction candidate
	_, ok := c.Get(ctx, "k0")
	require.True(t, ok)

	c.Set(ctx, "k3", []byte("v"), time.Minute)

	_, ok = c.Get(ctx, "k1")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.Get(ctx, "k0")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "k3")
	assert.True(t, ok)
	assert.Equal(t, 3, c.Len())
}

func TestLocalCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(10)

	c.Set(ctx, "k1", []byte("v1"), time.Minute)
	c.Delete(ctx, "k1")

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "enrich:extract:https://example.com/r", ExtractKey("https://example.com/r"))
	assert.Equal(t, "enrich:classify:rec-1", ClassifyKey("rec-1"))
}
