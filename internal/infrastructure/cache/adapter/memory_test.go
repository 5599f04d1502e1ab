package adapter

import (
	"context"
	"testing"
	"time"

	"go-convo/internal/infrastructure/cache/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryCache(t *testing.T) *MemoryCache {
	t.Helper()
	c, err := NewMemoryCache()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(t)

	require.NoError(t, c.Set(ctx, "k", "v", 50*time.Millisecond))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	assert.Eventually(t, func() bool {
		_, err := c.Get(ctx, "k")
		return err == port.ErrMiss
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryCacheDel(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(t)
	require.NoError(t, c.Set(ctx, "a", "1", 0))
	n, err := c.Del(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = c.Get(ctx, "a")
	assert.ErrorIs(t, err, port.ErrMiss)
}
