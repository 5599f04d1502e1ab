package adapter

import (
	"context"
	"fmt"
	"time"

	"go-convo/internal/infrastructure/cache/port"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	memoryCacheCounters = 1e5
	memoryCacheMaxCost  = 1 << 14 // entries, each Set costs 1
)

// MemoryCache is a process-local port.Cache used when no Redis is configured.
// Writes are applied before Set returns.
type MemoryCache struct {
	c *ristretto.Cache[string, string]
}

func NewMemoryCache() (*MemoryCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: memoryCacheCounters,
		MaxCost:     memoryCacheMaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: create memory cache: %w", err)
	}
	return &MemoryCache{c: c}, nil
}

var _ port.Cache = (*MemoryCache)(nil)

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", port.ErrMiss
	}
	return v, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	m.c.SetWithTTL(key, value, 1, ttl)
	m.c.Wait()
	return nil
}

func (m *MemoryCache) Del(_ context.Context, keys ...string) (int64, error) {
	var n int64
	for _, k := range keys {
		if _, ok := m.c.Get(k); ok {
			n++
		}
		m.c.Del(k)
	}
	m.c.Wait()
	return n, nil
}

func (m *MemoryCache) Ping(context.Context) error { return nil }

func (m *MemoryCache) Close() error {
	m.c.Close()
	return nil
}
