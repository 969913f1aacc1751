package cachesvc

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/trezcool/studyplanner/core"
)

// MemoryCache is an in-process core.Cache, for local development & tests.
type MemoryCache struct {
	c *gocache.Cache
}

var _ core.Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{c: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := m.c.Get(key)
	if !ok {
		return nil, core.ErrCacheMiss
	}
	data := val.([]byte)
	return append([]byte(nil), data...), nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.c.Delete(key)
	}
	return nil
}

func (m *MemoryCache) Close() error {
	m.c.Flush()
	return nil
}
