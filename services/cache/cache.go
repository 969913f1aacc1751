package cachesvc

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
)

const (
	EngineRedis  = "redis"
	EngineMemory = "memory"
)

// Cache is a closable core.Cache.
type Cache interface {
	core.Cache
	io.Closer
}

// New returns the conf.Cache.Engine cache.
func New(ctx context.Context, conf *core.Config) (Cache, error) {
	switch conf.Cache.Engine {
	case EngineRedis:
		client, err := NewRedisClient(ctx, conf)
		if err != nil {
			return nil, err
		}
		return NewRedisCache(client), nil
	case EngineMemory:
		return NewMemoryCache(), nil
	default:
		return nil, errors.Errorf("unsupported cache engine %q", conf.Cache.Engine)
	}
}
