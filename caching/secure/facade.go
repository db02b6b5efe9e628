// Package secure is the sanctioned entry point for caching data that varies
// per user. Callers never build user-scoped keys themselves.
package secure

import (
	"context"

	"github.com/bronystylecrazy/skyline/caching/cache"
)

type Facade struct {
	cache *cache.Cache
}

func New(c *cache.Cache) *Facade {
	return &Facade{cache: c}
}

func (f *Facade) Cache() *cache.Cache {
	return f.cache
}

// CachePublic caches data that is identical for every user.
func CachePublic[T any](ctx context.Context, f *Facade, key string, compute func(context.Context) (T, error), opts ...cache.Option) cache.Result[T] {
	return cache.WithCache(ctx, f.cache, key, compute, opts...)
}

// CacheForUser caches data owned by userID. The user scope is applied after
// opts, so no caller option can redirect the entry to another user.
func CacheForUser[T any](ctx context.Context, f *Facade, userID string, key string, compute func(context.Context) (T, error), opts ...cache.Option) cache.Result[T] {
	scoped := make([]cache.Option, 0, len(opts)+1)
	scoped = append(scoped, opts...)
	scoped = append(scoped, cache.ForUser(userID))
	return cache.WithCache(ctx, f.cache, key, compute, scoped...)
}
