package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/bronystylecrazy/skyline/caching/rd"
	"github.com/bronystylecrazy/skyline/log"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrStoreNotConfigured = errors.New("cache: store not configured")
	ErrMissingUserID      = errors.New("cache: user-specific entry without user id")
	// ErrInvalidUserID rejects ids containing the key separator, which would
	// let one user's invalidation pattern reach another user's entries.
	ErrInvalidUserID = errors.New("cache: user id contains ':'")
	ErrTypeMismatch  = errors.New("cache: shared computation produced a different type")
)

// Cache is a JSON read-through cache over a key-value store. Store failures
// never surface as errors: reads degrade to misses and writes are skipped.
type Cache struct {
	client rd.KeyValueStore
	config Config
	sink   *log.Sink
	sf     singleflight.Group
}

// New accepts a nil client; the cache then always computes.
func New(client rd.KeyValueStore, config Config, sink *log.Sink) *Cache {
	return &Cache{
		client: client,
		config: config.withDefaults(),
		sink:   sink,
	}
}

func (c *Cache) options(opts []Option) (Options, error) {
	o := Options{Prefix: c.config.Prefix, TTL: c.config.TTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.TTL <= 0 {
		o.TTL = c.config.TTL
	}
	if o.UserSpecific && o.UserID == "" {
		return o, ErrMissingUserID
	}
	if o.UserSpecific && strings.Contains(o.UserID, ":") {
		return o, ErrInvalidUserID
	}
	return o, nil
}

func Get[T any](ctx context.Context, c *Cache, key string, opts ...Option) Result[T] {
	o, err := c.options(opts)
	if err != nil {
		return Result[T]{Kind: KindFailed, Err: err}
	}
	return get[T](ctx, c, Key(key, o))
}

func get[T any](ctx context.Context, c *Cache, fullKey string) Result[T] {
	if c.client == nil {
		c.sink.Warn("cache read skipped", ErrStoreNotConfigured, zap.String("key", fullKey))
		return Result[T]{Kind: KindUnavailable, Err: ErrStoreNotConfigured}
	}

	raw, err := c.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result[T]{Kind: KindMiss}
	}
	if err != nil {
		c.sink.Warn("cache read failed", err, zap.String("key", fullKey))
		return Result[T]{Kind: KindUnavailable, Err: err}
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		c.sink.Warn("cache entry undecodable, dropping", err, zap.String("key", fullKey))
		_ = c.client.Del(ctx, fullKey).Err()
		return Result[T]{Kind: KindMiss}
	}
	return Result[T]{Data: data, FromCache: true, Kind: KindHit}
}

// Set stores value as JSON and reports whether the write happened.
func (c *Cache) Set(ctx context.Context, key string, value any, opts ...Option) bool {
	o, err := c.options(opts)
	if err != nil {
		c.sink.Error("cache write rejected", err, zap.String("key", key))
		return false
	}
	return c.set(ctx, Key(key, o), value, o)
}

func (c *Cache) set(ctx context.Context, fullKey string, value any, o Options) bool {
	if c.client == nil {
		c.sink.Warn("cache write skipped", ErrStoreNotConfigured, zap.String("key", fullKey))
		return false
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.sink.Error("cache value not encodable", err, zap.String("key", fullKey))
		return false
	}
	if err := c.client.Set(ctx, fullKey, raw, o.TTL).Err(); err != nil {
		c.sink.Warn("cache write failed", err, zap.String("key", fullKey))
		return false
	}
	return true
}

// WithCache returns the cached value for key or, on a miss or an unreachable
// store, the result of compute. A computed value is written back best-effort.
// Concurrent misses on one key share a single compute call.
func WithCache[T any](ctx context.Context, c *Cache, key string, compute func(context.Context) (T, error), opts ...Option) Result[T] {
	o, err := c.options(opts)
	if err != nil {
		return Result[T]{Kind: KindFailed, Err: err}
	}
	fullKey := Key(key, o)

	if hit := get[T](ctx, c, fullKey); hit.Kind == KindHit {
		return hit
	}

	v, err, _ := c.sf.Do(fullKey, func() (any, error) {
		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.set(ctx, fullKey, data, o)
		return data, nil
	})
	if err != nil {
		c.sink.Error("cache compute failed", err, zap.String("key", fullKey))
		return Result[T]{Kind: KindFailed, Err: err}
	}
	// A nil interface result is the zero value of an interface T.
	data, ok := v.(T)
	if !ok && v != nil {
		c.sink.Error("cache compute shared across types", ErrTypeMismatch, zap.String("key", fullKey))
		return Result[T]{Kind: KindFailed, Err: ErrTypeMismatch}
	}
	return Result[T]{Data: data, Kind: KindComputed}
}
