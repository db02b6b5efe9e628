package rd

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// KeyValueStore is the command surface used by revocation and caching.
// *redis.Client, *redis.ClusterClient and *redis.Ring satisfy it.
type KeyValueStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

type Closer interface {
	Close() error
}

type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

var (
	_ KeyValueStore = (*redis.Client)(nil)
	_ Closer        = (*redis.Client)(nil)
	_ Pinger        = (*redis.Client)(nil)
)
