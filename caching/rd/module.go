package rd

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ModuleName = "skyline/caching/redis"

// Module provides the shared *redis.Client and its narrow views.
// It expects a Config in the graph.
func Module() fx.Option {
	return fx.Module(
		ModuleName,
		fx.Provide(
			NewClient,
			func(c *redis.Client) KeyValueStore { return c },
			func(c *redis.Client) Pinger { return c },
		),
		fx.Invoke(registerClient),
	)
}

func registerClient(lc fx.Lifecycle, client *redis.Client, logger *zap.Logger) {
	redis.SetLogger(NewLogger(logger))
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				// Revocation and caching degrade instead of failing startup.
				logger.Warn("redis unreachable at startup", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
