package rd

import (
	"context"
	"fmt"
	"sync"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	inMemoryRedisMu     sync.Mutex
	inMemoryRedisServer *miniredis.Miniredis
)

func NewClient(cfg Config) (*redis.Client, error) {
	options := cfg.Options()
	if cfg.InMemory {
		addr, err := ensureInMemoryRedisAddr()
		if err != nil {
			return nil, fmt.Errorf("rd: start in-memory redis: %w", err)
		}
		options.Addr = addr
	}

	return redis.NewClient(options), nil
}

func ensureInMemoryRedisAddr() (string, error) {
	inMemoryRedisMu.Lock()
	defer inMemoryRedisMu.Unlock()

	if inMemoryRedisServer != nil {
		return inMemoryRedisServer.Addr(), nil
	}

	server, err := miniredis.Run()
	if err != nil {
		return "", err
	}

	inMemoryRedisServer = server
	return inMemoryRedisServer.Addr(), nil
}

// Logger adapts go-redis internal diagnostics onto zap.
type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger.Named("redis")}
}

func (l *Logger) Printf(_ context.Context, format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}
