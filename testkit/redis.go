package testkit

import (
	"net"
	"time"

	"github.com/bronystylecrazy/skyline/caching/rd"
	redis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	redisImage          = "redis:7-alpine"
	redisPort           = "6379/tcp"
	redisStartupTimeout = 90 * time.Second
)

type RedisOptions struct {
	Image          string
	Password       string
	StartupTimeout time.Duration
}

func (o RedisOptions) withDefaults() RedisOptions {
	if o.Image == "" {
		o.Image = redisImage
	}
	if o.StartupTimeout <= 0 {
		o.StartupTimeout = redisStartupTimeout
	}
	return o
}

type Redis struct {
	Host     string
	Port     string
	Password string
}

func (r Redis) Addr() string {
	return net.JoinHostPort(r.Host, r.Port)
}

// Config returns client settings that point at the container.
func (r Redis) Config() rd.Config {
	return rd.Config{Addr: r.Addr(), Password: r.Password}
}

// StartRedis runs a disposable Redis server for the duration of the test.
func (s *Suite) StartRedis(opts RedisOptions) Redis {
	s.t.Helper()
	opts = opts.withDefaults()

	req := testcontainers.ContainerRequest{
		Image:        opts.Image,
		ExposedPorts: []string{redisPort},
		WaitingFor:   wait.ForListeningPort(redisPort).WithStartupTimeout(opts.StartupTimeout),
	}
	if opts.Password != "" {
		req.Cmd = []string{"redis-server", "--appendonly", "no", "--requirepass", opts.Password}
	}

	host, port := s.hostPort(s.start(req), redisPort)
	return Redis{Host: host, Port: port, Password: opts.Password}
}

// RedisClient starts Redis and returns a connected client closed on cleanup.
func (s *Suite) RedisClient(opts RedisOptions) *redis.Client {
	s.t.Helper()
	client, err := rd.NewClient(s.StartRedis(opts).Config())
	if err != nil {
		s.t.Fatalf("redis client: %v", err)
	}
	s.t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(s.ctx).Err(); err != nil {
		s.t.Fatalf("redis ping: %v", err)
	}
	return client
}
