package rd

import (
	"time"

	redis "github.com/redis/go-redis/v9"
)

type Config struct {
	// InMemory starts a process-local miniredis instead of dialing Addr.
	InMemory     bool          `mapstructure:"in_memory"`
	Network      string        `mapstructure:"network"`
	Addr         string        `mapstructure:"addr"`
	Protocol     int           `mapstructure:"protocol"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

func DefaultConfig() Config {
	return Config{
		Network:      "tcp",
		Addr:         "127.0.0.1:6379",
		Protocol:     3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Network == "" {
		c.Network = d.Network
	}
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.Protocol == 0 {
		c.Protocol = d.Protocol
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = d.DialTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PoolSize <= 0 {
		c.PoolSize = d.PoolSize
	}
	return c
}

func (c Config) Options() *redis.Options {
	c = c.withDefaults()
	return &redis.Options{
		Network:      c.Network,
		Addr:         c.Addr,
		Protocol:     c.Protocol,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		PoolSize:     c.PoolSize,
		MaxRetries:   c.MaxRetries,
	}
}
