package cache

import (
	"strings"
	"time"
)

const (
	DefaultPrefix = "db"
	DefaultTTL    = 300 * time.Second
)

type Config struct {
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

func (c Config) withDefaults() Config {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	return c
}

// Options controls how one call names and stores its entry.
type Options struct {
	Prefix       string
	TTL          time.Duration
	UserSpecific bool
	UserID       string
}

type Option func(*Options)

func WithTTL(ttl time.Duration) Option {
	return func(o *Options) { o.TTL = ttl }
}

func WithPrefix(prefix string) Option {
	return func(o *Options) { o.Prefix = prefix }
}

// ForUser scopes the entry to userID.
func ForUser(userID string) Option {
	return func(o *Options) {
		o.UserSpecific = true
		o.UserID = userID
	}
}

// Key builds the store key for base:
//
//	<prefix>:<base>
//	<prefix>:user:<userId>:<base>
func Key(base string, opts Options) string {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if opts.UserSpecific {
		return prefix + ":user:" + opts.UserID + ":" + base
	}
	return prefix + ":" + base
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
