package session

import "time"

const (
	DefaultCookieName = "auth_token"
	DefaultTTL        = 24 * time.Hour
)

type Config struct {
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	// Production turns on the Secure cookie attribute.
	Production bool   `mapstructure:"production"`
	Domain     string `mapstructure:"domain"`
}

func (c Config) withDefaults() Config {
	if c.CookieName == "" {
		c.CookieName = DefaultCookieName
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	return c
}
