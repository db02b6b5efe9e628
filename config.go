package skyline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bronystylecrazy/skyline/build"
	"github.com/bronystylecrazy/skyline/caching/cache"
	"github.com/bronystylecrazy/skyline/caching/rd"
	"github.com/bronystylecrazy/skyline/cfg"
	"github.com/bronystylecrazy/skyline/database"
	"github.com/bronystylecrazy/skyline/log"
	"github.com/bronystylecrazy/skyline/security/revocation"
	"github.com/bronystylecrazy/skyline/security/session"
	"github.com/bronystylecrazy/skyline/security/token"
	"github.com/bronystylecrazy/skyline/web"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const DefaultConfigFile = "config.toml"

type Config struct {
	Log        log.Config        `mapstructure:"log"`
	Web        web.Config        `mapstructure:"web"`
	Redis      rd.Config         `mapstructure:"redis"`
	Database   database.Config   `mapstructure:"database"`
	Token      token.Config      `mapstructure:"token"`
	Revocation revocation.Config `mapstructure:"revocation"`
	Session    session.Config    `mapstructure:"session"`
	Cache      cache.Config      `mapstructure:"cache"`
}

// Defaults lists every key the service reads. Environment overrides only
// apply to keys registered here or present in the config file.
func Defaults() map[string]any {
	redis := rd.DefaultConfig()
	return map[string]any{
		"log.level":       "info",
		"log.drop_fields": log.DefaultDropFields,

		"web.name":          build.Name,
		"web.host":          "0.0.0.0",
		"web.port":          8080,
		"web.body_limit":    "1MB",
		"web.read_timeout":  "5s",
		"web.write_timeout": "10s",
		"web.idle_timeout":  "30s",

		"redis.in_memory":     false,
		"redis.network":       redis.Network,
		"redis.addr":          redis.Addr,
		"redis.protocol":      redis.Protocol,
		"redis.username":      "",
		"redis.password":      "",
		"redis.db":            0,
		"redis.dial_timeout":  redis.DialTimeout.String(),
		"redis.read_timeout":  redis.ReadTimeout.String(),
		"redis.write_timeout": redis.WriteTimeout.String(),
		"redis.pool_size":     redis.PoolSize,
		"redis.max_retries":   0,

		"database.dialect":    "sqlite",
		"database.datasource": "skyline.db",
		"database.migrate":    true,

		"token.secret": "",
		"token.ttl":    token.DefaultTTL.String(),
		"token.issuer": "",

		"revocation.key_prefix":  revocation.DefaultKeyPrefix,
		"revocation.fail_policy": string(revocation.FailOpen),

		"session.cookie_name": session.DefaultCookieName,
		"session.ttl":         session.DefaultTTL.String(),
		"session.production":  build.IsProduction(),
		"session.domain":      "",

		"cache.prefix": cache.DefaultPrefix,
		"cache.ttl":    cache.DefaultTTL.String(),
	}
}

// LoadConfig reads defaults, the optional config file and SKYLINE_*
// environment overrides, in increasing precedence.
func LoadConfig(opts ...cfg.Option) (Config, *viper.Viper, error) {
	all := append([]cfg.Option{
		cfg.WithDefaults(Defaults()),
		cfg.WithSourceFile(DefaultConfigFile),
		cfg.WithType("toml"),
		cfg.WithOptional(),
	}, opts...)

	v, err := cfg.Load(all...)
	if err != nil {
		return Config{}, nil, err
	}
	config, err := cfg.Decode[Config](v, "")
	if err != nil {
		return Config{}, nil, err
	}
	return config, v, nil
}

func (c Config) Validate() error {
	var err error
	if strings.TrimSpace(c.Token.Secret) == "" {
		err = multierr.Append(err, fmt.Errorf("token.secret: %w", token.ErrMissingSecret))
	}
	if c.Token.TTL < 0 {
		err = multierr.Append(err, errors.New("token.ttl: must not be negative"))
	}
	if c.Session.TTL < 0 {
		err = multierr.Append(err, errors.New("session.ttl: must not be negative"))
	}
	switch revocation.FailPolicy(strings.ToLower(string(c.Revocation.FailPolicy))) {
	case "", revocation.FailOpen, revocation.FailClosed:
	default:
		err = multierr.Append(err, fmt.Errorf("revocation.fail_policy: unknown policy %q", c.Revocation.FailPolicy))
	}
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("web.port: %d out of range", c.Web.Port))
	}
	if _, derr := database.NewDialector(c.Database); derr != nil {
		err = multierr.Append(err, fmt.Errorf("database.dialect: %w", derr))
	}
	return err
}
