// Package skyline assembles the session, revocation and cache components into
// one fx application.
package skyline

import (
	"github.com/bronystylecrazy/skyline/account"
	"github.com/bronystylecrazy/skyline/caching/cache"
	"github.com/bronystylecrazy/skyline/caching/rd"
	"github.com/bronystylecrazy/skyline/caching/secure"
	"github.com/bronystylecrazy/skyline/database"
	"github.com/bronystylecrazy/skyline/log"
	"github.com/bronystylecrazy/skyline/security/revocation"
	"github.com/bronystylecrazy/skyline/security/session"
	"github.com/bronystylecrazy/skyline/security/token"
	"github.com/bronystylecrazy/skyline/user"
	"github.com/bronystylecrazy/skyline/web"
	"github.com/bronystylecrazy/skyline/web/buildinfo"
	"go.uber.org/fx"
)

// Options is the full dependency graph for config. Extra options are appended
// last, so tests can decorate or replace providers.
func Options(config Config, extra ...fx.Option) fx.Option {
	return fx.Options(
		fx.Supply(
			config.Log,
			config.Web,
			config.Redis,
			config.Database,
			config.Token,
			config.Revocation,
			config.Session,
			config.Cache,
		),
		log.Module(),
		rd.Module(),
		database.Module(),
		user.Module(),
		securityModule(),
		cachingModule(),
		web.Module(),
		fx.Provide(
			func(r *user.Repository) account.UserStore { return r },
			web.AsHandler(account.NewHandler),
			web.AsHandler(func(redis rd.Pinger) *buildinfo.Handler { return buildinfo.NewHandler(redis) }),
		),
		fx.Options(extra...),
	)
}

func securityModule() fx.Option {
	return fx.Module(
		"skyline/security",
		fx.Provide(
			token.NewCodec,
			func(c *token.Codec) revocation.Decoder { return c },
			func(c *token.Codec) session.Codec { return c },
			revocation.NewStore,
			func(s *revocation.Store) session.Revoker { return s },
			session.NewManager,
		),
	)
}

func cachingModule() fx.Option {
	return fx.Module(
		"skyline/caching",
		fx.Provide(cache.New, secure.New),
	)
}

// New validates config and builds the application.
func New(config Config, extra ...fx.Option) (*fx.App, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return fx.New(Options(config, extra...)), nil
}
