package user

import (
	"github.com/bronystylecrazy/skyline/database"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"skyline/user",
		fx.Provide(NewRepository),
		fx.Invoke(registerMigration),
	)
}

func registerMigration(lc fx.Lifecycle, repo *Repository, config database.Config) {
	if !config.Migrate {
		return
	}
	lc.Append(fx.Hook{
		OnStart: repo.Migrate,
	})
}
