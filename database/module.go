package database

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ModuleName = "skyline/database"

// Module expects a Config in the graph.
func Module() fx.Option {
	return fx.Module(
		ModuleName,
		fx.Provide(NewDialector, NewGormDB),
		fx.Invoke(registerDB),
	)
}

func registerDB(lc fx.Lifecycle, db *gorm.DB, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return GormCheck(db, log)
		},
		OnStop: func(ctx context.Context) error {
			return Close(db)
		},
	})
}
