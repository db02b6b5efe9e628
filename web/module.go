package web

import "go.uber.org/fx"

var ModuleName = "skyline/web"

// Module expects a Config in the graph.
func Module() fx.Option {
	return fx.Module(
		ModuleName,
		fx.Provide(NewValidator, NewFiberApp, NewZapMiddleware),
		fx.Invoke(SetupHandlers, RegisterFiberApp),
	)
}
