package log

import "go.uber.org/fx"

var ModuleName = "skyline/log"

// Module expects a Config in the graph.
func Module() fx.Option {
	return fx.Module(
		ModuleName,
		fx.Provide(NewZapLogger, NewSink, NewSlog),
		fx.WithLogger(NewEventLogger),
	)
}
