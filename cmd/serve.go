package cmd

import (
	"log/slog"

	"github.com/bronystylecrazy/skyline"
	"github.com/bronystylecrazy/skyline/cfg"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServeCommand struct {
	load Loader
}

func NewServeCommand(load Loader) *ServeCommand {
	return &ServeCommand{load: load}
}

func (s *ServeCommand) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE:  s.Run,
	}
}

func (s *ServeCommand) Run(cmd *cobra.Command, args []string) error {
	config, v, err := s.load()
	if err != nil {
		return err
	}
	app, err := skyline.New(config, fx.Invoke(func(logger *zap.Logger, sl *slog.Logger) {
		slog.SetDefault(sl)
		cfg.Watch(v, logger)
	}))
	if err != nil {
		return err
	}
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}
