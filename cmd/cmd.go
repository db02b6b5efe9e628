package cmd

import (
	"context"

	"github.com/bronystylecrazy/skyline"
	"github.com/bronystylecrazy/skyline/build"
	"github.com/bronystylecrazy/skyline/cfg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Commander interface {
	Command() *cobra.Command
}

// Loader resolves the service configuration. Commands call it lazily so
// --help and version never touch the environment.
type Loader func() (skyline.Config, *viper.Viper, error)

type Root struct {
	*cobra.Command
	configFile string
}

func New() *Root {
	r := &Root{
		Command: &cobra.Command{
			Use:           build.Name,
			Short:         "Session, revocation and cache service",
			SilenceUsage:  true,
			SilenceErrors: true,
		},
	}
	r.PersistentFlags().StringVarP(&r.configFile, "config", "c", skyline.DefaultConfigFile, "config file (toml, optional)")
	r.Register(
		NewVersionCommand(),
		NewServeCommand(r.Load),
		NewRevokeCommand(r.Load),
	)
	return r
}

func (r *Root) Load() (skyline.Config, *viper.Viper, error) {
	return skyline.LoadConfig(cfg.WithSourceFile(r.configFile))
}

func (r *Root) Register(commands ...Commander) {
	for _, c := range commands {
		r.AddCommand(c.Command())
	}
}

func (r *Root) Run(ctx context.Context, args []string) error {
	r.SetArgs(args)
	return r.ExecuteContext(ctx)
}
