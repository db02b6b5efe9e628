package cmd

import (
	"errors"
	"fmt"

	"github.com/bronystylecrazy/skyline/caching/rd"
	"github.com/bronystylecrazy/skyline/log"
	"github.com/bronystylecrazy/skyline/security/revocation"
	"github.com/bronystylecrazy/skyline/security/token"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var ErrNotRevoked = errors.New("cmd: credential not revoked")

// RevokeCommand blacklists a credential without going through sign-out.
type RevokeCommand struct {
	load Loader
}

func NewRevokeCommand(load Loader) *RevokeCommand {
	return &RevokeCommand{load: load}
}

func (s *RevokeCommand) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <token>",
		Short: "Revoke a credential until it expires",
		Args:  cobra.ExactArgs(1),
		RunE:  s.Run,
	}
}

func (s *RevokeCommand) Run(cmd *cobra.Command, args []string) (err error) {
	config, _, err := s.load()
	if err != nil {
		return err
	}
	if config.Token.Secret == "" {
		return fmt.Errorf("%s: %w", cmd.CommandPath(), token.ErrMissingSecret)
	}

	logger, err := log.NewZapLogger(config.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := rd.NewClient(config.Redis)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, client.Close()) }()

	store := revocation.NewStore(client, token.NewCodec(config.Token), config.Revocation, log.NewSink(logger))
	outcome := store.Revoke(cmd.Context(), args[0])
	if outcome != revocation.OutcomeRevoked {
		return fmt.Errorf("%w: %s", ErrNotRevoked, outcome)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), outcome)
	return err
}
