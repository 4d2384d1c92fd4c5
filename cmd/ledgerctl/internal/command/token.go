package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/shopledger/internal/auth"
)

func newTokenCmd(rt *runtime) *cobra.Command {
	var (
		actor string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an API bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rt.cfg.Auth.Secret == "" {
				return errors.New("AUTH_SECRET must be set")
			}

			if actor == "" {
				actor = rt.cfg.Ledger.Actor
			}

			if ttl == 0 {
				ttl = rt.cfg.Auth.TokenTTL
			}

			token, err := auth.GenerateToken(actor, rt.cfg.Auth.Secret, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)

			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "token subject (default $LEDGER_ACTOR)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default $AUTH_TOKEN_TTL)")

	return cmd
}
