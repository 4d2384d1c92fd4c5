// Package command holds the ledgerctl cobra commands.
package command

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/shopledger/internal/app"
	"github.com/MrJamesThe3rd/shopledger/internal/config"
	"github.com/MrJamesThe3rd/shopledger/internal/logging"
)

// Opener builds the services over the configured store. The returned func
// releases the store.
type Opener func(ctx context.Context, cfg *config.Config) (*app.Services, func(), error)

// OpenServices is the Opener used by the binary.
func OpenServices(ctx context.Context, cfg *config.Config) (*app.Services, func(), error) {
	repo, closeRepo, err := app.OpenRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return app.NewServices(cfg, repo), closeRepo, nil
}

// runtime is what PersistentPreRunE prepares for the subcommands.
type runtime struct {
	open Opener
	cfg  *config.Config

	svc        *app.Services
	closeStore func()
}

// services opens the store on first use, so commands that never touch it
// (token, import --dry-run) work without a database.
func (rt *runtime) services(ctx context.Context) (*app.Services, error) {
	if rt.svc != nil {
		return rt.svc, nil
	}

	svc, closeStore, err := rt.open(ctx, rt.cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", rt.cfg.Store.Driver, err)
	}

	rt.svc, rt.closeStore = svc, closeStore

	return svc, nil
}

func (rt *runtime) close() {
	if rt.closeStore != nil {
		rt.closeStore()
		rt.closeStore = nil
	}
}

func NewRootCmd(open Opener) *cobra.Command {
	rt := &runtime{open: open}

	cmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Import and export the shop ledger from the command line.",
		Long: `ledgerctl reads bank or spreadsheet CSV files into the ledger, writes the
ledger back out as CSV, and issues API tokens.

Configuration comes from the environment and an optional .env file, the same
way the API server reads it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env is fine.
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// stdout may carry CSV, so logs go to stderr.
			logging.InitWriter(cmd.ErrOrStderr(), cfg.App.Name, cfg.Log.Level, cfg.Log.Format)
			rt.cfg = cfg

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			rt.close()
		},
	}

	cmd.AddCommand(
		newImportCmd(rt),
		newExportCmd(rt),
		newTokenCmd(rt),
	)

	return cmd
}
