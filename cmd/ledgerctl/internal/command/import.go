package command

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/shopledger/internal/app"
	"github.com/MrJamesThe3rd/shopledger/internal/importer"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger/memstore"
)

func newImportCmd(rt *runtime) *cobra.Command {
	var (
		actor  string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import entries from a CSV file",
		Long: `Import reads a CSV file with date and amount columns (type, category and
description are optional; a missing category becomes the fallback category)
and stores every valid row in one batch. Rows that fail validation are listed
with their row number; the header is row 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if actor == "" {
				actor = rt.cfg.Ledger.Actor
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var svc *app.Services
			if dryRun {
				svc = app.NewServices(rt.cfg, memstore.New())
			} else if svc, err = rt.services(cmd.Context()); err != nil {
				return err
			}

			outcome, err := svc.Importer.Import(cmd.Context(), f, actor)
			if outcome != nil {
				printOutcome(cmd.OutOrStdout(), outcome, dryRun)
			}

			return err
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "name stamped on the entries (default $LEDGER_ACTOR)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without storing anything")

	return cmd
}

func printOutcome(w io.Writer, o *importer.Outcome, dryRun bool) {
	verb := "imported"
	if dryRun {
		verb = "valid"
	}

	fmt.Fprintf(w, "%s: %d, errors: %d\n", verb, o.SuccessCount, o.ErrorCount)

	for _, e := range o.Errors {
		fmt.Fprintf(w, "  row %d: %v\n", e.Row, e.Err)
	}
}
