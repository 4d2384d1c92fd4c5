package command

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/shopledger/internal/export"
	"github.com/MrJamesThe3rd/shopledger/internal/http/query"
)

func newExportCmd(rt *runtime) *cobra.Command {
	var (
		profile string
		out     string
		q       = exportQuery{}
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries as CSV",
		Long: `Export writes the ledger as UTF-8 CSV. The basic profile has the columns
date,type,category,description,amount and can be imported again as is; the
full profile adds id and created_at.

Without --out the file is named after the current time; use --out - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := export.ParseProfile(profile)
			if err != nil {
				return err
			}

			opts := export.Options{Profile: p}

			values := q.values()
			if opts.Filter, err = query.Filter(values); err != nil {
				return err
			}

			if opts.Order, err = query.Order(values); err != nil {
				return err
			}

			svc, err := rt.services(cmd.Context())
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := svc.Exporter.Export(cmd.Context(), cmd.OutOrStdout(), opts)
				return err
			}

			if out == "" {
				out = export.Filename(time.Now())
			}

			n, err := writeFile(out, func(w io.Writer) (int, error) {
				return svc.Exporter.Export(cmd.Context(), w, opts)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d entries to %s\n", n, out)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&profile, "profile", string(export.ProfileBasic), "column profile: basic or full")
	f.StringVarP(&out, "out", "o", "", "output file, - for stdout")
	f.StringVar(&q.kind, "type", "", "only income or expense")
	f.StringVar(&q.category, "category", "", "only this category")
	f.StringVar(&q.startDate, "start-date", "", "first date to include, YYYY-MM-DD")
	f.StringVar(&q.endDate, "end-date", "", "last date to include, YYYY-MM-DD")
	f.StringVar(&q.order, "order", "", "sort by date, amount or created_at")
	f.BoolVar(&q.desc, "desc", true, "sort descending")

	return cmd
}

// exportQuery mirrors the export endpoint's query parameters so both surfaces
// share one parser.
type exportQuery struct {
	kind      string
	category  string
	startDate string
	endDate   string
	order     string
	desc      bool
}

func (q exportQuery) values() url.Values {
	v := url.Values{}

	for key, val := range map[string]string{
		"type":       q.kind,
		"category":   q.category,
		"start_date": q.startDate,
		"end_date":   q.endDate,
		"order":      q.order,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}

	v.Set("desc", strconv.FormatBool(q.desc))

	return v
}

// writeFile creates path and removes it again if write fails.
func writeFile(path string, write func(io.Writer) (int, error)) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	n, err := write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		os.Remove(path)
		return 0, err
	}

	return n, nil
}
