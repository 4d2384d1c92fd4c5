// Package export writes stored entries as CSV that the importer reads back.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/MrJamesThe3rd/shopledger/internal/csvtext"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

const ContentType = "text/csv; charset=utf-8"

// bom lets spreadsheet apps detect UTF-8 so Thai text displays correctly.
const bom = "\ufeff"

type Profile string

const (
	// ProfileBasic writes date,type,category,description,amount.
	ProfileBasic Profile = "basic"
	// ProfileFull adds id and created_at for a full-fidelity backup.
	ProfileFull Profile = "full"
)

// ParseProfile accepts "basic" or "full"; empty means basic.
func ParseProfile(s string) (Profile, error) {
	switch p := Profile(strings.ToLower(strings.TrimSpace(s))); p {
	case "", ProfileBasic:
		return ProfileBasic, nil
	case ProfileFull:
		return ProfileFull, nil
	default:
		return "", fmt.Errorf("unknown export profile %q", s)
	}
}

type basicRow struct {
	Date        string `csv:"date"`
	Type        string `csv:"type"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
}

type fullRow struct {
	ID          string `csv:"id"`
	Date        string `csv:"date"`
	Type        string `csv:"type"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	CreatedAt   string `csv:"created_at"`
}

// lineBreaks are flattened so every entry is exactly one record; the importer
// splits records on newlines only.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func toBasic(e *ledger.Entry) basicRow {
	return basicRow{
		Date:        e.Date.Format(time.DateOnly),
		Type:        string(e.Kind),
		Category:    lineBreaks.Replace(e.Category),
		Description: lineBreaks.Replace(e.Description),
		Amount:      e.Amount.StringFixed(2),
	}
}

func toFull(e *ledger.Entry) fullRow {
	b := toBasic(e)

	return fullRow{
		ID:          e.ID.String(),
		Date:        b.Date,
		Type:        b.Type,
		Category:    b.Category,
		Description: b.Description,
		Amount:      b.Amount,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Lister reads entries. *ledger.Service satisfies it.
type Lister interface {
	List(ctx context.Context, filter ledger.ListFilter, order ledger.Order) ([]*ledger.Entry, error)
}

type Options struct {
	Profile Profile
	Filter  ledger.ListFilter
	// Order defaults to ledger.DefaultOrder when Field is empty.
	Order ledger.Order
}

type Service struct {
	entries Lister
}

func NewService(entries Lister) *Service {
	return &Service{entries: entries}
}

// Export writes matching entries to w and returns how many were written.
// Unchanged data always produces byte-identical output.
func (s *Service) Export(ctx context.Context, w io.Writer, opts Options) (int, error) {
	if opts.Profile != "" && opts.Profile != ProfileBasic && opts.Profile != ProfileFull {
		return 0, fmt.Errorf("unknown export profile %q", opts.Profile)
	}

	order := opts.Order
	if order.Field == "" {
		order = ledger.DefaultOrder
	}

	entries, err := s.entries.List(ctx, opts.Filter, order)
	if err != nil {
		return 0, fmt.Errorf("listing entries: %w", err)
	}

	if _, err := io.WriteString(w, bom); err != nil {
		return 0, fmt.Errorf("writing bom: %w", err)
	}

	out := csvtext.NewWriter(w)

	switch opts.Profile {
	case ProfileFull:
		rows := make([]fullRow, len(entries))
		for i, e := range entries {
			rows[i] = toFull(e)
		}

		err = gocsv.MarshalCSV(rows, out)
	default:
		rows := make([]basicRow, len(entries))
		for i, e := range entries {
			rows[i] = toBasic(e)
		}

		err = gocsv.MarshalCSV(rows, out)
	}

	if err != nil {
		return 0, fmt.Errorf("writing csv: %w", err)
	}

	return len(entries), nil
}

// Filename is the download name for an export made at now.
func Filename(now time.Time) string {
	return "entries_" + now.Format("20060102") + ".csv"
}
