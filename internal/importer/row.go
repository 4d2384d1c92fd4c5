package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"02.01.2006",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrInvalidDate
}

var amountNoise = strings.NewReplacer(",", "", " ", "", "_", "", "\u00a0", "")

// parseAmount drops grouping characters and a currency sign before parsing.
// Amounts with more than two decimals or that do not fit the store are
// rejected rather than rounded.
// Examples: "1,250.00", "-300", "฿ 50", "$1 000".
func parseAmount(s string) (decimal.Decimal, error) {
	clean := amountNoise.Replace(s)

	neg := strings.HasPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "-")

	for _, sym := range []string{"฿", "$", "€"} {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, sym), sym)
	}

	if neg {
		clean = "-" + clean
	}

	if clean == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(clean)
	if err != nil || !ledger.AmountFits(d) {
		return decimal.Zero, ErrInvalidAmount
	}

	return d, nil
}

func field(fields []string, pos int) string {
	if pos < 0 || pos >= len(fields) {
		return ""
	}

	return fields[pos]
}

// parseRow turns one tokenized data row into entry params. CreatedBy is left
// for the caller to stamp.
func parseRow(h header, fields []string, fallbackCategory string) (ledger.CreateParams, error) {
	if len(fields) < h.minFields() {
		return ledger.CreateParams{}, ErrColumnCountMismatch
	}

	date, err := parseDate(field(fields, h[colDate]))
	if err != nil {
		return ledger.CreateParams{}, err
	}

	amount, err := parseAmount(field(fields, h[colAmount]))
	if err != nil {
		return ledger.CreateParams{}, err
	}

	kind, ok := ledger.ParseKind(field(fields, h[colType]))
	if !ok {
		kind = ledger.KindIncome
		if amount.IsNegative() {
			kind = ledger.KindExpense
		}
	}

	category := field(fields, h[colCategory])
	if strings.TrimSpace(category) == "" {
		category = fallbackCategory
	}

	return ledger.CreateParams{
		Date:        date,
		Kind:        kind,
		Category:    category,
		Description: field(fields, h[colDescription]),
		Amount:      amount.Abs(),
	}, nil
}
