// Package query parses the listing parameters shared by the entry and export endpoints.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

// Filter reads type, category, start_date and end_date. Dates are YYYY-MM-DD.
func Filter(q url.Values) (ledger.ListFilter, error) {
	var f ledger.ListFilter

	if s := q.Get("type"); s != "" {
		kind, ok := ledger.ParseKind(s)
		if !ok {
			return f, fmt.Errorf("invalid type %q", s)
		}

		f.Kind = new(kind)
	}

	if s := q.Get("category"); s != "" {
		f.Category = new(s)
	}

	for _, p := range []struct {
		key string
		dst **time.Time
	}{
		{"start_date", &f.StartDate},
		{"end_date", &f.EndDate},
	} {
		s := q.Get(p.key)
		if s == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return f, fmt.Errorf("invalid %s %q", p.key, s)
		}

		*p.dst = new(t)
	}

	return f, nil
}

// Order reads order and desc. Without order the default is newest date first;
// desc defaults to true.
func Order(q url.Values) (ledger.Order, error) {
	o := ledger.DefaultOrder

	if s := q.Get("order"); s != "" {
		field, ok := ledger.ParseOrderField(s)
		if !ok {
			return o, fmt.Errorf("invalid order %q", s)
		}

		o.Field = field
	}

	if s := q.Get("desc"); s != "" {
		desc, err := strconv.ParseBool(s)
		if err != nil {
			return o, fmt.Errorf("invalid desc %q", s)
		}

		o.Desc = desc
	}

	return o, nil
}

const (
	defaultPerPage = 50
	maxPerPage     = 500
)

// Page applies page (1-based) and per_page to f.
func Page(q url.Values, f *ledger.ListFilter) error {
	page, perPage := 1, defaultPerPage

	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page %q", s)
		}

		page = n
	}

	if s := q.Get("per_page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxPerPage {
			return fmt.Errorf("invalid per_page %q", s)
		}

		perPage = n
	}

	f.Limit = perPage
	f.Offset = (page - 1) * perPage

	return nil
}
