package ledger

import (
	"strings"
	"time"
)

type ListFilter struct {
	Kind      *Kind
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
	CreatedBy *string

	// Limit and Offset page the result. Zero Limit means no limit.
	// CountEntries ignores both.
	Limit  int
	Offset int
}

// Match reports whether e passes every set criterion. Dates are compared
// as calendar days, both bounds inclusive.
func (f ListFilter) Match(e *Entry) bool {
	if f.Kind != nil && e.Kind != *f.Kind {
		return false
	}

	if f.Category != nil && e.Category != *f.Category {
		return false
	}

	if f.CreatedBy != nil && e.CreatedBy != *f.CreatedBy {
		return false
	}

	if f.StartDate != nil && e.Date.Before(DateOnly(*f.StartDate)) {
		return false
	}

	if f.EndDate != nil && e.Date.After(DateOnly(*f.EndDate)) {
		return false
	}

	return true
}

type OrderField string

const (
	OrderDate      OrderField = "date"
	OrderAmount    OrderField = "amount"
	OrderCreatedAt OrderField = "created_at"
)

func ParseOrderField(s string) (OrderField, bool) {
	switch f := OrderField(strings.ToLower(strings.TrimSpace(s))); f {
	case OrderDate, OrderAmount, OrderCreatedAt:
		return f, true
	}

	return "", false
}

// Order sorts listings. Ties are broken by created_at and then id, in the same
// direction, so a listing of unchanged data is always identical.
type Order struct {
	Field OrderField
	Desc  bool
}

// DefaultOrder is newest date first.
var DefaultOrder = Order{Field: OrderDate, Desc: true}

// Less reports whether a sorts before b.
func (o Order) Less(a, b *Entry) bool {
	c := o.compare(a, b)
	if o.Desc {
		return c > 0
	}

	return c < 0
}

func (o Order) compare(a, b *Entry) int {
	var c int

	switch o.Field {
	case OrderAmount:
		c = a.Amount.Cmp(b.Amount)
	case OrderCreatedAt:
		c = a.CreatedAt.Compare(b.CreatedAt)
	default:
		c = a.Date.Compare(b.Date)
	}

	if c != 0 {
		return c
	}

	if c = a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}

	return strings.Compare(a.ID.String(), b.ID.String())
}
