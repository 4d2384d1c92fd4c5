package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind represents the direction of an entry (income or expense).
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// kindLabels maps accepted labels, lowercased, to their Kind.
var kindLabels = map[string]Kind{
	"income":  KindIncome,
	"expense": KindExpense,
	"รายรับ":  KindIncome,
	"รายจ่าย": KindExpense,
}

// ParseKind resolves a user-supplied label case-insensitively.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindLabels[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Entry is one recorded income or expense. Entries are never updated.
type Entry struct {
	ID          uuid.UUID
	Date        time.Time // Calendar date, UTC midnight
	Kind        Kind
	Category    string
	Description string
	Amount      decimal.Decimal // Always >= 0
	CreatedBy   string
	CreatedAt   time.Time
}

// Amounts are stored as NUMERIC(14, 2): at most two decimal places and an
// absolute value below MaxAmount.
const AmountScale = 2

var MaxAmount = decimal.New(1, 12)

// AmountFits reports whether d can be stored without rounding or overflow.
func AmountFits(d decimal.Decimal) bool {
	return d.Equal(d.Round(AmountScale)) && d.Abs().LessThan(MaxAmount)
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
