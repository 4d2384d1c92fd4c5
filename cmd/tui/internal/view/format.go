package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

const dbTimeout = 5 * time.Second

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// FormatAmount renders an amount with two decimals and a thousands separator.
func FormatAmount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)

	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	for i := len(intPart) - 3; i > 0; i -= 3 {
		intPart = intPart[:i] + "," + intPart[i:]
	}

	if d.IsNegative() {
		return "-" + intPart + frac
	}

	return intPart + frac
}

// FormatSigned prefixes expenses with a minus and colours by kind.
func FormatSigned(kind ledger.Kind, d decimal.Decimal) string {
	if kind == ledger.KindExpense {
		return expenseStyle.Render("-" + FormatAmount(d))
	}

	return incomeStyle.Render("+" + FormatAmount(d))
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for store operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
