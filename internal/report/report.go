// Package report aggregates entries for the dashboard.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

// Lister reads entries. *ledger.Service satisfies it.
type Lister interface {
	List(ctx context.Context, filter ledger.ListFilter, order ledger.Order) ([]*ledger.Entry, error)
	DistinctMonths(ctx context.Context) ([]time.Time, error)
}

type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

func (t *Totals) add(e *ledger.Entry) {
	switch e.Kind {
	case ledger.KindIncome:
		t.Income = t.Income.Add(e.Amount)
	case ledger.KindExpense:
		t.Expense = t.Expense.Add(e.Amount)
	}

	t.Net = t.Income.Sub(t.Expense)
}

type Summary struct {
	Today Totals `json:"today"`
	Month Totals `json:"month"`
	Year  Totals `json:"year"`
}

// Daily holds one value per day of a month; Labels[i] is day i+1.
type Daily struct {
	Year    int               `json:"year"`
	Month   time.Month        `json:"month"`
	Labels  []string          `json:"labels"`
	Income  []decimal.Decimal `json:"income"`
	Expense []decimal.Decimal `json:"expense"`
}

type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

type Service struct {
	entries Lister
}

func NewService(entries Lister) *Service {
	return &Service{entries: entries}
}

func (s *Service) between(ctx context.Context, start, end time.Time) ([]*ledger.Entry, error) {
	entries, err := s.entries.List(ctx, ledger.ListFilter{StartDate: &start, EndDate: &end}, ledger.DefaultOrder)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	return entries, nil
}

// Summary returns today, month-to-date and year-to-date totals as of now.
func (s *Service) Summary(ctx context.Context, now time.Time) (Summary, error) {
	today := ledger.DateOnly(now)
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	entries, err := s.between(ctx, yearStart, today)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary

	for _, e := range entries {
		sum.Year.add(e)

		if !e.Date.Before(monthStart) {
			sum.Month.add(e)
		}

		if e.Date.Equal(today) {
			sum.Today.add(e)
		}
	}

	return sum, nil
}

// Daily returns per-day income and expense for the given month.
func (s *Service) Daily(ctx context.Context, year int, month time.Month) (Daily, error) {
	if month < time.January || month > time.December {
		return Daily{}, fmt.Errorf("invalid month %d", month)
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	days := end.Day()

	d := Daily{
		Year:    year,
		Month:   month,
		Labels:  make([]string, days),
		Income:  make([]decimal.Decimal, days),
		Expense: make([]decimal.Decimal, days),
	}

	for i := range days {
		d.Labels[i] = start.AddDate(0, 0, i).Format("02")
		d.Income[i] = decimal.Zero
		d.Expense[i] = decimal.Zero
	}

	entries, err := s.between(ctx, start, end)
	if err != nil {
		return Daily{}, err
	}

	for _, e := range entries {
		i := e.Date.Day() - 1

		switch e.Kind {
		case ledger.KindIncome:
			d.Income[i] = d.Income[i].Add(e.Amount)
		case ledger.KindExpense:
			d.Expense[i] = d.Expense[i].Add(e.Amount)
		}
	}

	return d, nil
}

// AvailableMonths lists months that have entries, newest first.
func (s *Service) AvailableMonths(ctx context.Context) ([]YearMonth, error) {
	firsts, err := s.entries.DistinctMonths(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing months: %w", err)
	}

	months := make([]YearMonth, 0, len(firsts))
	for _, m := range firsts {
		months = append(months, YearMonth{Year: m.Year(), Month: m.Month()})
	}

	return months, nil
}
