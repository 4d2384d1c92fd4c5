package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger/memstore"
)

func day(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

func entry(d int, kind ledger.Kind, category, amount string) *ledger.Entry {
	return &ledger.Entry{
		Date:      day(d),
		Kind:      kind,
		Category:  category,
		Amount:    decimal.RequireFromString(amount),
		CreatedBy: "owner",
		CreatedAt: time.Date(2025, 10, 20, 8, 0, d, 0, time.UTC),
	}
}

func seed(t *testing.T, s *memstore.Store, entries ...*ledger.Entry) {
	t.Helper()

	for _, e := range entries {
		require.NoError(t, s.CreateEntry(context.Background(), e))
	}
}

func TestStore_ListEntries(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	seed(t, s,
		entry(1, ledger.KindIncome, "ถ่ายเอกสาร", "50"),
		entry(3, ledger.KindExpense, "ค่าหมึก", "120"),
		entry(2, ledger.KindIncome, "เคลือบบัตร", "20"),
	)

	got, err := s.ListEntries(ctx, ledger.ListFilter{}, ledger.DefaultOrder)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, day(3), got[0].Date)
	assert.Equal(t, day(1), got[2].Date)

	income := ledger.KindIncome
	got, err = s.ListEntries(ctx, ledger.ListFilter{Kind: &income}, ledger.Order{Field: ledger.OrderAmount})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "เคลือบบัตร", got[0].Category)

	got, err = s.ListEntries(ctx, ledger.ListFilter{Limit: 1, Offset: 1}, ledger.DefaultOrder)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, day(2), got[0].Date)

	n, err := s.CountEntries(ctx, ledger.ListFilter{Kind: &income, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_ListEntries_Stable(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	for range 5 {
		seed(t, s, entry(1, ledger.KindIncome, "x", "1"))
	}

	first, err := s.ListEntries(ctx, ledger.ListFilter{}, ledger.DefaultOrder)
	require.NoError(t, err)

	second, err := s.ListEntries(ctx, ledger.ListFilter{}, ledger.DefaultOrder)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStore_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	e := entry(1, ledger.KindIncome, "ถ่ายเอกสาร", "50")
	seed(t, s, e)

	got, err := s.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Category, got.Category)

	require.NoError(t, s.DeleteEntry(ctx, e.ID))

	_, err = s.GetEntry(ctx, e.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	assert.ErrorIs(t, s.DeleteEntry(ctx, uuid.New()), ledger.ErrNotFound)
}

func TestStore_DistinctCategories(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	seed(t, s,
		entry(1, ledger.KindIncome, "b", "1"),
		entry(1, ledger.KindIncome, "a", "1"),
		entry(1, ledger.KindIncome, "b", "1"),
		entry(1, ledger.KindExpense, "c", "1"),
	)

	income := ledger.KindIncome
	got, err := s.DistinctCategories(ctx, &income)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	all, err := s.DistinctCategories(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, all)
}

func TestStore_DistinctMonths(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	got, err := s.DistinctMonths(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	march := entry(1, ledger.KindIncome, "a", "1")
	march.Date = time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	december := entry(1, ledger.KindExpense, "b", "1")
	december.Date = time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC)

	seed(t, s, entry(18, ledger.KindIncome, "a", "1"), december, march, entry(2, ledger.KindExpense, "b", "1"))

	got, err = s.DistinctMonths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	}, got)
}

func TestStore_Batch(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	tx, err := s.BeginBatch(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.CreateEntries(ctx, []*ledger.Entry{
		entry(1, ledger.KindIncome, "a", "1"),
		entry(2, ledger.KindIncome, "a", "2"),
	}))

	n, err := s.CountEntries(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, n, "staged entries must stay invisible")

	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback())

	n, err = s.CountEntries(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_BatchRollback(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	tx, err := s.BeginBatch(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateEntries(ctx, []*ledger.Entry{entry(1, ledger.KindIncome, "a", "1")}))
	require.NoError(t, tx.Rollback())
	assert.Error(t, tx.Commit())

	n, err := s.CountEntries(ctx, ledger.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}
