package view

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shopledger/internal/importer"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
	"github.com/MrJamesThe3rd/shopledger/internal/report"
)

func TestTimeframe_Range(t *testing.T) {
	// A Wednesday.
	now := time.Date(2025, 10, 15, 18, 45, 0, 0, time.UTC)
	day := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }

	tests := map[Timeframe]struct {
		start, end time.Time
	}{
		TimeframeToday:     {day(10, 15), day(10, 15)},
		TimeframeThisWeek:  {day(10, 13), day(10, 15)},
		TimeframeThisMonth: {day(10, 1), day(10, 15)},
		TimeframeLastMonth: {day(9, 1), day(9, 30)},
		TimeframeThisYear:  {day(1, 1), day(10, 15)},
	}

	for tf, tt := range tests {
		t.Run(tf.String(), func(t *testing.T) {
			start, end := tf.Range(now)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestTimeframe_RangeWeekStartsMonday(t *testing.T) {
	sunday := time.Date(2025, 10, 19, 9, 0, 0, 0, time.UTC)

	start, _ := TimeframeThisWeek.Range(sunday)
	assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), start)
}

func TestTimeframeSelectedMsg_Apply(t *testing.T) {
	f := ledger.ListFilter{}

	msg := TimeframeSelectedMsg{
		Start: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
	}
	msg.Apply(&f)
	require.NotNil(t, f.StartDate)
	assert.Equal(t, msg.End, *f.EndDate)
	assert.Equal(t, "2025-10-01 to 2025-10-31", msg.String())

	TimeframeSelectedMsg{All: true}.Apply(&f)
	assert.Nil(t, f.StartDate)
	assert.Nil(t, f.EndDate)
}

func TestParseRange(t *testing.T) {
	_, _, err := parseRange("2025-10-01", "2025-10-31")
	assert.NoError(t, err)

	_, _, err = parseRange("01/10/2025", "2025-10-31")
	assert.Error(t, err)

	_, _, err = parseRange("2025-10-31", "2025-10-01")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	tests := map[string]string{
		"0":          "0.00",
		"50":         "50.00",
		"1234.5":     "1,234.50",
		"1234567.89": "1,234,567.89",
		"-2500":      "-2,500.00",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, FormatAmount(decimal.RequireFromString(in)))
		})
	}
}

func TestParseFormAmount(t *testing.T) {
	d, err := parseFormAmount(" 1,250.50 ")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(d))

	_, err = parseFormAmount("abc")
	assert.Error(t, err)

	_, err = parseFormAmount("0")
	assert.Error(t, err)

	_, err = parseFormAmount("10.005")
	assert.Error(t, err)

	_, err = parseFormAmount("1,000,000,000,000")
	assert.Error(t, err)
}

func TestEntryFields_Params(t *testing.T) {
	f := &entryFields{
		kind:        ledger.KindExpense,
		category:    "  ",
		date:        "2025-10-18",
		amount:      "120",
		description: " ink ",
	}

	p, err := f.params("owner", "อื่นๆ")
	require.NoError(t, err)
	assert.Equal(t, "อื่นๆ", p.Category)
	assert.Equal(t, "ink", p.Description)
	assert.Equal(t, "owner", p.CreatedBy)
	assert.Equal(t, ledger.KindExpense, p.Kind)
}

type fakeImporter struct {
	actor   string
	body    string
	outcome *importer.Outcome
	err     error
}

func (f *fakeImporter) Import(_ context.Context, r io.Reader, actor string) (*importer.Outcome, error) {
	data, _ := io.ReadAll(r)
	f.body, f.actor = string(data), actor

	return f.outcome, f.err
}

func TestImportModel_ShowsOutcome(t *testing.T) {
	imp := &fakeImporter{outcome: &importer.Outcome{
		SuccessCount: 2,
		ErrorCount:   1,
		Errors:       []importer.RowError{{Row: 3, Err: importer.ErrInvalidDate}},
	}}

	m := NewImportModel(imp, "owner")

	path := t.TempDir() + "/in.csv"
	require.NoError(t, os.WriteFile(path, []byte("date,amount,category\n"), 0o600))

	msg := m.importCmd(path)()
	assert.Equal(t, "owner", imp.actor)
	assert.Equal(t, "date,amount,category\n", imp.body)

	next, _ := m.Update(msg)
	view := next.(ImportModel).View()

	assert.Contains(t, view, "Imported: 2")
	assert.Contains(t, view, "Skipped: 1")
	assert.Contains(t, view, "row 3:")
}

func TestImportModel_StoreFailureKeepsOutcome(t *testing.T) {
	imp := &fakeImporter{
		outcome: &importer.Outcome{ErrorCount: 1, Errors: []importer.RowError{{Row: 2, Err: importer.ErrInvalidAmount}}},
		err:     ledger.ErrStoreWriteFailed,
	}

	m := NewImportModel(imp, "owner")
	next, _ := m.Update(importDoneMsg{outcome: imp.outcome, err: imp.err})
	view := next.(ImportModel).View()

	assert.Contains(t, view, "Imported: 0")
	assert.Contains(t, view, "row 2:")
	assert.Contains(t, view, "Error:")
}

func TestImportModel_EscFromPickerGoesBack(t *testing.T) {
	m := NewImportModel(&fakeImporter{}, "owner")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

type fakeEntries struct {
	entries []*ledger.Entry
	filter  ledger.ListFilter
	deleted []uuid.UUID
}

func (f *fakeEntries) Create(_ context.Context, p ledger.CreateParams) (*ledger.Entry, error) {
	e := &ledger.Entry{ID: uuid.New(), Date: p.Date, Kind: p.Kind, Category: p.Category, Amount: p.Amount}
	f.entries = append(f.entries, e)

	return e, nil
}

func (f *fakeEntries) List(_ context.Context, filter ledger.ListFilter, _ ledger.Order) ([]*ledger.Entry, error) {
	f.filter = filter

	var out []*ledger.Entry

	for _, e := range f.entries {
		if filter.Match(e) {
			out = append(out, e)
		}
	}

	return out, nil
}

func (f *fakeEntries) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func sampleEntries() []*ledger.Entry {
	return []*ledger.Entry{
		{
			ID: uuid.New(), Date: time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC),
			Kind: ledger.KindIncome, Category: "ถ่ายเอกสาร", Amount: decimal.NewFromInt(50), CreatedBy: "owner",
		},
		{
			ID: uuid.New(), Date: time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC),
			Kind: ledger.KindExpense, Category: "ค่าหมึก", Amount: decimal.NewFromInt(120), CreatedBy: "owner",
		},
	}
}

func TestEntriesModel_FilterCycle(t *testing.T) {
	svc := &fakeEntries{entries: sampleEntries()}
	m := NewEntriesModel(svc)

	next, cmd := m.Update(TimeframeSelectedMsg{All: true})
	next, _ = next.Update(cmd())

	view := next.(EntriesModel).View()
	assert.Contains(t, view, "2 entries")
	assert.Contains(t, view, "-120.00")

	next, cmd = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	next, _ = next.Update(cmd())

	require.NotNil(t, svc.filter.Kind)
	assert.Equal(t, ledger.KindIncome, *svc.filter.Kind)
	assert.Contains(t, next.(EntriesModel).View(), "1 entries")
}

func TestEntriesModel_DeleteCommand(t *testing.T) {
	svc := &fakeEntries{entries: sampleEntries()}
	m := NewEntriesModel(svc)

	next, cmd := m.Update(TimeframeSelectedMsg{All: true})
	next, _ = next.Update(cmd())

	em := next.(EntriesModel)
	msg := em.deleteCmd(em.selectedEntry())()
	assert.Equal(t, deleteEntryMsg{}, msg)
	require.Len(t, svc.deleted, 1)
	assert.Equal(t, svc.entries[0].ID, svc.deleted[0])

	next, cmd = em.Update(msg)
	assert.Contains(t, next.(EntriesModel).View(), "Deleted.")
	assert.NotNil(t, cmd)
}

type fakeReports struct {
	err error
}

func (f fakeReports) Summary(context.Context, time.Time) (report.Summary, error) {
	t := report.Totals{Income: decimal.NewFromInt(500), Expense: decimal.NewFromInt(120), Net: decimal.NewFromInt(380)}
	return report.Summary{Today: t, Month: t, Year: t}, f.err
}

func (f fakeReports) Daily(_ context.Context, year int, month time.Month) (report.Daily, error) {
	d := report.Daily{Year: year, Month: month, Labels: []string{"01", "02"}}
	d.Income = []decimal.Decimal{decimal.NewFromInt(500), decimal.Zero}
	d.Expense = []decimal.Decimal{decimal.NewFromInt(120), decimal.Zero}

	return d, nil
}

func TestDashboardModel(t *testing.T) {
	m := NewDashboardModel(fakeReports{})

	next, _ := m.Update(m.Init()())
	view := next.(DashboardModel).View()

	assert.Contains(t, view, "This Month")
	assert.Contains(t, view, "380.00")
	assert.Contains(t, view, "█")
	assert.NotContains(t, view, " 02 ")
}

func TestDashboardModel_Error(t *testing.T) {
	m := NewDashboardModel(fakeReports{err: errors.New("store down")})

	next, _ := m.Update(m.Init()())
	assert.Contains(t, next.(DashboardModel).View(), "store down")
}

func TestRenderDaily_Empty(t *testing.T) {
	d := report.Daily{Labels: []string{"01"}, Income: []decimal.Decimal{decimal.Zero}, Expense: []decimal.Decimal{decimal.Zero}}
	assert.True(t, strings.Contains(renderDaily(d), "No entries"))
}
