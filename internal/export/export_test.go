package export_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shopledger/internal/export"
	"github.com/MrJamesThe3rd/shopledger/internal/importer"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger/memstore"
)

const bom = "\ufeff"

func seeded(t *testing.T) *ledger.Service {
	t.Helper()

	svc := ledger.NewService(memstore.New(), ledger.WithClock(func() time.Time {
		return time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)
	}))

	for _, p := range []ledger.CreateParams{
		{Date: time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC), Kind: ledger.KindIncome, Category: "ถ่ายเอกสาร", Description: "เอกสาร A4", Amount: decimal.RequireFromString("50")},
		{Date: time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC), Kind: ledger.KindExpense, Category: "ค่าหมึก", Description: `หมึก "ดำ", 2 ขวด`, Amount: decimal.RequireFromString("1250.5")},
		{Date: time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC), Kind: ledger.KindIncome, Category: "ค่า, พิเศษ", Description: "", Amount: decimal.RequireFromString("0.25")},
	} {
		p.CreatedBy = "owner"
		_, err := svc.Create(context.Background(), p)
		require.NoError(t, err)
	}

	return svc
}

func TestExport_Basic(t *testing.T) {
	svc := export.NewService(seeded(t))

	var buf bytes.Buffer

	n, err := svc.Export(context.Background(), &buf, export.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	want := bom +
		"date,type,category,description,amount\n" +
		"2025-10-19,expense,ค่าหมึก,\"หมึก \"\"ดำ\"\", 2 ขวด\",1250.50\n" +
		"2025-10-18,income,ถ่ายเอกสาร,เอกสาร A4,50.00\n" +
		"2025-10-17,income,\"ค่า, พิเศษ\",,0.25\n"
	assert.Equal(t, want, buf.String())
}

func TestExport_Full(t *testing.T) {
	entries := seeded(t)
	svc := export.NewService(entries)

	var buf bytes.Buffer

	_, err := svc.Export(context.Background(), &buf, export.Options{
		Profile: export.ProfileFull,
		Order:   ledger.Order{Field: ledger.OrderAmount},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimPrefix(buf.String(), bom), "\n")
	assert.Equal(t, "id,date,type,category,description,amount,created_at", lines[0])

	all, err := entries.List(context.Background(), ledger.ListFilter{}, ledger.Order{Field: ledger.OrderAmount})
	require.NoError(t, err)

	assert.Equal(t,
		all[0].ID.String()+",2025-10-17,income,\"ค่า, พิเศษ\",,0.25,2025-10-20T08:00:00Z",
		lines[1],
	)
}

func TestExport_Idempotent(t *testing.T) {
	svc := export.NewService(seeded(t))

	var first, second bytes.Buffer

	_, err := svc.Export(context.Background(), &first, export.Options{Profile: export.ProfileFull})
	require.NoError(t, err)

	_, err = svc.Export(context.Background(), &second, export.Options{Profile: export.ProfileFull})
	require.NoError(t, err)

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestExport_Filtered(t *testing.T) {
	svc := export.NewService(seeded(t))

	kind := ledger.KindExpense

	var buf bytes.Buffer

	n, err := svc.Export(context.Background(), &buf, export.Options{Filter: ledger.ListFilter{Kind: &kind}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestExport_Empty(t *testing.T) {
	svc := export.NewService(ledger.NewService(memstore.New()))

	var buf bytes.Buffer

	n, err := svc.Export(context.Background(), &buf, export.Options{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, bom+"date,type,category,description,amount\n", buf.String())
}

func TestExport_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().ListEntries(gomock.Any(), gomock.Any(), ledger.DefaultOrder).Return(nil, errors.New("db down"))

	svc := export.NewService(ledger.NewService(repo))

	var buf bytes.Buffer

	_, err := svc.Export(context.Background(), &buf, export.Options{})
	assert.Error(t, err)
	assert.Empty(t, buf.String())

	_, err = svc.Export(context.Background(), &buf, export.Options{Profile: "xml"})
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	for _, profile := range []export.Profile{export.ProfileBasic, export.ProfileFull} {
		t.Run(string(profile), func(t *testing.T) {
			ctx := context.Background()
			source := seeded(t)

			var buf bytes.Buffer

			_, err := export.NewService(source).Export(ctx, &buf, export.Options{Profile: profile})
			require.NoError(t, err)

			target := ledger.NewService(memstore.New())

			outcome, err := importer.NewService(target).Import(ctx, &buf, "owner")
			require.NoError(t, err)
			assert.Equal(t, 3, outcome.SuccessCount)
			assert.Zero(t, outcome.ErrorCount)

			want, err := source.List(ctx, ledger.ListFilter{}, ledger.DefaultOrder)
			require.NoError(t, err)

			got, err := target.List(ctx, ledger.ListFilter{}, ledger.DefaultOrder)
			require.NoError(t, err)
			require.Len(t, got, len(want))

			for i := range want {
				assert.Equal(t, want[i].Date, got[i].Date)
				assert.Equal(t, want[i].Kind, got[i].Kind)
				assert.Equal(t, want[i].Category, got[i].Category)
				assert.Equal(t, want[i].Description, got[i].Description)
				assert.True(t, want[i].Amount.Equal(got[i].Amount))
			}
		})
	}
}

func TestRoundTrip_AwkwardText(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
		amount      string
	}{
		{name: "QuoteMidField", description: `5" roll`, want: `5" roll`, amount: "10.5"},
		{name: "LineBreak", description: "first\nsecond", want: "first second", amount: "1234.25"},
		{name: "CRLF", description: "a\r\nb", want: "a b", amount: "999999999999.99"},
		{name: "LeadingQuote", description: `"boxed" paper`, want: `"boxed" paper`, amount: "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			source := ledger.NewService(memstore.New())

			_, err := source.Create(ctx, ledger.CreateParams{
				Date:        time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC),
				Kind:        ledger.KindExpense,
				Category:    "supplies",
				Description: tt.description,
				Amount:      decimal.RequireFromString(tt.amount),
				CreatedBy:   "owner",
			})
			require.NoError(t, err)

			var buf bytes.Buffer

			_, err = export.NewService(source).Export(ctx, &buf, export.Options{})
			require.NoError(t, err)
			assert.Equal(t, 2, strings.Count(buf.String(), "\n"))

			target := ledger.NewService(memstore.New())

			outcome, err := importer.NewService(target).Import(ctx, &buf, "owner")
			require.NoError(t, err)
			require.Equal(t, 1, outcome.SuccessCount, outcome.Errors)

			got, err := target.List(ctx, ledger.ListFilter{}, ledger.DefaultOrder)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Description)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(got[0].Amount))
		})
	}
}

func TestParseProfile(t *testing.T) {
	p, err := export.ParseProfile("")
	require.NoError(t, err)
	assert.Equal(t, export.ProfileBasic, p)

	p, err = export.ParseProfile(" FULL ")
	require.NoError(t, err)
	assert.Equal(t, export.ProfileFull, p)

	_, err = export.ParseProfile("xlsx")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "entries_20251018.csv", export.Filename(time.Date(2025, 10, 18, 22, 0, 0, 0, time.UTC)))
}
