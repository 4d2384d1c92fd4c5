package importer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2025-10-18", "18/10/2025", "18-10-2025", "2025/10/18", "18.10.2025"} {
		t.Run(in, func(t *testing.T) {
			got, err := parseDate(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	for _, in := range []string{"", "bad-date", "2025-13-01", "10/18/2025", "18 Oct 2025"} {
		t.Run("Invalid_"+in, func(t *testing.T) {
			_, err := parseDate(in)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    string
		wantErr bool
	}{
		"Plain":        {in: "50", want: "50"},
		"Negative":     {in: "-300", want: "-300"},
		"Grouping":     {in: "1,250.50", want: "1250.5"},
		"Baht":         {in: "฿ 1,000", want: "1000"},
		"NegativeBaht": {in: "-฿20", want: "-20"},
		"TrailingSign": {in: "15€", want: "15"},
		"Underscore":   {in: "1_000", want: "1000"},
		"NoBreakSpace": {in: "2\u00a0500", want: "2500"},
		"Empty":        {in: "", wantErr: true},
		"Letters":      {in: "fifty", wantErr: true},
		"OnlySymbol":   {in: "$", wantErr: true},
		"TwoDecimals":  {in: "10.25", want: "10.25"},
		"TrailingZero": {in: "10.500", want: "10.5"},
		"MaxAmount":    {in: "999,999,999,999.99", want: "999999999999.99"},
		"ThreeDecimal": {in: "10.005", wantErr: true},
		"TooLarge":     {in: "1000000000000", wantErr: true},
		"TooSmall":     {in: "-1000000000000", wantErr: true},
		"Exponent":     {in: "1e13", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestResolveHeader(t *testing.T) {
	h, err := resolveHeader([]string{"Date", "AMOUNT", "Type", "Extra", "note"})
	require.NoError(t, err)
	assert.Equal(t, 0, h[colDate])
	assert.Equal(t, 1, h[colAmount])
	assert.Equal(t, 2, h[colType])
	assert.Equal(t, -1, h[colCategory])
	assert.Equal(t, 4, h[colDescription])
	assert.Equal(t, 2, h.minFields())

	h, err = resolveHeader([]string{"หมวดหมู่", "จำนวนเงิน", "วันที่"})
	require.NoError(t, err)
	assert.Equal(t, 2, h[colDate])
	assert.Equal(t, 3, h.minFields())

	_, err = resolveHeader([]string{"date", "category"})

	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "amount", missing.Column)
	assert.ErrorIs(t, err, ErrMissingRequiredColumn)
}

func TestParseRow(t *testing.T) {
	h, err := resolveHeader([]string{"date", "type", "amount", "category", "description"})
	require.NoError(t, err)

	type testCase struct {
		name     string
		fields   []string
		wantKind ledger.Kind
		wantAmt  string
		wantCat  string
		wantErr  error
	}

	tests := []testCase{
		{
			name:     "ExplicitType",
			fields:   []string{"2025-10-18", "income", "50", "ถ่ายเอกสาร", "เอกสาร A4"},
			wantKind: ledger.KindIncome,
			wantAmt:  "50",
			wantCat:  "ถ่ายเอกสาร",
		},
		{
			name:     "SignDerivesExpense",
			fields:   []string{"2025-10-18", "", "-300", "ค่าหมึก", ""},
			wantKind: ledger.KindExpense,
			wantAmt:  "300",
			wantCat:  "ค่าหมึก",
		},
		{
			name:     "ExplicitTypeBeatsSign",
			fields:   []string{"2025-10-18", "รายรับ", "-20", "x", ""},
			wantKind: ledger.KindIncome,
			wantAmt:  "20",
			wantCat:  "x",
		},
		{
			name:     "UnknownTypeFallsBackToSign",
			fields:   []string{"2025-10-18", "refund", "-5", "x", ""},
			wantKind: ledger.KindExpense,
			wantAmt:  "5",
			wantCat:  "x",
		},
		{
			name:     "ZeroIsIncome",
			fields:   []string{"2025-10-18", "", "0", "x", ""},
			wantKind: ledger.KindIncome,
			wantAmt:  "0",
			wantCat:  "x",
		},
		{
			name:     "BlankCategory",
			fields:   []string{"2025-10-18", "expense", "10", "  "},
			wantKind: ledger.KindExpense,
			wantAmt:  "10",
			wantCat:  "อื่นๆ",
		},
		{
			name:    "TooFewFields",
			fields:  []string{"2025-10-18", "income"},
			wantErr: ErrColumnCountMismatch,
		},
		{
			name:    "BadDate",
			fields:  []string{"bad-date", "income", "10", "", ""},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "BadAmount",
			fields:  []string{"2025-10-18", "income", "ten", "", ""},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRow(h, tt.fields, "อื่นๆ")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.True(t, decimal.RequireFromString(tt.wantAmt).Equal(got.Amount))
			assert.Equal(t, tt.wantCat, got.Category)
		})
	}
}
