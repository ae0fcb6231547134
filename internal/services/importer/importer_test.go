package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lendwise/loanbook/internal/models"
)

func TestResolveDate_Serial(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"known serial", "44000", time.Date(2020, time.June, 18, 0, 0, 0, 0, time.UTC)},
		{"epoch itself", "0", time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)},
		{"unix epoch serial", "25569", time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"serial with time fraction", "44000.75", time.Date(2020, time.June, 18, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDate_DelimitedString(t *testing.T) {
	want := time.Date(2021, time.April, 5, 0, 0, 0, 0, time.UTC)

	padded, err := ResolveDate("05-04-2021")
	require.NoError(t, err)

	unpadded, err := ResolveDate("5-4-2021")
	require.NoError(t, err)

	assert.Equal(t, want, padded)
	assert.Equal(t, want, unpadded)
}

func TestResolveDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "someday", "12/04/2021", "40-40-2021", "1-2"} {
		if _, err := ResolveDate(in); err == nil {
			t.Errorf("ResolveDate(%q) expected error", in)
		}
	}
}

func sheetRows(dataRows ...[]string) [][]string {
	header := []string{
		"Borrower Name", "Address", "ROI per month (%)", "Period Month",
		"Start Date", "Interest/Month (₹)", "Principal (₹)",
		"Months Elapsed", "Total Year", "Status", "Earned amount",
	}
	return append([][]string{header}, dataRows...)
}

func TestNormalize(t *testing.T) {
	owner := uuid.New()

	rows := sheetRows(
		[]string{"Ravi", "12 MG Road", "2", "24", "44000", "2000", "100000", "6", "0.5", "Live", ""},
		[]string{"Meena", "4 Park St", "1.5", "12", "10-03-2022", "", "50000", "", "", "Returned", "9000"},
	)

	result, err := Normalize(rows, owner)
	require.NoError(t, err)
	require.Len(t, result.Loans, 2)
	assert.Empty(t, result.Rejected)

	first := result.Loans[0]
	assert.Equal(t, owner, first.OwnerID)
	assert.Equal(t, "Ravi", first.BorrowerName)
	assert.Equal(t, "12 MG Road", first.Address)
	assert.True(t, first.ROIPerMonth.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, int64(24), first.PeriodMonth)
	assert.Equal(t, time.Date(2020, time.June, 18, 0, 0, 0, 0, time.UTC), first.StartDate)
	assert.True(t, first.InterestPerMonth.Equal(decimal.NewFromInt(2000)))
	assert.True(t, first.Principal.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, int64(6), first.MonthsElapsed)
	assert.Equal(t, 0.5, first.TotalYear)
	assert.Equal(t, models.StatusLive, first.Status)
	assert.True(t, first.EarnedAmount.IsZero())

	second := result.Loans[1]
	assert.Equal(t, time.Date(2022, time.March, 10, 0, 0, 0, 0, time.UTC), second.StartDate)
	assert.True(t, second.InterestPerMonth.IsZero(), "missing interest defaults to zero")
	assert.Equal(t, models.StatusReturned, second.Status)
	assert.True(t, second.EarnedAmount.Equal(decimal.NewFromInt(9000)))
}

func TestNormalize_RejectsBadRows(t *testing.T) {
	owner := uuid.New()

	rows := sheetRows(
		[]string{"", "No Borrower Lane", "2", "12", "44000", "", "10000", "", "", "Live", ""},
		[]string{"Suresh", "8 Hill Rd", "2", "12", "sometime soon", "", "10000", "", "", "Live", ""},
		[]string{"Priya", "2 Lake Rd", "2", "12", "44000", "", "10000", "", "", "Defaulted", ""},
		[]string{"Kumar", "9 Beach Rd", "2", "12", "44000", "", "10000", "", "", "Live", ""},
	)

	result, err := Normalize(rows, owner)
	require.NoError(t, err)

	require.Len(t, result.Loans, 1)
	assert.Equal(t, "Kumar", result.Loans[0].BorrowerName)

	require.Len(t, result.Rejected, 3)
	assert.Equal(t, 2, result.Rejected[0].Row)
	assert.Equal(t, "borrower_name", result.Rejected[0].Field)
	assert.Equal(t, 3, result.Rejected[1].Row)
	assert.Equal(t, "start_date", result.Rejected[1].Field)
	assert.Equal(t, 4, result.Rejected[2].Row)
	assert.Equal(t, "status", result.Rejected[2].Field)
}

func TestNormalize_SkipsEmptyRowsAndIgnoresUnknownColumns(t *testing.T) {
	owner := uuid.New()

	rows := [][]string{
		{"Borrower Name", "Start Date", "Principal (₹)", "Remarks"},
		{"", "", "", ""},
		{"Anand", "44000", "25,000", "friend of family"},
	}

	result, err := Normalize(rows, owner)
	require.NoError(t, err)
	require.Len(t, result.Loans, 1)
	assert.Empty(t, result.Rejected)
	assert.True(t, result.Loans[0].Principal.Equal(decimal.NewFromInt(25000)))
}

func TestNormalize_Empty(t *testing.T) {
	_, err := Normalize(nil, uuid.New())
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Normalize([][]string{{"Borrower Name"}}, uuid.New())
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []any{
		"Borrower Name", "Address", "ROI per month (%)", "Period Month",
		"Start Date", "Interest/Month (₹)", "Principal (₹)",
		"Months Elapsed", "Total Year", "Status", "Earned amount",
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	row := []any{"Ravi", "12 MG Road", 2, 24, 44000, 2000, 100000, 6, 0.5, "Live", 0}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &row))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	owner := uuid.New()
	svc := NewService()

	result, err := svc.ParseWorkbook(bytes.NewReader(buf.Bytes()), owner)
	require.NoError(t, err)
	require.Len(t, result.Loans, 1)

	loan := result.Loans[0]
	assert.Equal(t, owner, loan.OwnerID)
	assert.Equal(t, time.Date(2020, time.June, 18, 0, 0, 0, 0, time.UTC), loan.StartDate)
	assert.True(t, loan.Principal.Equal(decimal.NewFromInt(100000)))
}

func TestParseWorkbook_NotASpreadsheet(t *testing.T) {
	svc := NewService()
	_, err := svc.ParseWorkbook(bytes.NewReader([]byte("not an xlsx")), uuid.New())
	assert.Error(t, err)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want decimal.Decimal
	}{
		{"1,00,000", decimal.NewFromInt(100000)},
		{"₹2000", decimal.NewFromInt(2000)},
		{"2.5%", decimal.NewFromFloat(2.5)},
		{"(500)", decimal.NewFromInt(-500)},
		{"--", decimal.Zero},
		{"", decimal.Zero},
		{"garbage", decimal.Zero},
	}

	for _, tt := range tests {
		if got := parseDecimal(tt.in); !got.Equal(tt.want) {
			t.Errorf("parseDecimal(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
