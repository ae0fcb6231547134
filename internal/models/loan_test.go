package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthDayKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int
	}{
		{"january first", date(2024, time.January, 1), 1},
		{"april 13", date(2024, time.April, 13), 313},
		{"december 31", date(2024, time.December, 31), 1131},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthDayKey(tt.in); got != tt.want {
				t.Errorf("MonthDayKey(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestAnniversaryDistance(t *testing.T) {
	tests := []struct {
		name     string
		key      int
		todayKey int
		want     int
	}{
		{"same day", 313, 313, 0},
		{"later this year", 500, 313, 187},
		{"wraps year end", 1, 1131, 70},
		{"day before today wraps", 312, 313, 1199},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnniversaryDistance(tt.key, tt.todayKey); got != tt.want {
				t.Errorf("AnniversaryDistance(%d, %d) = %d, want %d", tt.key, tt.todayKey, got, tt.want)
			}
		})
	}
}

func TestSortByAnniversary(t *testing.T) {
	today := date(2024, time.June, 15)

	loans := []Loan{
		{BorrowerName: "past", StartDate: date(2020, time.March, 1)},
		{BorrowerName: "soon", StartDate: date(2021, time.June, 20)},
		{BorrowerName: "today", StartDate: date(2019, time.June, 15)},
	}

	SortByAnniversary(loans, today)

	want := []string{"today", "soon", "past"}
	for i, name := range want {
		if loans[i].BorrowerName != name {
			t.Fatalf("position %d = %q, want %q", i, loans[i].BorrowerName, name)
		}
	}
}

func TestSortByAnniversary_Stable(t *testing.T) {
	today := date(2024, time.June, 15)

	// Same start date month/day, different years: identical distance.
	loans := []Loan{
		{BorrowerName: "first", StartDate: date(2018, time.August, 3)},
		{BorrowerName: "second", StartDate: date(2021, time.August, 3)},
		{BorrowerName: "third", StartDate: date(2023, time.August, 3)},
	}

	SortByAnniversary(loans, today)

	want := []string{"first", "second", "third"}
	for i, name := range want {
		if loans[i].BorrowerName != name {
			t.Fatalf("position %d = %q, want %q (stable order broken)", i, loans[i].BorrowerName, name)
		}
	}
}

func TestRecomputeDerived(t *testing.T) {
	now := date(2024, time.June, 15)

	l := &Loan{
		ID:          uuid.New(),
		ROIPerMonth: decimal.NewFromInt(2),
		Principal:   decimal.NewFromInt(100000),
		StartDate:   date(2024, time.March, 17), // 90 days before now
	}

	l.RecomputeDerived(now)

	if want := decimal.NewFromInt(2000); !l.InterestPerMonth.Equal(want) {
		t.Errorf("InterestPerMonth = %s, want %s", l.InterestPerMonth, want)
	}
	if l.MonthsElapsed != 3 {
		t.Errorf("MonthsElapsed = %d, want 3", l.MonthsElapsed)
	}
	if want := 3.0 / 12; l.TotalYear != want {
		t.Errorf("TotalYear = %v, want %v", l.TotalYear, want)
	}
}

func TestRecomputeDerived_Idempotent(t *testing.T) {
	now := date(2024, time.June, 15)

	l := &Loan{
		ROIPerMonth: decimal.NewFromFloat(1.5),
		Principal:   decimal.NewFromInt(50000),
		StartDate:   date(2023, time.January, 10),
	}

	l.RecomputeDerived(now)
	first := *l
	l.RecomputeDerived(now)

	if !l.InterestPerMonth.Equal(first.InterestPerMonth) {
		t.Errorf("InterestPerMonth changed on recompute: %s vs %s", l.InterestPerMonth, first.InterestPerMonth)
	}
	if l.MonthsElapsed != first.MonthsElapsed {
		t.Errorf("MonthsElapsed changed on recompute: %d vs %d", l.MonthsElapsed, first.MonthsElapsed)
	}
	if l.TotalYear != first.TotalYear {
		t.Errorf("TotalYear changed on recompute: %v vs %v", l.TotalYear, first.TotalYear)
	}
}

func TestLoanStatusIsValid(t *testing.T) {
	if !StatusLive.IsValid() || !StatusReturned.IsValid() {
		t.Error("expected known statuses to be valid")
	}
	if LoanStatus("Pending").IsValid() {
		t.Error("expected unknown status to be invalid")
	}
}
