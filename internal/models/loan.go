package models

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanStatus describes whether a loan is outstanding or repaid
type LoanStatus string

const (
	StatusLive     LoanStatus = "Live"
	StatusReturned LoanStatus = "Returned"
)

// IsValid reports whether the status is one of the known values
func (s LoanStatus) IsValid() bool {
	return s == StatusLive || s == StatusReturned
}

// Loan represents a single lending agreement owned by a user
type Loan struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	BorrowerName string          `json:"borrower_name"`
	Address      string          `json:"address"`
	ROIPerMonth  decimal.Decimal `json:"roi_per_month"` // monthly rate of interest, percent
	PeriodMonth  int64           `json:"period_month"`
	StartDate    time.Time       `json:"start_date"`

	InterestPerMonth decimal.Decimal `json:"interest_per_month"`
	Principal        decimal.Decimal `json:"principal"`
	MonthsElapsed    int64           `json:"months_elapsed"`
	TotalYear        float64         `json:"total_year"`

	Status       LoanStatus      `json:"status"`
	EarnedAmount decimal.Decimal `json:"earned_amount"` // meaningful only when Returned

	CreatedAt time.Time `json:"created_at"`
}

// NewLoan creates a loan owned by the given user with a generated ID
func NewLoan(ownerID uuid.UUID, borrowerName, address string) *Loan {
	return &Loan{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		BorrowerName: borrowerName,
		Address:      address,
		Status:       StatusLive,
		EarnedAmount: decimal.Zero,
		CreatedAt:    time.Now().UTC(),
	}
}

// RecomputeDerived refreshes the derived financial fields from the rate,
// principal and start date. Months elapsed uses a fixed 30-day month, the
// same approximation the ledger spreadsheets these records came from use.
func (l *Loan) RecomputeDerived(now time.Time) {
	l.InterestPerMonth = l.ROIPerMonth.Div(decimal.NewFromInt(100)).Mul(l.Principal)
	l.MonthsElapsed = int64(math.Floor(now.Sub(l.StartDate).Hours() / (24 * 30)))
	l.TotalYear = float64(l.MonthsElapsed) / 12
}

// MonthDayKey encodes a date as month*100+day with a zero-indexed month,
// e.g. April 13 => 313. The encoding orders dates within a year but its
// gaps between months are not calendar-day widths.
func MonthDayKey(t time.Time) int {
	return (int(t.Month())-1)*100 + t.Day()
}

// AnniversaryDistance returns the forward distance from todayKey to key in
// MMDD space, wrapping year-end by the cycle width of 1200. The result is a
// sort rank, not a day count.
func AnniversaryDistance(key, todayKey int) int {
	if key >= todayKey {
		return key - todayKey
	}
	return key + 1200 - todayKey
}

// SortByAnniversary orders loans so that the ones whose start-date
// anniversary comes up soonest appear first. The sort is stable: loans with
// equal distance keep their input order.
func SortByAnniversary(loans []Loan, today time.Time) {
	todayKey := MonthDayKey(today)
	sort.SliceStable(loans, func(i, j int) bool {
		di := AnniversaryDistance(MonthDayKey(loans[i].StartDate), todayKey)
		dj := AnniversaryDistance(MonthDayKey(loans[j].StartDate), todayKey)
		return di < dj
	})
}
