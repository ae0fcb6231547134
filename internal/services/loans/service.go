// Package loans implements the loan bookkeeping business logic
package loans

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lendwise/loanbook/internal/models"
	"github.com/lendwise/loanbook/internal/storage"
)

// ErrNotFound covers both a loan that does not exist and a loan owned by a
// different user. Callers cannot tell the two apart.
var ErrNotFound = errors.New("loan not found")

// ValidationErrors maps field names to human-readable messages
type ValidationErrors map[string]string

// Error implements the error interface
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Service handles loan queries and mutations, always scoped to an owner
type Service struct {
	loanRepo *storage.LoanRepository
}

// NewService creates a new loan service
func NewService(loanRepo *storage.LoanRepository) *Service {
	return &Service{loanRepo: loanRepo}
}

// List returns the owner's loans ordered by upcoming start-date anniversary,
// soonest first, wrapping year-end to year-start
func (s *Service) List(ownerID uuid.UUID) ([]models.Loan, error) {
	loans, err := s.loanRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	models.SortByAnniversary(loans, time.Now())
	return loans, nil
}

// Summary aggregates an owner's book for the dashboard
type Summary struct {
	TotalLoans      int             `json:"total_loans"`
	LiveLoans       int             `json:"live_loans"`
	ReturnedLoans   int             `json:"returned_loans"`
	TotalPrincipal  decimal.Decimal `json:"total_principal"`
	MonthlyInterest decimal.Decimal `json:"monthly_interest"`
	TotalEarned     decimal.Decimal `json:"total_earned"`
}

// Summarize computes dashboard totals over the owner's loans
func (s *Service) Summarize(ownerID uuid.UUID) (*Summary, error) {
	loans, err := s.loanRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	sum := &Summary{
		TotalPrincipal:  decimal.Zero,
		MonthlyInterest: decimal.Zero,
		TotalEarned:     decimal.Zero,
	}
	for i := range loans {
		sum.TotalLoans++
		sum.TotalPrincipal = sum.TotalPrincipal.Add(loans[i].Principal)
		switch loans[i].Status {
		case models.StatusReturned:
			sum.ReturnedLoans++
			sum.TotalEarned = sum.TotalEarned.Add(loans[i].EarnedAmount)
		default:
			sum.LiveLoans++
			sum.MonthlyInterest = sum.MonthlyInterest.Add(loans[i].InterestPerMonth)
		}
	}

	return sum, nil
}

// CreateInput contains the fields for a new loan entry
type CreateInput struct {
	BorrowerName string
	Address      string
	ROIPerMonth  decimal.Decimal
	PeriodMonth  int64
	StartDate    time.Time
	Principal    decimal.Decimal
	Status       models.LoanStatus
	EarnedAmount decimal.Decimal
}

// Create validates the input and stores a new loan for the owner. Derived
// financial fields are always computed server-side.
func (s *Service) Create(ownerID uuid.UUID, input CreateInput) (*models.Loan, error) {
	errs := ValidationErrors{}

	if strings.TrimSpace(input.BorrowerName) == "" {
		errs["borrower_name"] = "Borrower name is required."
	}
	if strings.TrimSpace(input.Address) == "" {
		errs["address"] = "Address is required."
	}
	if !input.ROIPerMonth.IsPositive() {
		errs["roi_per_month"] = "ROI per month should be greater than zero."
	}
	if input.PeriodMonth <= 0 {
		errs["period_month"] = "Loan period should be greater than zero."
	}
	if input.StartDate.IsZero() {
		errs["start_date"] = "Start date is required."
	}
	if !input.Principal.IsPositive() {
		errs["principal"] = "Principal amount should be greater than zero."
	}
	if !input.Status.IsValid() {
		errs["status"] = "Loan status must be Live or Returned."
	}
	if len(errs) > 0 {
		return nil, errs
	}

	loan := models.NewLoan(ownerID, strings.TrimSpace(input.BorrowerName), strings.TrimSpace(input.Address))
	loan.ROIPerMonth = input.ROIPerMonth
	loan.PeriodMonth = input.PeriodMonth
	loan.StartDate = input.StartDate
	loan.Principal = input.Principal
	loan.Status = input.Status
	loan.EarnedAmount = input.EarnedAmount
	loan.RecomputeDerived(time.Now())

	if err := s.loanRepo.Create(loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	return loan, nil
}

// UpdateInput contains a partial loan update; nil fields stay unchanged
type UpdateInput struct {
	BorrowerName *string
	Address      *string
	ROIPerMonth  *decimal.Decimal
	PeriodMonth  *int64
	StartDate    *time.Time
	Principal    *decimal.Decimal
	Status       *models.LoanStatus
	EarnedAmount *decimal.Decimal
}

// Update applies the supplied fields to an owner's loan. When the rate,
// principal or start date changes the derived financial fields are
// recomputed. A loan owned by someone else reports ErrNotFound.
func (s *Service) Update(ownerID, id uuid.UUID, input UpdateInput) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}
	if loan == nil {
		return nil, ErrNotFound
	}

	errs := ValidationErrors{}

	if input.BorrowerName != nil {
		if strings.TrimSpace(*input.BorrowerName) == "" {
			errs["borrower_name"] = "Borrower name is required."
		} else {
			loan.BorrowerName = strings.TrimSpace(*input.BorrowerName)
		}
	}
	if input.Address != nil {
		if strings.TrimSpace(*input.Address) == "" {
			errs["address"] = "Address is required."
		} else {
			loan.Address = strings.TrimSpace(*input.Address)
		}
	}
	if input.ROIPerMonth != nil {
		if !input.ROIPerMonth.IsPositive() {
			errs["roi_per_month"] = "ROI per month should be greater than zero."
		} else {
			loan.ROIPerMonth = *input.ROIPerMonth
		}
	}
	if input.PeriodMonth != nil {
		if *input.PeriodMonth <= 0 {
			errs["period_month"] = "Loan period should be greater than zero."
		} else {
			loan.PeriodMonth = *input.PeriodMonth
		}
	}
	if input.StartDate != nil {
		if input.StartDate.IsZero() {
			errs["start_date"] = "Start date is required."
		} else {
			loan.StartDate = *input.StartDate
		}
	}
	if input.Principal != nil {
		if !input.Principal.IsPositive() {
			errs["principal"] = "Principal amount should be greater than zero."
		} else {
			loan.Principal = *input.Principal
		}
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			errs["status"] = "Loan status must be Live or Returned."
		} else {
			loan.Status = *input.Status
		}
	}
	if input.EarnedAmount != nil {
		loan.EarnedAmount = *input.EarnedAmount
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if loan.Status != models.StatusReturned && input.EarnedAmount == nil {
		loan.EarnedAmount = decimal.Zero
	}

	if input.ROIPerMonth != nil || input.Principal != nil || input.StartDate != nil {
		loan.RecomputeDerived(time.Now())
	}

	if err := s.loanRepo.Update(loan); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}

	return loan, nil
}

// Delete removes an owner's loan. A loan owned by someone else reports
// ErrNotFound, indistinguishable from a missing one.
func (s *Service) Delete(ownerID, id uuid.UUID) error {
	deleted, err := s.loanRepo.Delete(id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// BulkInsert stores a batch of already-normalized loans in one shot. Used by
// the spreadsheet import path; the batch commits or fails as a whole.
func (s *Service) BulkInsert(loans []models.Loan) error {
	if err := s.loanRepo.InsertMany(loans); err != nil {
		return fmt.Errorf("failed to insert loans: %w", err)
	}
	return nil
}
