package storage

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lendwise/loanbook/internal/models"
	"github.com/shopspring/decimal"
)

// LoanRepository provides loan data access
type LoanRepository struct {
	db *DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *DB) *LoanRepository {
	return &LoanRepository{db: db}
}

const loanColumns = `id, owner_id, borrower_name, address, roi_per_month, period_month,
	start_date, interest_per_month, principal, months_elapsed, total_year,
	status, earned_amount, created_at`

// Create inserts a new loan
func (r *LoanRepository) Create(loan *models.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, loanArgs(loan)...)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

// InsertMany inserts a batch of loans in a single transaction. The whole
// batch fails together; there is no per-row commit.
func (r *LoanRepository) InsertMany(loans []models.Loan) error {
	if len(loans) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range loans {
		if _, err := stmt.Exec(loanArgs(&loans[i])...); err != nil {
			return fmt.Errorf("failed to insert loan batch: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a loan by ID scoped to its owner. A loan owned by a
// different user is reported the same way as a missing one: (nil, nil).
func (r *LoanRepository) GetByID(id, ownerID uuid.UUID) (*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = ? AND owner_id = ?`
	return r.scanLoan(r.db.QueryRow(query, id.String(), ownerID.String()))
}

// ListByOwner retrieves all loans belonging to a user in insertion order
func (r *LoanRepository) ListByOwner(ownerID uuid.UUID) ([]models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE owner_id = ? ORDER BY created_at, id`
	rows, err := r.db.Query(query, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		loan, err := r.scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *loan)
	}

	return loans, rows.Err()
}

// Update modifies an existing loan, scoped to its owner
func (r *LoanRepository) Update(loan *models.Loan) error {
	query := `
		UPDATE loans SET borrower_name = ?, address = ?, roi_per_month = ?,
			period_month = ?, start_date = ?, interest_per_month = ?,
			principal = ?, months_elapsed = ?, total_year = ?, status = ?,
			earned_amount = ?
		WHERE id = ? AND owner_id = ?
	`
	_, err := r.db.Exec(query,
		loan.BorrowerName,
		loan.Address,
		loan.ROIPerMonth.String(),
		loan.PeriodMonth,
		loan.StartDate,
		loan.InterestPerMonth.String(),
		loan.Principal.String(),
		loan.MonthsElapsed,
		loan.TotalYear,
		string(loan.Status),
		loan.EarnedAmount.String(),
		loan.ID.String(),
		loan.OwnerID.String(),
	)
	return err
}

// Delete removes a loan scoped to its owner. Returns false when nothing
// matched, whether the loan is absent or owned by someone else.
func (r *LoanRepository) Delete(id, ownerID uuid.UUID) (bool, error) {
	res, err := r.db.Exec("DELETE FROM loans WHERE id = ? AND owner_id = ?", id.String(), ownerID.String())
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func loanArgs(loan *models.Loan) []any {
	return []any{
		loan.ID.String(),
		loan.OwnerID.String(),
		loan.BorrowerName,
		loan.Address,
		loan.ROIPerMonth.String(),
		loan.PeriodMonth,
		loan.StartDate,
		loan.InterestPerMonth.String(),
		loan.Principal.String(),
		loan.MonthsElapsed,
		loan.TotalYear,
		string(loan.Status),
		loan.EarnedAmount.String(),
		loan.CreatedAt,
	}
}

func (r *LoanRepository) scanLoan(row *sql.Row) (*models.Loan, error) {
	loan, err := scanLoanFields(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan: %w", err)
	}
	return loan, nil
}

func (r *LoanRepository) scanLoanRow(rows *sql.Rows) (*models.Loan, error) {
	return scanLoanFields(rows.Scan)
}

func scanLoanFields(scan func(dest ...any) error) (*models.Loan, error) {
	var loan models.Loan
	var id, ownerID, roi, interest, principal, status, earned string

	err := scan(
		&id,
		&ownerID,
		&loan.BorrowerName,
		&loan.Address,
		&roi,
		&loan.PeriodMonth,
		&loan.StartDate,
		&interest,
		&principal,
		&loan.MonthsElapsed,
		&loan.TotalYear,
		&status,
		&earned,
		&loan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	loan.ID, _ = uuid.Parse(id)
	loan.OwnerID, _ = uuid.Parse(ownerID)
	loan.ROIPerMonth, _ = decimal.NewFromString(roi)
	loan.InterestPerMonth, _ = decimal.NewFromString(interest)
	loan.Principal, _ = decimal.NewFromString(principal)
	loan.Status = models.LoanStatus(status)
	loan.EarnedAmount, _ = decimal.NewFromString(earned)

	return &loan, nil
}
