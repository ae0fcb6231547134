// Package importer normalizes uploaded loan spreadsheets
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/lendwise/loanbook/internal/models"
)

var (
	ErrEmptyFile = errors.New("spreadsheet has no data rows")
	ErrNoSheet   = errors.New("workbook has no sheets")
)

// Spreadsheet column labels mapped to loan schema fields. Unmapped columns
// are ignored.
const (
	colBorrowerName = "borrower name"
	colAddress      = "address"
	colROI          = "roi per month (%)"
	colPeriod       = "period month"
	colStartDate    = "start date"
	colInterest     = "interest/month (₹)"
	colPrincipal    = "principal (₹)"
	colMonths       = "months elapsed"
	colTotalYear    = "total year"
	colStatus       = "status"
	colEarned       = "earned amount"
)

// RowError flags a spreadsheet row that could not be normalized
type RowError struct {
	Row     int    `json:"row"` // 1-based row number in the sheet
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result contains the normalized batch and the rows that were rejected
type Result struct {
	Loans    []models.Loan
	Rejected []RowError
}

// Service parses uploaded workbooks into loan batches
type Service struct{}

// NewService creates a new import service
func NewService() *Service {
	return &Service{}
}

// ParseWorkbook reads an .xlsx upload and normalizes the first sheet's rows
// into loans owned by the given user. Raw cell values are requested so that
// date cells arrive as their stored serial numbers, not display strings.
func (s *Service) ParseWorkbook(reader io.Reader, ownerID uuid.UUID) (*Result, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	return Normalize(rows, ownerID)
}

// Normalize maps raw sheet rows onto the loan schema. The first row is the
// header; every following row either becomes a loan stamped with the owner
// or a RowError in the rejection report. Nothing is silently dropped.
func Normalize(rows [][]string, ownerID uuid.UUID) (*Result, error) {
	if len(rows) < 2 {
		return nil, ErrEmptyFile
	}

	colMap := make(map[string]int)
	for i, label := range rows[0] {
		colMap[strings.ToLower(strings.TrimSpace(label))] = i
	}

	result := &Result{}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		get := func(label string) string {
			idx, ok := colMap[label]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if isEmptyRow(row) {
			continue
		}

		borrower := get(colBorrowerName)
		if borrower == "" {
			result.Rejected = append(result.Rejected, RowError{
				Row:     rowNum,
				Field:   "borrower_name",
				Message: "borrower name is missing",
			})
			continue
		}

		startDate, err := ResolveDate(get(colStartDate))
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{
				Row:     rowNum,
				Field:   "start_date",
				Message: err.Error(),
			})
			continue
		}

		status, err := parseStatus(get(colStatus))
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{
				Row:     rowNum,
				Field:   "status",
				Message: err.Error(),
			})
			continue
		}

		loan := models.NewLoan(ownerID, borrower, get(colAddress))
		loan.ROIPerMonth = parseDecimal(get(colROI))
		loan.PeriodMonth = parseInt(get(colPeriod))
		loan.StartDate = startDate
		loan.InterestPerMonth = parseDecimal(get(colInterest))
		loan.Principal = parseDecimal(get(colPrincipal))
		loan.MonthsElapsed = parseInt(get(colMonths))
		loan.TotalYear = parseFloat(get(colTotalYear))
		loan.Status = status
		loan.EarnedAmount = parseDecimal(get(colEarned))

		result.Loans = append(result.Loans, *loan)
	}

	return result, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseStatus(s string) (models.LoanStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "live":
		return models.StatusLive, nil
	case "returned":
		return models.StatusReturned, nil
	}
	return "", fmt.Errorf("unrecognized status %q", s)
}

// parseDecimal reads a money or percentage cell, tolerating currency
// symbols, thousands separators and parenthesized negatives. Empty or
// unparseable cells default to zero, matching the source ledgers.
func parseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, "%", "")

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	if s == "" || s == "--" || s == "n/a" || s == "N/A" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseInt(s string) int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
