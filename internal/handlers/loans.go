package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lendwise/loanbook/internal/middleware"
	"github.com/lendwise/loanbook/internal/models"
	"github.com/lendwise/loanbook/internal/services/importer"
	"github.com/lendwise/loanbook/internal/services/loans"
)

// ListLoans returns the caller's loans sorted by upcoming anniversary
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	list, err := h.loanService.List(user.ID)
	if err != nil {
		h.serverError(w, "list loans failed", err)
		return
	}
	if list == nil {
		list = []models.Loan{}
	}

	h.respondJSON(w, http.StatusOK, list)
}

// LoanSummary returns the caller's dashboard totals
func (h *Handler) LoanSummary(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	summary, err := h.loanService.Summarize(user.ID)
	if err != nil {
		h.serverError(w, "summarize loans failed", err)
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

// loanRequest carries a loan payload; all fields optional so the same shape
// serves create (missing fields fail validation) and partial update
type loanRequest struct {
	BorrowerName *string          `json:"borrower_name"`
	Address      *string          `json:"address"`
	ROIPerMonth  *decimal.Decimal `json:"roi_per_month"`
	PeriodMonth  *int64           `json:"period_month"`
	StartDate    *string          `json:"start_date"`
	Principal    *decimal.Decimal `json:"principal"`
	Status       *string          `json:"status"`
	EarnedAmount *decimal.Decimal `json:"earned_amount"`
}

// parseStartDate accepts a bare date or an RFC 3339 timestamp
func parseStartDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// CreateLoan validates and stores a new loan for the caller
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := loans.CreateInput{}
	if req.BorrowerName != nil {
		input.BorrowerName = *req.BorrowerName
	}
	if req.Address != nil {
		input.Address = *req.Address
	}
	if req.ROIPerMonth != nil {
		input.ROIPerMonth = *req.ROIPerMonth
	}
	if req.PeriodMonth != nil {
		input.PeriodMonth = *req.PeriodMonth
	}
	if req.StartDate != nil {
		t, err := parseStartDate(*req.StartDate)
		if err != nil {
			h.validationError(w, loans.ValidationErrors{"start_date": "Start date is invalid."})
			return
		}
		input.StartDate = t
	}
	if req.Principal != nil {
		input.Principal = *req.Principal
	}
	if req.Status != nil {
		input.Status = models.LoanStatus(*req.Status)
	}
	if req.EarnedAmount != nil {
		input.EarnedAmount = *req.EarnedAmount
	}

	loan, err := h.loanService.Create(user.ID, input)
	if err != nil {
		var verrs loans.ValidationErrors
		if errors.As(err, &verrs) {
			h.validationError(w, verrs)
			return
		}
		h.serverError(w, "create loan failed", err)
		return
	}

	h.respondJSON(w, http.StatusOK, loan)
}

// UpdateLoan applies a partial update to one of the caller's loans
func (h *Handler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.jsonError(w, http.StatusBadRequest, "Invalid loan id")
		return
	}

	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := loans.UpdateInput{
		BorrowerName: req.BorrowerName,
		Address:      req.Address,
		ROIPerMonth:  req.ROIPerMonth,
		PeriodMonth:  req.PeriodMonth,
		Principal:    req.Principal,
		EarnedAmount: req.EarnedAmount,
	}
	if req.StartDate != nil {
		t, err := parseStartDate(*req.StartDate)
		if err != nil {
			h.validationError(w, loans.ValidationErrors{"start_date": "Start date is invalid."})
			return
		}
		input.StartDate = &t
	}
	if req.Status != nil {
		status := models.LoanStatus(*req.Status)
		input.Status = &status
	}

	loan, err := h.loanService.Update(user.ID, id, input)
	if err != nil {
		var verrs loans.ValidationErrors
		switch {
		case errors.Is(err, loans.ErrNotFound):
			h.jsonError(w, http.StatusNotFound, "Loan not found")
		case errors.As(err, &verrs):
			h.validationError(w, verrs)
		default:
			h.serverError(w, "update loan failed", err)
		}
		return
	}

	h.respondJSON(w, http.StatusOK, loan)
}

// DeleteLoan removes one of the caller's loans
func (h *Handler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.jsonError(w, http.StatusBadRequest, "Invalid loan id")
		return
	}

	if err := h.loanService.Delete(user.ID, id); err != nil {
		if errors.Is(err, loans.ErrNotFound) {
			h.jsonError(w, http.StatusNotFound, "Loan not found")
			return
		}
		h.serverError(w, "delete loan failed", err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"message": "Deleted"})
}

// UploadExcel ingests a spreadsheet of loans owned by the caller
func (h *Handler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	// 10MB upload cap
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.jsonError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.jsonError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	result, err := h.importService.ParseWorkbook(file, user.ID)
	if err != nil {
		h.logger.Error("spreadsheet parse failed", zap.Error(err), zap.String("user", user.ID.String()))
		h.jsonError(w, http.StatusInternalServerError, "Error occurred during file processing")
		return
	}

	if err := h.loanService.BulkInsert(result.Loans); err != nil {
		h.logger.Error("bulk insert failed", zap.Error(err), zap.String("user", user.ID.String()))
		h.jsonError(w, http.StatusInternalServerError, "Error occurred during file processing")
		return
	}

	rejected := result.Rejected
	if rejected == nil {
		rejected = []importer.RowError{}
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"message":  "File uploaded and data inserted successfully",
		"imported": len(result.Loans),
		"rejected": rejected,
	})
}
