// Package handlers provides HTTP request handlers
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendwise/loanbook/internal/config"
	"github.com/lendwise/loanbook/internal/middleware"
	"github.com/lendwise/loanbook/internal/models"
	"github.com/lendwise/loanbook/internal/services/auth"
	"github.com/lendwise/loanbook/internal/services/importer"
	"github.com/lendwise/loanbook/internal/services/loans"
)

// AuthService is the authentication contract the handlers depend on
type AuthService interface {
	Register(input auth.RegisterInput) (*models.User, error)
	Login(input auth.LoginInput) (*auth.LoginResult, error)
}

// LoanService is the loan bookkeeping contract the handlers depend on
type LoanService interface {
	List(ownerID uuid.UUID) ([]models.Loan, error)
	Summarize(ownerID uuid.UUID) (*loans.Summary, error)
	Create(ownerID uuid.UUID, input loans.CreateInput) (*models.Loan, error)
	Update(ownerID, id uuid.UUID, input loans.UpdateInput) (*models.Loan, error)
	Delete(ownerID, id uuid.UUID) error
	BulkInsert(batch []models.Loan) error
}

// ImportService parses uploaded spreadsheets into loan batches
type ImportService interface {
	ParseWorkbook(r io.Reader, ownerID uuid.UUID) (*importer.Result, error)
}

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	cfg            *config.Config
	logger         *zap.Logger
	authService    AuthService
	loanService    LoanService
	importService  ImportService
	authMiddleware *middleware.Auth
}

// New creates a new handler with all dependencies
func New(
	cfg *config.Config,
	logger *zap.Logger,
	authService AuthService,
	loanService LoanService,
	importService ImportService,
	authMiddleware *middleware.Auth,
) *Handler {
	return &Handler{
		cfg:            cfg,
		logger:         logger,
		authService:    authService,
		loanService:    loanService,
		importService:  importService,
		authMiddleware: authMiddleware,
	}
}

// respondJSON writes a JSON response with the given status
func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// jsonError writes a {"success":false,"message":...} error response
func (h *Handler) jsonError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// validationError writes a 400 with the field-level messages
func (h *Handler) validationError(w http.ResponseWriter, errs loans.ValidationErrors) {
	h.respondJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"errors":  errs,
	})
}

// serverError logs the cause server-side and answers with a generic message
func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	h.jsonError(w, http.StatusInternalServerError, "Server error")
}
