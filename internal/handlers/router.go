package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/lendwise/loanbook/internal/middleware"
)

// SetupRouter wires the HTTP routes and middleware
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.Recover(h.logger))
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.RequireAuth)

			r.Get("/loans", h.ListLoans)
			r.Post("/loans", h.CreateLoan)
			r.Get("/loans/summary", h.LoanSummary)
			r.Patch("/loans/{id}", h.UpdateLoan)
			r.Delete("/loans/{id}", h.DeleteLoan)

			r.Post("/upload-excel", h.UploadExcel)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
