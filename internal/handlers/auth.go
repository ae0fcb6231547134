package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lendwise/loanbook/internal/middleware"
	"github.com/lendwise/loanbook/internal/services/auth"
)

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new account creation
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		h.jsonError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.authService.Register(auth.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			h.jsonError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.serverError(w, "register failed", err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":   user.ID,
			"name": user.Name,
		},
	})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login authenticates by username or email and sets the session cookie
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(auth.LoginInput{
		Identifier: strings.TrimSpace(req.Identifier),
		Password:   req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			h.jsonError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.jsonError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.serverError(w, "login failed", err)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Expires,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":       result.User.ID,
			"name":     result.User.Name,
			"username": result.User.Username,
			"email":    result.User.Email,
		},
	})
}

// Logout clears the session cookie. Tokens are not revoked server-side; the
// client discarding the cookie ends the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})

	h.respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
