// Package middleware provides HTTP middleware functions
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lendwise/loanbook/internal/models"
)

type contextKey string

const (
	// UserContextKey is the request-context key the authenticated user is
	// stored under
	UserContextKey contextKey = "user"

	// SessionCookieName is the cookie the session token travels in
	SessionCookieName = "token"
)

// Logger logs every request with method, path, status and duration
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover handles panics gracefully
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", zap.Any("error", err), zap.String("path", r.URL.Path))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// TokenValidator verifies a session token and loads its user
type TokenValidator interface {
	ValidateToken(token string) (*models.User, error)
}

// Auth middleware for protected routes
type Auth struct {
	validator TokenValidator
}

// NewAuth creates a new auth middleware
func NewAuth(validator TokenValidator) *Auth {
	return &Auth{validator: validator}
}

// RequireAuth ensures the request carries a valid session token. Requests
// without one are answered 401 and never reach the protected handler.
func (m *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := m.userFromRequest(r)
		if user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"Unauthorized"}`))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromRequest tries the session cookie first, then the Authorization
// header. Every request re-verifies; there is no session cache.
func (m *Auth) userFromRequest(r *http.Request) *models.User {
	cookie, err := r.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		user, err := m.validator.ValidateToken(cookie.Value)
		if err == nil {
			return user
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := m.validator.ValidateToken(token)
		if err == nil {
			return user
		}
	}

	return nil
}

// GetUser retrieves the user from the request context
func GetUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
