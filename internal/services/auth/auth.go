// Package auth provides authentication services
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lendwise/loanbook/internal/config"
	"github.com/lendwise/loanbook/internal/models"
	"github.com/lendwise/loanbook/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid token")
)

// Service handles authentication operations
type Service struct {
	cfg      *config.Config
	userRepo *storage.UserRepository
}

// NewService creates a new auth service
func NewService(cfg *config.Config, userRepo *storage.UserRepository) *Service {
	return &Service{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// RegisterInput contains registration data
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Register creates a new user account
func (s *Service) Register(input RegisterInput) (*models.User, error) {
	exists, err := s.userRepo.Exists(input.Username, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(input.Username, input.Email, input.Name, string(hash))
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput contains login credentials. Identifier is a username or email.
type LoginInput struct {
	Identifier string
	Password   string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	User    *models.User
	Token   string
	Expires time.Time
}

// Login authenticates a user and mints a session token
func (s *Service) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByIdentifier(input.Identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID, s.cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &LoginResult{
		User:    user,
		Token:   token,
		Expires: time.Now().UTC().Add(s.cfg.SessionTTL),
	}, nil
}

// IssueToken mints a signed, time-bounded session token for a user
func (s *Service) IssueToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
		"jti": generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}

// VerifyToken checks a token's signature and expiry and returns the user ID
// it was minted for. Every failure mode comes back as an error value; this
// never panics across the auth boundary.
func (s *Service) VerifyToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrSessionExpired
		}
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return id, nil
}

// ValidateToken verifies a session token and loads the user it belongs to
func (s *Service) ValidateToken(tokenString string) (*models.User, error) {
	id, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil || user == nil {
		return nil, ErrInvalidToken
	}

	return user, nil
}

func generateJTI() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
