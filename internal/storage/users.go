package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lendwise/loanbook/internal/models"
)

// UserRepository provides user data access
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		user.ID.String(),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, name, created_at, updated_at
		FROM users WHERE id = ?
	`
	return r.scanUser(r.db.QueryRow(query, id.String()))
}

// GetByIdentifier retrieves a user by username or email
func (r *UserRepository) GetByIdentifier(identifier string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, name, created_at, updated_at
		FROM users WHERE username = ? OR email = ?
	`
	return r.scanUser(r.db.QueryRow(query, identifier, identifier))
}

// Update modifies an existing user
func (r *UserRepository) Update(user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE users SET username = ?, email = ?, name = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		user.Username,
		user.Email,
		user.Name,
		user.UpdatedAt,
		user.ID.String(),
	)
	return err
}

// Delete removes a user
func (r *UserRepository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec("DELETE FROM users WHERE id = ?", id.String())
	return err
}

// Exists checks if a username or email is already registered
func (r *UserRepository) Exists(username, email string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ? OR email = ?", username, email).Scan(&count)
	return count > 0, err
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var id string

	err := row.Scan(
		&id,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.ID, _ = uuid.Parse(id)

	return &user, nil
}
