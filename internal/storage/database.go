// Package storage provides database access and repositories
package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New creates a new database connection. Pragmas ride in the DSN so every
// pooled connection gets them, not just the one that happens to run an Exec.
func New(databaseURL string) (*DB, error) {
	dsn := databaseURL
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; keep the pool at one so
	// every query sees the same database.
	if strings.Contains(databaseURL, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	return &DB{db}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	migrations := []string{
		createUsersTable,
		createLoansTable,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`

const createLoansTable = `
CREATE TABLE IF NOT EXISTS loans (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	borrower_name TEXT NOT NULL,
	address TEXT DEFAULT '',
	roi_per_month TEXT DEFAULT '0',
	period_month INTEGER DEFAULT 0,
	start_date DATETIME NOT NULL,
	interest_per_month TEXT DEFAULT '0',
	principal TEXT DEFAULT '0',
	months_elapsed INTEGER DEFAULT 0,
	total_year REAL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'Live',
	earned_amount TEXT DEFAULT '0',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_loans_owner_id ON loans(owner_id);
`
