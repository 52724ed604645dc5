// Package store persists normalized transactions and subscriptions in
// SQLite. It is the only point of contact with durable state: the detector
// reads its history through it and the merge policy reads and writes stored
// subscriptions through it.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
)

const dateLayout = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	date             TEXT NOT NULL,
	description      TEXT NOT NULL,
	raw_description  TEXT NOT NULL,
	amount_cents     INTEGER NOT NULL,
	currency         TEXT NOT NULL,
	category         TEXT NOT NULL DEFAULT '',
	merchant_name    TEXT NOT NULL DEFAULT '',
	is_recurring     INTEGER NOT NULL DEFAULT 0,
	created_at       TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Exact-field duplicate detection: re-importing the same statement must not
-- create copies.
CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_dedup
	ON transactions(user_id, date, amount_cents, raw_description);

CREATE INDEX IF NOT EXISTS idx_transactions_user_date
	ON transactions(user_id, date);

CREATE TABLE IF NOT EXISTS subscriptions (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	merchant_name     TEXT NOT NULL,
	amount_cents      INTEGER NOT NULL,
	frequency         TEXT NOT NULL,
	confidence        INTEGER NOT NULL,
	next_charge_date  TEXT,
	last_charge_date  TEXT NOT NULL,
	first_charge_date TEXT NOT NULL,
	category          TEXT NOT NULL DEFAULT '',
	transaction_ids   TEXT NOT NULL DEFAULT '',
	created_at        TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at        TEXT NOT NULL DEFAULT (datetime('now')),
	UNIQUE(user_id, merchant_name)
);
`

// Store wraps the SQLite database.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (or creates) the database at path and ensures the schema
// exists. Use ":memory:" for an ephemeral database in tests.
func Open(path string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: SQLite serializes writers anyway, and a pool would
	// give ":memory:" databases a fresh schema per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.WithField(logging.FieldFile, path).Debug("Opened database")
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
