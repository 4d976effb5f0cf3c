// Package database implements the SQLite persistence layer. The store is
// a single file; all cross-row coordination happens through database
// transactions.
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps the sqlx connection pool for the pick'em store
type DB struct {
	conn *sqlx.DB
	path string
}

// New opens (creating if necessary) the SQLite database at path and
// bootstraps the schema. Use ":memory:" for tests.
func New(path string) (*DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	conn, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory SQLite database is per-connection; the pool must not
	// hand out a second connection or it would see an empty schema.
	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the filesystem path of the store file
func (db *DB) Path() string {
	return db.path
}

// Checkpoint flushes the WAL into the main store file so a plain file
// copy sees every committed write.
func (db *DB) Checkpoint(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}
	return nil
}

// WithTx runs fn inside a transaction, rolling back on error
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	is_admin      INTEGER NOT NULL DEFAULT 0,
	first_login   INTEGER NOT NULL DEFAULT 1,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS games (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	espn_id          TEXT NOT NULL UNIQUE,
	week             INTEGER NOT NULL,
	season           INTEGER NOT NULL,
	home_team        TEXT NOT NULL,
	away_team        TEXT NOT NULL,
	start_time       DATETIME NOT NULL,
	is_mnf           INTEGER NOT NULL DEFAULT 0,
	status           TEXT NOT NULL DEFAULT 'scheduled',
	final_score_home INTEGER,
	final_score_away INTEGER,
	winner           TEXT
);
CREATE INDEX IF NOT EXISTS idx_games_season_week ON games(season, week);

CREATE TABLE IF NOT EXISTS picks (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id          INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	game_id          INTEGER NOT NULL REFERENCES games(id),
	picked_team      TEXT NOT NULL,
	week             INTEGER NOT NULL,
	mnf_total_points INTEGER,
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_picks_user_week ON picks(user_id, week);
CREATE INDEX IF NOT EXISTS idx_picks_game ON picks(game_id);
`

func (db *DB) migrate() error {
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}
