// Package journal records which inbound messages have already been
// processed so replays and duplicate webhook deliveries are dropped.
package journal

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Journal is a SQLite-backed dedup log keyed by (user, message hash).
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at the given path and
// ensures the schema exists. Pass ":memory:" for an in-memory journal.
func Open(dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Journal{db: db}, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS processed_messages (
			user_id TEXT NOT NULL,
			message_hash TEXT NOT NULL,
			job_id TEXT NOT NULL,
			processed_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, message_hash)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_processed_messages_job ON processed_messages(job_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}

// Hash returns the dedup key for a message body.
func Hash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// Seen reports whether a message with this hash was already processed
// for the user.
func (j *Journal) Seen(ctx context.Context, userID, hash string) (bool, error) {
	var one int
	err := j.db.QueryRowContext(ctx,
		"SELECT 1 FROM processed_messages WHERE user_id = ? AND message_hash = ?",
		userID, hash,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query journal: %w", err)
	}
	return true, nil
}

// MarkProcessed records the message hash for the user. Marking the same
// hash twice is not an error.
func (j *Journal) MarkProcessed(ctx context.Context, userID, hash, jobID string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_messages
		(user_id, message_hash, job_id, processed_at)
		VALUES (?,?,?,?)`,
		userID, hash, jobID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

// Count returns the number of journal entries for the user.
func (j *Journal) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := j.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM processed_messages WHERE user_id = ?", userID,
	).Scan(&count)
	return count, err
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
