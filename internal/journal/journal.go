// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package journal records the outcome of every send attempt in a local
// SQLite database.
//
// The journal is an audit trail, not a cache: the server remains the only
// source of truth for conversation content, and nothing is ever replayed
// from here. It answers "what happened to my message" after a rollback, and
// feeds the `prana journal` command.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// OUTCOMES
// =============================================================================

const (
	// OutcomeConfirmed marks an exchange the server accepted.
	OutcomeConfirmed = "confirmed"
	// OutcomeFailed marks a send that errored and was rolled back.
	OutcomeFailed = "failed"
	// OutcomeDiscarded marks a result that landed after the user navigated
	// away and was dropped unapplied.
	OutcomeDiscarded = "discarded"
)

// ErrClosed is returned when the journal has been closed.
var ErrClosed = errors.New("journal is closed")

// =============================================================================
// ENTRY
// =============================================================================

// Entry is one recorded send attempt.
type Entry struct {
	ID             int64
	CreatedAt      time.Time
	ConversationID string
	TransientID    string
	Preview        string
	Outcome        string
	Detail         string
	DurationMs     int64
}

// =============================================================================
// JOURNAL
// =============================================================================

// Journal is a local send-attempt log backed by SQLite.
type Journal struct {
	db *sql.DB
}

// DefaultPath returns the journal location inside the config directory.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "journal.db")
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// SQLite supports one writer; keep the pool at a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	j := &Journal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sends (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at      INTEGER NOT NULL,
		conversation_id TEXT NOT NULL DEFAULT '',
		transient_id    TEXT NOT NULL,
		preview         TEXT NOT NULL,
		outcome         TEXT NOT NULL,
		detail          TEXT NOT NULL DEFAULT '',
		duration_ms     INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_sends_created_at ON sends(created_at DESC);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// Record appends one send outcome. CreatedAt defaults to now when zero.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if j.db == nil {
		return ErrClosed
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO sends (created_at, conversation_id, transient_id, preview, outcome, detail, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		createdAt.UnixMilli(), e.ConversationID, e.TransientID, e.Preview, e.Outcome, e.Detail, e.DurationMs)
	if err != nil {
		return fmt.Errorf("failed to record send: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, created_at, conversation_id, transient_id, preview, outcome, detail, duration_ms
		 FROM sends ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt int64
		if err := rows.Scan(&e.ID, &createdAt, &e.ConversationID, &e.TransientID,
			&e.Preview, &e.Outcome, &e.Detail, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByOutcome returns entry counts grouped by outcome.
func (j *Journal) CountByOutcome(ctx context.Context) (map[string]int, error) {
	if j.db == nil {
		return nil, ErrClosed
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT outcome, COUNT(*) FROM sends GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to count journal entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}

// Prune deletes all but the newest keep entries.
func (j *Journal) Prune(ctx context.Context, keep int) error {
	if j.db == nil {
		return ErrClosed
	}
	if keep < 0 {
		keep = 0
	}

	_, err := j.db.ExecContext(ctx,
		`DELETE FROM sends WHERE id NOT IN
		 (SELECT id FROM sends ORDER BY created_at DESC, id DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune journal: %w", err)
	}
	return nil
}
