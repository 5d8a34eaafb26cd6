package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cofrinho/internal/core"

	_ "modernc.org/sqlite"
)

// Store keeps the ledger in a private in-memory SQLite database. Nothing
// is written to disk; the ledger disappears with the process.
type Store struct {
	db *sql.DB
}

func New() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Append implements ledger.Store.
func (s *Store) Append(ctx context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, description, amount, kind, category, owner, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Description, e.Amount, string(e.Kind), string(e.Category), string(e.Owner),
		e.OccurredAt.Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("insert entry %s: %w", e.ID, core.ErrDuplicateID)
		}
		return fmt.Errorf("insert entry %s: %w", e.ID, err)
	}

	slog.DebugContext(ctx, "Entry saved to SQLite",
		"id", e.ID,
		"amount", e.Amount,
		"kind", e.Kind,
		"month", e.Month())
	return nil
}

// Remove implements ledger.Store.
func (s *Store) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	return nil
}

// All implements ledger.Store.
func (s *Store) All(ctx context.Context) ([]core.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount, kind, category, owner, occurred_at
		 FROM entries ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		var (
			e                     core.Entry
			kind, category, owner string
			occurredAt            string
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &kind, &category, &owner, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse occurred_at of %s: %w", e.ID, err)
		}
		e.Kind, e.Category, e.Owner, e.OccurredAt = core.Kind(kind), core.Category(category), core.Owner(owner), t
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}
