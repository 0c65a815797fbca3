// Package memory implements the persistent memory bank: short free-text
// facts stored per user in SQLite.
//
// The reasoning tools consume it through the reasoning.MemoryStore
// interface; nothing here knows about entities or contexts.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is the clock used for record timestamps.
var timeNow = time.Now

// timeLayout is fixed-width UTC so lexical order in SQLite equals time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DBFileName is the database file created inside the data directory.
const DBFileName = "memory.db"

// ─── Types ───────────────────────────────────────────────────────────────────

// Record is one stored memory.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Config holds memory store configuration.
type Config struct {
	DataDir string
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the SQLite-backed memory bank.
type Store struct {
	db    *sql.DB
	hooks storeHooks
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type sqlRowScanner struct {
	rows *sql.Rows
}

func (r sqlRowScanner) Next() bool             { return r.rows.Next() }
func (r sqlRowScanner) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRowScanner) Err() error             { return r.rows.Err() }
func (r sqlRowScanner) Close() error           { return r.rows.Close() }

// storeHooks let tests inject failures below the public API.
type storeHooks struct {
	exec    func(ctx context.Context, db execer, query string, args ...any) (sql.Result, error)
	queryIt func(ctx context.Context, db queryer, query string, args ...any) (rowScanner, error)
}

func (s *Store) execHook(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(ctx, s.db, query, args...)
	}
	return s.db.ExecContext(ctx, query, args...)
}

func (s *Store) queryItHook(ctx context.Context, query string, args ...any) (rowScanner, error) {
	if s.hooks.queryIt != nil {
		return s.hooks.queryIt(ctx, s.db, query, args...)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRowScanner{rows: rows}, nil
}

// New creates a Store in cfg.DataDir. It creates the directory if needed,
// opens SQLite in WAL mode, and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("memory: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, DBFileName)
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("memory: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("memory: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("memory: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS memories (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_memories_user_created
			ON memories(user_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Operations ──────────────────────────────────────────────────────────────

// FetchAllForUser returns every memory of userID, oldest first.
func (s *Store) FetchAllForUser(ctx context.Context, userID string) ([]Record, error) {
	return s.queryRecords(ctx,
		`SELECT id, user_id, content, created_at, updated_at
		 FROM memories
		 WHERE user_id = ?
		 ORDER BY created_at ASC, rowid ASC`,
		userID,
	)
}

// Insert stores a new memory for userID under a fresh UUID.
func (s *Store) Insert(ctx context.Context, userID, content string) (*Record, error) {
	now := timeNow().UTC()
	rec := &Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.execHook(ctx,
		`INSERT INTO memories (id, user_id, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Content, formatTime(now), formatTime(now),
	); err != nil {
		return nil, fmt.Errorf("memory: insert: %w", err)
	}
	return rec, nil
}

// UpdateByID replaces the content of memory id. It returns (nil, nil) when
// no memory has that id.
func (s *Store) UpdateByID(ctx context.Context, id, content string) (*Record, error) {
	res, err := s.execHook(ctx,
		`UPDATE memories SET content = ?, updated_at = ? WHERE id = ?`,
		content, formatTime(timeNow().UTC()), id,
	)
	if err != nil {
		return nil, fmt.Errorf("memory: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("memory: update: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.Get(ctx, id)
}

// DeleteByID removes memory id and reports whether it existed.
func (s *Store) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := s.execHook(ctx, `DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("memory: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("memory: delete: %w", err)
	}
	return n > 0, nil
}

// Get returns memory id, or (nil, nil) when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	recs, err := s.queryRecords(ctx,
		`SELECT id, user_id, content, created_at, updated_at
		 FROM memories WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.queryItHook(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("memory: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Record
	for rows.Next() {
		var (
			r                  Record
			created, updated string
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.Content, &created, &updated); err != nil {
			return nil, fmt.Errorf("memory: scan: %w", err)
		}
		if r.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if r.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("memory: bad timestamp %q: %w", s, err)
	}
	return t, nil
}
