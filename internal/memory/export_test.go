package memory

import (
	"context"
	"database/sql"
	"time"
)

// DB exposes the internal *sql.DB for test helpers in memory_test.
// This file only compiles during `go test`.
func (s *Store) DB() *sql.DB {
	return s.db
}

// FailExec makes every subsequent write return err.
func (s *Store) FailExec(err error) {
	s.hooks.exec = func(context.Context, execer, string, ...any) (sql.Result, error) {
		return nil, err
	}
}

// FailQuery makes every subsequent read return err.
func (s *Store) FailQuery(err error) {
	s.hooks.queryIt = func(context.Context, queryer, string, ...any) (rowScanner, error) {
		return nil, err
	}
}

// SetClock replaces the record clock and returns a restore func.
func SetClock(now func() time.Time) func() {
	orig := timeNow
	timeNow = now
	return func() { timeNow = orig }
}

// SetOpenDB replaces the database opener and returns a restore func.
func SetOpenDB(fn func(driver, dsn string) (*sql.DB, error)) func() {
	orig := openDB
	openDB = fn
	return func() { openDB = orig }
}
