package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"quiz-studio/internal/quiz"
)

var _ quiz.Store = (*SQLiteStore)(nil)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path, creating and seeding it when
// it does not exist yet. The caller owns the returned store and must Close it.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "quiz.db"
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, err
	}

	// One connection serializes writers and keeps per-connection pragmas
	// (foreign keys) in force for every statement.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// WithStore opens the store, runs fn and always closes the store afterward.
func WithStore(ctx context.Context, path string, fn func(*SQLiteStore) error) (err error) {
	store, err := NewSQLiteStore(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); err == nil {
			err = closeErr
		}
	}()
	return fn(store)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// IsForeignKeyViolation reports whether err comes from a write that named a
// missing parent row.
func IsForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

func dsn(path string) string {
	params := "_foreign_keys=on&_busy_timeout=5000"
	if path == ":memory:" {
		return "file::memory:?" + params
	}
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return "file:" + path + "?" + params
}
