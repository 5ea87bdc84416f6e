package prefstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/lib/pq"
)

// Dialect selects the driver and placeholder style.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) driver() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// SQL stores preferences in a two-column table.
type SQL struct {
	db      *sql.DB
	dialect Dialect
	get     string
	set     string
}

// OpenSQL opens the database and creates the preferences table if needed.
func OpenSQL(ctx context.Context, d Dialect, dsn string) (*SQL, error) {
	db, err := sql.Open(d.driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver(), err)
	}
	s, err := NewSQL(ctx, db, d)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQL wraps an existing handle.
func NewSQL(ctx context.Context, db *sql.DB, d Dialect) (*SQL, error) {
	s := &SQL{db: db, dialect: d}
	ddl := `CREATE TABLE IF NOT EXISTS preferences (
		pref_key TEXT PRIMARY KEY,
		pref_value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create preferences table: %w", err)
	}
	switch d {
	case DialectPostgres:
		s.get = `SELECT pref_value FROM preferences WHERE pref_key = $1`
		s.set = `INSERT INTO preferences (pref_key, pref_value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
			ON CONFLICT (pref_key) DO UPDATE SET pref_value = EXCLUDED.pref_value, updated_at = CURRENT_TIMESTAMP`
	default:
		s.get = `SELECT pref_value FROM preferences WHERE pref_key = ?`
		s.set = `INSERT INTO preferences (pref_key, pref_value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (pref_key) DO UPDATE SET pref_value = excluded.pref_value, updated_at = CURRENT_TIMESTAMP`
	}
	return s, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.set, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Close() error { return s.db.Close() }
