// Package sqlstore implements the meter persistence operations over
// database/sql for both supported dialects.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/meter/internal/constants"
)

// Dialect selects placeholder syntax.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotInitialized is returned by Load when the database has never been created.
	ErrNotInitialized = errors.New("storage not initialized, run 'meter init' first")
	// ErrTimerRunning is returned when starting a timer while another is active.
	ErrTimerRunning = errors.New("a timer is already running")
)

type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	return s.db.Exec(s.rebind(query), args...)
}

func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(s.rebind(query), args...)
}

func (s *Store) queryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRow(s.rebind(query), args...)
}

// insert runs an INSERT ... RETURNING id statement.
func (s *Store) insert(query string, args ...any) (int64, error) {
	var id int64
	if err := s.queryRow(query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// affected executes a statement and reports whether any row changed.
func (s *Store) affected(query string, args ...any) (bool, error) {
	res, err := s.exec(query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// EnsureDefaults seeds the singleton settings rows.
func (s *Store) EnsureDefaults() error {
	if _, err := s.exec("INSERT INTO invoice_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING"); err != nil {
		return fmt.Errorf("failed to seed invoice settings: %w", err)
	}
	if _, err := s.exec("INSERT INTO pomodoro_config (id) VALUES (1) ON CONFLICT (id) DO NOTHING"); err != nil {
		return fmt.Errorf("failed to seed pomodoro config: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(constants.StorageTimeFormat)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(constants.StorageTimeFormat, s)
	if err != nil {
		// rows written by other tools may carry offsets or fractions
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
	}
	return t.UTC(), nil
}

func formatDate(t time.Time) string {
	return t.UTC().Format(constants.DateFormat)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(constants.DateFormat, s)
}

type scanner interface {
	Scan(dest ...any) error
}
