// Package migration versions the database schema. Migrations are embedded
// NNN_name.sql files applied in order, and a single-row schema_version
// table records the last one applied.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Driver names the SQL dialect the runner talks to.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ErrSchemaTooNew means the database was migrated by a newer meter.
var ErrSchemaTooNew = errors.New("database schema is newer than this version of meter supports")

type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Parse reads the top-level .sql files of fsys, sorted by version.
// Other files and subdirectories are ignored.
func Parse(fsys fs.FS) ([]Migration, error) {
	dir, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, f := range dir {
		if f.IsDir() || path.Ext(f.Name()) != ".sql" {
			continue
		}
		m, err := parseName(f.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(fsys, f.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", f.Name(), err)
		}
		m.SQL = string(body)
		out = append(out, m)
	}

	slices.SortFunc(out, func(a, b Migration) int { return a.Version - b.Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

// parseName splits "002_add_clients.sql" into version 2 and name "add_clients".
func parseName(file string) (Migration, error) {
	num, name, ok := strings.Cut(strings.TrimSuffix(file, ".sql"), "_")
	if !ok {
		return Migration{}, fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", file)
	}
	v, err := strconv.Atoi(num)
	if err != nil {
		return Migration{}, fmt.Errorf("invalid version number in filename %s: %w", file, err)
	}
	if v < 1 {
		return Migration{}, fmt.Errorf("invalid version number in filename %s: must be at least 1", file)
	}
	return Migration{Version: v, Name: name}, nil
}

type Runner struct {
	db     *sql.DB
	fs     fs.FS
	driver Driver
}

func NewRunner(db *sql.DB, migrationFS fs.FS, driver Driver) *Runner {
	return &Runner{db: db, fs: migrationFS, driver: driver}
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (r *Runner) recordVersion(x execer, version int) error {
	insert := "INSERT INTO schema_version (version) VALUES (?)"
	if r.driver == DriverPostgres {
		insert = "INSERT INTO schema_version (version) VALUES ($1)"
	}
	if _, err := x.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	if _, err := x.Exec(insert, version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

func (r *Runner) ensureVersionTable() error {
	_, err := r.db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)")
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// GetCurrentVersion returns the recorded version, 0 for a fresh database.
func (r *Runner) GetCurrentVersion() (int, error) {
	if err := r.ensureVersionTable(); err != nil {
		return 0, err
	}
	var v int
	switch err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&v); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// SetVersion overwrites the recorded version without running anything.
func (r *Runner) SetVersion(version int) error {
	if err := r.ensureVersionTable(); err != nil {
		return err
	}
	return r.recordVersion(r.db, version)
}

// ReadMigrationFiles parses the runner's migration directory.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	return Parse(r.fs)
}

// GetLatestVersion is the highest version on disk, 0 when there are none.
func (r *Runner) GetLatestVersion() (int, error) {
	all, err := r.ReadMigrationFiles()
	if err != nil || len(all) == 0 {
		return 0, err
	}
	return all[len(all)-1].Version, nil
}

// ApplyMigrations runs every migration above the recorded version, each in
// its own transaction, and returns how many succeeded. A failure leaves
// the database at the last good version.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	logf := func(format string, args ...any) {
		if logFn != nil {
			logFn(fmt.Sprintf(format, args...))
		}
	}

	current, err := r.GetCurrentVersion()
	if err != nil {
		return 0, err
	}
	all, err := r.ReadMigrationFiles()
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		logf("No migration files found")
		return 0, nil
	}
	latest := all[len(all)-1].Version
	if current > latest {
		return 0, tooNew(current, latest)
	}

	idx := slices.IndexFunc(all, func(m Migration) bool { return m.Version > current })
	if idx < 0 {
		logf("Database schema is up to date (version %d)", current)
		return 0, nil
	}
	pending := all[idx:]

	logf("Migrating schema from version %d to %d (%d pending)", current, latest, len(pending))
	began := time.Now()
	for i, m := range pending {
		logf("  %03d %s", m.Version, m.Name)
		if err := r.apply(m); err != nil {
			return i, err
		}
	}
	logf("Applied %d migration(s) in %v", len(pending), time.Since(began).Round(time.Millisecond))
	return len(pending), nil
}

func (r *Runner) apply(m Migration) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("migration %d: failed to begin transaction: %w", m.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
	}
	if err = r.recordVersion(tx, m.Version); err != nil {
		return fmt.Errorf("migration %d: %w", m.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migration %d: failed to commit: %w", m.Version, err)
	}
	return nil
}

// ValidateVersion fails with ErrSchemaTooNew when the database is ahead of
// the embedded migrations. An older database is fine; Init or the migrate
// command brings it forward.
func (r *Runner) ValidateVersion() error {
	current, err := r.GetCurrentVersion()
	if err != nil {
		return err
	}
	latest, err := r.GetLatestVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return tooNew(current, latest)
	}
	return nil
}

func tooNew(current, latest int) error {
	return fmt.Errorf("%w (database is at version %d, latest known is %d); upgrade meter", ErrSchemaTooNew, current, latest)
}
