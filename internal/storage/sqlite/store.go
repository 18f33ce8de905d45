package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/meter/internal/migration"
	"github.com/julianstephens/meter/internal/storage/sqlstore"
	"github.com/julianstephens/meter/migrations"
)

// pragmas turn on foreign keys and make writers wait up to five seconds
// for a lock held by another meter process (the tray and the CLI share
// one file).
const pragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Store keeps everything in a single SQLite file.
type Store struct {
	*sqlstore.Store
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) connect() error {
	db, err := sql.Open("sqlite", s.path+pragmas)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", s.path, err)
	}
	s.db = db
	s.Store = sqlstore.New(db, sqlstore.SQLite)
	return nil
}

// Init creates the file and its directory if needed, migrates to the latest
// schema and seeds default settings.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	if s.db == nil {
		if err := s.connect(); err != nil {
			return err
		}
	}
	if _, err := s.Migrate(nil); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return s.EnsureDefaults()
}

// Load opens an existing database. A missing file is ErrNotInitialized so
// callers can fall back to Init.
func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return sqlstore.ErrNotInitialized
	}
	if err := s.connect(); err != nil {
		return err
	}
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) runner() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, string(migration.DriverSQLite))
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, sub, migration.DriverSQLite), nil
}

// Migrate applies pending migrations, reporting progress through logFn.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(logFn)
}

func (s *Store) GetConfigPath() string { return s.path }

// GetDB is nil until Init or Load succeeds.
func (s *Store) GetDB() *sql.DB { return s.db }

func (s *Store) Driver() migration.Driver { return migration.DriverSQLite }
