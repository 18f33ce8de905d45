package postgres

import (
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/migration"
	"github.com/julianstephens/meter/internal/storage/sqlstore"
	"github.com/julianstephens/meter/migrations"
)

// Store keeps meter's tables in a dedicated "meter" schema so a shared
// database stays tidy.
type Store struct {
	*sqlstore.Store
	connStr string
	db      *sql.DB
}

// New does not connect. The search_path defaults to the meter schema.
func New(connStr string) *Store {
	withPath, err := withDefaultParam(connStr, "search_path", constants.AppName)
	if err != nil {
		logger.Warn("Could not set search_path on connection string", "error", err)
		withPath = connStr
	}
	return &Store{connStr: withPath}
}

func (s *Store) connect() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled") && !hasParam(s.connStr, "sslmode") {
			return fmt.Errorf("failed to connect to database: %w (hint: add sslmode=disable to the connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	s.Store = sqlstore.New(db, sqlstore.Postgres)
	return nil
}

// Init creates the schema, applies every migration and seeds default
// settings. Running it against an initialized database is harmless.
func (s *Store) Init() error {
	if s.db == nil {
		if err := s.connect(); err != nil {
			return err
		}
	}
	if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.Migrate(nil); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return s.EnsureDefaults()
}

// Load connects and refuses a database whose schema is newer than this build.
func (s *Store) Load() error {
	if s.db != nil {
		return nil
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
	sub, err := fs.Sub(migrations.FS, string(migration.DriverPostgres))
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, sub, migration.DriverPostgres), nil
}

// Migrate applies pending migrations, reporting progress through logFn.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(logFn)
}

// GetConfigPath names the backend only. The connection string is never shown.
func (s *Store) GetConfigPath() string { return "postgresql" }

func (s *Store) GetDB() *sql.DB { return s.db }

func (s *Store) Driver() migration.Driver { return migration.DriverPostgres }
