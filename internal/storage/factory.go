package storage

import (
	"errors"
	"strings"

	"github.com/julianstephens/meter/internal/storage/postgres"
	"github.com/julianstephens/meter/internal/storage/sqlite"
)

// IsPostgres reports whether target looks like a PostgreSQL URI or DSN
// rather than a SQLite file path.
func IsPostgres(target string) bool {
	if strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://") {
		return true
	}
	return strings.Contains(target, "host=") || strings.Contains(target, "dbname=")
}

// New returns the provider for target without opening it. PostgreSQL
// targets must not embed a password.
func New(target string) (Provider, error) {
	return newProvider(target, false)
}

// NewTrusted is New for a connection string read from the OS keyring, where
// an embedded password is acceptable.
func NewTrusted(target string) (Provider, error) {
	return newProvider(target, true)
}

func newProvider(target string, allowCredentials bool) (Provider, error) {
	if IsPostgres(target) {
		if _, err := postgres.ValidateConnString(target); err != nil {
			if !allowCredentials || !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
		}
		return postgres.New(target), nil
	}
	return sqlite.NewStore(target), nil
}

// Open loads the provider, creating a fresh SQLite database on first use.
func Open(target string) (Provider, error) {
	store, err := New(target)
	if err != nil {
		return nil, err
	}
	if err := Ready(store); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// Ready loads store, initializing the schema when the database does not
// exist yet.
func Ready(store Provider) error {
	err := store.Load()
	if errors.Is(err, ErrNotInitialized) {
		err = store.Init()
	}
	return err
}
