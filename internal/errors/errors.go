package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/meter/internal/keyring"
	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/migration"
	"github.com/julianstephens/meter/internal/storage/postgres"
	"github.com/julianstephens/meter/internal/storage/sqlstore"
)

// Format renders err with the "Error: " prefix, or "" for nil.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint suggests a next step for errors users can fix themselves.
func Hint(err error) string {
	switch {
	case errors.Is(err, sqlstore.ErrNotInitialized):
		return "run 'meter init' to create the database"
	case errors.Is(err, postgres.ErrEmbeddedCredentials):
		return "remove the password and use ~/.pgpass or PGPASSWORD instead"
	case errors.Is(err, keyring.ErrNotFound):
		return "store a connection string with 'meter keyring set'"
	case errors.Is(err, migration.ErrSchemaTooNew):
		return "install the latest meter release, or restore an older backup with 'meter backup restore'"
	case errors.Is(err, sqlstore.ErrTimerRunning):
		return "stop the running timer with 'meter stop' first"
	}
	return ""
}

// Fatal logs err, prints it with any hint to stderr and exits 1. Nil is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(1)
}

func Fatalf(format string, args ...interface{}) {
	logger.Error("Command execution failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
