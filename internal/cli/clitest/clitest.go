// Package clitest builds command contexts over a throwaway SQLite store.
package clitest

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/config"
	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/storage/sqlite"
)

// Now is the fixed clock every test context uses.
var Now = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

// Setup returns a context backed by a fresh database plus its captured output.
// Prompts are answered with answer.
func Setup(t *testing.T, answer bool) (*cli.Context, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "meter.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store: store,
		Config: &config.Config{
			Dir:           dir,
			Database:      store.GetConfigPath(),
			InvoiceDir:    filepath.Join(dir, "invoices"),
			InvoiceFormat: constants.InvoiceFormatText,
			TickInterval:  constants.DefaultTickInterval,
		},
		Out:       out,
		Now:       func() time.Time { return Now },
		Loc:       time.UTC,
		Confirmer: func(string, string) (bool, error) { return answer, nil },
	}
	return ctx, out
}
