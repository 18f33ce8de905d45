package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/meter/internal/backup"
	"github.com/julianstephens/meter/internal/config"
	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/invoice"
	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/migration"
	"github.com/julianstephens/meter/internal/storage"
)

type Context struct {
	Store  storage.Provider
	Config *config.Config

	// Out receives command output; nil means color.Output.
	Out io.Writer
	// Now and Loc override the wall clock and local zone in tests.
	Now func() time.Time
	Loc *time.Location
	// Confirmer answers destructive prompts; nil asks on the terminal.
	Confirmer Confirmer
}

var (
	bold    = color.New(color.Bold)
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
)

func (c *Context) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return color.Output
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// PrintTable writes a table built with NewTable.
func (c *Context) PrintTable(tbl *uitable.Table) {
	fmt.Fprintln(c.out(), tbl)
}

func (c *Context) Clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) Location() *time.Location {
	if c.Loc != nil {
		return c.Loc
	}
	return time.Local
}

// PerformAutomaticBackup snapshots a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if c.Store.Driver() != migration.DriverSQLite {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// InvoiceDir is where generated invoices go.
func (c *Context) InvoiceDir() string {
	if c.Config != nil && c.Config.InvoiceDir != "" {
		return c.Config.InvoiceDir
	}
	return constants.DefaultInvoiceDir
}

// Generator builds an invoice generator for format, falling back to the
// configured format when format is empty.
func (c *Context) Generator(format string) (*invoice.Generator, error) {
	if format == "" && c.Config != nil {
		format = c.Config.InvoiceFormat
	}
	r, err := Renderer(format)
	if err != nil {
		return nil, err
	}
	var opts []invoice.Option
	if c.Now != nil {
		opts = append(opts, invoice.WithClock(c.Now))
	}
	return invoice.NewGenerator(c.Store, r, c.InvoiceDir(), opts...), nil
}

// Renderer maps a format name to its renderer. Empty means PDF.
func Renderer(format string) (invoice.Renderer, error) {
	switch strings.ToLower(format) {
	case "", constants.InvoiceFormatPDF:
		return invoice.PDFRenderer{}, nil
	case constants.InvoiceFormatText, "txt":
		return invoice.TextRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown invoice format %q (want %q or %q)", format, constants.InvoiceFormatPDF, constants.InvoiceFormatText)
	}
}

// NewTable returns a table with a bold header row.
func NewTable(header ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.Wrap = true
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = bold.Sprint(h)
	}
	tbl.AddRow(cells...)
	return tbl
}

// BilledLabel renders the billed column.
func BilledLabel(billed bool) string {
	if billed {
		return success.Sprint("billed")
	}
	return warning.Sprint("pending")
}

func Success(s string) string { return success.Sprint(s) }
func Warning(s string) string { return warning.Sprint(s) }
func Failure(s string) string { return failure.Sprint(s) }
