package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/models"
)

// Store is the slice of persistence the generator needs.
type Store interface {
	GetInvoiceSettings() (models.InvoiceSettings, error)
	NextInvoiceNumber() (int64, error)
	RecordInvoice(inv models.Invoice) (int64, error)
}

// Request describes one invoice to produce.
type Request struct {
	Entries []models.Entry
	Rates   map[string]Rate
	Period  Period
	Client  *models.Client
}

// Result is what Generate produced.
type Result struct {
	Invoice models.Invoice
	Summary Summary
}

type Generator struct {
	store    Store
	renderer Renderer
	dir      string
	now      func() time.Time
}

type Option func(*Generator)

// WithClock overrides time.Now for the issue date.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator writes invoices into dir with r. A nil renderer means PDF.
func NewGenerator(store Store, r Renderer, dir string, opts ...Option) *Generator {
	if r == nil {
		r = PDFRenderer{}
	}
	g := &Generator{store: store, renderer: r, dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Dir is where invoices are written.
func (g *Generator) Dir() string { return g.dir }

// Generate numbers, renders and records an invoice. The record is only
// written once the document exists on disk.
func (g *Generator) Generate(req Request) (Result, error) {
	settings, err := g.store.GetInvoiceSettings()
	if err != nil {
		logger.Warn("Failed to load invoice settings, using defaults", "error", err)
		settings = models.DefaultInvoiceSettings()
	}

	number, err := g.store.NextInvoiceNumber()
	if err != nil {
		return Result{}, fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	issued := g.now().UTC()
	summary := Aggregate(Params{
		Entries:  req.Entries,
		Rates:    req.Rates,
		TaxRate:  settings.DefaultTaxRate,
		Number:   number,
		Period:   req.Period,
		IssuedOn: issued,
		Terms:    settings.PaymentTerms,
		Settings: settings,
		Client:   req.Client,
	})

	if err := os.MkdirAll(g.dir, 0755); err != nil {
		return Result{}, fmt.Errorf("failed to create invoice directory: %w", err)
	}
	path := filepath.Join(g.dir, FileName(number, g.renderer.Ext()))
	if err := g.renderer.Render(summary, path); err != nil {
		return Result{}, err
	}

	inv := models.Invoice{
		Number:    number,
		IssuedOn:  summary.IssuedOn,
		DueOn:     summary.DueOn,
		Subtotal:  summary.Subtotal,
		TaxRate:   summary.TaxRate,
		TaxAmount: summary.TaxAmount,
		Total:     summary.Total,
		FilePath:  path,
	}
	if req.Client != nil {
		id := req.Client.ID
		inv.ClientID = &id
	}
	if id, err := g.store.RecordInvoice(inv); err != nil {
		logger.Warn("Invoice written but not recorded", "path", path, "error", err)
	} else {
		inv.ID = id
	}

	logger.Info("Invoice generated", "number", number, "path", path, "total", summary.Total.StringFixed(2))
	return Result{Invoice: inv, Summary: summary}, nil
}
