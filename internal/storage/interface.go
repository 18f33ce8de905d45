package storage

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/migration"
	"github.com/julianstephens/meter/internal/models"
	"github.com/julianstephens/meter/internal/storage/sqlstore"
)

var (
	ErrNotFound       = sqlstore.ErrNotFound
	ErrNotInitialized = sqlstore.ErrNotInitialized
	ErrTimerRunning   = sqlstore.ErrTimerRunning
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Migrate(logFn func(string)) (int, error)

	// Entries
	AddEntry(models.Entry) (models.Entry, error)
	StartTimer(project, description string, at time.Time) (models.Entry, error)
	// StopActiveTimer closes the running entry at the given instant. It
	// returns nil without error when no timer is running.
	StopActiveTimer(at time.Time) (*models.Entry, error)
	GetActiveEntry() (*models.Entry, error)
	GetEntry(id int64) (models.Entry, error)
	ListEntries(billed *bool) ([]models.Entry, error)
	// ListEntriesInRange returns completed entries whose end falls within
	// [start, end] inclusive.
	ListEntriesInRange(start, end time.Time, billed *bool) ([]models.Entry, error)
	UpdateEntry(models.Entry) (bool, error)
	DeleteEntry(id int64) (bool, error)
	MarkBilled(id int64) (bool, error)
	UnmarkBilled(id int64) (bool, error)
	MarkAllBilled() (int64, error)
	UnmarkAllBilled() (int64, error)
	CountActiveEntries() (int, error)

	// Projects
	GetOrCreateProject(name string) (models.Project, error)
	GetProject(name string) (models.Project, error)
	SetProjectRate(name string, rate *decimal.Decimal, currency string) error
	ListProjects() ([]models.Project, error)

	// Clients
	ListClients() ([]models.Client, error)
	GetClient(id int64) (models.Client, error)
	AddClient(models.Client) (int64, error)
	UpdateClient(models.Client) (bool, error)
	DeleteClient(id int64) (bool, error)

	// Settings
	GetInvoiceSettings() (models.InvoiceSettings, error)
	SaveInvoiceSettings(models.InvoiceSettings) error
	GetPomodoroConfig() (models.PomodoroConfig, error)
	SavePomodoroConfig(models.PomodoroConfig) error

	// Invoices
	NextInvoiceNumber() (int64, error)
	RecordInvoice(models.Invoice) (int64, error)
	ListInvoices() ([]models.Invoice, error)

	// Utils
	GetConfigPath() string
	GetDB() *sql.DB
	Driver() migration.Driver
}
