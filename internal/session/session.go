// Package session is the interactive application model shared by the TUI
// and the tray. All state changes go through Update.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/invoice"
	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/models"
	"github.com/julianstephens/meter/internal/notifier"
	"github.com/julianstephens/meter/internal/pomodoro"
)

type Screen int

const (
	ScreenTimer Screen = iota
	ScreenEntries
	ScreenInvoice
	ScreenProjects
	ScreenPomodoro
	ScreenClients
	ScreenSettings
)

var Screens = []Screen{ScreenTimer, ScreenEntries, ScreenInvoice, ScreenProjects, ScreenPomodoro, ScreenClients, ScreenSettings}

func (s Screen) String() string {
	return [...]string{"Timer", "Entries", "Invoice", "Projects", "Pomodoro", "Clients", "Settings"}[s]
}

type InvoiceMode int

const (
	InvoiceCurrentMonth InvoiceMode = iota
	InvoicePriorMonth
	InvoiceCustomRange
	InvoiceSelectEntries
	invoiceModeCount
)

func (m InvoiceMode) String() string {
	return [...]string{"Current Month", "Prior Month", "Custom Range", "Select Entries"}[m]
}

// Store is the persistence the session needs. storage.Provider satisfies it.
type Store interface {
	invoice.Store

	StartTimer(project, description string, at time.Time) (models.Entry, error)
	StopActiveTimer(at time.Time) (*models.Entry, error)
	GetActiveEntry() (*models.Entry, error)
	GetEntry(id int64) (models.Entry, error)
	ListEntries(billed *bool) ([]models.Entry, error)
	ListEntriesInRange(start, end time.Time, billed *bool) ([]models.Entry, error)
	UpdateEntry(models.Entry) (bool, error)
	DeleteEntry(id int64) (bool, error)
	MarkBilled(id int64) (bool, error)
	UnmarkBilled(id int64) (bool, error)

	ListProjects() ([]models.Project, error)
	SetProjectRate(name string, rate *decimal.Decimal, currency string) error

	ListClients() ([]models.Client, error)
	GetClient(id int64) (models.Client, error)
	AddClient(models.Client) (int64, error)
	UpdateClient(models.Client) (bool, error)
	DeleteClient(id int64) (bool, error)

	SaveInvoiceSettings(models.InvoiceSettings) error
	GetPomodoroConfig() (models.PomodoroConfig, error)
	SavePomodoroConfig(models.PomodoroConfig) error
}

// Model is the session state. Front ends read its exported fields to
// render and never write them directly.
type Model struct {
	store     Store
	notify    notifier.Notifier
	generator *invoice.Generator
	now       func() time.Time
	loc       *time.Location

	Screen   Screen
	Mode     Mode
	Running  bool
	ShowHelp bool
	Status   string

	// Active mirrors the store's running entry as of the last refresh.
	Active           *models.Entry
	ProjectInput     string
	DescriptionInput string

	Entries      []models.Entry
	EntryIndex   int
	UnbilledOnly bool

	Projects     []models.Project
	ProjectIndex int

	Clients     []models.Client
	ClientIndex int

	Settings       models.InvoiceSettings
	PomodoroConfig models.PomodoroConfig
	Pomodoro       pomodoro.Scheduler

	InvoiceMode    InvoiceMode
	InvoiceEntries []models.Entry
	InvoiceIndex   int
	Rates          map[string]invoice.Rate
	Selected       map[int64]bool
	CustomStart    *time.Time
	CustomEnd      *time.Time
	InvoiceClient  *int64
	LastInvoice    *invoice.Result
}

type Option func(*Model)

func WithNotifier(n notifier.Notifier) Option {
	return func(m *Model) { m.notify = n }
}

func WithGenerator(g *invoice.Generator) Option {
	return func(m *Model) { m.generator = g }
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithLocation sets the zone entry edit buffers are shown in.
func WithLocation(loc *time.Location) Option {
	return func(m *Model) { m.loc = loc }
}

// New builds a session from the store's current contents. When a timer is
// already running and Pomodoro is enabled, the work interval is anchored at
// the entry's start.
func New(store Store, opts ...Option) *Model {
	m := &Model{
		store:            store,
		notify:           notifier.Nop{},
		now:              time.Now,
		loc:              time.Local,
		Mode:             Normal{},
		Running:          true,
		DescriptionInput: constants.DefaultDescription,
		Selected:         map[int64]bool{},
		Rates:            map[string]invoice.Rate{},
		Settings:         models.DefaultInvoiceSettings(),
		PomodoroConfig:   models.DefaultPomodoroConfig(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.generator == nil {
		dir, err := homedir.Expand(constants.DefaultInvoiceDir)
		if err != nil {
			dir = constants.DefaultInvoiceDir
		}
		m.generator = invoice.NewGenerator(store, invoice.PDFRenderer{}, dir, invoice.WithClock(m.now))
	}

	m.refreshEntries()
	m.refreshActive()
	m.refreshPomodoroConfig()
	m.refreshClients()
	m.refreshSettings()

	if m.Active != nil && m.PomodoroConfig.Enabled {
		m.Pomodoro.Anchor(m.Active.Start)
	}
	return m
}

// Update applies msg and returns a follow-up message, or nil.
func (m *Model) Update(msg Msg) Msg {
	if msg == nil {
		return nil
	}
	switch msg.family() {
	case familyUI:
		return m.updateUI(msg)
	case familyTimer:
		return m.updateTimer(msg)
	case familyEntries:
		return m.updateEntries(msg)
	case familyInvoice:
		return m.updateInvoice(msg)
	case familyProjects:
		return m.updateProjects(msg)
	case familyPomodoro:
		return m.updatePomodoro(msg)
	case familyClients:
		return m.updateClients(msg)
	case familySettings:
		return m.updateSettings(msg)
	case familyRefresh:
		return m.updateRefresh(msg)
	}
	return nil
}

// Dispatch applies msg and every follow-up it produces.
func (m *Model) Dispatch(msg Msg) {
	for msg != nil {
		msg = m.Update(msg)
	}
}

func (m *Model) updateUI(msg Msg) Msg {
	switch msg := msg.(type) {
	case SwitchScreen:
		m.Screen = msg.Screen
		m.Mode = Normal{}
		switch msg.Screen {
		case ScreenEntries:
			m.refreshEntries()
		case ScreenInvoice:
			m.refreshInvoice()
		case ScreenProjects:
			m.refreshProjects()
		case ScreenPomodoro:
			m.refreshPomodoroConfig()
		case ScreenClients:
			m.refreshClients()
		case ScreenSettings:
			m.refreshSettings()
		}
	case Quit:
		m.Running = false
	case ToggleHelp:
		m.ShowHelp = !m.ShowHelp
	case ClearStatus:
		m.Status = ""
	}
	return nil
}

func (m *Model) setStatus(format string, args ...any) {
	m.Status = fmt.Sprintf(format, args...)
}

// Now is the session clock.
func (m *Model) Now() time.Time { return m.now() }

// Location is the zone used for displaying and editing times.
func (m *Model) Location() *time.Location { return m.loc }

// Elapsed is how long the active timer has run.
func (m *Model) Elapsed() time.Duration {
	if m.Active == nil {
		return 0
	}
	return m.Active.Duration(m.now())
}

// PomodoroRemaining is the time left in the current interval.
func (m *Model) PomodoroRemaining() (time.Duration, bool) {
	return m.Pomodoro.Remaining(m.now(), m.PomodoroConfig)
}

func (m *Model) SelectedEntry() *models.Entry {
	if m.EntryIndex < 0 || m.EntryIndex >= len(m.Entries) {
		return nil
	}
	return &m.Entries[m.EntryIndex]
}

func (m *Model) SelectedProject() *models.Project {
	if m.ProjectIndex < 0 || m.ProjectIndex >= len(m.Projects) {
		return nil
	}
	return &m.Projects[m.ProjectIndex]
}

func (m *Model) SelectedClient() *models.Client {
	if m.ClientIndex < 0 || m.ClientIndex >= len(m.Clients) {
		return nil
	}
	return &m.Clients[m.ClientIndex]
}

// SelectedInvoiceEntry is the cursor row in entry-selection mode.
func (m *Model) SelectedInvoiceEntry() *models.Entry {
	if m.InvoiceIndex < 0 || m.InvoiceIndex >= len(m.InvoiceEntries) {
		return nil
	}
	return &m.InvoiceEntries[m.InvoiceIndex]
}

// InvoiceClientRecord is the client the next invoice is addressed to.
func (m *Model) InvoiceClientRecord() *models.Client {
	if m.InvoiceClient == nil {
		return nil
	}
	for i := range m.Clients {
		if m.Clients[i].ID == *m.InvoiceClient {
			return &m.Clients[i]
		}
	}
	return nil
}

// RecentProjects lists distinct projects from the newest entries first.
func (m *Model) RecentProjects(limit int) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range m.Entries {
		if seen[e.Project] {
			continue
		}
		seen[e.Project] = true
		out = append(out, e.Project)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (m *Model) refreshEntries() {
	var filter *bool
	if m.UnbilledOnly {
		unbilled := false
		filter = &unbilled
	}
	entries, err := m.store.ListEntries(filter)
	if err != nil {
		logger.Error("Failed to list entries", "error", err)
		return
	}
	m.Entries = entries
	m.EntryIndex = clamp(m.EntryIndex, len(entries))
}

func (m *Model) refreshActive() {
	active, err := m.store.GetActiveEntry()
	if err != nil {
		logger.Error("Failed to read active timer", "error", err)
		return
	}
	m.Active = active
}

func (m *Model) refreshProjects() {
	projects, err := m.store.ListProjects()
	if err != nil {
		logger.Error("Failed to list projects", "error", err)
		return
	}
	m.Projects = projects
	m.ProjectIndex = clamp(m.ProjectIndex, len(projects))
	m.Rates = invoice.RatesFromProjects(projects)
}

func (m *Model) refreshClients() {
	clients, err := m.store.ListClients()
	if err != nil {
		logger.Error("Failed to list clients", "error", err)
		return
	}
	m.Clients = clients
	m.ClientIndex = clamp(m.ClientIndex, len(clients))
}

func (m *Model) refreshSettings() {
	settings, err := m.store.GetInvoiceSettings()
	if err != nil {
		logger.Error("Failed to load invoice settings", "error", err)
		return
	}
	m.Settings = settings
}

func (m *Model) refreshPomodoroConfig() {
	cfg, err := m.store.GetPomodoroConfig()
	if err != nil {
		logger.Error("Failed to load Pomodoro config", "error", err)
		return
	}
	cfg.ApplyDefaults()
	m.PomodoroConfig = cfg
}

// clamp keeps a selection index inside a list of length n.
func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func popRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

// appendDecimalRune accepts digits and a single '.'.
func appendDecimalRune(s string, r rune) string {
	switch {
	case r >= '0' && r <= '9':
		return s + string(r)
	case r == '.' && !strings.ContainsRune(s, '.'):
		return s + string(r)
	}
	return s
}
