package session

import "time"

type family int

const (
	familyUI family = iota
	familyTimer
	familyEntries
	familyInvoice
	familyProjects
	familyPomodoro
	familyClients
	familySettings
	familyRefresh
)

// Msg is one input to Update. Front ends translate keys, clicks and
// timers into these.
type Msg interface {
	family() family
}

// Navigation and UI
type (
	SwitchScreen struct{ Screen Screen }
	Quit         struct{}
	ToggleHelp   struct{}
	ClearStatus  struct{}
)

// Timer
type (
	StartTimer struct{}
	// StartProject starts a timer for a known project, as the tray's recent
	// project menu does.
	StartProject struct {
		Project     string
		Description string
	}
	StopTimer           struct{}
	BeginTimerInput     struct{}
	FocusTimerField     struct{}
	TimerInputChar      struct{ Rune rune }
	TimerInputBackspace struct{}
	CancelInput         struct{}
)

// Entries
type (
	SelectNextEntry    struct{}
	SelectPrevEntry    struct{}
	ToggleBilledFilter struct{}
	DeleteEntry        struct{ ID int64 }
	ConfirmDelete      struct{}
	CancelDelete       struct{}
	MarkBilled         struct{ ID int64 }
	UnbillEntry        struct{ ID int64 }
	EditEntry          struct{ ID int64 }
	EditNextField      struct{}
	EditPrevField      struct{}
	EditInput          struct{ Rune rune }
	EditBackspace      struct{}
	SaveEditEntry      struct{}
	CancelEditEntry    struct{}
)

// Invoice
type (
	NextInvoiceMode      struct{}
	PrevInvoiceMode      struct{}
	EnterSelectEntries   struct{}
	ExitInvoiceSelect    struct{}
	ToggleEntrySelection struct{ ID int64 }
	SetCustomRange       struct{ Start, End time.Time }
	CycleInvoiceClient   struct{}
	GenerateInvoice      struct{}
	RefreshInvoice       struct{}
)

// Projects
type (
	RefreshProjects   struct{}
	SelectNextProject struct{}
	SelectPrevProject struct{}
	EditProjectRate   struct{ ID int64 }
	FocusRateField    struct{}
	RateInput         struct{ Rune rune }
	CurrencyInput     struct{ Rune rune }
	RateBackspace     struct{}
	SaveProjectRate   struct{}
	CancelEditRate    struct{}
	ClearProjectRate  struct{ ID int64 }
)

// Pomodoro
type (
	TogglePomodoro        struct{}
	AcknowledgePomodoro   struct{}
	RefreshPomodoroConfig struct{}
	EditPomodoro          struct{}
	PomodoroNextField     struct{}
	PomodoroPrevField     struct{}
	PomodoroInput         struct{ Rune rune }
	PomodoroBackspace     struct{}
	SavePomodoroConfig    struct{}
	CancelPomodoroEdit    struct{}
)

// Clients
type (
	RefreshClients      struct{}
	SelectNextClient    struct{}
	SelectPrevClient    struct{}
	AddClient           struct{}
	EditClient          struct{ ID int64 }
	ClientNextField     struct{}
	ClientPrevField     struct{}
	ClientInput         struct{ Rune rune }
	ClientBackspace     struct{}
	SaveClient          struct{}
	CancelEditClient    struct{}
	DeleteClient        struct{ ID int64 }
	ConfirmDeleteClient struct{}
	CancelDeleteClient  struct{}
)

// Settings
type (
	EditSettings       struct{}
	SettingsNextField  struct{}
	SettingsPrevField  struct{}
	SettingsInput      struct{ Rune rune }
	SettingsBackspace  struct{}
	SaveSettings       struct{}
	CancelEditSettings struct{}
)

// Refresh and Tick
type (
	RefreshEntries     struct{}
	RefreshActiveTimer struct{}
	// Tick is the polling heartbeat: it reconciles the active timer with
	// the store and advances the Pomodoro scheduler.
	Tick struct{}
)

func (SwitchScreen) family() family { return familyUI }
func (Quit) family() family         { return familyUI }
func (ToggleHelp) family() family   { return familyUI }
func (ClearStatus) family() family  { return familyUI }

func (StartTimer) family() family          { return familyTimer }
func (StartProject) family() family        { return familyTimer }
func (StopTimer) family() family           { return familyTimer }
func (BeginTimerInput) family() family     { return familyTimer }
func (FocusTimerField) family() family     { return familyTimer }
func (TimerInputChar) family() family      { return familyTimer }
func (TimerInputBackspace) family() family { return familyTimer }
func (CancelInput) family() family         { return familyTimer }

func (SelectNextEntry) family() family    { return familyEntries }
func (SelectPrevEntry) family() family    { return familyEntries }
func (ToggleBilledFilter) family() family { return familyEntries }
func (DeleteEntry) family() family        { return familyEntries }
func (ConfirmDelete) family() family      { return familyEntries }
func (CancelDelete) family() family       { return familyEntries }
func (MarkBilled) family() family         { return familyEntries }
func (UnbillEntry) family() family        { return familyEntries }
func (EditEntry) family() family          { return familyEntries }
func (EditNextField) family() family      { return familyEntries }
func (EditPrevField) family() family      { return familyEntries }
func (EditInput) family() family          { return familyEntries }
func (EditBackspace) family() family      { return familyEntries }
func (SaveEditEntry) family() family      { return familyEntries }
func (CancelEditEntry) family() family    { return familyEntries }

func (NextInvoiceMode) family() family      { return familyInvoice }
func (PrevInvoiceMode) family() family      { return familyInvoice }
func (EnterSelectEntries) family() family   { return familyInvoice }
func (ExitInvoiceSelect) family() family    { return familyInvoice }
func (ToggleEntrySelection) family() family { return familyInvoice }
func (SetCustomRange) family() family       { return familyInvoice }
func (CycleInvoiceClient) family() family   { return familyInvoice }
func (GenerateInvoice) family() family      { return familyInvoice }
func (RefreshInvoice) family() family       { return familyInvoice }

func (RefreshProjects) family() family   { return familyProjects }
func (SelectNextProject) family() family { return familyProjects }
func (SelectPrevProject) family() family { return familyProjects }
func (EditProjectRate) family() family   { return familyProjects }
func (FocusRateField) family() family    { return familyProjects }
func (RateInput) family() family         { return familyProjects }
func (CurrencyInput) family() family     { return familyProjects }
func (RateBackspace) family() family     { return familyProjects }
func (SaveProjectRate) family() family   { return familyProjects }
func (CancelEditRate) family() family    { return familyProjects }
func (ClearProjectRate) family() family  { return familyProjects }

func (TogglePomodoro) family() family        { return familyPomodoro }
func (AcknowledgePomodoro) family() family   { return familyPomodoro }
func (RefreshPomodoroConfig) family() family { return familyPomodoro }
func (EditPomodoro) family() family          { return familyPomodoro }
func (PomodoroNextField) family() family     { return familyPomodoro }
func (PomodoroPrevField) family() family     { return familyPomodoro }
func (PomodoroInput) family() family         { return familyPomodoro }
func (PomodoroBackspace) family() family     { return familyPomodoro }
func (SavePomodoroConfig) family() family    { return familyPomodoro }
func (CancelPomodoroEdit) family() family    { return familyPomodoro }

func (RefreshClients) family() family      { return familyClients }
func (SelectNextClient) family() family    { return familyClients }
func (SelectPrevClient) family() family    { return familyClients }
func (AddClient) family() family           { return familyClients }
func (EditClient) family() family          { return familyClients }
func (ClientNextField) family() family     { return familyClients }
func (ClientPrevField) family() family     { return familyClients }
func (ClientInput) family() family         { return familyClients }
func (ClientBackspace) family() family     { return familyClients }
func (SaveClient) family() family          { return familyClients }
func (CancelEditClient) family() family    { return familyClients }
func (DeleteClient) family() family        { return familyClients }
func (ConfirmDeleteClient) family() family { return familyClients }
func (CancelDeleteClient) family() family  { return familyClients }

func (EditSettings) family() family       { return familySettings }
func (SettingsNextField) family() family  { return familySettings }
func (SettingsPrevField) family() family  { return familySettings }
func (SettingsInput) family() family      { return familySettings }
func (SettingsBackspace) family() family  { return familySettings }
func (SaveSettings) family() family       { return familySettings }
func (CancelEditSettings) family() family { return familySettings }

func (RefreshEntries) family() family     { return familyRefresh }
func (RefreshActiveTimer) family() family { return familyRefresh }
func (Tick) family() family               { return familyRefresh }
