package session

import "github.com/julianstephens/meter/internal/models"

// Mode is the interactive sub-mode. Each edit flow owns its own buffers.
type Mode interface {
	mode()
}

type Normal struct{}

type TimerField int

const (
	TimerProject TimerField = iota
	TimerDescription
)

// TimerInput collects the project and description for a new timer. The
// buffers live on Model so they survive a break.
type TimerInput struct {
	Focus TimerField
}

type EntryField int

const (
	EntryProject EntryField = iota
	EntryDescription
	EntryStart
	EntryEnd
	entryFieldCount
)

func (f EntryField) String() string {
	return [...]string{"Project", "Description", "Start", "End"}[f]
}

type EditingEntry struct {
	Original models.Entry
	Field    EntryField
	Values   [entryFieldCount]string
}

type RateField int

const (
	RateAmount RateField = iota
	RateCurrency
)

type EditingRate struct {
	Project  models.Project
	Focus    RateField
	Rate     string
	Currency string
}

type ClientField int

const (
	ClientName ClientField = iota
	ClientContact
	ClientStreet
	ClientCity
	ClientState
	ClientPostal
	ClientCountry
	ClientEmail
	clientFieldCount
)

func (f ClientField) String() string {
	return [...]string{"Name", "Contact", "Street", "City", "State", "Postal Code", "Country", "Email"}[f]
}

// EditingClient edits a new client when ID is 0.
type EditingClient struct {
	ID     int64
	Field  ClientField
	Values [clientFieldCount]string
}

func (e *EditingClient) client() models.Client {
	v := e.Values
	return models.Client{
		ID:            e.ID,
		Name:          v[ClientName],
		ContactPerson: v[ClientContact],
		Street:        v[ClientStreet],
		City:          v[ClientCity],
		State:         v[ClientState],
		Postal:        v[ClientPostal],
		Country:       v[ClientCountry],
		Email:         v[ClientEmail],
	}
}

type SettingsField int

const (
	SettingsBusinessName SettingsField = iota
	SettingsStreet
	SettingsCity
	SettingsState
	SettingsPostal
	SettingsCountry
	SettingsEmail
	SettingsPhone
	SettingsTaxID
	SettingsPaymentTerms
	SettingsTaxRate
	SettingsPaymentInstructions
	settingsFieldCount
)

func (f SettingsField) String() string {
	return [...]string{
		"Business Name", "Street", "City", "State", "Postal Code", "Country",
		"Email", "Phone", "Tax ID", "Payment Terms", "Default Tax Rate (%)", "Payment Instructions",
	}[f]
}

type EditingSettings struct {
	Field  SettingsField
	Values [settingsFieldCount]string
}

type PomodoroField int

const (
	PomodoroWork PomodoroField = iota
	PomodoroShortBreak
	PomodoroLongBreak
	PomodoroCycles
	pomodoroFieldCount
)

func (f PomodoroField) String() string {
	return [...]string{"Work (min)", "Short Break (min)", "Long Break (min)", "Cycles Before Long Break"}[f]
}

type EditingPomodoro struct {
	Field  PomodoroField
	Values [pomodoroFieldCount]string
}

type ConfirmingDelete struct{ ID int64 }

type ConfirmingDeleteClient struct{ ID int64 }

func (Normal) mode()                  {}
func (*TimerInput) mode()             {}
func (*EditingEntry) mode()           {}
func (*EditingRate) mode()            {}
func (*EditingClient) mode()          {}
func (*EditingSettings) mode()        {}
func (*EditingPomodoro) mode()        {}
func (*ConfirmingDelete) mode()       {}
func (*ConfirmingDeleteClient) mode() {}

// cycle moves i by delta within [0, n).
func cycle(i, delta, n int) int {
	return ((i+delta)%n + n) % n
}
