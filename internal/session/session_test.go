package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/invoice"
	"github.com/julianstephens/meter/internal/models"
	"github.com/julianstephens/meter/internal/pomodoro"
	"github.com/julianstephens/meter/internal/storage/sqlite"
)

var t0 = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time            { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recordingNotifier struct {
	work, breaks int
}

func (n *recordingNotifier) NotifyWorkComplete() error  { n.work++; return nil }
func (n *recordingNotifier) NotifyBreakComplete() error { n.breaks++; return nil }

func setupStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "db.sqlite"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func enablePomodoro(t *testing.T, store Store) {
	t.Helper()
	cfg := models.DefaultPomodoroConfig()
	cfg.Enabled = true
	if err := store.SavePomodoroConfig(cfg); err != nil {
		t.Fatalf("SavePomodoroConfig() error = %v", err)
	}
}

func newModel(t *testing.T, store Store, c *clock, opts ...Option) *Model {
	t.Helper()
	base := []Option{
		WithClock(c.Now),
		WithLocation(time.UTC),
		WithGenerator(invoice.NewGenerator(store, invoice.TextRenderer{}, t.TempDir(), invoice.WithClock(c.Now))),
	}
	return New(store, append(base, opts...)...)
}

func typeRunes(m *Model, s string, mk func(rune) Msg) {
	for _, r := range s {
		m.Dispatch(mk(r))
	}
}

func startTimer(t *testing.T, m *Model, project string) {
	t.Helper()
	m.Dispatch(BeginTimerInput{})
	typeRunes(m, project, func(r rune) Msg { return TimerInputChar{Rune: r} })
	m.Dispatch(StartTimer{})
	if m.Active == nil {
		t.Fatalf("StartTimer did not start a timer, status %q", m.Status)
	}
}

func TestStartTimer_RequiresProject(t *testing.T) {
	m := newModel(t, setupStore(t), &clock{now: t0})

	m.Dispatch(StartTimer{})
	if m.Active != nil || m.Status != "" {
		t.Errorf("StartTimer with empty project: Active = %v, Status = %q, want no-op", m.Active, m.Status)
	}

	m.ProjectInput = "   "
	m.Dispatch(StartTimer{})
	if m.Active != nil {
		t.Error("StartTimer with blank project started a timer")
	}
}

func TestStartStopTimer(t *testing.T) {
	c := &clock{now: t0}
	m := newModel(t, setupStore(t), c)

	m.Dispatch(StopTimer{})
	if m.Status != "" {
		t.Errorf("StopTimer while idle set status %q, want no-op", m.Status)
	}

	startTimer(t, m, "acme")
	if m.Status != "Timer started" {
		t.Errorf("Status = %q, want %q", m.Status, "Timer started")
	}
	if m.ProjectInput != "" || m.DescriptionInput != "Work session" {
		t.Errorf("buffers = %q, %q, want cleared", m.ProjectInput, m.DescriptionInput)
	}
	if _, ok := m.Mode.(Normal); !ok {
		t.Errorf("Mode = %T, want Normal", m.Mode)
	}

	first := m.Active.ID
	m.ProjectInput = "globex"
	m.Dispatch(StartTimer{})
	if m.Active.ID != first {
		t.Error("StartTimer with an active entry started a second timer")
	}

	c.Advance(30 * time.Minute)
	m.Dispatch(StopTimer{})
	if m.Active != nil || m.Status != "Timer stopped" {
		t.Errorf("after StopTimer Active = %v, Status = %q", m.Active, m.Status)
	}
	if len(m.Entries) != 1 || m.Entries[0].End == nil {
		t.Fatalf("Entries = %+v, want one completed entry", m.Entries)
	}
	if got := m.Entries[0].Seconds(); got != 1800 {
		t.Errorf("entry seconds = %d, want 1800", got)
	}
}

func TestStartProject(t *testing.T) {
	m := newModel(t, setupStore(t), &clock{now: t0})
	m.Dispatch(StartProject{Project: "acme", Description: "review"})
	if m.Active == nil || m.Active.Project != "acme" || m.Active.Description != "review" {
		t.Errorf("Active = %+v, want acme/review", m.Active)
	}
}

func TestPomodoroCycle(t *testing.T) {
	store := setupStore(t)
	enablePomodoro(t, store)
	c := &clock{now: t0}
	n := &recordingNotifier{}
	m := newModel(t, store, c, WithNotifier(n))

	startTimer(t, m, "acme")
	if m.Pomodoro.State != pomodoro.Working {
		t.Fatalf("Pomodoro.State = %v, want Working", m.Pomodoro.State)
	}

	c.Advance(44 * time.Minute)
	m.Dispatch(Tick{})
	if m.Active == nil || m.Pomodoro.State != pomodoro.Working {
		t.Fatalf("before expiry: Active = %v, State = %v", m.Active, m.Pomodoro.State)
	}

	c.Advance(time.Minute)
	m.Dispatch(Tick{})
	if m.Active != nil {
		t.Error("work expiry did not clear the active timer")
	}
	if m.Pomodoro.State != pomodoro.WorkComplete || n.work != 1 {
		t.Errorf("State = %v, work notifications = %d, want WorkComplete, 1", m.Pomodoro.State, n.work)
	}
	if len(m.Entries) != 1 || m.Entries[0].End == nil || !m.Entries[0].End.Equal(t0.Add(45*time.Minute)) {
		t.Errorf("stopped entry = %+v, want end at T0+45m", m.Entries)
	}
	if !strings.HasPrefix(m.Status, "Work period complete!") {
		t.Errorf("Status = %q", m.Status)
	}

	m.Dispatch(AcknowledgePomodoro{})
	if m.Status != "Starting short break (15 min)" {
		t.Errorf("Status = %q, want short break", m.Status)
	}

	c.Advance(15 * time.Minute)
	m.Dispatch(Tick{})
	if m.Pomodoro.State != pomodoro.BreakComplete || n.breaks != 1 {
		t.Errorf("State = %v, break notifications = %d, want BreakComplete, 1", m.Pomodoro.State, n.breaks)
	}

	m.Dispatch(AcknowledgePomodoro{})
	if m.Pomodoro.State != pomodoro.Idle || m.Pomodoro.CyclesCompleted != 1 {
		t.Errorf("State = %v, cycles = %d, want Idle, 1", m.Pomodoro.State, m.Pomodoro.CyclesCompleted)
	}
	if m.ProjectInput != "acme" || m.DescriptionInput != "Work session" {
		t.Errorf("resume buffers = %q, %q, want acme, Work session", m.ProjectInput, m.DescriptionInput)
	}
	if m.Status != "Ready to start next work period" {
		t.Errorf("Status = %q", m.Status)
	}
}

func TestTogglePomodoro(t *testing.T) {
	store := setupStore(t)
	c := &clock{now: t0}
	m := newModel(t, store, c)
	startTimer(t, m, "acme")

	c.Advance(10 * time.Minute)
	m.Dispatch(TogglePomodoro{})
	if !m.PomodoroConfig.Enabled || m.Status != "Pomodoro mode enabled" {
		t.Fatalf("after enable: Enabled = %v, Status = %q", m.PomodoroConfig.Enabled, m.Status)
	}
	if m.Pomodoro.State != pomodoro.Working || !m.Pomodoro.IntervalStart.Equal(c.now) {
		t.Errorf("enable with running timer: State = %v, start = %v, want Working at now", m.Pomodoro.State, m.Pomodoro.IntervalStart)
	}
	if cfg, _ := store.GetPomodoroConfig(); !cfg.Enabled {
		t.Error("enabled flag not persisted")
	}

	m.Dispatch(TogglePomodoro{})
	if m.Pomodoro.State != pomodoro.Idle || m.Pomodoro.CyclesCompleted != 0 {
		t.Errorf("after disable: State = %v, cycles = %d", m.Pomodoro.State, m.Pomodoro.CyclesCompleted)
	}
	if m.Active == nil {
		t.Error("disabling Pomodoro stopped the timer")
	}
}

func TestNew_AnchorsRunningTimer(t *testing.T) {
	store := setupStore(t)
	enablePomodoro(t, store)
	if _, err := store.StartTimer("acme", "deep work", t0); err != nil {
		t.Fatal(err)
	}

	m := newModel(t, store, &clock{now: t0.Add(10 * time.Minute)})
	if m.Pomodoro.State != pomodoro.Working {
		t.Fatalf("State = %v, want Working", m.Pomodoro.State)
	}
	if !m.Pomodoro.IntervalStart.Equal(t0) {
		t.Errorf("IntervalStart = %v, want %v", m.Pomodoro.IntervalStart, t0)
	}
	if d, ok := m.PomodoroRemaining(); !ok || d != 35*time.Minute {
		t.Errorf("PomodoroRemaining() = %v, %v, want 35m", d, ok)
	}
}

func TestTick_ReconcilesExternalChanges(t *testing.T) {
	store := setupStore(t)
	enablePomodoro(t, store)
	c := &clock{now: t0}
	m := newModel(t, store, c)

	if _, err := store.StartTimer("tray", "from the menu bar", t0); err != nil {
		t.Fatal(err)
	}
	c.Advance(time.Second)
	m.Dispatch(Tick{})
	if m.Active == nil || m.Active.Project != "tray" {
		t.Fatalf("Active = %v, want external timer", m.Active)
	}
	if m.Pomodoro.State != pomodoro.Working {
		t.Errorf("external start: State = %v, want Working", m.Pomodoro.State)
	}

	m.Pomodoro.CyclesCompleted = 3
	if _, err := store.StopActiveTimer(c.now); err != nil {
		t.Fatal(err)
	}
	m.Dispatch(Tick{})
	if m.Active != nil || m.Pomodoro.State != pomodoro.Idle {
		t.Errorf("external stop: Active = %v, State = %v, want nil, Idle", m.Active, m.Pomodoro.State)
	}
	if m.Pomodoro.CyclesCompleted != 0 {
		t.Errorf("external stop: CyclesCompleted = %d, want 0", m.Pomodoro.CyclesCompleted)
	}
}

type failingStore struct {
	*sqlite.Store
}

func (failingStore) StartTimer(string, string, time.Time) (models.Entry, error) {
	return models.Entry{}, errors.New("database is locked")
}

func (failingStore) SaveInvoiceSettings(models.InvoiceSettings) error {
	return errors.New("database is locked")
}

func TestStoreFailureLeavesStateUnchanged(t *testing.T) {
	store := failingStore{setupStore(t)}
	m := newModel(t, store, &clock{now: t0})

	m.ProjectInput = "acme"
	m.Dispatch(StartTimer{})
	if m.Active != nil || m.ProjectInput != "acme" {
		t.Errorf("after failed start: Active = %v, ProjectInput = %q", m.Active, m.ProjectInput)
	}
	if want := "Failed to start timer: database is locked"; m.Status != want {
		t.Errorf("Status = %q, want %q", m.Status, want)
	}

	m.Dispatch(EditSettings{})
	typeRunes(m, "Acme Consulting", func(r rune) Msg { return SettingsInput{Rune: r} })
	m.Dispatch(SaveSettings{})
	if m.Status != "Failed to save settings" {
		t.Errorf("Status = %q, want %q", m.Status, "Failed to save settings")
	}
	if m.Settings.BusinessName != "" {
		t.Errorf("Settings.BusinessName = %q after failed save, want unchanged", m.Settings.BusinessName)
	}
}

func TestStartTimer_LostRaceAdoptsOtherTimer(t *testing.T) {
	store := setupStore(t)
	m := newModel(t, store, &clock{now: t0})

	if _, err := store.StartTimer("tray", "from the menu bar", t0); err != nil {
		t.Fatal(err)
	}
	m.ProjectInput = "acme"
	m.Dispatch(StartTimer{})

	if !strings.HasPrefix(m.Status, "Failed to start timer: ") {
		t.Errorf("Status = %q, want start failure", m.Status)
	}
	if m.Active == nil || m.Active.Project != "tray" {
		t.Errorf("Active = %v, want the other process's timer", m.Active)
	}
}

func TestEditEntry(t *testing.T) {
	store := setupStore(t)
	end := t0.Add(time.Hour)
	e, err := store.AddEntry(models.Entry{Project: "acme", Description: "setup", Start: t0, End: &end})
	if err != nil {
		t.Fatal(err)
	}
	m := newModel(t, store, &clock{now: t0.Add(2 * time.Hour)})

	m.Dispatch(EditEntry{ID: e.ID})
	edit, ok := m.Mode.(*EditingEntry)
	if !ok {
		t.Fatalf("Mode = %T, want *EditingEntry", m.Mode)
	}
	if edit.Values[EntryStart] != "2024-03-04 09:00" || edit.Values[EntryEnd] != "2024-03-04 10:00" {
		t.Errorf("time buffers = %q, %q", edit.Values[EntryStart], edit.Values[EntryEnd])
	}

	edit.Values[EntryDescription] = "kickoff"
	edit.Values[EntryStart] = "not a time"
	edit.Values[EntryEnd] = "2024-03-04 10:30"
	m.Dispatch(SaveEditEntry{})
	if m.Status != "Entry 1 updated" {
		t.Errorf("Status = %q", m.Status)
	}

	got, err := store.GetEntry(e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "kickoff" {
		t.Errorf("Description = %q, want kickoff", got.Description)
	}
	if !got.Start.Equal(t0) {
		t.Errorf("Start = %v, want unchanged %v", got.Start, t0)
	}
	if got.End == nil || !got.End.Equal(t0.Add(90*time.Minute)) {
		t.Errorf("End = %v, want T0+90m", got.End)
	}

	m.Dispatch(EditEntry{ID: e.ID})
	m.Mode.(*EditingEntry).Values[EntryEnd] = ""
	m.Dispatch(SaveEditEntry{})
	if got, _ := store.GetEntry(e.ID); got.End != nil {
		t.Errorf("End = %v after clearing, want running", got.End)
	}

	m.Dispatch(EditEntry{ID: 99})
	if m.Status != "Entry 99 not found" {
		t.Errorf("Status = %q, want not found", m.Status)
	}
}

func TestSaveEditEntry_Rejections(t *testing.T) {
	store := setupStore(t)
	end := t0.Add(time.Hour)
	done, err := store.AddEntry(models.Entry{Project: "acme", Description: "setup", Start: t0, End: &end})
	if err != nil {
		t.Fatal(err)
	}
	running, err := store.StartTimer("globex", "review", t0.Add(2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	m := newModel(t, store, &clock{now: t0.Add(3 * time.Hour)})

	tests := []struct {
		name       string
		start, end string
		wantStatus string
	}{
		{"reopen while another runs", "2024-03-04 09:00", "", "Another timer is running (entry 2)"},
		{"end before start", "2024-03-04 09:00", "2024-03-04 08:30", "End is before start"},
		{"end before edited start", "2024-03-04 11:00", "2024-03-04 10:00", "End is before start"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.Dispatch(EditEntry{ID: done.ID})
			edit := m.Mode.(*EditingEntry)
			edit.Values[EntryDescription] = "changed"
			edit.Values[EntryStart] = tt.start
			edit.Values[EntryEnd] = tt.end
			m.Dispatch(SaveEditEntry{})

			if m.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", m.Status, tt.wantStatus)
			}
			got, err := store.GetEntry(done.ID)
			if err != nil {
				t.Fatal(err)
			}
			if got.Description != "setup" || got.End == nil || !got.End.Equal(end) || !got.Start.Equal(t0) {
				t.Errorf("entry = %+v, want it unchanged", got)
			}
		})
	}

	if n, err := store.CountActiveEntries(); err != nil || n != 1 {
		t.Errorf("CountActiveEntries() = %d, %v, want 1", n, err)
	}

	// the running entry itself may be saved with an empty end
	m.Dispatch(EditEntry{ID: running.ID})
	m.Mode.(*EditingEntry).Values[EntryDescription] = "code review"
	m.Dispatch(SaveEditEntry{})
	if m.Status != "Entry 2 updated" {
		t.Errorf("Status = %q, want running entry saved", m.Status)
	}
}

func TestEntryActions(t *testing.T) {
	store := setupStore(t)
	for i := 0; i < 3; i++ {
		start := t0.Add(time.Duration(i) * time.Hour)
		end := start.Add(30 * time.Minute)
		if _, err := store.AddEntry(models.Entry{Project: "acme", Start: start, End: &end}); err != nil {
			t.Fatal(err)
		}
	}
	m := newModel(t, store, &clock{now: t0.Add(5 * time.Hour)})

	m.Dispatch(SelectPrevEntry{})
	if m.EntryIndex != 0 {
		t.Errorf("EntryIndex = %d, want clamped at 0", m.EntryIndex)
	}
	for i := 0; i < 5; i++ {
		m.Dispatch(SelectNextEntry{})
	}
	if m.EntryIndex != 2 {
		t.Errorf("EntryIndex = %d, want clamped at 2", m.EntryIndex)
	}

	m.Dispatch(MarkBilled{ID: 1})
	if m.Status != "Entry 1 marked as billed" {
		t.Errorf("Status = %q", m.Status)
	}
	m.Dispatch(ToggleBilledFilter{})
	if len(m.Entries) != 2 {
		t.Errorf("unbilled filter shows %d entries, want 2", len(m.Entries))
	}
	m.Dispatch(UnbillEntry{ID: 1})
	if m.Status != "Entry 1 unbilled" || len(m.Entries) != 3 {
		t.Errorf("after unbill Status = %q, entries = %d", m.Status, len(m.Entries))
	}

	m.Dispatch(DeleteEntry{ID: 2})
	m.Dispatch(CancelDelete{})
	if len(m.Entries) != 3 {
		t.Error("CancelDelete removed an entry")
	}
	m.Dispatch(DeleteEntry{ID: 2})
	m.Dispatch(ConfirmDelete{})
	if m.Status != "Entry 2 deleted" || len(m.Entries) != 2 {
		t.Errorf("after delete Status = %q, entries = %d", m.Status, len(m.Entries))
	}
	m.Dispatch(DeleteEntry{ID: 2})
	m.Dispatch(ConfirmDelete{})
	if m.Status != "Entry 2 not found" {
		t.Errorf("Status = %q, want not found", m.Status)
	}
	m.Dispatch(MarkBilled{ID: 42})
	if m.Status != "Entry 42 not found" {
		t.Errorf("Status = %q, want not found", m.Status)
	}
}

func TestProjectRates(t *testing.T) {
	store := setupStore(t)
	if _, err := store.GetOrCreateProject("acme"); err != nil {
		t.Fatal(err)
	}
	m := newModel(t, store, &clock{now: t0})
	m.Dispatch(SwitchScreen{Screen: ScreenProjects})
	p := m.SelectedProject()
	if p == nil {
		t.Fatal("no project selected")
	}

	m.Dispatch(EditProjectRate{ID: p.ID})
	edit := m.Mode.(*EditingRate)
	if edit.Rate != "" || edit.Currency != "$" {
		t.Errorf("buffers = %q, %q, want empty rate and $", edit.Rate, edit.Currency)
	}
	typeRunes(m, "1x50.5.0", func(r rune) Msg { return RateInput{Rune: r} })
	if edit.Rate != "150.50" {
		t.Errorf("Rate buffer = %q, want 150.50", edit.Rate)
	}
	m.Dispatch(SaveProjectRate{})
	if m.Status != "Rate updated for 'acme'" {
		t.Errorf("Status = %q", m.Status)
	}
	if r, ok := m.Rates["acme"]; !ok || !r.Amount.Equal(decimal.RequireFromString("150.5")) {
		t.Errorf("Rates[acme] = %v, want 150.5", r)
	}

	m.Dispatch(ClearProjectRate{ID: p.ID})
	if m.Status != "Rate cleared for 'acme'" {
		t.Errorf("Status = %q", m.Status)
	}
	if _, ok := m.Rates["acme"]; ok {
		t.Error("rate still present after clear")
	}
}

func TestClients(t *testing.T) {
	m := newModel(t, setupStore(t), &clock{now: t0})

	m.Dispatch(AddClient{})
	m.Dispatch(SaveClient{})
	if m.Status != "Client name is required" {
		t.Errorf("Status = %q", m.Status)
	}
	if _, ok := m.Mode.(*EditingClient); !ok {
		t.Fatal("validation failure left the edit mode")
	}

	typeRunes(m, "Acme", func(r rune) Msg { return ClientInput{Rune: r} })
	m.Dispatch(ClientNextField{})
	typeRunes(m, "Wile", func(r rune) Msg { return ClientInput{Rune: r} })
	m.Dispatch(SaveClient{})
	if m.Status != "Client 'Acme' added" || len(m.Clients) != 1 {
		t.Fatalf("Status = %q, clients = %d", m.Status, len(m.Clients))
	}
	if m.Clients[0].ContactPerson != "Wile" {
		t.Errorf("ContactPerson = %q, want Wile", m.Clients[0].ContactPerson)
	}

	m.Dispatch(CycleInvoiceClient{})
	if c := m.InvoiceClientRecord(); c == nil || c.Name != "Acme" {
		t.Errorf("invoice client = %v, want Acme", c)
	}
	m.Dispatch(CycleInvoiceClient{})
	if m.InvoiceClient != nil {
		t.Error("cycling past the last client did not return to none")
	}

	id := m.Clients[0].ID
	m.Dispatch(EditClient{ID: id})
	m.Dispatch(ClientBackspace{})
	m.Dispatch(SaveClient{})
	if m.Status != "Client 'Acm' updated" {
		t.Errorf("Status = %q", m.Status)
	}

	m.Dispatch(DeleteClient{ID: id})
	m.Dispatch(ConfirmDeleteClient{})
	if m.Status != "Client 1 deleted" || len(m.Clients) != 0 {
		t.Errorf("Status = %q, clients = %d", m.Status, len(m.Clients))
	}
}

func TestSettings(t *testing.T) {
	store := setupStore(t)
	m := newModel(t, store, &clock{now: t0})

	m.Dispatch(EditSettings{})
	typeRunes(m, "Acme Consulting", func(r rune) Msg { return SettingsInput{Rune: r} })
	m.Dispatch(SettingsPrevField{})
	m.Dispatch(SettingsPrevField{})
	edit := m.Mode.(*EditingSettings)
	if edit.Field != SettingsTaxRate {
		t.Fatalf("Field = %v, want tax rate", edit.Field)
	}
	edit.Values[SettingsTaxRate] = ""
	typeRunes(m, "8a.2.5", func(r rune) Msg { return SettingsInput{Rune: r} })
	if edit.Values[SettingsTaxRate] != "8.25" {
		t.Errorf("tax buffer = %q, want 8.25", edit.Values[SettingsTaxRate])
	}
	m.Dispatch(SaveSettings{})
	if m.Status != "Settings saved" {
		t.Errorf("Status = %q", m.Status)
	}

	got, err := store.GetInvoiceSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got.BusinessName != "Acme Consulting" || !got.DefaultTaxRate.Equal(decimal.RequireFromString("8.25")) {
		t.Errorf("saved settings = %+v", got)
	}
}

func TestPomodoroSettings(t *testing.T) {
	store := setupStore(t)
	m := newModel(t, store, &clock{now: t0})

	m.Dispatch(EditPomodoro{})
	edit := m.Mode.(*EditingPomodoro)
	edit.Values[PomodoroWork] = ""
	typeRunes(m, "2x5", func(r rune) Msg { return PomodoroInput{Rune: r} })
	m.Dispatch(PomodoroNextField{})
	edit.Values[PomodoroShortBreak] = "0"
	m.Dispatch(SavePomodoroConfig{})

	if m.Status != "Pomodoro settings saved" {
		t.Errorf("Status = %q", m.Status)
	}
	if m.PomodoroConfig.WorkMinutes != 25 {
		t.Errorf("WorkMinutes = %d, want 25", m.PomodoroConfig.WorkMinutes)
	}
	if m.PomodoroConfig.ShortBreakMinutes != 15 {
		t.Errorf("ShortBreakMinutes = %d, want unchanged 15", m.PomodoroConfig.ShortBreakMinutes)
	}
}

func TestInvoiceModes(t *testing.T) {
	m := newModel(t, setupStore(t), &clock{now: t0})
	m.Dispatch(SwitchScreen{Screen: ScreenInvoice})

	want := []InvoiceMode{InvoicePriorMonth, InvoiceCustomRange, InvoiceSelectEntries}
	for _, w := range want {
		m.Dispatch(NextInvoiceMode{})
		if m.InvoiceMode != w {
			t.Fatalf("InvoiceMode = %v, want %v", m.InvoiceMode, w)
		}
	}
	m.Dispatch(NextInvoiceMode{})
	if m.InvoiceMode != InvoiceSelectEntries {
		t.Error("NextInvoiceMode left select mode")
	}
	m.Dispatch(ExitInvoiceSelect{})
	m.Dispatch(PrevInvoiceMode{})
	if m.InvoiceMode != InvoiceSelectEntries {
		t.Errorf("PrevInvoiceMode from CurrentMonth = %v, want wrap to SelectEntries", m.InvoiceMode)
	}
}

func TestGenerateInvoice(t *testing.T) {
	store := setupStore(t)
	rate := decimal.NewFromInt(150)
	for _, p := range []string{"ProjA", "ProjB"} {
		if _, err := store.GetOrCreateProject(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.SetProjectRate("ProjA", &rate, "$"); err != nil {
		t.Fatal(err)
	}
	add := func(project string, start time.Time, d time.Duration, billed bool) int64 {
		end := start.Add(d)
		e, err := store.AddEntry(models.Entry{Project: project, Start: start, End: &end, Billed: billed})
		if err != nil {
			t.Fatal(err)
		}
		return e.ID
	}
	add("ProjA", t0, 2*time.Hour, true)
	add("ProjB", t0.Add(3*time.Hour), 3*time.Hour, true)
	add("ProjA", t0.Add(24*time.Hour), time.Hour, false)
	april := add("ProjA", time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), time.Hour, true)

	c := &clock{now: time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)}
	dir := t.TempDir()
	m := New(store, WithClock(c.Now), WithGenerator(invoice.NewGenerator(store, invoice.TextRenderer{}, dir, invoice.WithClock(c.Now))))

	m.Dispatch(SwitchScreen{Screen: ScreenInvoice})
	m.Dispatch(NextInvoiceMode{})
	m.Dispatch(GenerateInvoice{})

	wantPath := filepath.Join(dir, "invoice_0001.txt")
	if m.Status != "Invoice #1 written to "+wantPath {
		t.Fatalf("Status = %q", m.Status)
	}
	sum := m.LastInvoice.Summary
	if len(sum.Lines) != 2 || !sum.Subtotal.Equal(decimal.NewFromInt(300)) {
		t.Errorf("summary lines = %d subtotal = %s, want 2 lines, 300", len(sum.Lines), sum.Subtotal)
	}
	if sum.Lines[1].Hours() != 3 || sum.Lines[1].Cost != nil {
		t.Errorf("ProjB line = %+v, want 3.00 hrs unpriced", sum.Lines[1])
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Errorf("invoice file missing: %v", err)
	}

	m.Dispatch(EnterSelectEntries{})
	m.Dispatch(ToggleEntrySelection{ID: april})
	m.Dispatch(GenerateInvoice{})
	if !strings.HasPrefix(m.Status, "Invoice #2 written to") {
		t.Fatalf("Status = %q", m.Status)
	}
	if got := m.LastInvoice.Summary.Total; !got.Equal(decimal.NewFromInt(150)) {
		t.Errorf("selected-entry invoice total = %s, want 150", got)
	}

	m.Dispatch(ExitInvoiceSelect{})
	m.Dispatch(NextInvoiceMode{})
	m.Dispatch(NextInvoiceMode{})
	m.Dispatch(GenerateInvoice{})
	if m.LastInvoice.Invoice.Number != 3 || len(m.LastInvoice.Summary.Lines) != 0 {
		t.Errorf("unset custom range produced %+v, want an empty invoice #3", m.LastInvoice.Summary)
	}
}

func TestSwitchScreenResetsMode(t *testing.T) {
	m := newModel(t, setupStore(t), &clock{now: t0})
	m.Dispatch(BeginTimerInput{})
	m.Dispatch(SwitchScreen{Screen: ScreenEntries})
	if _, ok := m.Mode.(Normal); !ok || m.Screen != ScreenEntries {
		t.Errorf("Screen = %v, Mode = %T, want Entries, Normal", m.Screen, m.Mode)
	}
	m.Dispatch(Quit{})
	if m.Running {
		t.Error("Quit did not stop the session")
	}
}
