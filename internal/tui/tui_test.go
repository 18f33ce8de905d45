package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/meter/internal/invoice"
	"github.com/julianstephens/meter/internal/pomodoro"
	"github.com/julianstephens/meter/internal/session"
	"github.com/julianstephens/meter/internal/storage/sqlite"
)

var t0 = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "db.sqlite"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := func() time.Time { return t0 }
	sess := session.New(store,
		session.WithClock(now),
		session.WithLocation(time.UTC),
		session.WithGenerator(invoice.NewGenerator(store, invoice.TextRenderer{}, t.TempDir(), invoice.WithClock(now))),
	)
	return NewModel(sess, 0), store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func TestScreenKeys(t *testing.T) {
	m, _ := newTestModel(t)
	for i, screen := range session.Screens {
		m, _ = press(t, m, runes(string(rune('1'+i))))
		if m.sess.Screen != screen {
			t.Errorf("key %d: Screen = %v, want %v", i+1, m.sess.Screen, screen)
		}
	}
}

func TestStartAndStopFromKeys(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = press(t, m, runes("s"))
	if _, ok := m.sess.Mode.(*session.TimerInput); !ok {
		t.Fatalf("Mode after s = %T, want *session.TimerInput", m.sess.Mode)
	}

	// Paste arrives as one multi-rune key; q must be text, not quit.
	m, _ = press(t, m, runes("acq"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("me"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.sess.Active == nil {
		t.Fatalf("no active timer after enter, status %q", m.sess.Status)
	}
	if m.sess.Active.Project != "acme" {
		t.Errorf("Active.Project = %q, want acme", m.sess.Active.Project)
	}

	m, _ = press(t, m, runes("s"))
	if m.sess.Active != nil {
		t.Error("s with a running timer did not stop it")
	}
	active, err := store.GetActiveEntry()
	if err != nil || active != nil {
		t.Errorf("store active entry = %v, %v, want none", active, err)
	}
}

func TestTimerInputTabAndSpace(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m,
		tea.KeyMsg{Type: tea.KeyEnter},
		runes("x"),
		tea.KeyMsg{Type: tea.KeyTab},
	)
	in, ok := m.sess.Mode.(*session.TimerInput)
	if !ok || in.Focus != session.TimerDescription {
		t.Fatalf("Mode = %#v, want description focus", m.sess.Mode)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, runes("a"))
	if !strings.HasSuffix(m.sess.DescriptionInput, " a") {
		t.Errorf("DescriptionInput = %q, want trailing \" a\"", m.sess.DescriptionInput)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.sess.Mode.(session.Normal); !ok {
		t.Errorf("Mode after esc = %T, want Normal", m.sess.Mode)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := press(t, m, runes("q"))
	if m.sess.Running {
		t.Error("Running = true after q")
	}
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not return tea.Quit")
	}
}

func TestHelpClosesOnAnyKey(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, runes("?"))
	if !m.sess.ShowHelp {
		t.Fatal("ShowHelp = false after ?")
	}
	m, _ = press(t, m, runes("2"))
	if m.sess.ShowHelp {
		t.Error("ShowHelp still set after a key")
	}
	if m.sess.Screen != session.ScreenTimer {
		t.Errorf("key closing help also switched screen to %v", m.sess.Screen)
	}
}

func TestEntriesKeys(t *testing.T) {
	m, store := newTestModel(t)
	if _, err := store.StartTimer("acme", "build", t0.Add(-2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.StopActiveTimer(t0.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	m, _ = press(t, m, runes("2"), runes("u"))
	if m.sess.Entries[0].Billed {
		t.Fatal("u on an unbilled entry changed it")
	}
	m, _ = press(t, m, runes("b"))
	if !m.sess.Entries[0].Billed {
		t.Error("b did not mark the entry billed")
	}

	m, _ = press(t, m, runes("d"))
	if _, ok := m.sess.Mode.(*session.ConfirmingDelete); !ok {
		t.Fatalf("Mode after d = %T, want *session.ConfirmingDelete", m.sess.Mode)
	}
	m, _ = press(t, m, runes("n"))
	if len(m.sess.Entries) != 1 {
		t.Fatal("n deleted the entry")
	}
	m, _ = press(t, m, runes("d"), runes("Y"))
	if len(m.sess.Entries) != 0 {
		t.Errorf("Entries = %d after confirming delete, want 0", len(m.sess.Entries))
	}
}

func TestPomodoroAcknowledgeKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m.sess.Pomodoro.State = pomodoro.WorkComplete
	if got := m.translate(runes("s")); got != nil {
		t.Errorf("translate(s) in WorkComplete = %#v, want nil", got)
	}
	if _, ok := m.translate(tea.KeyMsg{Type: tea.KeySpace}).(session.AcknowledgePomodoro); !ok {
		t.Error("space in WorkComplete does not acknowledge")
	}

	m.sess.Pomodoro.State = pomodoro.BreakComplete
	if _, ok := m.translate(runes("s")).(session.AcknowledgePomodoro); !ok {
		t.Error("s in BreakComplete does not acknowledge")
	}

	m.sess.Pomodoro.State = pomodoro.OnBreak
	for _, k := range []tea.KeyMsg{runes("s"), runes("p"), {Type: tea.KeyEnter}} {
		if got := m.translate(k); got != nil {
			t.Errorf("translate(%v) on break = %#v, want nil", k, got)
		}
	}
	if _, ok := m.translate(runes("q")).(session.Quit); !ok {
		t.Error("q on break does not quit")
	}
}

func TestInvoiceKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, runes("3"))

	tests := []struct {
		key  tea.KeyMsg
		want session.Msg
	}{
		{runes("j"), session.NextInvoiceMode{}},
		{runes("k"), session.PrevInvoiceMode{}},
		{runes("c"), session.CycleInvoiceClient{}},
		{runes("s"), session.EnterSelectEntries{}},
		{tea.KeyMsg{Type: tea.KeyEnter}, session.GenerateInvoice{}},
	}
	for _, tt := range tests {
		if got := m.translate(tt.key); got != tt.want {
			t.Errorf("translate(%v) = %#v, want %#v", tt.key, got, tt.want)
		}
	}

	m, _ = press(t, m, runes("s"))
	if m.sess.InvoiceMode != session.InvoiceSelectEntries {
		t.Fatalf("InvoiceMode = %v, want select entries", m.sess.InvoiceMode)
	}
	if got := m.translate(tea.KeyMsg{Type: tea.KeyEsc}); got != (session.ExitInvoiceSelect{}) {
		t.Errorf("translate(esc) in select mode = %#v, want ExitInvoiceSelect", got)
	}
}

func TestRangeForm(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, runes("3"), runes("r"))
	if m.form == nil || m.rangeForm == nil {
		t.Fatal("r on the invoice screen did not open the range form")
	}
	if m.rangeForm.Start != "2024-03-01" || m.rangeForm.End != "2024-03-04" {
		t.Errorf("range defaults = %s..%s, want 2024-03-01..2024-03-04", m.rangeForm.Start, m.rangeForm.End)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.form != nil {
		t.Error("esc did not close the range form")
	}

	m, _ = press(t, m, runes("j"), runes("j"))
	if m.sess.InvoiceMode != session.InvoiceCustomRange {
		t.Fatalf("InvoiceMode = %v, want custom range", m.sess.InvoiceMode)
	}
	if !m.wantsRangeForm(tea.KeyMsg{Type: tea.KeyEnter}) {
		t.Error("enter on an unset custom range does not open the form")
	}
}

func TestRangeFormParse(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"valid", "2024-02-01", "2024-02-29", false},
		{"same day", "2024-02-01", "2024-02-01", false},
		{"reversed", "2024-02-10", "2024-02-01", true},
		{"bad start", "02/01/2024", "2024-02-01", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &RangeFormModel{Start: tt.start, End: tt.end}
			_, _, err := f.parse()
			if (err != nil) != tt.wantErr {
				t.Errorf("parse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTickAdvancesSession(t *testing.T) {
	m, store := newTestModel(t)
	if _, err := store.StartTimer("acme", "outside", t0); err != nil {
		t.Fatal(err)
	}
	next, cmd := m.Update(tickMsg(t0))
	m = next.(Model)
	if m.sess.Active == nil {
		t.Error("tick did not pick up a timer started elsewhere")
	}
	if cmd == nil {
		t.Error("tick did not schedule the next tick")
	}
}

func TestViewRendersEveryScreen(t *testing.T) {
	m, _ := newTestModel(t)
	for i, screen := range session.Screens {
		m, _ = press(t, m, runes(string(rune('1'+i))))
		if out := m.View(); !strings.Contains(out, screen.String()) {
			t.Errorf("View() on %v does not mention the screen", screen)
		}
	}
}
