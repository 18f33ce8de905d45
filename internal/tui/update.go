package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/pomodoro"
	"github.com/julianstephens/meter/internal/session"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.sess.Dispatch(session.Tick{})
		return m, m.tick()
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(k, m.keys.ForceQuit) {
		m.sess.Dispatch(session.Quit{})
		return m, tea.Quit
	}
	if m.wantsRangeForm(k) {
		cmd := m.openRangeForm()
		return m, cmd
	}

	m.formError = ""
	for _, single := range splitRunes(k) {
		m.sess.Dispatch(m.translate(single))
	}
	if !m.sess.Running {
		return m, tea.Quit
	}
	return m, nil
}

// splitRunes breaks a pasted run of characters into one key per rune so each
// goes through the edit buffers individually.
func splitRunes(k tea.KeyMsg) []tea.KeyMsg {
	if k.Type != tea.KeyRunes || len(k.Runes) <= 1 {
		return []tea.KeyMsg{k}
	}
	out := make([]tea.KeyMsg, len(k.Runes))
	for i, r := range k.Runes {
		out[i] = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
	}
	return out
}

// editMsgs describes how one edit mode maps the shared editing keys.
type editMsgs struct {
	save, cancel, next, prev, backspace session.Msg
	input                               func(r rune) session.Msg
}

func (m Model) editKeys(k tea.KeyMsg, e editMsgs) session.Msg {
	switch {
	case key.Matches(k, m.keys.Enter):
		return e.save
	case k.Type == tea.KeyEsc:
		return e.cancel
	case k.Type == tea.KeyTab, k.Type == tea.KeyDown:
		return e.next
	case k.Type == tea.KeyShiftTab, k.Type == tea.KeyUp:
		return e.prev
	case k.Type == tea.KeyBackspace:
		return e.backspace
	case k.Type == tea.KeySpace:
		return e.input(' ')
	case k.Type == tea.KeyRunes && len(k.Runes) == 1:
		return e.input(k.Runes[0])
	}
	return nil
}

// translate maps one key press to the session message it stands for in the
// current mode and screen. Keys with no meaning map to nil.
func (m Model) translate(k tea.KeyMsg) session.Msg {
	s := m.sess
	if s.ShowHelp {
		return session.ToggleHelp{}
	}

	switch mode := s.Mode.(type) {
	case *session.ConfirmingDelete:
		return m.confirm(k, session.ConfirmDelete{}, session.CancelDelete{})
	case *session.ConfirmingDeleteClient:
		return m.confirm(k, session.ConfirmDeleteClient{}, session.CancelDeleteClient{})
	case *session.TimerInput:
		return m.editKeys(k, editMsgs{
			save:      session.StartTimer{},
			cancel:    session.CancelInput{},
			next:      session.FocusTimerField{},
			prev:      session.FocusTimerField{},
			backspace: session.TimerInputBackspace{},
			input:     func(r rune) session.Msg { return session.TimerInputChar{Rune: r} },
		})
	case *session.EditingEntry:
		return m.editKeys(k, editMsgs{
			save:      session.SaveEditEntry{},
			cancel:    session.CancelEditEntry{},
			next:      session.EditNextField{},
			prev:      session.EditPrevField{},
			backspace: session.EditBackspace{},
			input:     func(r rune) session.Msg { return session.EditInput{Rune: r} },
		})
	case *session.EditingRate:
		return m.editKeys(k, editMsgs{
			save:      session.SaveProjectRate{},
			cancel:    session.CancelEditRate{},
			next:      session.FocusRateField{},
			prev:      session.FocusRateField{},
			backspace: session.RateBackspace{},
			input: func(r rune) session.Msg {
				if mode.Focus == session.RateAmount {
					return session.RateInput{Rune: r}
				}
				return session.CurrencyInput{Rune: r}
			},
		})
	case *session.EditingClient:
		return m.editKeys(k, editMsgs{
			save:      session.SaveClient{},
			cancel:    session.CancelEditClient{},
			next:      session.ClientNextField{},
			prev:      session.ClientPrevField{},
			backspace: session.ClientBackspace{},
			input:     func(r rune) session.Msg { return session.ClientInput{Rune: r} },
		})
	case *session.EditingSettings:
		return m.editKeys(k, editMsgs{
			save:      session.SaveSettings{},
			cancel:    session.CancelEditSettings{},
			next:      session.SettingsNextField{},
			prev:      session.SettingsPrevField{},
			backspace: session.SettingsBackspace{},
			input:     func(r rune) session.Msg { return session.SettingsInput{Rune: r} },
		})
	case *session.EditingPomodoro:
		return m.editKeys(k, editMsgs{
			save:      session.SavePomodoroConfig{},
			cancel:    session.CancelPomodoroEdit{},
			next:      session.PomodoroNextField{},
			prev:      session.PomodoroPrevField{},
			backspace: session.PomodoroBackspace{},
			input:     func(r rune) session.Msg { return session.PomodoroInput{Rune: r} },
		})
	}

	switch {
	case key.Matches(k, m.keys.Quit):
		return session.Quit{}
	case key.Matches(k, m.keys.Help):
		return session.ToggleHelp{}
	case key.Matches(k, m.keys.Screens):
		return session.SwitchScreen{Screen: session.Screens[k.Runes[0]-'1']}
	}

	switch s.Screen {
	case session.ScreenTimer:
		return m.timerKeys(k)
	case session.ScreenEntries:
		return m.entriesKeys(k)
	case session.ScreenInvoice:
		return m.invoiceKeys(k)
	case session.ScreenProjects:
		return m.projectsKeys(k)
	case session.ScreenPomodoro:
		return m.pomodoroKeys(k)
	case session.ScreenClients:
		return m.clientsKeys(k)
	case session.ScreenSettings:
		if key.Matches(k, m.keys.Edit, m.keys.Enter) {
			return session.EditSettings{}
		}
	}
	return nil
}

func (m Model) confirm(k tea.KeyMsg, yes, no session.Msg) session.Msg {
	switch {
	case key.Matches(k, m.keys.Yes):
		return yes
	case key.Matches(k, m.keys.No):
		return no
	}
	return nil
}

func (m Model) timerKeys(k tea.KeyMsg) session.Msg {
	s := m.sess
	switch s.Pomodoro.State {
	case pomodoro.WorkComplete:
		if key.Matches(k, m.keys.Ack) {
			return session.AcknowledgePomodoro{}
		}
		return nil
	case pomodoro.BreakComplete:
		if key.Matches(k, m.keys.Ack, m.keys.Start) {
			return session.AcknowledgePomodoro{}
		}
		return nil
	case pomodoro.OnBreak:
		return nil
	}

	switch {
	case key.Matches(k, m.keys.Start):
		if s.Active != nil {
			return session.StopTimer{}
		}
		return session.BeginTimerInput{}
	case key.Matches(k, m.keys.Pomodoro):
		return session.TogglePomodoro{}
	case key.Matches(k, m.keys.Enter, m.keys.Tab):
		if s.Active == nil {
			return session.BeginTimerInput{}
		}
	}
	return nil
}

func (m Model) entriesKeys(k tea.KeyMsg) session.Msg {
	switch {
	case key.Matches(k, m.keys.Down):
		return session.SelectNextEntry{}
	case key.Matches(k, m.keys.Up):
		return session.SelectPrevEntry{}
	case key.Matches(k, m.keys.Filter):
		return session.ToggleBilledFilter{}
	}

	e := m.sess.SelectedEntry()
	if e == nil {
		return nil
	}
	switch {
	case key.Matches(k, m.keys.Edit):
		return session.EditEntry{ID: e.ID}
	case key.Matches(k, m.keys.Delete):
		return session.DeleteEntry{ID: e.ID}
	case key.Matches(k, m.keys.Bill):
		if !e.Billed {
			return session.MarkBilled{ID: e.ID}
		}
	case key.Matches(k, m.keys.Unbill):
		if e.Billed {
			return session.UnbillEntry{ID: e.ID}
		}
	}
	return nil
}

func (m Model) invoiceKeys(k tea.KeyMsg) session.Msg {
	if m.sess.InvoiceMode == session.InvoiceSelectEntries {
		switch {
		case key.Matches(k, m.keys.Down):
			return session.NextInvoiceMode{}
		case key.Matches(k, m.keys.Up):
			return session.PrevInvoiceMode{}
		case key.Matches(k, m.keys.Toggle):
			if e := m.sess.SelectedInvoiceEntry(); e != nil {
				return session.ToggleEntrySelection{ID: e.ID}
			}
		case key.Matches(k, m.keys.Enter):
			return session.GenerateInvoice{}
		case key.Matches(k, m.keys.Esc):
			return session.ExitInvoiceSelect{}
		case key.Matches(k, m.keys.Client):
			return session.CycleInvoiceClient{}
		}
		return nil
	}

	switch {
	case key.Matches(k, m.keys.Down):
		return session.NextInvoiceMode{}
	case key.Matches(k, m.keys.Up):
		return session.PrevInvoiceMode{}
	case key.Matches(k, m.keys.Select):
		return session.EnterSelectEntries{}
	case key.Matches(k, m.keys.Client):
		return session.CycleInvoiceClient{}
	case key.Matches(k, m.keys.Enter):
		return session.GenerateInvoice{}
	}
	return nil
}

func (m Model) projectsKeys(k tea.KeyMsg) session.Msg {
	switch {
	case key.Matches(k, m.keys.Down):
		return session.SelectNextProject{}
	case key.Matches(k, m.keys.Up):
		return session.SelectPrevProject{}
	}
	p := m.sess.SelectedProject()
	if p == nil {
		return nil
	}
	switch {
	case key.Matches(k, m.keys.Edit, m.keys.Enter):
		return session.EditProjectRate{ID: p.ID}
	case key.Matches(k, m.keys.Clear):
		return session.ClearProjectRate{ID: p.ID}
	}
	return nil
}

func (m Model) pomodoroKeys(k tea.KeyMsg) session.Msg {
	switch {
	case key.Matches(k, m.keys.Pomodoro):
		return session.TogglePomodoro{}
	case key.Matches(k, m.keys.Edit, m.keys.Enter):
		return session.EditPomodoro{}
	}
	return nil
}

func (m Model) clientsKeys(k tea.KeyMsg) session.Msg {
	switch {
	case key.Matches(k, m.keys.Down):
		return session.SelectNextClient{}
	case key.Matches(k, m.keys.Up):
		return session.SelectPrevClient{}
	case key.Matches(k, m.keys.Add):
		return session.AddClient{}
	}
	c := m.sess.SelectedClient()
	if c == nil {
		return nil
	}
	switch {
	case key.Matches(k, m.keys.Edit, m.keys.Enter):
		return session.EditClient{ID: c.ID}
	case key.Matches(k, m.keys.Delete):
		return session.DeleteClient{ID: c.ID}
	}
	return nil
}

// wantsRangeForm reports whether k should open the custom range form: 'r' on
// the invoice screen, or enter while Custom Range has no dates yet.
func (m Model) wantsRangeForm(k tea.KeyMsg) bool {
	s := m.sess
	if s.ShowHelp || s.Screen != session.ScreenInvoice {
		return false
	}
	if _, ok := s.Mode.(session.Normal); !ok {
		return false
	}
	if s.InvoiceMode == session.InvoiceSelectEntries {
		return false
	}
	if key.Matches(k, m.keys.Range) {
		return true
	}
	return key.Matches(k, m.keys.Enter) &&
		s.InvoiceMode == session.InvoiceCustomRange &&
		(s.CustomStart == nil || s.CustomEnd == nil)
}

func (m *Model) openRangeForm() tea.Cmd {
	now := m.sess.Now().In(m.sess.Location())
	m.rangeForm = &RangeFormModel{
		Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(constants.DateFormat),
		End:   now.Format(constants.DateFormat),
	}
	if s := m.sess.CustomStart; s != nil {
		m.rangeForm.Start = s.Format(constants.DateFormat)
	}
	if e := m.sess.CustomEnd; e != nil {
		m.rangeForm.End = e.Format(constants.DateFormat)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Value(&m.rangeForm.Start).
				Validate(validateDate),
			huh.NewInput().
				Title("End date (YYYY-MM-DD)").
				Value(&m.rangeForm.End).
				Validate(validateDate),
		),
	)
	return m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form = nil
		m.rangeForm = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		start, end, err := m.rangeForm.parse()
		m.formError = ""
		if err != nil {
			m.formError = err.Error()
		} else {
			m.sess.Dispatch(session.SetCustomRange{Start: start, End: end})
		}
		m.form = nil
		m.rangeForm = nil
		return m, nil
	case huh.StateAborted:
		m.form = nil
		m.rangeForm = nil
		return m, nil
	}
	return m, cmd
}

func validateDate(s string) error {
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return fmt.Errorf("expected YYYY-MM-DD")
	}
	return nil
}

func (f *RangeFormModel) parse() (time.Time, time.Time, error) {
	start, err := time.Parse(constants.DateFormat, f.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q", f.Start)
	}
	end, err := time.Parse(constants.DateFormat, f.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q", f.End)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", f.End, f.Start)
	}
	return start, end, nil
}
