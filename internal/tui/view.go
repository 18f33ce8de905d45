package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/notifier"
	"github.com/julianstephens/meter/internal/pomodoro"
	"github.com/julianstephens/meter/internal/session"
	"github.com/julianstephens/meter/internal/utils"
)

func (m Model) View() string {
	if !m.sess.Running {
		return ""
	}

	var content string
	switch mode := m.sess.Mode.(type) {
	case *session.ConfirmingDelete:
		content = m.viewConfirm(fmt.Sprintf("Delete entry #%d?", mode.ID))
	case *session.ConfirmingDeleteClient:
		content = m.viewConfirm("Delete this client?")
	case *session.EditingEntry:
		content = m.viewEditEntry(mode)
	case *session.EditingRate:
		content = m.viewEditRate(mode)
	case *session.EditingClient:
		content = m.viewEditClient(mode)
	case *session.EditingSettings:
		content = m.viewEditSettings(mode)
	case *session.EditingPomodoro:
		content = m.viewEditPomodoro(mode)
	default:
		content = m.viewScreen()
	}
	if m.form != nil {
		content = docStyle.Render(titleStyle.Render("Custom Range") + "\n" + m.form.View())
	}

	m.help.ShowAll = m.sess.ShowHelp
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewScreen() string {
	switch m.sess.Screen {
	case session.ScreenEntries:
		return m.viewEntries()
	case session.ScreenInvoice:
		return m.viewInvoice()
	case session.ScreenProjects:
		return m.viewProjects()
	case session.ScreenPomodoro:
		return m.viewPomodoro()
	case session.ScreenClients:
		return m.viewClients()
	case session.ScreenSettings:
		return m.viewSettings()
	}
	return m.viewTimer()
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, screen := range session.Screens {
		title := fmt.Sprintf("%d %s", i+1, screen)
		if m.sess.Screen == screen {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.formError != "" {
		return statusStyle.Render(dangerStyle.Render(m.formError))
	}
	if m.sess.Status == "" {
		return ""
	}
	return statusStyle.Render(m.sess.Status)
}

func (m Model) viewConfirm(prompt string) string {
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(prompt),
			"",
			"[y] Yes",
			"[n] No",
		)),
	)
}

func (m Model) viewTimer() string {
	s := m.sess
	var b strings.Builder
	b.WriteString(titleStyle.Render("Timer"))
	b.WriteString("\n")

	switch s.Pomodoro.State {
	case pomodoro.WorkComplete:
		b.WriteString(successStyle.Render(notifier.WorkCompleteText))
		b.WriteString("\n\nPress space to start your break.")
		return docStyle.Render(b.String())
	case pomodoro.BreakComplete:
		b.WriteString(successStyle.Render(notifier.BreakCompleteText))
		b.WriteString("\n\nPress s or space to continue.")
		return docStyle.Render(b.String())
	}

	if s.Active != nil {
		b.WriteString(fmt.Sprintf("Tracking %s\n", successStyle.Render(s.Active.Project)))
		b.WriteString(mutedStyle.Render(s.Active.Description))
		b.WriteString("\n")
		b.WriteString(clockStyle.Render(utils.FormatElapsed(s.Elapsed())))
		b.WriteString("\n")
	} else if in, ok := s.Mode.(*session.TimerInput); ok {
		b.WriteString(field("Project", s.ProjectInput, in.Focus == session.TimerProject))
		b.WriteString(field("Description", s.DescriptionInput, in.Focus == session.TimerDescription))
		b.WriteString(mutedStyle.Render("\nenter start • tab switch field • esc cancel"))
		b.WriteString("\n")
	} else {
		b.WriteString(mutedStyle.Render("No timer running. Press s to start."))
		b.WriteString("\n")
	}

	if s.PomodoroConfig.Enabled {
		b.WriteString("\n")
		b.WriteString(m.viewPomodoroLine())
	}
	return docStyle.Render(b.String())
}

func (m Model) viewPomodoroLine() string {
	s := m.sess
	cfg := s.PomodoroConfig
	left, running := s.PomodoroRemaining()
	switch s.Pomodoro.State {
	case pomodoro.Working:
		if running {
			return fmt.Sprintf("🍅 Work %s remaining (cycle %d/%d)",
				utils.FormatCountdown(left), s.Pomodoro.CyclesCompleted+1, cfg.CyclesBeforeLong)
		}
	case pomodoro.OnBreak:
		kind := "Short break"
		if s.Pomodoro.IsLongBreakNext(cfg) {
			kind = "Long break"
		}
		if running {
			return warningStyle.Render(fmt.Sprintf("☕ %s %s remaining", kind, utils.FormatCountdown(left)))
		}
	}
	return mutedStyle.Render(fmt.Sprintf("🍅 Pomodoro on (%dm work)", cfg.WorkMinutes))
}

func (m Model) viewEntries() string {
	s := m.sess
	loc := s.Location()
	rows := make([]table.Row, len(s.Entries))
	for i, e := range s.Entries {
		end := utils.FormatEntryTime(e.End, loc)
		if e.IsActive() {
			end = "running"
		}
		billed := ""
		if e.Billed {
			billed = "✓"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", e.ID),
			e.Project,
			e.Description,
			utils.FormatEntryTime(&e.Start, loc),
			end,
			fmt.Sprintf("%.2f", e.Duration(s.Now()).Hours()),
			billed,
		}
	}

	title := "Entries"
	if s.UnbilledOnly {
		title += " (unbilled only)"
	}
	cols := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Project", Width: 18},
		{Title: "Description", Width: 24},
		{Title: "Start", Width: 16},
		{Title: "End", Width: 16},
		{Title: "Hours", Width: 6},
		{Title: "Billed", Width: 6},
	}
	if len(rows) == 0 {
		return docStyle.Render(titleStyle.Render(title) + "\n" + mutedStyle.Render("No entries yet."))
	}
	return docStyle.Render(titleStyle.Render(title) + "\n" + m.renderTable(cols, rows, s.EntryIndex))
}

func (m Model) viewInvoice() string {
	s := m.sess
	var b strings.Builder
	b.WriteString(titleStyle.Render("Invoice"))
	b.WriteString("\n")

	for i := session.InvoiceCurrentMonth; i <= session.InvoiceSelectEntries; i++ {
		label := i.String()
		if i == session.InvoiceCustomRange && s.CustomStart != nil && s.CustomEnd != nil {
			label = fmt.Sprintf("%s (%s to %s)", label,
				s.CustomStart.Format(constants.DateFormat), s.CustomEnd.Format(constants.DateFormat))
		}
		if i == s.InvoiceMode {
			b.WriteString(focusStyle.Render("> " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
	}

	billTo := "none"
	if c := s.InvoiceClientRecord(); c != nil {
		billTo = c.Name
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Bill To") + billTo + "\n")
	if period, ok := s.InvoicePeriod(); ok {
		b.WriteString(labelStyle.Render("Period") + fmt.Sprintf("%s to %s",
			period.Start.Format(constants.DateFormat), period.End.Format(constants.DateFormat)) + "\n")
	}

	if s.InvoiceMode == session.InvoiceSelectEntries {
		b.WriteString("\n")
		b.WriteString(m.viewInvoiceSelection())
	}

	if res := s.LastInvoice; res != nil {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(fmt.Sprintf("Last invoice %s", res.Invoice.Label())))
		b.WriteString(fmt.Sprintf("  %.2f hrs", res.Summary.TotalHours()))
		if res.Summary.HasRates {
			b.WriteString(fmt.Sprintf("  total %s", res.Invoice.Total.StringFixed(2)))
		}
		b.WriteString("\n" + mutedStyle.Render(res.Invoice.FilePath))
	}
	return docStyle.Render(b.String())
}

func (m Model) viewInvoiceSelection() string {
	s := m.sess
	if len(s.InvoiceEntries) == 0 {
		return mutedStyle.Render("No billed entries to choose from.")
	}
	loc := s.Location()
	rows := make([]table.Row, len(s.InvoiceEntries))
	for i, e := range s.InvoiceEntries {
		mark := "[ ]"
		if s.Selected[e.ID] {
			mark = "[x]"
		}
		rows[i] = table.Row{mark, e.Project, e.Description, utils.FormatEntryTime(&e.Start, loc), fmt.Sprintf("%.2f", e.Hours())}
	}
	cols := []table.Column{
		{Title: "", Width: 3},
		{Title: "Project", Width: 18},
		{Title: "Description", Width: 24},
		{Title: "Start", Width: 16},
		{Title: "Hours", Width: 6},
	}
	return m.renderTable(cols, rows, s.InvoiceIndex) +
		"\n" + mutedStyle.Render(fmt.Sprintf("%d selected", len(s.Selected)))
}

func (m Model) viewProjects() string {
	s := m.sess
	if len(s.Projects) == 0 {
		return docStyle.Render(titleStyle.Render("Projects") + "\n" + mutedStyle.Render("No projects yet. Start a timer to create one."))
	}
	rows := make([]table.Row, len(s.Projects))
	for i, p := range s.Projects {
		rate := p.FormattedRate()
		if rate == "" {
			rate = "not set"
		}
		rows[i] = table.Row{p.Name, rate}
	}
	cols := []table.Column{
		{Title: "Project", Width: 28},
		{Title: "Rate", Width: 16},
	}
	return docStyle.Render(titleStyle.Render("Projects") + "\n" + m.renderTable(cols, rows, s.ProjectIndex))
}

func (m Model) viewPomodoro() string {
	s := m.sess
	cfg := s.PomodoroConfig
	status := "OFF"
	if cfg.Enabled {
		status = "ON"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pomodoro"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Status") + status + "\n")
	b.WriteString(labelStyle.Render("State") + s.Pomodoro.State.String() + "\n")
	b.WriteString(labelStyle.Render(session.PomodoroWork.String()) + fmt.Sprintf("%d\n", cfg.WorkMinutes))
	b.WriteString(labelStyle.Render(session.PomodoroShortBreak.String()) + fmt.Sprintf("%d\n", cfg.ShortBreakMinutes))
	b.WriteString(labelStyle.Render(session.PomodoroLongBreak.String()) + fmt.Sprintf("%d\n", cfg.LongBreakMinutes))
	b.WriteString(labelStyle.Render(session.PomodoroCycles.String()) + fmt.Sprintf("%d\n", cfg.CyclesBeforeLong))
	b.WriteString(labelStyle.Render("Cycles Completed") + fmt.Sprintf("%d\n", s.Pomodoro.CyclesCompleted))
	return docStyle.Render(b.String())
}

func (m Model) viewClients() string {
	s := m.sess
	if len(s.Clients) == 0 {
		return docStyle.Render(titleStyle.Render("Clients") + "\n" + mutedStyle.Render("No clients yet. Press a to add one."))
	}
	rows := make([]table.Row, len(s.Clients))
	for i, c := range s.Clients {
		rows[i] = table.Row{c.Name, c.ContactPerson, c.Email, c.City}
	}
	cols := []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Contact", Width: 18},
		{Title: "Email", Width: 24},
		{Title: "City", Width: 14},
	}
	return docStyle.Render(titleStyle.Render("Clients") + "\n" + m.renderTable(cols, rows, s.ClientIndex))
}

func (m Model) viewSettings() string {
	st := m.sess.Settings
	values := []struct {
		label session.SettingsField
		value string
	}{
		{session.SettingsBusinessName, st.BusinessName},
		{session.SettingsStreet, st.Street},
		{session.SettingsCity, st.City},
		{session.SettingsState, st.State},
		{session.SettingsPostal, st.Postal},
		{session.SettingsCountry, st.Country},
		{session.SettingsEmail, st.Email},
		{session.SettingsPhone, st.Phone},
		{session.SettingsTaxID, st.TaxID},
		{session.SettingsPaymentTerms, st.PaymentTerms},
		{session.SettingsTaxRate, st.DefaultTaxRate.String()},
		{session.SettingsPaymentInstructions, st.PaymentInstructions},
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Invoice Settings"))
	b.WriteString("\n")
	for _, v := range values {
		b.WriteString(labelStyle.Render(v.label.String()) + v.value + "\n")
	}
	return docStyle.Render(b.String())
}

func (m Model) viewEditEntry(e *session.EditingEntry) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Edit Entry #%d", e.Original.ID)))
	b.WriteString("\n")
	for f := session.EntryProject; f <= session.EntryEnd; f++ {
		b.WriteString(field(f.String(), e.Values[f], f == e.Field))
	}
	b.WriteString(mutedStyle.Render("\nTimes are " + constants.EntryTimeFormat + " local. Leave End empty to keep the entry running."))
	return docStyle.Render(b.String())
}

func (m Model) viewEditRate(e *session.EditingRate) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Rate for " + e.Project.Name))
	b.WriteString("\n")
	b.WriteString(field("Hourly Rate", e.Rate, e.Focus == session.RateAmount))
	b.WriteString(field("Currency", e.Currency, e.Focus == session.RateCurrency))
	b.WriteString(mutedStyle.Render("\nLeave the rate empty to unprice the project."))
	return docStyle.Render(b.String())
}

func (m Model) viewEditClient(e *session.EditingClient) string {
	title := "New Client"
	if e.ID != 0 {
		title = "Edit Client"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for f := session.ClientName; f <= session.ClientEmail; f++ {
		b.WriteString(field(f.String(), e.Values[f], f == e.Field))
	}
	return docStyle.Render(b.String())
}

func (m Model) viewEditSettings(e *session.EditingSettings) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit Invoice Settings"))
	b.WriteString("\n")
	for f := session.SettingsBusinessName; f <= session.SettingsPaymentInstructions; f++ {
		b.WriteString(field(f.String(), e.Values[f], f == e.Field))
	}
	return docStyle.Render(b.String())
}

func (m Model) viewEditPomodoro(e *session.EditingPomodoro) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit Pomodoro"))
	b.WriteString("\n")
	for f := session.PomodoroWork; f <= session.PomodoroCycles; f++ {
		b.WriteString(field(f.String(), e.Values[f], f == e.Field))
	}
	return docStyle.Render(b.String())
}

func (m Model) renderTable(cols []table.Column, rows []table.Row, cursor int) string {
	height := len(rows) + 1
	if m.height > 12 && height > m.height-12 {
		height = m.height - 12
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	t.SetStyles(tableStyles())
	t.SetCursor(cursor)
	return t.View()
}

// field renders one labelled input line, highlighting the focused one.
func field(label, value string, focused bool) string {
	if focused {
		return labelStyle.Render(label) + focusStyle.Render(value+"█") + "\n"
	}
	return labelStyle.Render(label) + value + "\n"
}
