// Package tui is the terminal front end. It owns no state of its own beyond
// layout and the custom-range form; every key becomes a session message.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/pomodoro"
	"github.com/julianstephens/meter/internal/session"
)

type tickMsg time.Time

type RangeFormModel struct {
	Start string
	End   string
}

type Model struct {
	sess      *session.Model
	keys      KeyMap
	help      help.Model
	interval  time.Duration
	form      *huh.Form
	rangeForm *RangeFormModel
	formError string
	width     int
	height    int
}

func NewModel(sess *session.Model, interval time.Duration) Model {
	if interval <= 0 {
		interval = constants.DefaultTickInterval
	}
	return Model{
		sess:     sess,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		interval: interval,
	}
}

// Run starts the full-screen program and blocks until the user quits.
func Run(sess *session.Model, interval time.Duration) error {
	_, err := tea.NewProgram(NewModel(sess, interval), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Screens, m.keys.Quit, m.keys.Help}
	if _, ok := m.sess.Mode.(session.Normal); !ok {
		return []key.Binding{m.keys.Enter, m.keys.Esc, m.keys.Tab}
	}
	switch m.sess.Screen {
	case session.ScreenTimer:
		switch m.sess.Pomodoro.State {
		case pomodoro.WorkComplete, pomodoro.BreakComplete:
			keys = append(keys, m.keys.Ack)
		default:
			keys = append(keys, m.keys.Start, m.keys.Pomodoro)
		}
	case session.ScreenEntries:
		keys = append(keys, m.keys.Edit, m.keys.Delete, m.keys.Bill, m.keys.Unbill, m.keys.Filter)
	case session.ScreenInvoice:
		if m.sess.InvoiceMode == session.InvoiceSelectEntries {
			keys = append(keys, m.keys.Toggle, m.keys.Enter, m.keys.Esc)
		} else {
			keys = append(keys, m.keys.Enter, m.keys.Range, m.keys.Client, m.keys.Select)
		}
	case session.ScreenProjects:
		keys = append(keys, m.keys.Edit, m.keys.Clear)
	case session.ScreenPomodoro:
		keys = append(keys, m.keys.Pomodoro, m.keys.Edit)
	case session.ScreenClients:
		keys = append(keys, m.keys.Add, m.keys.Edit, m.keys.Delete)
	case session.ScreenSettings:
		keys = append(keys, m.keys.Edit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Screens, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Esc, m.keys.Tab, m.keys.ShiftTab}
	return [][]key.Binding{global, navigation, m.ShortHelp()[3:]}
}
