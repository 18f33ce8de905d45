package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Screens   key.Binding
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Esc       key.Binding
	Tab       key.Binding
	ShiftTab  key.Binding
	Start     key.Binding
	Pomodoro  key.Binding
	Ack       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Bill      key.Binding
	Unbill    key.Binding
	Filter    key.Binding
	Add       key.Binding
	Clear     key.Binding
	Client    key.Binding
	Range     key.Binding
	Select    key.Binding
	Toggle    key.Binding
	Yes       key.Binding
	No        key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Screens, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Screens, k.Quit, k.Help},
		{k.Up, k.Down, k.Enter, k.Esc, k.Tab, k.ShiftTab},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Screens: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7"),
			key.WithHelp("1-7", "switch screen"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Start: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "start/stop"),
		),
		Pomodoro: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "toggle pomodoro"),
		),
		Ack: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "acknowledge"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Bill: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "mark billed"),
		),
		Unbill: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unbill"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "unbilled only"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear rate"),
		),
		Client: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "bill to"),
		),
		Range: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "set range"),
		),
		Select: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "select entries"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}
