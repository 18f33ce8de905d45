package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Palette. Adaptive colors keep the clock readable on light terminals.
var (
	accent    = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D7AFF"}
	highlight = lipgloss.AdaptiveColor{Light: "#1F1D3D", Dark: "#F5F3E6"}
	selection = lipgloss.Color("57")
	subtle    = lipgloss.Color("244")
	good      = lipgloss.Color("35")
	caution   = lipgloss.Color("214")
	bad       = lipgloss.Color("160")
)

var (
	docStyle   = lipgloss.NewStyle().Padding(1, 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	mutedStyle = lipgloss.NewStyle().Foreground(subtle)
	labelStyle = mutedStyle.Width(26)

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(highlight).Background(selection).Padding(0, 1)
	inactiveTabStyle = mutedStyle.Padding(0, 1)

	// clockStyle frames the running timer and the Pomodoro countdown.
	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight).
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 3)

	focusStyle  = lipgloss.NewStyle().Foreground(highlight).Background(selection)
	statusStyle = lipgloss.NewStyle().Foreground(highlight).Padding(0, 1)
	dialogStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(caution).Padding(1, 3)

	successStyle = lipgloss.NewStyle().Bold(true).Foreground(good)
	warningStyle = lipgloss.NewStyle().Italic(true).Foreground(caution)
	dangerStyle  = lipgloss.NewStyle().Bold(true).Foreground(bad)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(subtle).
		BorderBottom(true)
	s.Selected = s.Selected.
		Bold(false).
		Foreground(highlight).
		Background(selection)
	return s
}
