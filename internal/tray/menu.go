// Package tray is the menu-bar front end. Like the TUI it keeps no state of
// its own: menu actions become session messages and the menu is redrawn
// from the session after every change.
package tray

import (
	"fmt"

	"github.com/julianstephens/meter/internal/pomodoro"
	"github.com/julianstephens/meter/internal/session"
	"github.com/julianstephens/meter/internal/utils"
)

const (
	recentLimit = 5
	// fallbackProject is started when nothing has been tracked yet
	fallbackProject = "Work"
)

// MenuState is everything the tray menu shows, derived from the session.
type MenuState struct {
	Title  string
	Status string
	// CanAcknowledge makes the status line clickable to confirm a finished phase
	CanAcknowledge bool

	StartLabel   string
	StartProject string
	StartEnabled bool
	StopEnabled  bool

	PomodoroLabel string
	Recent        []string
}

// Snapshot reads m. The caller must hold the lock guarding m.
func Snapshot(m *session.Model) MenuState {
	s := MenuState{
		Title:         title(m),
		StartProject:  lastProject(m),
		PomodoroLabel: "Pomodoro: OFF",
		Recent:        m.RecentProjects(recentLimit),
	}
	s.StartLabel = "Start: " + s.StartProject
	if m.PomodoroConfig.Enabled {
		s.PomodoroLabel = fmt.Sprintf("Pomodoro: ON (%dm)", m.PomodoroConfig.WorkMinutes)
	}

	switch m.Pomodoro.State {
	case pomodoro.WorkComplete:
		s.Status = "Work complete! Click to start break"
		s.CanAcknowledge = true
	case pomodoro.BreakComplete:
		s.Status = "Break complete! Click to resume"
		s.CanAcknowledge = true
	case pomodoro.OnBreak:
		s.Status = "On break..."
	default:
		if m.Active != nil {
			s.Status = fmt.Sprintf("%s - %s", m.Active.Project, utils.FormatElapsed(m.Elapsed()))
			s.StopEnabled = true
		} else {
			s.Status = "No active timer"
			s.StartEnabled = true
		}
	}
	return s
}

func title(m *session.Model) string {
	remaining, ok := m.PomodoroRemaining()
	switch m.Pomodoro.State {
	case pomodoro.Working:
		if ok {
			return fmt.Sprintf("Meter - Working (%s remaining)", utils.FormatCountdown(remaining))
		}
		return "Meter - Working"
	case pomodoro.OnBreak:
		if ok {
			return fmt.Sprintf("Meter - Break (%s remaining)", utils.FormatCountdown(remaining))
		}
		return "Meter - Break"
	case pomodoro.WorkComplete:
		return "Meter - Work complete! Start break?"
	case pomodoro.BreakComplete:
		return "Meter - Break complete! Resume work?"
	}
	if m.Active != nil {
		return fmt.Sprintf("Meter - %s (%s)", m.Active.Project, utils.FormatElapsed(m.Elapsed()))
	}
	return "Meter - No active timer"
}

// lastProject prefers the project Pomodoro will resume, then the newest entry.
func lastProject(m *session.Model) string {
	if p := m.Pomodoro.LastProject; p != "" {
		return p
	}
	if recent := m.RecentProjects(1); len(recent) > 0 {
		return recent[0]
	}
	return fallbackProject
}
