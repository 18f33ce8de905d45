package session

import (
	"errors"
	"strings"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/pomodoro"
	"github.com/julianstephens/meter/internal/storage/sqlstore"
)

func (m *Model) updateTimer(msg Msg) Msg {
	switch msg := msg.(type) {
	case StartTimer:
		return m.startTimer()

	case StartProject:
		m.ProjectInput = msg.Project
		m.DescriptionInput = msg.Description
		return StartTimer{}

	case StopTimer:
		return m.stopTimer()

	case BeginTimerInput:
		m.Mode = &TimerInput{Focus: TimerProject}

	case FocusTimerField:
		if in, ok := m.Mode.(*TimerInput); ok {
			if in.Focus == TimerProject {
				in.Focus = TimerDescription
			} else {
				in.Focus = TimerProject
			}
		}

	case TimerInputChar:
		if in, ok := m.Mode.(*TimerInput); ok {
			if in.Focus == TimerProject {
				m.ProjectInput += string(msg.Rune)
			} else {
				m.DescriptionInput += string(msg.Rune)
			}
		}

	case TimerInputBackspace:
		if in, ok := m.Mode.(*TimerInput); ok {
			if in.Focus == TimerProject {
				m.ProjectInput = popRune(m.ProjectInput)
			} else {
				m.DescriptionInput = popRune(m.DescriptionInput)
			}
		}

	case CancelInput:
		m.Mode = Normal{}
	}
	return nil
}

func (m *Model) startTimer() Msg {
	project := strings.TrimSpace(m.ProjectInput)
	if project == "" || m.Active != nil {
		return nil
	}
	desc := strings.TrimSpace(m.DescriptionInput)
	if desc == "" {
		desc = constants.DefaultDescription
	}

	now := m.now()
	entry, err := m.store.StartTimer(project, desc, now)
	if err != nil {
		logger.Error("Failed to start timer", "project", project, "error", err)
		m.setStatus("Failed to start timer: %v", err)
		if errors.Is(err, sqlstore.ErrTimerRunning) {
			// another process won the race; pick up its entry
			return RefreshActiveTimer{}
		}
		return nil
	}

	m.Pomodoro.Remember(entry.Project, entry.Description)
	m.Pomodoro.Update(pomodoro.TimerStarted{At: now}, m.PomodoroConfig)
	m.ProjectInput = ""
	m.DescriptionInput = constants.DefaultDescription
	m.Mode = Normal{}
	m.setStatus("Timer started")
	return RefreshActiveTimer{}
}

func (m *Model) stopTimer() Msg {
	if m.Active == nil {
		return nil
	}
	if _, err := m.store.StopActiveTimer(m.now()); err != nil {
		logger.Error("Failed to stop timer", "error", err)
		m.setStatus("Failed to stop timer: %v", err)
		return nil
	}

	m.Active = nil
	m.Pomodoro.Update(pomodoro.TimerStopped{}, m.PomodoroConfig)
	m.setStatus("Timer stopped")
	return RefreshEntries{}
}
