package session

import (
	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/pomodoro"
)

func (m *Model) updateRefresh(msg Msg) Msg {
	switch msg.(type) {
	case RefreshEntries:
		m.refreshEntries()
	case RefreshActiveTimer:
		m.refreshActive()
	case Tick:
		return m.tick()
	}
	return nil
}

// tick reconciles the mirror with the store, then lets the scheduler
// expire intervals.
func (m *Model) tick() Msg {
	now := m.now()

	prev := m.Active
	if active, err := m.store.GetActiveEntry(); err != nil {
		logger.Error("Failed to read active timer", "error", err)
	} else {
		m.Active = active
		started := prev == nil && active != nil
		stopped := prev != nil && active == nil
		if started || stopped {
			logger.Debug("Timer changed outside this session", "started", started, "stopped", stopped)
			if started {
				m.Pomodoro.Remember(active.Project, active.Description)
			}
			m.Pomodoro.Update(pomodoro.Reconcile{At: now, Started: started, Stopped: stopped}, m.PomodoroConfig)
		}
	}

	switch m.Pomodoro.Update(pomodoro.Tick{At: now}, m.PomodoroConfig) {
	case pomodoro.WorkExpired:
		if m.Active != nil {
			m.Pomodoro.Remember(m.Active.Project, m.Active.Description)
		}
		if _, err := m.store.StopActiveTimer(now); err != nil {
			logger.Error("Failed to stop timer at end of work period", "error", err)
		}
		m.Active = nil
		if err := m.notify.NotifyWorkComplete(); err != nil {
			logger.Debug("Work-complete notification not delivered", "error", err)
		}
		m.setStatus("Work period complete! Press [Space] to start break")
		return RefreshEntries{}

	case pomodoro.BreakExpired:
		if err := m.notify.NotifyBreakComplete(); err != nil {
			logger.Debug("Break-complete notification not delivered", "error", err)
		}
		m.setStatus("Break complete! Press [s] to resume work")
	}
	return nil
}
