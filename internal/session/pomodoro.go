package session

import (
	"strconv"

	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/pomodoro"
)

func (m *Model) updatePomodoro(msg Msg) Msg {
	switch msg := msg.(type) {
	case TogglePomodoro:
		m.togglePomodoro()

	case AcknowledgePomodoro:
		m.acknowledgePomodoro()

	case RefreshPomodoroConfig:
		m.refreshPomodoroConfig()

	case EditPomodoro:
		cfg := m.PomodoroConfig
		edit := &EditingPomodoro{}
		edit.Values[PomodoroWork] = strconv.Itoa(cfg.WorkMinutes)
		edit.Values[PomodoroShortBreak] = strconv.Itoa(cfg.ShortBreakMinutes)
		edit.Values[PomodoroLongBreak] = strconv.Itoa(cfg.LongBreakMinutes)
		edit.Values[PomodoroCycles] = strconv.Itoa(cfg.CyclesBeforeLong)
		m.Mode = edit

	case PomodoroNextField:
		if e, ok := m.Mode.(*EditingPomodoro); ok {
			e.Field = PomodoroField(cycle(int(e.Field), 1, int(pomodoroFieldCount)))
		}
	case PomodoroPrevField:
		if e, ok := m.Mode.(*EditingPomodoro); ok {
			e.Field = PomodoroField(cycle(int(e.Field), -1, int(pomodoroFieldCount)))
		}
	case PomodoroInput:
		if e, ok := m.Mode.(*EditingPomodoro); ok && msg.Rune >= '0' && msg.Rune <= '9' {
			e.Values[e.Field] += string(msg.Rune)
		}
	case PomodoroBackspace:
		if e, ok := m.Mode.(*EditingPomodoro); ok {
			e.Values[e.Field] = popRune(e.Values[e.Field])
		}

	case SavePomodoroConfig:
		e, ok := m.Mode.(*EditingPomodoro)
		if !ok {
			return nil
		}
		m.Mode = Normal{}
		cfg := m.PomodoroConfig
		positive := func(s string, dst *int) {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				*dst = n
			}
		}
		positive(e.Values[PomodoroWork], &cfg.WorkMinutes)
		positive(e.Values[PomodoroShortBreak], &cfg.ShortBreakMinutes)
		positive(e.Values[PomodoroLongBreak], &cfg.LongBreakMinutes)
		positive(e.Values[PomodoroCycles], &cfg.CyclesBeforeLong)

		if err := m.store.SavePomodoroConfig(cfg); err != nil {
			logger.Error("Failed to save Pomodoro config", "error", err)
			m.setStatus("Failed to save Pomodoro settings")
			return nil
		}
		m.PomodoroConfig = cfg
		m.setStatus("Pomodoro settings saved")

	case CancelPomodoroEdit:
		m.Mode = Normal{}
	}
	return nil
}

func (m *Model) togglePomodoro() {
	cfg := m.PomodoroConfig
	cfg.Enabled = !cfg.Enabled
	if err := m.store.SavePomodoroConfig(cfg); err != nil {
		logger.Error("Failed to save Pomodoro config", "error", err)
		m.setStatus("Failed to save Pomodoro settings")
		return
	}
	m.PomodoroConfig = cfg

	if cfg.Enabled {
		m.Pomodoro.Update(pomodoro.Enabled{At: m.now(), TimerActive: m.Active != nil}, cfg)
		if m.Active != nil {
			m.Pomodoro.Remember(m.Active.Project, m.Active.Description)
		}
		m.setStatus("Pomodoro mode enabled")
	} else {
		m.Pomodoro.Update(pomodoro.Disabled{}, cfg)
		m.setStatus("Pomodoro mode disabled")
	}
}

func (m *Model) acknowledgePomodoro() {
	switch m.Pomodoro.Update(pomodoro.Acknowledge{At: m.now()}, m.PomodoroConfig) {
	case pomodoro.BreakStarted:
		kind := "short"
		if m.Pomodoro.IsLongBreakNext(m.PomodoroConfig) {
			kind = "long"
		}
		m.setStatus("Starting %s break (%d min)", kind, m.Pomodoro.BreakMinutes(m.PomodoroConfig))
	case pomodoro.ResumeReady:
		if m.Pomodoro.LastProject != "" {
			m.ProjectInput = m.Pomodoro.LastProject
		}
		if m.Pomodoro.LastDescription != "" {
			m.DescriptionInput = m.Pomodoro.LastDescription
		}
		m.setStatus("Ready to start next work period")
	}
}
