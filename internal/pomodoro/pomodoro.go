// Package pomodoro implements the work/break cycle that runs alongside
// the active timer.
//
// The scheduler never touches storage or notifications. Update returns an
// Effect and the caller performs the side effects it names.
package pomodoro

import (
	"time"

	"github.com/julianstephens/meter/internal/models"
)

type State int

const (
	Idle State = iota
	Working
	WorkComplete
	OnBreak
	BreakComplete
)

func (s State) String() string {
	switch s {
	case Working:
		return "Working"
	case WorkComplete:
		return "Work Complete"
	case OnBreak:
		return "On Break"
	case BreakComplete:
		return "Break Complete"
	default:
		return "Idle"
	}
}

// Effect tells the caller what to do after an Update.
type Effect int

const (
	None Effect = iota
	// WorkExpired: stop the running timer and send the work-complete notification
	WorkExpired
	// BreakExpired: send the break-complete notification
	BreakExpired
	// BreakStarted: the user acknowledged work completion
	BreakStarted
	// ResumeReady: the user acknowledged break completion; pre-fill the resume inputs
	ResumeReady
)

// Event is an input to the scheduler.
type Event interface {
	event()
}

type (
	// TimerStarted is sent after the user starts a timer with Pomodoro enabled.
	TimerStarted struct{ At time.Time }
	// TimerStopped is sent after the user stops the timer manually.
	TimerStopped struct{}
	// Enabled is sent when the user turns Pomodoro on.
	Enabled struct {
		At          time.Time
		TimerActive bool
	}
	// Disabled is sent when the user turns Pomodoro off.
	Disabled struct{}
	// Tick evaluates interval expiry.
	Tick struct{ At time.Time }
	// Acknowledge confirms a completed phase.
	Acknowledge struct{ At time.Time }
	// Reconcile reports a timer change made by another process.
	Reconcile struct {
		At      time.Time
		Started bool
		Stopped bool
	}
)

func (TimerStarted) event() {}
func (TimerStopped) event() {}
func (Enabled) event()      {}
func (Disabled) event()     {}
func (Tick) event()         {}
func (Acknowledge) event()  {}
func (Reconcile) event()    {}

// Scheduler is the in-memory Pomodoro state. The zero value is Idle.
type Scheduler struct {
	State           State
	IntervalStart   *time.Time
	CyclesCompleted int
	// LastProject and LastDescription are remembered for resuming after a break
	LastProject     string
	LastDescription string
}

// Anchor puts the scheduler in Working with the interval starting at at,
// used when a process starts while a timer is already running.
func (s *Scheduler) Anchor(at time.Time) {
	s.State = Working
	s.startInterval(at)
}

// Remember records what to pre-fill when work resumes.
func (s *Scheduler) Remember(project, description string) {
	s.LastProject = project
	s.LastDescription = description
}

// Update applies one event and returns the effect the caller must carry out.
func (s *Scheduler) Update(ev Event, cfg models.PomodoroConfig) Effect {
	switch ev := ev.(type) {
	case TimerStarted:
		if cfg.Enabled {
			s.Anchor(ev.At)
		}
	case TimerStopped:
		s.reset()
	case Enabled:
		if ev.TimerActive {
			s.Anchor(ev.At)
		}
	case Disabled:
		s.reset()
	case Tick:
		return s.tick(ev.At, cfg)
	case Acknowledge:
		return s.acknowledge(ev.At, cfg)
	case Reconcile:
		s.reconcile(ev, cfg)
	}
	return None
}

func (s *Scheduler) tick(now time.Time, cfg models.PomodoroConfig) Effect {
	if !cfg.Enabled || s.IntervalStart == nil {
		return None
	}

	elapsed := now.Sub(*s.IntervalStart)
	switch s.State {
	case Working:
		if elapsed >= minutes(cfg.WorkMinutes) {
			s.State = WorkComplete
			s.IntervalStart = nil
			return WorkExpired
		}
	case OnBreak:
		if elapsed >= minutes(s.BreakMinutes(cfg)) {
			s.State = BreakComplete
			s.IntervalStart = nil
			return BreakExpired
		}
	}
	return None
}

func (s *Scheduler) acknowledge(now time.Time, cfg models.PomodoroConfig) Effect {
	switch s.State {
	case WorkComplete:
		s.State = OnBreak
		s.startInterval(now)
		return BreakStarted
	case BreakComplete:
		s.CyclesCompleted++
		if s.CyclesCompleted >= cfg.CyclesBeforeLong {
			s.CyclesCompleted = 0
		}
		s.State = Idle
		s.IntervalStart = nil
		return ResumeReady
	}
	return None
}

// reconcile follows timer changes made elsewhere: an outside stop ends the
// work interval, an outside start while idle begins one.
func (s *Scheduler) reconcile(ev Reconcile, cfg models.PomodoroConfig) {
	if !cfg.Enabled {
		return
	}
	switch {
	case ev.Stopped && s.State == Working:
		s.reset()
	case ev.Started && s.State == Idle:
		s.Anchor(ev.At)
	}
}

func (s *Scheduler) reset() {
	s.State = Idle
	s.IntervalStart = nil
	s.CyclesCompleted = 0
}

func (s *Scheduler) startInterval(at time.Time) {
	t := at
	s.IntervalStart = &t
}

// IsLongBreakNext reports whether the upcoming break is the long one.
func (s *Scheduler) IsLongBreakNext(cfg models.PomodoroConfig) bool {
	return s.CyclesCompleted+1 >= cfg.CyclesBeforeLong
}

// BreakMinutes is the length of the upcoming (or current) break.
func (s *Scheduler) BreakMinutes(cfg models.PomodoroConfig) int {
	if s.IsLongBreakNext(cfg) {
		return cfg.LongBreakMinutes
	}
	return cfg.ShortBreakMinutes
}

// Remaining returns the time left in the current interval, clamped at zero.
// ok is false outside Working and OnBreak or when no interval is running.
func (s *Scheduler) Remaining(now time.Time, cfg models.PomodoroConfig) (d time.Duration, ok bool) {
	if s.IntervalStart == nil {
		return 0, false
	}

	var total time.Duration
	switch s.State {
	case Working:
		total = minutes(cfg.WorkMinutes)
	case OnBreak:
		total = minutes(s.BreakMinutes(cfg))
	default:
		return 0, false
	}

	left := total - now.Sub(*s.IntervalStart)
	if left < 0 {
		left = 0
	}
	return left, true
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
