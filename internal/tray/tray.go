package tray

import (
	"context"
	"errors"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/notifier"
	"github.com/julianstephens/meter/internal/pomodoro"
	"github.com/julianstephens/meter/internal/session"
)

var ErrNoSystemTray = errors.New("this platform has no system tray")

var _ notifier.Notifier = (*App)(nil)

// App owns the tray menu. Ticker and menu callbacks share the session
// through mu.
type App struct {
	app  fyne.App
	desk desktop.App

	mu   sync.Mutex
	sess *session.Model

	menu   *fyne.Menu
	status *fyne.MenuItem
	start  *fyne.MenuItem
	stop   *fyne.MenuItem
	pomo   *fyne.MenuItem
	recent *fyne.MenuItem
}

// New builds the tray over store. The tray is its own notifier: Pomodoro
// phase changes become desktop notifications.
func New(a fyne.App, store session.Store, opts ...session.Option) (*App, error) {
	desk, ok := a.(desktop.App)
	if !ok {
		return nil, ErrNoSystemTray
	}
	t := &App{app: a, desk: desk}
	t.sess = session.New(store, append(opts, session.WithNotifier(t))...)
	t.buildMenu()
	return t, nil
}

func (t *App) NotifyWorkComplete() error  { t.send(constants.NotificationTitle, notifier.WorkCompleteText); return nil }
func (t *App) NotifyBreakComplete() error { t.send(constants.NotificationTitle, notifier.BreakCompleteText); return nil }

func (t *App) send(title, text string) {
	fyne.Do(func() {
		t.app.SendNotification(fyne.NewNotification(title, text))
	})
}

func (t *App) buildMenu() {
	t.status = fyne.NewMenuItem("", func() { t.acknowledge() })
	t.start = fyne.NewMenuItem("", func() {
		t.dispatch(session.StartProject{Project: t.Snapshot().StartProject, Description: constants.DefaultDescription})
	})
	t.stop = fyne.NewMenuItem("Stop Timer", func() { t.dispatch(session.StopTimer{}) })
	t.pomo = fyne.NewMenuItem("", func() { t.dispatch(session.TogglePomodoro{}) })
	t.recent = fyne.NewMenuItem("Recent Projects", nil)
	t.recent.ChildMenu = fyne.NewMenu("")

	quit := fyne.NewMenuItem("Quit Meter", func() {
		t.dispatch(session.Quit{})
		t.app.Quit()
	})
	quit.IsQuit = true

	t.menu = fyne.NewMenu(constants.AppName,
		t.status,
		fyne.NewMenuItemSeparator(),
		t.start,
		t.stop,
		t.recent,
		fyne.NewMenuItemSeparator(),
		t.pomo,
		fyne.NewMenuItemSeparator(),
		quit,
	)
	t.update(t.Snapshot())
	t.desk.SetSystemTrayMenu(t.menu)
	t.desk.SetSystemTrayIcon(theme.HistoryIcon())
}

// Snapshot returns the current menu state.
func (t *App) Snapshot() MenuState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot(t.sess)
}

func (t *App) dispatch(msgs ...session.Msg) {
	t.mu.Lock()
	for _, msg := range msgs {
		t.sess.Dispatch(msg)
	}
	state := Snapshot(t.sess)
	t.mu.Unlock()

	fyne.Do(func() { t.apply(state) })
}

// acknowledge confirms a finished phase. Confirming a finished break also
// starts the next work period on the remembered project.
func (t *App) acknowledge() {
	t.mu.Lock()
	resume := t.sess.Pomodoro.State == pomodoro.BreakComplete
	t.mu.Unlock()

	if !resume {
		t.dispatch(session.AcknowledgePomodoro{})
		return
	}
	t.dispatch(session.AcknowledgePomodoro{}, session.StartTimer{})
}

func (t *App) apply(s MenuState) {
	t.update(s)
	t.menu.Refresh()
}

func (t *App) update(s MenuState) {
	t.menu.Label = s.Title
	t.status.Label = s.Status
	t.status.Disabled = !s.CanAcknowledge
	t.start.Label = s.StartLabel
	t.start.Disabled = !s.StartEnabled
	t.stop.Disabled = !s.StopEnabled
	t.pomo.Label = s.PomodoroLabel

	items := make([]*fyne.MenuItem, 0, len(s.Recent))
	for _, project := range s.Recent {
		items = append(items, fyne.NewMenuItem("Start: "+project, func() {
			t.dispatch(session.StartProject{Project: project, Description: constants.DefaultDescription})
		}))
	}
	t.recent.ChildMenu.Items = items
	t.recent.Disabled = len(items) == 0 || !s.StartEnabled
}

// Run listens for notifications from other meter processes, ticks the
// session every interval and blocks in the fyne event loop until Quit.
func (t *App) Run(lockDir string, interval time.Duration) error {
	l, err := notifier.Listen(lockDir, func(p notifier.Payload) {
		t.send(p.Title, p.Text)
	})
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go t.tick(interval, done)

	t.app.Run()
	close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Close(ctx); err != nil {
		logger.Warn("Failed to stop notification listener", "error", err)
	}
	return nil
}

func (t *App) tick(interval time.Duration, done <-chan struct{}) {
	if interval <= 0 {
		interval = constants.TrayTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			t.dispatch(session.Tick{})
		}
	}
}
