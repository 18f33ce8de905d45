package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/logger"
)

// Listener is the tray side: a loopback HTTP server advertised through a
// lockfile that Webhook clients read.
type Listener struct {
	lockfile string
	secret   string
	server   *http.Server
	ln       net.Listener
	handle   func(Payload)
}

// Listen binds a random loopback port, writes the lockfile into dir and
// starts serving. handle is called once per accepted notification.
func Listen(dir string, handle func(Payload)) (*Listener, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to bind notification listener: %w", err)
	}

	l := &Listener{
		lockfile: filepath.Join(dir, constants.NotifierLockfileName),
		secret:   uuid.NewString(),
		ln:       ln,
		handle:   handle,
	}
	l.server = &http.Server{Handler: l, ReadHeaderTimeout: 5 * time.Second}

	if err := l.writeLockfile(dir); err != nil {
		ln.Close()
		return nil, err
	}

	go func() {
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Notification listener stopped", "error", err)
		}
	}()
	logger.Debug("Notification listener started", "addr", ln.Addr().String(), "lockfile", l.lockfile)
	return l, nil
}

func (l *Listener) Port() int {
	return l.ln.Addr().(*net.TCPAddr).Port
}

func (l *Listener) writeLockfile(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	content := fmt.Sprintf("%d|%d|%s", l.Port(), os.Getpid(), l.secret)
	tmp := l.lockfile + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	return os.Rename(tmp, l.lockfile)
}

func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Header.Get(constants.NotifierSecretHeader) != l.secret {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var p Payload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&p); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if p.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if p.Title == "" {
		p.Title = constants.NotificationTitle
	}

	if l.handle != nil {
		l.handle(p)
	}
	w.WriteHeader(http.StatusOK)
}

// Close stops the server and removes the lockfile.
func (l *Listener) Close(ctx context.Context) error {
	err := l.server.Shutdown(ctx)
	if rmErr := os.Remove(l.lockfile); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	return err
}
