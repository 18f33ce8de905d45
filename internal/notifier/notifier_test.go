package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/meter/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return tempDir, nil }

	want := filepath.Join(tempDir, constants.TrayAppIdentifier)
	if dir, err := GetTrayAppConfigDir(); err != nil || dir != want {
		t.Errorf("GetTrayAppConfigDir() = %s, %v, want %s", dir, err, want)
	}

	if err := os.MkdirAll(want, 0755); err != nil {
		t.Fatal(err)
	}
	settings := `{"settings": {"lockfile_dir": "/custom/meter/dir"}}`
	if err := os.WriteFile(filepath.Join(want, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}
	if dir, err := GetTrayAppConfigDir(); err != nil || dir != "/custom/meter/dir" {
		t.Errorf("GetTrayAppConfigDir() = %s, %v, want /custom/meter/dir", dir, err)
	}
}

func TestParseLockfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"valid", "8080|12345|s3cret", ""},
		{"two parts", "8080|12345", "malformed"},
		{"garbage", "invalid", "malformed"},
		{"empty secret", "8080|12345|", "secret"},
		{"empty port", "|12345|s3cret", "port"},
		{"port out of range", "99999|12345|s3cret", "range"},
		{"bad pid", "8080|abc|s3cret", "process ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := parseLockfile([]byte(tt.content))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("parseLockfile(%q) error = %v", tt.content, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("parseLockfile(%q) error = %v, want mention of %q", tt.content, err, tt.wantErr)
			}
		})
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfile); err != ErrTrayNotRunning {
		t.Errorf("missing lockfile error = %v, want ErrTrayNotRunning", err)
	}

	if err := os.WriteFile(lockfile, []byte("8080|12345|s3cret"), 0600); err != nil {
		t.Fatal(err)
	}

	stubProcess(t, "")
	if _, _, err := findAndValidateTrayProcess(lockfile); err == nil {
		t.Error("expected error for missing process")
	}

	stubProcess(t, "other-app")
	if _, _, err := findAndValidateTrayProcess(lockfile); err == nil {
		t.Error("expected error for wrong executable")
	}

	stubProcess(t, "meter-tray")
	port, secret, err := findAndValidateTrayProcess(lockfile)
	if err != nil {
		t.Fatalf("findAndValidateTrayProcess() error = %v", err)
	}
	if port != "8080" || secret != "s3cret" {
		t.Errorf("findAndValidateTrayProcess() = %s, %s, want 8080, s3cret", port, secret)
	}
}

func TestSendNotification(t *testing.T) {
	l := &Listener{secret: "test-secret"}
	server := httptest.NewServer(l)
	defer server.Close()
	port := server.URL[strings.LastIndex(server.URL, ":")+1:]

	tests := []struct {
		name    string
		secret  string
		text    string
		wantErr bool
	}{
		{"success", "test-secret", "hello", false},
		{"missing secret", "", "hello", true},
		{"wrong secret", "wrong", "hello", true},
		{"empty text", "test-secret", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sendNotification(server.Client(), port, tt.secret, Payload{Text: tt.text})
			if (err != nil) != tt.wantErr {
				t.Errorf("sendNotification() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestListenerRejectsGet(t *testing.T) {
	l := &Listener{secret: "s"}
	rec := httptest.NewRecorder()
	l.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestWebhookRoundTrip(t *testing.T) {
	dir := t.TempDir()
	stubProcess(t, "meter-tray")

	var (
		mu   sync.Mutex
		got  []Payload
		done = make(chan struct{}, 2)
	)
	l, err := Listen(dir, func(p Payload) {
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
		done <- struct{}{}
	})
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	lockfile := filepath.Join(dir, constants.NotifierLockfileName)
	if _, err := os.Stat(lockfile); err != nil {
		t.Fatalf("lockfile not written: %v", err)
	}

	w := New(dir)
	if err := w.NotifyWorkComplete(); err != nil {
		t.Fatalf("NotifyWorkComplete() error = %v", err)
	}
	if err := w.NotifyBreakComplete(); err != nil {
		t.Fatalf("NotifyBreakComplete() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for notification")
		}
	}

	mu.Lock()
	if len(got) != 2 || got[0].Text != WorkCompleteText || got[1].Text != BreakCompleteText {
		t.Errorf("received %+v, want work then break notifications", got)
	}
	if got[0].Title != constants.NotificationTitle {
		t.Errorf("Title = %q, want %q", got[0].Title, constants.NotificationTitle)
	}
	mu.Unlock()

	if err := l.Close(context.Background()); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, err := os.Stat(lockfile); !os.IsNotExist(err) {
		t.Errorf("lockfile still present after Close()")
	}
	if err := w.NotifyWorkComplete(); err != ErrTrayNotRunning {
		t.Errorf("Notify after Close() error = %v, want ErrTrayNotRunning", err)
	}
}
