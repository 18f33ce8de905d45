// Package notifier delivers Pomodoro notifications to the meter-tray
// process over a local webhook.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/logger"
)

const (
	WorkCompleteText  = "Work period complete! Time for a break."
	BreakCompleteText = "Break complete! Ready to resume work?"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess

	ErrTrayNotRunning = errors.New("meter-tray is not running")
)

// Notifier is what the session calls when a Pomodoro phase ends.
type Notifier interface {
	NotifyWorkComplete() error
	NotifyBreakComplete() error
}

type Payload struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// Webhook posts notifications to the tray's listener, found through its lockfile.
type Webhook struct {
	lockDir string
	client  *http.Client
	retries int
	delay   time.Duration
}

// New returns a Webhook that looks for the lockfile in lockDir, or in the
// tray's config directory when lockDir is empty.
func New(lockDir string) *Webhook {
	return &Webhook{
		lockDir: lockDir,
		client:  &http.Client{Timeout: 2 * time.Second},
		retries: constants.NotifyMaxRetries,
		delay:   constants.NotifyRetryDelay,
	}
}

func (w *Webhook) NotifyWorkComplete() error  { return w.Notify(WorkCompleteText) }
func (w *Webhook) NotifyBreakComplete() error { return w.Notify(BreakCompleteText) }

// Notify sends text to the tray. Transport failures are retried a few
// times; a missing or stale lockfile is not.
func (w *Webhook) Notify(text string) error {
	dir := w.lockDir
	if dir == "" {
		var err error
		if dir, err = GetTrayAppConfigDir(); err != nil {
			return err
		}
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := Payload{
		Title:      constants.NotificationTitle,
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	}

	for attempt := 1; ; attempt++ {
		err = sendNotification(w.client, port, secret, payload)
		if err == nil || attempt >= w.retries {
			return err
		}
		logger.Debug("Notification attempt failed", "attempt", attempt, "error", err)
		time.Sleep(w.delay)
	}
}

// Nop discards notifications.
type Nop struct{}

func (Nop) NotifyWorkComplete() error  { return nil }
func (Nop) NotifyBreakComplete() error { return nil }

// GetTrayAppConfigDir returns the directory holding the tray lockfile. The
// tray's settings.json may point it elsewhere.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil {
		if dir := store.Settings.LockfileDir; dir != nil && *dir != "" {
			return *dir, nil
		}
	}
	return trayConfigDir, nil
}

func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	port, pid, secret, err := parseLockfile(content)
	if err != nil {
		return "", "", err
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayExecutablePrefix, process.Executable())
	}

	return strconv.Itoa(port), secret, nil
}

// parseLockfile reads "port|pid|secret".
func parseLockfile(content []byte) (port, pid int, secret string, err error) {
	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return 0, 0, "", errors.New("lockfile is malformed")
	}

	port, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, "", errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return 0, 0, "", fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, "", errors.New("invalid process ID in lockfile")
	}

	secret = strings.TrimSpace(parts[2])
	if secret == "" {
		return 0, 0, "", errors.New("secret in lockfile is empty")
	}
	return port, pid, secret, nil
}

func sendNotification(client *http.Client, port, secret string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:"+port, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.NotifierSecretHeader, secret)

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}
