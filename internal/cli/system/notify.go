package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/notifier"
)

// NotifyCmd pushes a notification through meter-tray. It exists to check
// the tray wiring from a shell.
type NotifyCmd struct {
	Message string `arg:"" optional:"" help:"Text to send. Defaults to the work-complete message."`
	Break   bool   `help:"Send the break-complete message."`
	LockDir string `help:"Directory holding the tray lockfile." type:"path"`
	DryRun  bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) text() string {
	switch {
	case c.Message != "":
		return c.Message
	case c.Break:
		return notifier.BreakCompleteText
	default:
		return notifier.WorkCompleteText
	}
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	text := c.text()
	if c.DryRun {
		ctx.Println("[DryRun] " + text)
		return nil
	}

	if err := notifier.New(c.LockDir).Notify(text); err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			return fmt.Errorf("%w; start it to receive notifications", err)
		}
		return fmt.Errorf("failed to send notification: %w", err)
	}
	ctx.Println(cli.Success("✓ Notification sent"))
	return nil
}
