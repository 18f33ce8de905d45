package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/models"
	"github.com/julianstephens/meter/internal/storage"
	"github.com/julianstephens/meter/internal/utils"
)

type StartCmd struct {
	Project string `short:"p" required:"" help:"Project to track time against."`
	Desc    string `short:"d" default:"Work session" help:"What you are working on."`
}

func (c *StartCmd) Run(ctx *Context) error {
	project := strings.TrimSpace(c.Project)
	if project == "" {
		return fmt.Errorf("project name is required")
	}

	entry, err := ctx.Store.StartTimer(project, c.Desc, ctx.Clock())
	if errors.Is(err, storage.ErrTimerRunning) {
		active, _ := ctx.Store.GetActiveEntry()
		if active != nil {
			return fmt.Errorf("a timer is already running for project '%s'; stop it first", active.Project)
		}
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to start timer: %w", err)
	}

	ctx.Printf("Started timer for project '%s'\n", entry.Project)
	return nil
}

type StopCmd struct{}

func (c *StopCmd) Run(ctx *Context) error {
	now := ctx.Clock()
	entry, err := ctx.Store.StopActiveTimer(now)
	if err != nil {
		return fmt.Errorf("failed to stop timer: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("no running timer")
	}

	ctx.Printf("Stopped timer for project '%s', duration %.2f hrs\n", entry.Project, entry.Hours())
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	active, err := ctx.Store.GetActiveEntry()
	if err != nil {
		return fmt.Errorf("failed to read active timer: %w", err)
	}
	if active == nil {
		ctx.Println("No timer running")
		return nil
	}

	elapsed := active.Duration(ctx.Clock())
	ctx.Printf("%s %s | %s | started %s\n",
		Success(utils.FormatElapsed(elapsed)),
		bold.Sprint(active.Project),
		active.Description,
		utils.FormatEntryTime(&active.Start, ctx.Location()),
	)
	return nil
}

type AddCmd struct {
	Project  string  `short:"p" required:"" help:"Project the time belongs to."`
	Desc     string  `short:"d" default:"Work session" help:"What the time was spent on."`
	Duration float64 `short:"D" required:"" help:"Duration in hours (e.g. 1.5)."`
}

// Run records a completed entry ending now.
func (c *AddCmd) Run(ctx *Context) error {
	project := strings.TrimSpace(c.Project)
	if project == "" {
		return fmt.Errorf("project name is required")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}

	end := ctx.Clock().UTC()
	start := end.Add(-time.Duration(c.Duration * float64(time.Hour)))
	desc := c.Desc
	if desc == "" {
		desc = constants.DefaultDescription
	}

	if _, err := ctx.Store.AddEntry(models.Entry{
		Project:     project,
		Description: desc,
		Start:       start,
		End:         &end,
	}); err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}

	ctx.Printf("Added manual entry for project '%s', duration %.2f hrs\n", project, c.Duration)
	return nil
}
