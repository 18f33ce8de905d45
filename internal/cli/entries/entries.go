package entries

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/models"
	"github.com/julianstephens/meter/internal/storage"
	"github.com/julianstephens/meter/internal/utils"
	"github.com/julianstephens/meter/internal/validation"
)

type ListCmd struct {
	Billed   bool `short:"b" xor:"billed" help:"Only billed entries."`
	Unbilled bool `short:"u" xor:"billed" help:"Only pending entries."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	var filter *bool
	switch {
	case c.Billed:
		filter = &c.Billed
	case c.Unbilled:
		billed := false
		filter = &billed
	}

	entries, err := ctx.Store.ListEntries(filter)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	if len(entries) == 0 {
		ctx.Println("No entries found")
		return nil
	}

	now := ctx.Clock()
	loc := ctx.Location()
	tbl := cli.NewTable("ID", "PROJECT", "DESCRIPTION", "START", "END", "HOURS", "STATUS")
	var total float64
	for _, e := range entries {
		hours := e.Duration(now).Hours()
		end := utils.FormatEntryTime(e.End, loc)
		if e.IsActive() {
			end = cli.Success("running")
		}
		tbl.AddRow(e.ID, e.Project, e.Description, utils.FormatEntryTime(&e.Start, loc), end,
			fmt.Sprintf("%.2f", hours), cli.BilledLabel(e.Billed))
		total += hours
	}
	tbl.RightAlign(5)
	ctx.PrintTable(tbl)
	ctx.Printf("\n%d entries, %.2f hrs\n", len(entries), total)
	return nil
}

type BillCmd struct {
	ID *int64 `short:"i" help:"Entry to mark billed. Omit to bill every pending entry."`
}

func (c *BillCmd) Run(ctx *cli.Context) error {
	if c.ID == nil {
		n, err := ctx.Store.MarkAllBilled()
		if err != nil {
			return fmt.Errorf("failed to bill entries: %w", err)
		}
		ctx.Printf("Marked all pending entries as billed (%d)\n", n)
		return nil
	}

	ok, err := ctx.Store.MarkBilled(*c.ID)
	if err != nil {
		return fmt.Errorf("failed to bill entry: %w", err)
	}
	if !ok {
		return fmt.Errorf("entry %d not found", *c.ID)
	}
	ctx.Printf("Marked entry %d as billed\n", *c.ID)
	return nil
}

type UnbillCmd struct {
	ID *int64 `short:"i" help:"Entry to mark pending. Omit to unbill every billed entry."`
}

func (c *UnbillCmd) Run(ctx *cli.Context) error {
	if c.ID == nil {
		n, err := ctx.Store.UnmarkAllBilled()
		if err != nil {
			return fmt.Errorf("failed to unbill entries: %w", err)
		}
		ctx.Printf("Marked all billed entries as unbilled (%d)\n", n)
		return nil
	}

	ok, err := ctx.Store.UnmarkBilled(*c.ID)
	if err != nil {
		return fmt.Errorf("failed to unbill entry: %w", err)
	}
	if !ok {
		return fmt.Errorf("entry %d not found", *c.ID)
	}
	ctx.Printf("Marked entry %d as unbilled\n", *c.ID)
	return nil
}

type EditCmd struct {
	ID          int64   `arg:"" help:"Entry to edit."`
	Project     *string `short:"p" help:"New project name."`
	Description *string `short:"d" help:"New description."`
	Start       *string `help:"New start, 'YYYY-MM-DD HH:MM' local time or RFC 3339."`
	End         *string `help:"New end, 'YYYY-MM-DD HH:MM' local time or RFC 3339."`
	ClearEnd    bool    `help:"Mark the entry as running again."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.GetEntry(c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("entry %d not found", c.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to load entry: %w", err)
	}
	wasActive := entry.IsActive()

	loc := ctx.Location()
	updated := false
	if c.Project != nil {
		// A blank project keeps the current one.
		if p := strings.TrimSpace(*c.Project); p != "" {
			entry.Project = p
			updated = true
		}
	}
	if c.Description != nil {
		entry.Description = *c.Description
		updated = true
	}
	if c.Start != nil {
		start, err := utils.ParseTimestamp(*c.Start, loc)
		if err != nil {
			return err
		}
		entry.Start = start
		updated = true
	}
	if c.End != nil && c.ClearEnd {
		return fmt.Errorf("--end and --clear-end cannot be combined")
	}
	if c.End != nil {
		end, err := utils.ParseTimestamp(*c.End, loc)
		if err != nil {
			return err
		}
		entry.End = &end
		updated = true
	}
	if c.ClearEnd && !wasActive {
		active, err := ctx.Store.GetActiveEntry()
		if err != nil {
			return fmt.Errorf("failed to read active timer: %w", err)
		}
		if active != nil {
			return fmt.Errorf("entry %d is already running; stop it before reopening another", active.ID)
		}
		entry.End = nil
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified.")
		return nil
	}

	if err := checkEntry(ctx, entry); err != nil {
		return err
	}
	if _, err := ctx.Store.UpdateEntry(entry); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	ctx.Printf("Updated entry %d\n", entry.ID)
	return nil
}

// checkEntry rejects edits that would leave the entry malformed.
func checkEntry(ctx *cli.Context, entry models.Entry) error {
	result := validation.NewWithClock(ctx.Clock).ValidateEntries([]models.Entry{entry})
	if result.HasConflicts() {
		return fmt.Errorf("refusing to save entry %d: %s", entry.ID, result.Conflicts[0].Description)
	}
	return nil
}

type DeleteCmd struct {
	ID  int64 `arg:"" help:"Entry to delete."`
	Yes bool  `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.GetEntry(c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("entry %d not found", c.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to load entry: %w", err)
	}

	if !c.Yes {
		ok, err := ctx.Confirm(
			fmt.Sprintf("Delete entry %d?", entry.ID),
			fmt.Sprintf("%s | %s | %.2f hrs", entry.Project, entry.Description, entry.Duration(ctx.Clock()).Hours()),
		)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	if _, err := ctx.Store.DeleteEntry(entry.ID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	ctx.Printf("Deleted entry %d\n", entry.ID)
	return nil
}
