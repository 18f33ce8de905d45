package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/models"
	"github.com/julianstephens/meter/internal/storage"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpConfig   DebugDumpConfigCmd   `cmd:"" help:"Dump the resolved configuration as JSON."`
	DumpEntry    DebugDumpEntryCmd    `cmd:"" help:"Dump an entry as JSON."`
	DumpProject  DebugDumpProjectCmd  `cmd:"" help:"Dump a project as JSON."`
	DumpClient   DebugDumpClientCmd   `cmd:"" help:"Dump a client as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump invoice and Pomodoro settings as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(b))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path":   ctx.Store.GetConfigPath(),
		"driver": string(ctx.Store.Driver()),
	})
}

type DebugDumpConfigCmd struct{}

func (cmd *DebugDumpConfigCmd) Run(ctx *cli.Context) error {
	if ctx.Config == nil {
		return errors.New("no configuration loaded")
	}
	c := ctx.Config
	return printJSON(ctx, map[string]any{
		"dir":            c.Dir,
		"file":           c.File,
		"database":       c.Database,
		"invoice_dir":    c.InvoiceDir,
		"invoice_format": c.InvoiceFormat,
		"tick_interval":  c.TickInterval.String(),
		"debug":          c.Debug,
	})
}

type DebugDumpEntryCmd struct {
	ID int64 `arg:"" help:"ID of the entry to dump."`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Store.GetEntry(cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("entry not found: %d", cmd.ID)
		}
		return fmt.Errorf("failed to get entry: %w", err)
	}
	return printJSON(ctx, e)
}

type DebugDumpProjectCmd struct {
	Name string `arg:"" help:"Name of the project to dump."`
}

func (cmd *DebugDumpProjectCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Store.GetProject(cmd.Name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("project not found: %s", cmd.Name)
		}
		return fmt.Errorf("failed to get project: %w", err)
	}
	return printJSON(ctx, p)
}

type DebugDumpClientCmd struct {
	ID int64 `arg:"" help:"ID of the client to dump."`
}

func (cmd *DebugDumpClientCmd) Run(ctx *cli.Context) error {
	c, err := ctx.Store.GetClient(cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("client not found: %d", cmd.ID)
		}
		return fmt.Errorf("failed to get client: %w", err)
	}
	return printJSON(ctx, c)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	invoiceSettings, err := ctx.Store.GetInvoiceSettings()
	if err != nil {
		return fmt.Errorf("failed to get invoice settings: %w", err)
	}
	pomo, err := ctx.Store.GetPomodoroConfig()
	if err != nil {
		return fmt.Errorf("failed to get Pomodoro settings: %w", err)
	}
	return printJSON(ctx, struct {
		Invoice  models.InvoiceSettings `json:"invoice"`
		Pomodoro models.PomodoroConfig  `json:"pomodoro"`
	}{invoiceSettings, pomo})
}
