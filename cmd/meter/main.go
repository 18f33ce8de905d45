package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/cli/backups"
	"github.com/julianstephens/meter/internal/cli/clients"
	"github.com/julianstephens/meter/internal/cli/entries"
	"github.com/julianstephens/meter/internal/cli/invoices"
	"github.com/julianstephens/meter/internal/cli/projects"
	"github.com/julianstephens/meter/internal/cli/settings"
	"github.com/julianstephens/meter/internal/cli/system"
	"github.com/julianstephens/meter/internal/config"
	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/errors"
	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/storage"
)

var CLI struct {
	Version    kong.VersionFlag
	Database   string `name:"db" help:"SQLite path or PostgreSQL connection string. Overrides the configured database. PostgreSQL credentials must NOT be embedded; use .pgpass, PG* environment variables or 'meter keyring set'."`
	ConfigFile string `name:"config" help:"Config file to read instead of ~/.meter/config.yaml." type:"path"`
	Verbose    bool   `short:"v" help:"Log debug output to stderr."`

	Start  cli.StartCmd  `cmd:"" help:"Start a timer."`
	Stop   cli.StopCmd   `cmd:"" help:"Stop the running timer."`
	Status cli.StatusCmd `cmd:"" help:"Show the running timer."`
	Add    cli.AddCmd    `cmd:"" help:"Add a completed entry of the given length ending now."`

	List   entries.ListCmd   `cmd:"" help:"List time entries."`
	Bill   entries.BillCmd   `cmd:"" help:"Mark entries as billed."`
	Unbill entries.UnbillCmd `cmd:"" help:"Mark entries as pending."`
	Edit   entries.EditCmd   `cmd:"" help:"Edit an entry."`
	Delete entries.DeleteCmd `cmd:"" help:"Delete an entry."`

	Invoice  invoices.InvoiceCmd  `cmd:"" help:"Generate and list invoices."`
	Rate     projects.RateCmd     `cmd:"" help:"Show, set or clear a project's hourly rate."`
	Projects projects.ListCmd     `cmd:"" help:"List projects and their rates."`
	Client   clients.ClientCmd    `cmd:"" help:"Manage invoice clients."`
	Settings settings.SettingsCmd `cmd:"" help:"Show or change invoice settings."`
	Pomodoro settings.PomodoroCmd `cmd:"" help:"Show or change Pomodoro settings."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`

	Init    system.InitCmd    `cmd:"" help:"Initialize meter storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Debug   system.DebugCmd   `cmd:"" help:"Debug commands for troubleshooting."`
	Notify  system.NotifyCmd  `cmd:"" hidden:"" help:"Send a notification through meter-tray."`
}

// Commands that never touch the database, and commands that open it themselves.
var (
	storeless = map[string]bool{"keyring": true, "notify": true}
	selfLoad  = map[string]bool{"init": true, "doctor": true}
)

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track consulting hours and generate invoices"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(config.Options{File: CLI.ConfigFile})
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Database != "" {
		cfg.Database = CLI.Database
	}
	cfg.Debug = cfg.Debug || CLI.Verbose

	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.Dir}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Close()

	command := strings.Fields(ctx.Command())[0]
	logger.Debug("Starting", "version", constants.Version, "command", command, "config", cfg.File)

	appCtx := &cli.Context{Config: cfg}
	if !storeless[command] {
		appCtx.Store, err = openStore(cfg)
		if err != nil {
			errors.Fatal(err)
		}
		defer appCtx.Store.Close()

		if !selfLoad[command] {
			if err := storage.Ready(appCtx.Store); err != nil {
				errors.Fatal(err)
			}
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		if appCtx.Store != nil {
			appCtx.Store.Close()
		}
		errors.Fatal(err)
	}
}

func openStore(cfg *config.Config) (storage.Provider, error) {
	target, err := cfg.DatabaseTarget()
	if err != nil {
		return nil, err
	}
	if cfg.Database == config.KeyringDatabase {
		return storage.NewTrusted(target)
	}
	return storage.New(target)
}
