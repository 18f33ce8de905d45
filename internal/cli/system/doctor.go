package system

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/julianstephens/meter/internal/backup"
	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/migration"
	"github.com/julianstephens/meter/internal/validation"
	"github.com/julianstephens/meter/migrations"
)

type DoctorCmd struct {
	Fix bool `help:"Stop all but the newest running timer when several are active."`
}

type check struct {
	name string
	run  func(*cli.Context) error
	// needsDB checks are skipped when the database is unreachable
	needsDB bool
	// warnOnly failures do not fail the run
	warnOnly bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Schema version", run: checkSchemaVersion, needsDB: true},
		{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
		{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
		{name: "Data validation", run: cmd.checkValidation, needsDB: true},
		{name: "Clock/timezone", run: func(c *cli.Context) error { return checkClockTimezone(c.Clock()) }},
		{name: "Config file", run: checkConfigFile, warnOnly: true},
	}

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	db := ctx.Store.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

// schemaVersions returns the applied and the latest embedded schema version.
func schemaVersions(ctx *cli.Context) (current, latest int, err error) {
	driver := ctx.Store.Driver()
	subFS, err := fs.Sub(migrations.FS, string(driver))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to access %s migrations: %w", driver, err)
	}
	runner := migration.NewRunner(ctx.Store.GetDB(), subFS, driver)

	current, err = runner.GetCurrentVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err = runner.GetLatestVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'meter migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if ctx.Store.Driver() != migration.DriverSQLite {
		return fmt.Errorf("backups are managed by your PostgreSQL tooling")
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'meter backup create'")
	}
	return nil
}

func (cmd *DoctorCmd) checkValidation(ctx *cli.Context) error {
	entries, err := ctx.Store.ListEntries(nil)
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}
	projects, err := ctx.Store.ListProjects()
	if err != nil {
		return fmt.Errorf("failed to get projects: %w", err)
	}

	v := validation.NewWithClock(ctx.Clock)
	result := v.ValidateEntries(entries)
	result.Conflicts = append(result.Conflicts, v.ValidateProjects(projects).Conflicts...)
	if !result.HasConflicts() {
		return nil
	}

	if cmd.Fix {
		actions := validation.AutoFixMultipleActive(result.Conflicts, entries, func(id int64, at time.Time) error {
			e, err := ctx.Store.GetEntry(id)
			if err != nil {
				return err
			}
			e.End = &at
			_, err = ctx.Store.UpdateEntry(e)
			return err
		})
		for _, a := range actions {
			ctx.Printf("   %s\n", a.Action)
		}
		if len(actions) > 0 {
			if entries, err = ctx.Store.ListEntries(nil); err != nil {
				return fmt.Errorf("failed to reload entries: %w", err)
			}
			result = v.ValidateEntries(entries)
			result.Conflicts = append(result.Conflicts, v.ValidateProjects(projects).Conflicts...)
			if !result.HasConflicts() {
				return nil
			}
		}
	}

	return fmt.Errorf("%d conflict(s)\n%s", len(result.Conflicts), result.FormatReport())
}

func checkClockTimezone(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkConfigFile(ctx *cli.Context) error {
	if ctx.Config == nil || ctx.Config.File == "" {
		return fmt.Errorf("no config file found; using defaults")
	}
	return nil
}
