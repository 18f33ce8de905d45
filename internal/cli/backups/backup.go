package backups

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/meter/internal/backup"
	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/migration"
)

func requireSQLite(ctx *cli.Context) error {
	if ctx.Store.Driver() != migration.DriverSQLite {
		return fmt.Errorf("backups are only supported for SQLite databases; use your PostgreSQL tooling instead")
	}
	return nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	if err := requireSQLite(ctx); err != nil {
		return err
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	if err := requireSQLite(ctx); err != nil {
		return err
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	tbl := cli.NewTable("CREATED", "FILE", "SIZE")
	for _, b := range backups {
		tbl.AddRow(b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0))
	}
	tbl.RightAlign(2)
	ctx.PrintTable(tbl)
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	if err := requireSQLite(ctx); err != nil {
		return err
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())

	backupPath, err := resolve(c.BackupFile, mgr.Dir())
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace your current database with the backup.")
		ctx.Println("⚠️  IMPORTANT: Quit the TUI and meter-tray before restoring.")
		ctx.Println("A backup of your current database will be created before restoring.")
		ok, err := ctx.Confirm("Restore from "+filepath.Base(backupPath)+"?", backupPath)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	// Release the file before it is replaced.
	if err := ctx.Store.Close(); err != nil {
		logger.Warn("Failed to close database before restore", "error", err)
	}

	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Println("✓ Database restored successfully!")
	if previous != "" {
		ctx.Printf("  Previous database saved as %s\n", filepath.Base(previous))
	}
	return nil
}

// resolve finds a backup given as an absolute path, a path relative to the
// working directory, or a bare name inside the backup directory.
func resolve(name, dir string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		abs, err := filepath.Abs(name)
		if err != nil {
			return "", fmt.Errorf("failed to resolve backup path: %w", err)
		}
		return abs, nil
	}
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", dir)
}
