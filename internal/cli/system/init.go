package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/migration"
	"github.com/julianstephens/meter/internal/storage"
	"github.com/julianstephens/meter/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing SQLite database before initialization."`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt for --force."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized meter storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.copyData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if ctx.Store.Driver() != migration.DriverSQLite {
		return fmt.Errorf("--force only resets SQLite databases")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		abs, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = abs
		}
		if src, err := filepath.Abs(c.Source); err == nil && src == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	if !c.Yes {
		ok, err := ctx.Confirm("Delete the existing database?", dbPath+" and every entry in it will be removed.")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("init cancelled")
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

// copyData copies settings, projects, clients, entries and invoices from
// another meter database into the freshly initialized one.
func (c *InitCmd) copyData(ctx *cli.Context, source string) error {
	src, err := storage.New(source)
	if errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
	}
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	dst := ctx.Store

	ctx.Println("  Migrating settings...")
	settings, err := src.GetInvoiceSettings()
	if err != nil {
		return fmt.Errorf("failed to get invoice settings from source: %w", err)
	}
	if err := dst.SaveInvoiceSettings(settings); err != nil {
		return fmt.Errorf("failed to save invoice settings: %w", err)
	}
	pomo, err := src.GetPomodoroConfig()
	if err != nil {
		return fmt.Errorf("failed to get Pomodoro settings from source: %w", err)
	}
	if err := dst.SavePomodoroConfig(pomo); err != nil {
		return fmt.Errorf("failed to save Pomodoro settings: %w", err)
	}

	ctx.Println("  Migrating projects...")
	projects, err := src.ListProjects()
	if err != nil {
		return fmt.Errorf("failed to get projects from source: %w", err)
	}
	for _, p := range projects {
		if _, err := dst.GetOrCreateProject(p.Name); err != nil {
			return fmt.Errorf("failed to add project %s: %w", p.Name, err)
		}
		if err := dst.SetProjectRate(p.Name, p.Rate, p.Currency); err != nil {
			return fmt.Errorf("failed to set rate for %s: %w", p.Name, err)
		}
	}
	ctx.Printf("    Migrated %d projects\n", len(projects))

	ctx.Println("  Migrating clients...")
	clients, err := src.ListClients()
	if err != nil {
		return fmt.Errorf("failed to get clients from source: %w", err)
	}
	clientIDs := make(map[int64]int64, len(clients))
	for _, cl := range clients {
		id, err := dst.AddClient(cl)
		if err != nil {
			return fmt.Errorf("failed to add client %s: %w", cl.Name, err)
		}
		clientIDs[cl.ID] = id
	}
	ctx.Printf("    Migrated %d clients\n", len(clients))

	ctx.Println("  Migrating entries...")
	entries, err := src.ListEntries(nil)
	if err != nil {
		return fmt.Errorf("failed to get entries from source: %w", err)
	}
	// Oldest first so new ids keep the original order.
	for i := len(entries) - 1; i >= 0; i-- {
		if _, err := dst.AddEntry(entries[i]); err != nil {
			return fmt.Errorf("failed to add entry %d: %w", entries[i].ID, err)
		}
	}
	ctx.Printf("    Migrated %d entries\n", len(entries))

	ctx.Println("  Migrating invoices...")
	invoices, err := src.ListInvoices()
	if err != nil {
		return fmt.Errorf("failed to get invoices from source: %w", err)
	}
	for _, inv := range invoices {
		if inv.ClientID != nil {
			if id, ok := clientIDs[*inv.ClientID]; ok {
				inv.ClientID = &id
			} else {
				inv.ClientID = nil
			}
		}
		if _, err := dst.RecordInvoice(inv); err != nil {
			return fmt.Errorf("failed to add invoice %s: %w", inv.Label(), err)
		}
	}
	ctx.Printf("    Migrated %d invoices\n", len(invoices))

	return nil
}
