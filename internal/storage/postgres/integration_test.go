package postgres

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/models"
)

// TestStore_Integration runs against a real database.
// Example: POSTGRES_TEST_URL="postgres://meter_user@localhost:5432/meter_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	t.Run("Timer", func(t *testing.T) {
		start := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
		entry, err := store.StartTimer("integration", "", start)
		if err != nil {
			t.Fatalf("StartTimer() error = %v", err)
		}
		defer store.DeleteEntry(entry.ID)

		stopped, err := store.StopActiveTimer(start.Add(30 * time.Minute))
		if err != nil || stopped == nil {
			t.Fatalf("StopActiveTimer() = %v, %v", stopped, err)
		}
		if got := stopped.Hours(); got != 0.5 {
			t.Errorf("stopped.Hours() = %v, want 0.5", got)
		}

		ok, err := store.MarkBilled(entry.ID)
		if err != nil || !ok {
			t.Fatalf("MarkBilled() = %v, %v", ok, err)
		}
		got, err := store.GetEntry(entry.ID)
		if err != nil {
			t.Fatalf("GetEntry() error = %v", err)
		}
		if !got.Billed {
			t.Error("GetEntry().Billed = false, want true")
		}
	})

	t.Run("Rates", func(t *testing.T) {
		rate := decimal.NewFromInt(120)
		if err := store.SetProjectRate("integration", &rate, "€"); err != nil {
			t.Fatalf("SetProjectRate() error = %v", err)
		}
		p, err := store.GetProject("integration")
		if err != nil {
			t.Fatalf("GetProject() error = %v", err)
		}
		if p.FormattedRate() != "€120.00/hr" {
			t.Errorf("FormattedRate() = %q, want %q", p.FormattedRate(), "€120.00/hr")
		}
	})

	t.Run("Settings", func(t *testing.T) {
		cfg, err := store.GetPomodoroConfig()
		if err != nil {
			t.Fatalf("GetPomodoroConfig() error = %v", err)
		}
		cfg.Enabled = !cfg.Enabled
		if err := store.SavePomodoroConfig(cfg); err != nil {
			t.Fatalf("SavePomodoroConfig() error = %v", err)
		}
		got, _ := store.GetPomodoroConfig()
		if got != cfg {
			t.Errorf("GetPomodoroConfig() = %+v, want %+v", got, cfg)
		}

		st := models.DefaultInvoiceSettings()
		st.BusinessName = "Integration LLC"
		if err := store.SaveInvoiceSettings(st); err != nil {
			t.Fatalf("SaveInvoiceSettings() error = %v", err)
		}
	})
}
