package system

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/meter/internal/backup"
	"github.com/julianstephens/meter/internal/cli/clitest"
	"github.com/julianstephens/meter/internal/models"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, out := clitest.Setup(t, true)

	// Missing backups and config file are warnings, not failures
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "⚠ Backups present: WARNING") {
		t.Errorf("output = %q, want a backup warning", out.String())
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx, out := clitest.Setup(t, true)

	if _, err := backup.NewManager(ctx.Store.GetConfigPath()).CreateBackup(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed with backups present: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backups present: OK") {
		t.Errorf("output = %q", out.String())
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, _ := clitest.Setup(t, true)

	db := ctx.Store.GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert corrupted schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail with corrupted schema")
	}
}

func TestCheckMigrationsComplete_Incomplete(t *testing.T) {
	ctx, _ := clitest.Setup(t, true)

	db := ctx.Store.GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (0)"); err != nil {
		t.Fatal(err)
	}

	if err := checkMigrationsComplete(ctx); err == nil {
		t.Error("checkMigrationsComplete should fail with incomplete migrations")
	}
}

func TestDoctorCmd_MultipleActive(t *testing.T) {
	ctx, out := clitest.Setup(t, true)
	start := clitest.Now.Add(-2 * time.Hour)
	// StartTimer refuses a second timer, so write both directly
	for _, e := range []models.Entry{
		{Project: "acme", Start: start},
		{Project: "globex", Start: start.Add(time.Hour)},
	} {
		if _, err := ctx.Store.AddEntry(e); err != nil {
			t.Fatal(err)
		}
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor passed with two running timers")
	}
	if n, _ := ctx.Store.CountActiveEntries(); n != 2 {
		t.Errorf("CountActiveEntries() = %d without --fix, want 2", n)
	}

	out.Reset()
	if err := (&DoctorCmd{Fix: true}).Run(ctx); err != nil {
		t.Fatalf("doctor --fix failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Stopped entry #1 (acme)") {
		t.Errorf("output = %q", out.String())
	}

	active, err := ctx.Store.GetActiveEntry()
	if err != nil || active == nil || active.Project != "globex" {
		t.Fatalf("GetActiveEntry() = %+v, %v, want globex", active, err)
	}
	stopped, _ := ctx.Store.GetEntry(1)
	if stopped.End == nil || !stopped.End.Equal(start.Add(time.Hour)) {
		t.Errorf("acme end = %v, want %v", stopped.End, start.Add(time.Hour))
	}
}

func TestCheckClockTimezone(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"current", time.Now(), false},
		{"epoch", time.Unix(0, 0), true},
		{"far future", time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkClockTimezone(tt.now); (err != nil) != tt.wantErr {
				t.Errorf("checkClockTimezone(%v) error = %v, wantErr %v", tt.now, err, tt.wantErr)
			}
		})
	}
}
