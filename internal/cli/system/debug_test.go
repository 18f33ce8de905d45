package system

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/cli/clitest"
	"github.com/julianstephens/meter/internal/models"
)

func TestDebugDBPathCmd(t *testing.T) {
	ctx, out := clitest.Setup(t, true)

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Fatalf("debug db-path command failed: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got["path"] != ctx.Store.GetConfigPath() || got["driver"] != "sqlite" {
		t.Errorf("db-path = %v", got)
	}
}

func TestDebugDumpConfigCmd(t *testing.T) {
	ctx, out := clitest.Setup(t, true)

	if err := (&DebugDumpConfigCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["invoice_format"] != "text" {
		t.Errorf("invoice_format = %v, want text", got["invoice_format"])
	}
}

func TestDebugDumpEntryCmd(t *testing.T) {
	ctx, out := clitest.Setup(t, true)

	end := clitest.Now
	added, err := ctx.Store.AddEntry(models.Entry{Project: "acme", Description: "review", Start: end.Add(-time.Hour), End: &end})
	if err != nil {
		t.Fatal(err)
	}

	if err := (&DebugDumpEntryCmd{ID: added.ID}).Run(ctx); err != nil {
		t.Fatalf("dump-entry failed: %v", err)
	}
	var got models.Entry
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.ID != added.ID || got.Project != "acme" || got.End == nil {
		t.Errorf("dumped entry = %+v", got)
	}

	err = (&DebugDumpEntryCmd{ID: 999}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "entry not found") {
		t.Errorf("dump-entry 999 error = %v, want not found", err)
	}
}

func TestDebugDumpProjectCmd(t *testing.T) {
	ctx, out := clitest.Setup(t, true)

	rate := decimal.NewFromInt(120)
	if _, err := ctx.Store.GetOrCreateProject("acme"); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Store.SetProjectRate("acme", &rate, "$"); err != nil {
		t.Fatal(err)
	}

	if err := (&DebugDumpProjectCmd{Name: "acme"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	var got models.Project
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Rate == nil || !got.Rate.Equal(rate) {
		t.Errorf("dumped rate = %v, want 120", got.Rate)
	}

	if err := (&DebugDumpProjectCmd{Name: "missing"}).Run(ctx); err == nil {
		t.Error("dump-project on a missing project succeeded")
	}
}

func TestDebugDumpClientCmd(t *testing.T) {
	ctx, out := clitest.Setup(t, true)

	id, err := ctx.Store.AddClient(models.Client{Name: "Acme Corp", Email: "ap@acme.test"})
	if err != nil {
		t.Fatal(err)
	}
	if err := (&DebugDumpClientCmd{ID: id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"email": "ap@acme.test"`) {
		t.Errorf("output = %q", out.String())
	}
}

func TestDebugDumpSettingsCmd(t *testing.T) {
	ctx, out := clitest.Setup(t, true)

	if err := (&DebugDumpSettingsCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Invoice  models.InvoiceSettings `json:"invoice"`
		Pomodoro models.PomodoroConfig  `json:"pomodoro"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Invoice.PaymentTerms != "Net 30" || got.Pomodoro.WorkMinutes != 45 {
		t.Errorf("settings = %+v", got)
	}
}
