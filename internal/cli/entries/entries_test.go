package entries

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/meter/internal/cli/clitest"
	"github.com/julianstephens/meter/internal/models"
)

func addEntry(t *testing.T, store interface {
	AddEntry(models.Entry) (models.Entry, error)
}, project string, start time.Time, hours float64, billed bool) models.Entry {
	t.Helper()
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	e, err := store.AddEntry(models.Entry{Project: project, Description: "work", Start: start, End: &end, Billed: billed})
	if err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}
	return e
}

func TestListFilters(t *testing.T) {
	ctx, out := clitest.Setup(t, true)
	day := clitest.Now.Add(-48 * time.Hour)
	addEntry(t, ctx.Store, "acme", day, 2, false)
	addEntry(t, ctx.Store, "globex", day.Add(3*time.Hour), 1.5, true)

	tests := []struct {
		name    string
		cmd     ListCmd
		want    []string
		notWant []string
	}{
		{"all", ListCmd{}, []string{"acme", "globex", "2 entries, 3.50 hrs"}, nil},
		{"billed", ListCmd{Billed: true}, []string{"globex", "billed"}, []string{"acme"}},
		{"unbilled", ListCmd{Unbilled: true}, []string{"acme", "pending"}, []string{"globex"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("ListCmd.Run() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out.String(), w) {
					t.Errorf("output contains %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestListEmpty(t *testing.T) {
	ctx, out := clitest.Setup(t, true)
	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No entries found") {
		t.Errorf("output = %q", out.String())
	}
}

func TestBillAndUnbill(t *testing.T) {
	ctx, out := clitest.Setup(t, true)
	day := clitest.Now.Add(-24 * time.Hour)
	first := addEntry(t, ctx.Store, "acme", day, 1, false)
	addEntry(t, ctx.Store, "acme", day.Add(2*time.Hour), 1, false)
	if _, err := ctx.Store.StartTimer("acme", "running", clitest.Now); err != nil {
		t.Fatal(err)
	}

	id := first.ID
	if err := (&BillCmd{ID: &id}).Run(ctx); err != nil {
		t.Fatalf("BillCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Marked entry") {
		t.Errorf("output = %q", out.String())
	}
	got, _ := ctx.Store.GetEntry(id)
	if !got.Billed {
		t.Error("entry not billed")
	}

	if err := (&BillCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	pending := false
	unbilled, _ := ctx.Store.ListEntries(&pending)
	if len(unbilled) != 1 || !unbilled[0].IsActive() {
		t.Errorf("unbilled after bill all = %v, want only the running entry", unbilled)
	}

	if err := (&UnbillCmd{ID: &id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ = ctx.Store.GetEntry(id)
	if got.Billed {
		t.Error("entry still billed after unbill")
	}

	if err := (&UnbillCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	billed := true
	remaining, _ := ctx.Store.ListEntries(&billed)
	if len(remaining) != 0 {
		t.Errorf("billed entries after unbill all = %d, want 0", len(remaining))
	}

	missing := int64(999)
	if err := (&BillCmd{ID: &missing}).Run(ctx); err == nil {
		t.Error("BillCmd.Run() on a missing entry succeeded")
	}
}

func strp(s string) *string { return &s }

func TestEdit(t *testing.T) {
	ctx, _ := clitest.Setup(t, true)
	day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	e := addEntry(t, ctx.Store, "acme", day, 1, false)

	tests := []struct {
		name    string
		cmd     EditCmd
		check   func(models.Entry) bool
		wantErr bool
	}{
		{
			name:  "project and description",
			cmd:   EditCmd{ID: e.ID, Project: strp("globex"), Description: strp("design")},
			check: func(got models.Entry) bool { return got.Project == "globex" && got.Description == "design" },
		},
		{
			name:  "blank project keeps the old one",
			cmd:   EditCmd{ID: e.ID, Project: strp("  ")},
			check: func(got models.Entry) bool { return got.Project == "globex" },
		},
		{
			name: "end in local format",
			cmd:  EditCmd{ID: e.ID, End: strp("2024-03-10 12:30")},
			check: func(got models.Entry) bool {
				return got.End != nil && got.End.Equal(time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC))
			},
		},
		{
			name: "start in RFC 3339",
			cmd:  EditCmd{ID: e.ID, Start: strp("2024-03-10T08:00:00Z")},
			check: func(got models.Entry) bool {
				return got.Start.Equal(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
			},
		},
		{
			name:    "end before start",
			cmd:     EditCmd{ID: e.ID, End: strp("2024-03-10 07:00")},
			wantErr: true,
		},
		{
			name:    "bad timestamp",
			cmd:     EditCmd{ID: e.ID, Start: strp("yesterday")},
			wantErr: true,
		},
		{
			name:    "end with clear end",
			cmd:     EditCmd{ID: e.ID, End: strp("2024-03-10 12:30"), ClearEnd: true},
			wantErr: true,
		},
		{
			name:  "clear end",
			cmd:   EditCmd{ID: e.ID, ClearEnd: true},
			check: func(got models.Entry) bool { return got.IsActive() },
		},
		{
			name:    "missing entry",
			cmd:     EditCmd{ID: 404, Project: strp("x")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EditCmd.Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check == nil {
				return
			}
			got, err := ctx.Store.GetEntry(e.ID)
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(got) {
				t.Errorf("entry after edit = %+v", got)
			}
		})
	}
}

func TestEditClearEndWithAnotherRunning(t *testing.T) {
	ctx, _ := clitest.Setup(t, true)
	e := addEntry(t, ctx.Store, "acme", clitest.Now.Add(-3*time.Hour), 1, false)
	if _, err := ctx.Store.StartTimer("acme", "live", clitest.Now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := (&EditCmd{ID: e.ID, ClearEnd: true}).Run(ctx); err == nil {
		t.Error("EditCmd.Run() reopened an entry while another is running")
	}
}

func TestDelete(t *testing.T) {
	ctx, out := clitest.Setup(t, false)
	e := addEntry(t, ctx.Store, "acme", clitest.Now.Add(-2*time.Hour), 1, false)

	if err := (&DeleteCmd{ID: e.ID}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Delete cancelled.") {
		t.Errorf("output = %q", out.String())
	}
	if _, err := ctx.Store.GetEntry(e.ID); err != nil {
		t.Fatal("declined delete removed the entry")
	}

	if err := (&DeleteCmd{ID: e.ID, Yes: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Store.GetEntry(e.ID); err == nil {
		t.Error("entry still present after delete --yes")
	}

	if err := (&DeleteCmd{ID: e.ID, Yes: true}).Run(ctx); err == nil {
		t.Error("deleting a missing entry succeeded")
	}
}
