package clients

import (
	"strings"
	"testing"

	"github.com/julianstephens/meter/internal/cli/clitest"
	"github.com/julianstephens/meter/internal/models"
)

func TestClientLifecycle(t *testing.T) {
	ctx, out := clitest.Setup(t, true)

	if err := (&AddCmd{Name: "  "}).Run(ctx); err == nil {
		t.Fatal("AddCmd.Run() accepted a blank name")
	}

	add := &AddCmd{Name: "Acme Corp", Contact: "Wile E.", City: "Phoenix", State: "AZ", Postal: "85001", Email: "ap@acme.test"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("AddCmd.Run() error = %v", err)
	}
	clients, err := ctx.Store.ListClients()
	if err != nil || len(clients) != 1 {
		t.Fatalf("ListClients() = %v, %v", clients, err)
	}
	id := clients[0].ID

	out.Reset()
	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Acme Corp", "Wile E.", "Phoenix, AZ 85001"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list missing %q:\n%s", want, out.String())
		}
	}

	email := "billing@acme.test"
	if err := (&EditCmd{ID: id, Email: &email}).Run(ctx); err != nil {
		t.Fatalf("EditCmd.Run() error = %v", err)
	}
	got, _ := ctx.Store.GetClient(id)
	if got.Email != email || got.Name != "Acme Corp" {
		t.Errorf("client after edit = %+v", got)
	}

	blank := ""
	if err := (&EditCmd{ID: id, Name: &blank}).Run(ctx); err == nil {
		t.Error("EditCmd.Run() cleared the required name")
	}

	if err := (&DeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Store.GetClient(id); err == nil {
		t.Error("client still present after delete")
	}
	if err := (&DeleteCmd{ID: id}).Run(ctx); err == nil {
		t.Error("deleting a missing client succeeded")
	}
}

func TestDeleteDeclined(t *testing.T) {
	ctx, out := clitest.Setup(t, false)
	id, err := ctx.Store.AddClient(models.Client{Name: "Globex"})
	if err != nil {
		t.Fatal(err)
	}
	if err := (&DeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Delete cancelled.") {
		t.Errorf("output = %q", out.String())
	}
	if _, err := ctx.Store.GetClient(id); err != nil {
		t.Error("declined delete removed the client")
	}
}
