package clients

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/models"
	"github.com/julianstephens/meter/internal/storage"
)

type ClientCmd struct {
	Add    AddCmd    `cmd:"" help:"Add a client."`
	List   ListCmd   `cmd:"" default:"1" help:"List clients."`
	Edit   EditCmd   `cmd:"" help:"Edit a client."`
	Delete DeleteCmd `cmd:"" help:"Delete a client."`
}

type AddCmd struct {
	Name    string `short:"n" required:"" help:"Client or company name."`
	Contact string `help:"Contact person."`
	Street  string `help:"Street address."`
	City    string `help:"City."`
	State   string `help:"State or region."`
	Postal  string `help:"Postal code."`
	Country string `help:"Country."`
	Email   string `help:"Billing email."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	client := models.Client{
		Name:          strings.TrimSpace(c.Name),
		ContactPerson: c.Contact,
		Street:        c.Street,
		City:          c.City,
		State:         c.State,
		Postal:        c.Postal,
		Country:       c.Country,
		Email:         c.Email,
	}
	if err := client.Validate(); err != nil {
		return err
	}

	id, err := ctx.Store.AddClient(client)
	if err != nil {
		return fmt.Errorf("failed to add client: %w", err)
	}
	ctx.Printf("Added client %d: %s\n", id, client.Name)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	clients, err := ctx.Store.ListClients()
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}
	if len(clients) == 0 {
		ctx.Println("No clients found")
		return nil
	}

	tbl := cli.NewTable("ID", "NAME", "CONTACT", "EMAIL", "ADDRESS")
	for _, cl := range clients {
		tbl.AddRow(cl.ID, cl.Name, cl.ContactPerson, cl.Email, strings.Join(cl.FormattedAddress(), ", "))
	}
	ctx.PrintTable(tbl)
	return nil
}

type EditCmd struct {
	ID      int64   `arg:"" help:"Client to edit."`
	Name    *string `short:"n" help:"Client or company name."`
	Contact *string `help:"Contact person."`
	Street  *string `help:"Street address."`
	City    *string `help:"City."`
	State   *string `help:"State or region."`
	Postal  *string `help:"Postal code."`
	Country *string `help:"Country."`
	Email   *string `help:"Billing email."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Store.GetClient(c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("client %d not found", c.ID)
	}
	if err != nil {
		return err
	}

	fields := []struct {
		flag *string
		dst  *string
	}{
		{c.Name, &client.Name},
		{c.Contact, &client.ContactPerson},
		{c.Street, &client.Street},
		{c.City, &client.City},
		{c.State, &client.State},
		{c.Postal, &client.Postal},
		{c.Country, &client.Country},
		{c.Email, &client.Email},
	}
	updated := false
	for _, f := range fields {
		if f.flag != nil {
			*f.dst = strings.TrimSpace(*f.flag)
			updated = true
		}
	}
	if !updated {
		ctx.Println("No changes specified.")
		return nil
	}

	if err := client.Validate(); err != nil {
		return err
	}
	if _, err := ctx.Store.UpdateClient(client); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	ctx.Printf("Updated client %d: %s\n", client.ID, client.Name)
	return nil
}

type DeleteCmd struct {
	ID  int64 `arg:"" help:"Client to delete."`
	Yes bool  `short:"y" help:"Skip the confirmation prompt."`
}

// Run removes the client. Invoices already issued to it keep their numbers
// but lose the link.
func (c *DeleteCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Store.GetClient(c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("client %d not found", c.ID)
	}
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete client %s?", client.Name), "Existing invoices keep their numbers.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	if _, err := ctx.Store.DeleteClient(client.ID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	ctx.Printf("Deleted client %d: %s\n", client.ID, client.Name)
	return nil
}
