package projects

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/storage"
)

type RateCmd struct {
	Project  string `arg:"" help:"Project name."`
	Rate     string `arg:"" optional:"" help:"Hourly rate, e.g. 150 or 87.50. Omit to show the current rate."`
	Currency string `arg:"" optional:"" help:"Currency symbol. Defaults to the project's current one."`
	Clear    bool   `help:"Remove the rate so the project is no longer priced."`
}

func (c *RateCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(c.Project)
	if name == "" {
		return fmt.Errorf("project name is required")
	}

	if c.Clear {
		if c.Rate != "" {
			return fmt.Errorf("--clear cannot be combined with a rate")
		}
		p, err := ctx.Store.GetProject(name)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("project '%s' not found", name)
		}
		if err != nil {
			return err
		}
		if err := ctx.Store.SetProjectRate(name, nil, p.Currency); err != nil {
			return err
		}
		ctx.Printf("Cleared rate for '%s'\n", name)
		return nil
	}

	if c.Rate == "" {
		p, err := ctx.Store.GetProject(name)
		if errors.Is(err, storage.ErrNotFound) {
			ctx.Printf("Project '%s' not found\n", name)
			return nil
		}
		if err != nil {
			return err
		}
		if p.HasRate() {
			ctx.Printf("Rate for '%s': %s\n", name, p.FormattedRate())
		} else {
			ctx.Printf("No rate set for '%s'\n", name)
		}
		return nil
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(c.Rate))
	if err != nil {
		return fmt.Errorf("invalid rate %q: %w", c.Rate, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("rate cannot be negative")
	}

	p, err := ctx.Store.GetOrCreateProject(name)
	if err != nil {
		return err
	}
	currency := strings.TrimSpace(c.Currency)
	if currency == "" {
		currency = p.Currency
	}
	if err := ctx.Store.SetProjectRate(name, &rate, currency); err != nil {
		return err
	}
	p.Rate, p.Currency = &rate, currency
	ctx.Printf("Set rate for '%s' to %s\n", name, p.FormattedRate())
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	projects, err := ctx.Store.ListProjects()
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	if len(projects) == 0 {
		ctx.Println("No projects found")
		return nil
	}

	tbl := cli.NewTable("PROJECT", "RATE")
	for _, p := range projects {
		rate := cli.Warning("Not set")
		if p.HasRate() {
			rate = p.FormattedRate()
		}
		tbl.AddRow(p.Name, rate)
	}
	ctx.PrintTable(tbl)
	return nil
}
