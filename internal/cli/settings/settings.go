package settings

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current invoice settings."`

	BusinessName        *string `help:"Your business name."`
	Street              *string `help:"Street address."`
	City                *string `help:"City."`
	State               *string `help:"State or region."`
	Postal              *string `help:"Postal code."`
	Country             *string `help:"Country."`
	Email               *string `help:"Contact email."`
	Phone               *string `help:"Contact phone."`
	TaxID               *string `name:"tax-id" help:"Tax identifier printed on invoices."`
	PaymentTerms        *string `help:"Payment terms, e.g. 'Net 30' or 'Due on receipt'."`
	TaxRate             *string `help:"Default tax rate in percent, e.g. 8.25."`
	PaymentInstructions *string `help:"Payment instructions printed on invoices."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetInvoiceSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.Println("Invoice Settings:")
		ctx.Printf("  Business Name:        %s\n", settings.BusinessName)
		ctx.Printf("  Address:              %s\n", strings.Join(settings.FormattedAddress(), ", "))
		ctx.Printf("  Email:                %s\n", settings.Email)
		ctx.Printf("  Phone:                %s\n", settings.Phone)
		ctx.Printf("  Tax ID:               %s\n", settings.TaxID)
		ctx.Printf("  Payment Terms:        %s\n", settings.PaymentTerms)
		ctx.Printf("  Default Tax Rate:     %s%%\n", settings.DefaultTaxRate.String())
		ctx.Printf("  Payment Instructions: %s\n", settings.PaymentInstructions)
		return nil
	}

	fields := []struct {
		flag *string
		dst  *string
	}{
		{c.BusinessName, &settings.BusinessName},
		{c.Street, &settings.Street},
		{c.City, &settings.City},
		{c.State, &settings.State},
		{c.Postal, &settings.Postal},
		{c.Country, &settings.Country},
		{c.Email, &settings.Email},
		{c.Phone, &settings.Phone},
		{c.TaxID, &settings.TaxID},
		{c.PaymentTerms, &settings.PaymentTerms},
		{c.PaymentInstructions, &settings.PaymentInstructions},
	}
	updated := false
	for _, f := range fields {
		if f.flag != nil {
			*f.dst = *f.flag
			updated = true
		}
	}
	if c.TaxRate != nil {
		rate := decimal.Zero
		if s := strings.TrimSpace(*c.TaxRate); s != "" {
			if rate, err = decimal.NewFromString(s); err != nil {
				return fmt.Errorf("invalid tax rate %q: %w", *c.TaxRate, err)
			}
		}
		if rate.IsNegative() {
			return fmt.Errorf("tax rate cannot be negative")
		}
		settings.DefaultTaxRate = rate
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveInvoiceSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}

type PomodoroCmd struct {
	List bool `help:"List current Pomodoro settings."`

	Enabled    *bool `help:"Turn the Pomodoro cycle on or off."`
	Work       *int  `help:"Work interval in minutes."`
	ShortBreak *int  `help:"Short break in minutes."`
	LongBreak  *int  `help:"Long break in minutes."`
	Cycles     *int  `help:"Work intervals before a long break."`
}

func (c *PomodoroCmd) Run(ctx *cli.Context) error {
	cfg, err := ctx.Store.GetPomodoroConfig()
	if err != nil {
		return fmt.Errorf("failed to get Pomodoro settings: %w", err)
	}

	if c.List {
		state := cli.Warning("off")
		if cfg.Enabled {
			state = cli.Success("on")
		}
		ctx.Println("Pomodoro Settings:")
		ctx.Printf("  Enabled:              %s\n", state)
		ctx.Printf("  Work:                 %d min\n", cfg.WorkMinutes)
		ctx.Printf("  Short Break:          %d min\n", cfg.ShortBreakMinutes)
		ctx.Printf("  Long Break:           %d min\n", cfg.LongBreakMinutes)
		ctx.Printf("  Cycles Before Long:   %d\n", cfg.CyclesBeforeLong)
		return nil
	}

	minutes := []struct {
		name string
		flag *int
		dst  *int
	}{
		{"work", c.Work, &cfg.WorkMinutes},
		{"short-break", c.ShortBreak, &cfg.ShortBreakMinutes},
		{"long-break", c.LongBreak, &cfg.LongBreakMinutes},
		{"cycles", c.Cycles, &cfg.CyclesBeforeLong},
	}
	updated := false
	for _, m := range minutes {
		if m.flag == nil {
			continue
		}
		if *m.flag <= 0 {
			return fmt.Errorf("--%s must be positive, got %d", m.name, *m.flag)
		}
		*m.dst = *m.flag
		updated = true
	}
	if c.Enabled != nil {
		cfg.Enabled = *c.Enabled
		updated = true
	}

	if updated {
		if err := ctx.Store.SavePomodoroConfig(cfg); err != nil {
			return fmt.Errorf("failed to save Pomodoro settings: %w", err)
		}
		ctx.Println("Pomodoro settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
