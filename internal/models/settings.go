package models

import (
	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/constants"
)

// InvoiceSettings holds the sender details printed on every invoice.
type InvoiceSettings struct {
	BusinessName        string          `json:"business_name"`
	Street              string          `json:"address_street"`
	City                string          `json:"address_city"`
	State               string          `json:"address_state"`
	Postal              string          `json:"address_postal"`
	Country             string          `json:"address_country"`
	Email               string          `json:"email"`
	Phone               string          `json:"phone"`
	TaxID               string          `json:"tax_id"`
	PaymentInstructions string          `json:"payment_instructions"`
	PaymentTerms        string          `json:"default_payment_terms"` // e.g. "Net 30"
	DefaultTaxRate      decimal.Decimal `json:"default_tax_rate"`      // percent
}

// DefaultInvoiceSettings returns the settings used before the user saves any.
func DefaultInvoiceSettings() InvoiceSettings {
	return InvoiceSettings{
		PaymentTerms:   constants.DefaultTerms,
		DefaultTaxRate: decimal.Zero,
	}
}

// FormattedAddress returns the non-empty sender address lines.
func (s InvoiceSettings) FormattedAddress() []string {
	return formatAddress(s.Street, s.City, s.State, s.Postal, s.Country)
}

// PomodoroConfig controls the work/break cycle.
type PomodoroConfig struct {
	Enabled           bool `json:"enabled"`
	WorkMinutes       int  `json:"work_minutes"`
	ShortBreakMinutes int  `json:"short_break_minutes"`
	LongBreakMinutes  int  `json:"long_break_minutes"`
	CyclesBeforeLong  int  `json:"cycles_before_long"`
}

// DefaultPomodoroConfig returns the stock 45/15/60/4 cycle, disabled.
func DefaultPomodoroConfig() PomodoroConfig {
	return PomodoroConfig{
		Enabled:           constants.DefaultPomodoroEnabled,
		WorkMinutes:       constants.DefaultWorkMinutes,
		ShortBreakMinutes: constants.DefaultShortBreakMinutes,
		LongBreakMinutes:  constants.DefaultLongBreakMinutes,
		CyclesBeforeLong:  constants.DefaultCyclesBeforeLong,
	}
}

// ApplyDefaults fills non-positive durations with defaults.
func (c *PomodoroConfig) ApplyDefaults() {
	if c.WorkMinutes <= 0 {
		c.WorkMinutes = constants.DefaultWorkMinutes
	}
	if c.ShortBreakMinutes <= 0 {
		c.ShortBreakMinutes = constants.DefaultShortBreakMinutes
	}
	if c.LongBreakMinutes <= 0 {
		c.LongBreakMinutes = constants.DefaultLongBreakMinutes
	}
	if c.CyclesBeforeLong <= 0 {
		c.CyclesBeforeLong = constants.DefaultCyclesBeforeLong
	}
}
