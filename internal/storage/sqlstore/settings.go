package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/models"
)

// GetInvoiceSettings returns the saved sender details, or defaults.
func (s *Store) GetInvoiceSettings() (models.InvoiceSettings, error) {
	var st models.InvoiceSettings
	var tax string
	err := s.queryRow(`
		SELECT business_name, address_street, address_city, address_state, address_postal, address_country,
		       email, phone, tax_id, payment_instructions, default_payment_terms, default_tax_rate
		FROM invoice_settings WHERE id = 1`).Scan(
		&st.BusinessName, &st.Street, &st.City, &st.State, &st.Postal, &st.Country,
		&st.Email, &st.Phone, &st.TaxID, &st.PaymentInstructions, &st.PaymentTerms, &tax,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultInvoiceSettings(), nil
		}
		return models.InvoiceSettings{}, err
	}

	st.DefaultTaxRate, err = decimal.NewFromString(tax)
	if err != nil {
		st.DefaultTaxRate = decimal.Zero
	}
	return st, nil
}

func (s *Store) SaveInvoiceSettings(st models.InvoiceSettings) error {
	_, err := s.exec(`
		INSERT INTO invoice_settings (id, business_name, address_street, address_city, address_state, address_postal,
		       address_country, email, phone, tax_id, payment_instructions, default_payment_terms, default_tax_rate)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			business_name = excluded.business_name,
			address_street = excluded.address_street,
			address_city = excluded.address_city,
			address_state = excluded.address_state,
			address_postal = excluded.address_postal,
			address_country = excluded.address_country,
			email = excluded.email,
			phone = excluded.phone,
			tax_id = excluded.tax_id,
			payment_instructions = excluded.payment_instructions,
			default_payment_terms = excluded.default_payment_terms,
			default_tax_rate = excluded.default_tax_rate`,
		st.BusinessName, st.Street, st.City, st.State, st.Postal,
		st.Country, st.Email, st.Phone, st.TaxID, st.PaymentInstructions, st.PaymentTerms, st.DefaultTaxRate.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save invoice settings: %w", err)
	}
	return nil
}

// GetPomodoroConfig returns the saved cycle configuration, or defaults.
func (s *Store) GetPomodoroConfig() (models.PomodoroConfig, error) {
	var c models.PomodoroConfig
	err := s.queryRow(`
		SELECT enabled, work_minutes, short_break_minutes, long_break_minutes, cycles_before_long
		FROM pomodoro_config WHERE id = 1`).Scan(
		&c.Enabled, &c.WorkMinutes, &c.ShortBreakMinutes, &c.LongBreakMinutes, &c.CyclesBeforeLong,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultPomodoroConfig(), nil
		}
		return models.PomodoroConfig{}, err
	}
	c.ApplyDefaults()
	return c, nil
}

func (s *Store) SavePomodoroConfig(c models.PomodoroConfig) error {
	_, err := s.exec(`
		INSERT INTO pomodoro_config (id, enabled, work_minutes, short_break_minutes, long_break_minutes, cycles_before_long)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			enabled = excluded.enabled,
			work_minutes = excluded.work_minutes,
			short_break_minutes = excluded.short_break_minutes,
			long_break_minutes = excluded.long_break_minutes,
			cycles_before_long = excluded.cycles_before_long`,
		c.Enabled, c.WorkMinutes, c.ShortBreakMinutes, c.LongBreakMinutes, c.CyclesBeforeLong,
	)
	if err != nil {
		return fmt.Errorf("failed to save pomodoro config: %w", err)
	}
	return nil
}
