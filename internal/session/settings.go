package session

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/logger"
)

func (m *Model) updateSettings(msg Msg) Msg {
	switch msg := msg.(type) {
	case EditSettings:
		s := m.Settings
		edit := &EditingSettings{}
		edit.Values = [settingsFieldCount]string{
			SettingsBusinessName:        s.BusinessName,
			SettingsStreet:              s.Street,
			SettingsCity:                s.City,
			SettingsState:               s.State,
			SettingsPostal:              s.Postal,
			SettingsCountry:             s.Country,
			SettingsEmail:               s.Email,
			SettingsPhone:               s.Phone,
			SettingsTaxID:               s.TaxID,
			SettingsPaymentTerms:        s.PaymentTerms,
			SettingsTaxRate:             s.DefaultTaxRate.String(),
			SettingsPaymentInstructions: s.PaymentInstructions,
		}
		m.Mode = edit

	case SettingsNextField:
		if e, ok := m.Mode.(*EditingSettings); ok {
			e.Field = SettingsField(cycle(int(e.Field), 1, int(settingsFieldCount)))
		}
	case SettingsPrevField:
		if e, ok := m.Mode.(*EditingSettings); ok {
			e.Field = SettingsField(cycle(int(e.Field), -1, int(settingsFieldCount)))
		}
	case SettingsInput:
		if e, ok := m.Mode.(*EditingSettings); ok {
			if e.Field == SettingsTaxRate {
				e.Values[e.Field] = appendDecimalRune(e.Values[e.Field], msg.Rune)
			} else {
				e.Values[e.Field] += string(msg.Rune)
			}
		}
	case SettingsBackspace:
		if e, ok := m.Mode.(*EditingSettings); ok {
			e.Values[e.Field] = popRune(e.Values[e.Field])
		}

	case SaveSettings:
		m.saveSettings()
	case CancelEditSettings:
		m.Mode = Normal{}
	}
	return nil
}

func (m *Model) saveSettings() {
	edit, ok := m.Mode.(*EditingSettings)
	if !ok {
		return
	}
	m.Mode = Normal{}

	v := edit.Values
	s := m.Settings
	s.BusinessName = v[SettingsBusinessName]
	s.Street = v[SettingsStreet]
	s.City = v[SettingsCity]
	s.State = v[SettingsState]
	s.Postal = v[SettingsPostal]
	s.Country = v[SettingsCountry]
	s.Email = v[SettingsEmail]
	s.Phone = v[SettingsPhone]
	s.TaxID = v[SettingsTaxID]
	s.PaymentTerms = v[SettingsPaymentTerms]
	s.PaymentInstructions = v[SettingsPaymentInstructions]
	if rate := strings.TrimSpace(v[SettingsTaxRate]); rate == "" {
		s.DefaultTaxRate = decimal.Zero
	} else if d, err := decimal.NewFromString(rate); err == nil {
		s.DefaultTaxRate = d
	}

	if err := m.store.SaveInvoiceSettings(s); err != nil {
		logger.Error("Failed to save invoice settings", "error", err)
		m.setStatus("Failed to save settings")
		return
	}
	m.Settings = s
	m.setStatus("Settings saved")
}
