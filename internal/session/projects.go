package session

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/models"
)

func (m *Model) updateProjects(msg Msg) Msg {
	switch msg := msg.(type) {
	case RefreshProjects:
		m.refreshProjects()
	case SelectNextProject:
		m.ProjectIndex = clamp(m.ProjectIndex+1, len(m.Projects))
	case SelectPrevProject:
		m.ProjectIndex = clamp(m.ProjectIndex-1, len(m.Projects))

	case EditProjectRate:
		p := m.projectByID(msg.ID)
		if p == nil {
			return nil
		}
		edit := &EditingRate{Project: *p, Currency: p.Currency}
		if p.Rate != nil {
			edit.Rate = p.Rate.StringFixed(2)
		}
		if edit.Currency == "" {
			edit.Currency = "$"
		}
		m.Mode = edit

	case FocusRateField:
		if e, ok := m.Mode.(*EditingRate); ok {
			if e.Focus == RateAmount {
				e.Focus = RateCurrency
			} else {
				e.Focus = RateAmount
			}
		}
	case RateInput:
		if e, ok := m.Mode.(*EditingRate); ok {
			e.Rate = appendDecimalRune(e.Rate, msg.Rune)
		}
	case CurrencyInput:
		if e, ok := m.Mode.(*EditingRate); ok {
			e.Currency += string(msg.Rune)
		}
	case RateBackspace:
		if e, ok := m.Mode.(*EditingRate); ok {
			if e.Focus == RateAmount {
				e.Rate = popRune(e.Rate)
			} else {
				e.Currency = popRune(e.Currency)
			}
		}

	case SaveProjectRate:
		e, ok := m.Mode.(*EditingRate)
		if !ok {
			return nil
		}
		m.Mode = Normal{}
		var rate *decimal.Decimal
		if d, err := decimal.NewFromString(strings.TrimSpace(e.Rate)); err == nil {
			rate = &d
		}
		currency := strings.TrimSpace(e.Currency)
		if currency == "" {
			currency = "$"
		}
		if err := m.store.SetProjectRate(e.Project.Name, rate, currency); err != nil {
			logger.Error("Failed to set rate", "project", e.Project.Name, "error", err)
			m.setStatus("Failed to update rate for '%s'", e.Project.Name)
			return nil
		}
		m.setStatus("Rate updated for '%s'", e.Project.Name)
		return RefreshProjects{}

	case CancelEditRate:
		m.Mode = Normal{}

	case ClearProjectRate:
		p := m.projectByID(msg.ID)
		if p == nil {
			return nil
		}
		if err := m.store.SetProjectRate(p.Name, nil, p.Currency); err != nil {
			logger.Error("Failed to clear rate", "project", p.Name, "error", err)
			m.setStatus("Failed to update rate for '%s'", p.Name)
			return nil
		}
		m.setStatus("Rate cleared for '%s'", p.Name)
		return RefreshProjects{}
	}
	return nil
}

func (m *Model) projectByID(id int64) *models.Project {
	for i := range m.Projects {
		if m.Projects[i].ID == id {
			return &m.Projects[i]
		}
	}
	return nil
}
