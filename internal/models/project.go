package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Project is a billable bucket of entries, created lazily by name.
type Project struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Rate     *decimal.Decimal `json:"rate,omitempty"` // nil means unpriced; zero is a valid rate
	Currency string           `json:"currency"`
}

// HasRate reports whether the project is priced.
func (p Project) HasRate() bool {
	return p.Rate != nil
}

// FormattedRate renders the hourly rate, e.g. "$150.00/hr". Empty when unpriced.
func (p Project) FormattedRate() string {
	if p.Rate == nil {
		return ""
	}
	return fmt.Sprintf("%s%s/hr", p.Currency, p.Rate.StringFixed(2))
}
