package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the immutable record of a generated invoice document.
type Invoice struct {
	ID        int64           `json:"id"`
	Number    int64           `json:"invoice_number"`
	ClientID  *int64          `json:"client_id,omitempty"`
	IssuedOn  time.Time       `json:"date_issued"` // UTC date
	DueOn     time.Time       `json:"due_date"`    // UTC date
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
	FilePath  string          `json:"file_path"`
}

// Label renders the invoice number the way documents print it.
func (i Invoice) Label() string {
	return fmt.Sprintf("#%04d", i.Number)
}
