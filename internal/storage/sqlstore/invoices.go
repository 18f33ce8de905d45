package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/models"
)

// NextInvoiceNumber returns one past the highest recorded number.
func (s *Store) NextInvoiceNumber() (int64, error) {
	var n int64
	if err := s.queryRow("SELECT COALESCE(MAX(invoice_number), 0) + 1 FROM invoices").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to get next invoice number: %w", err)
	}
	return n, nil
}

func (s *Store) RecordInvoice(inv models.Invoice) (int64, error) {
	var clientID any
	if inv.ClientID != nil {
		clientID = *inv.ClientID
	}

	id, err := s.insert(
		"INSERT INTO invoices (invoice_number, client_id, date_issued, due_date, subtotal, tax_rate, tax_amount, total, file_path) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		inv.Number, clientID, formatDate(inv.IssuedOn), formatDate(inv.DueOn),
		inv.Subtotal.String(), inv.TaxRate.String(), inv.TaxAmount.String(), inv.Total.String(), inv.FilePath,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record invoice: %w", err)
	}
	return id, nil
}

func (s *Store) ListInvoices() ([]models.Invoice, error) {
	rows, err := s.query(`
		SELECT id, invoice_number, client_id, date_issued, due_date, subtotal, tax_rate, tax_amount, total, file_path
		FROM invoices ORDER BY invoice_number DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		var clientID sql.NullInt64
		var issued, due, subtotal, taxRate, taxAmount, total string
		if err := rows.Scan(&inv.ID, &inv.Number, &clientID, &issued, &due, &subtotal, &taxRate, &taxAmount, &total, &inv.FilePath); err != nil {
			return nil, err
		}
		if clientID.Valid {
			id := clientID.Int64
			inv.ClientID = &id
		}
		if inv.IssuedOn, err = parseDate(issued); err != nil {
			return nil, err
		}
		if inv.DueOn, err = parseDate(due); err != nil {
			return nil, err
		}
		for _, f := range []struct {
			dst *decimal.Decimal
			src string
		}{
			{&inv.Subtotal, subtotal}, {&inv.TaxRate, taxRate}, {&inv.TaxAmount, taxAmount}, {&inv.Total, total},
		} {
			d, err := decimal.NewFromString(f.src)
			if err != nil {
				return nil, fmt.Errorf("invoice %d has invalid amount %q: %w", inv.Number, f.src, err)
			}
			*f.dst = d
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
