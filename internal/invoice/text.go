package invoice

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/meter/internal/constants"
)

// TextRenderer writes a plain-text invoice.
type TextRenderer struct{}

func (TextRenderer) Ext() string { return "txt" }

func (TextRenderer) Render(s Summary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create invoice file: %w", err)
	}
	w := bufio.NewWriter(f)
	writeText(w, s)
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write invoice: %w", err)
	}
	return f.Close()
}

func writeText(w *bufio.Writer, s Summary) {
	cur := s.Currency()
	fmt.Fprintf(w, "Invoice #%04d for %s\n", s.Number, s.Period.Label())
	fmt.Fprintln(w, strings.Repeat("=", 25))
	fmt.Fprintf(w, "Invoice Date: %s\n", s.IssuedOn.Format(constants.DateFormat))
	fmt.Fprintf(w, "Due Date: %s\n", s.DueOn.Format(constants.DateFormat))
	if s.Client != nil {
		fmt.Fprintf(w, "Bill To: %s\n", s.Client.Name)
	}
	fmt.Fprintln(w)

	for _, line := range s.Lines {
		fmt.Fprintf(w, "Project: %s\n", line.Project)
		if line.Rate != nil {
			fmt.Fprintf(w, "Rate: %s/hr\n", money(line.Rate.Currency, line.Rate.Amount))
		}
		fmt.Fprintln(w, strings.Repeat("-", 40))

		for _, e := range line.Entries {
			fmt.Fprintf(w, "  %-20s | %s - %s | %6.2f hrs\n",
				e.Description,
				e.Start.Local().Format(constants.EntryTimeFormat),
				e.End.Local().Format(constants.EntryTimeFormat),
				e.Hours())
		}

		if line.Rate != nil {
			fmt.Fprintf(w, "  Subtotal: %6.2f hrs x %s = %s\n",
				line.Hours(), money(line.Rate.Currency, line.Rate.Amount), money(line.Rate.Currency, *line.Cost))
		} else {
			fmt.Fprintf(w, "  Subtotal: %6.2f hrs\n", line.Hours())
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("=", 50))
	if !s.HasRates {
		fmt.Fprintf(w, "Total: %6.2f hrs\n", s.TotalHours())
		return
	}
	if s.TaxRate.IsPositive() {
		fmt.Fprintf(w, "Subtotal: %s\n", money(cur, s.Subtotal))
		fmt.Fprintf(w, "Tax (%s%%): %s\n", s.TaxRate.StringFixed(1), money(cur, s.TaxAmount))
	}
	fmt.Fprintf(w, "Total: %6.2f hrs | %s\n", s.TotalHours(), money(cur, s.Total))
}
