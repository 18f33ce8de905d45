package invoice

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/julianstephens/meter/internal/constants"
)

// PDFRenderer lays out a printable invoice.
type PDFRenderer struct{}

func (PDFRenderer) Ext() string { return constants.InvoiceFormatPDF }

var (
	entryGrid = []uint{6, 2, 2, 2}
	stripe    = color.Color{Red: 240, Green: 240, Blue: 240}
)

func (PDFRenderer) Render(s Summary, path string) error {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	line := func(height float64, text string, p props.Text) {
		m.Row(height, func() {
			m.Col(12, func() {
				m.Text(text, p)
			})
		})
	}
	small := props.Text{Size: 9}
	normal := props.Text{Size: 10}
	bold := props.Text{Size: 10, Style: consts.Bold}
	heading := props.Text{Size: 13, Style: consts.Bold, Top: 2}

	line(14, fmt.Sprintf("INVOICE #%04d", s.Number), props.Text{
		Top:   3,
		Size:  20,
		Style: consts.Bold,
		Align: consts.Center,
	})

	if st := s.Settings; st.BusinessName != "" {
		line(6, "From:", bold)
		line(5, st.BusinessName, normal)
		for _, l := range st.FormattedAddress() {
			line(5, l, small)
		}
		if st.Email != "" {
			line(5, st.Email, small)
		}
		if st.Phone != "" {
			line(5, st.Phone, small)
		}
		if st.TaxID != "" {
			line(5, "Tax ID: "+st.TaxID, small)
		}
		m.Row(4, func() {})
	}

	if c := s.Client; c != nil {
		line(6, "Bill To:", bold)
		line(5, c.Name, normal)
		if c.ContactPerson != "" {
			line(5, "Attn: "+c.ContactPerson, small)
		}
		for _, l := range c.FormattedAddress() {
			line(5, l, small)
		}
		if c.Email != "" {
			line(5, c.Email, small)
		}
		m.Row(4, func() {})
	}

	line(5, "Invoice Date: "+s.IssuedOn.Format(constants.DateFormat), normal)
	line(5, "Due Date: "+s.DueOn.Format(constants.DateFormat), normal)
	if s.Terms != "" {
		line(5, "Terms: "+s.Terms, normal)
	}
	line(5, "Period: "+s.Period.Label(), normal)

	line(12, "Services", heading)

	for _, l := range s.Lines {
		line(7, "Project: "+l.Project, props.Text{Size: 11, Style: consts.Bold, Top: 1})
		if l.Rate != nil {
			line(5, fmt.Sprintf("Rate: %s/hr", money(l.Rate.Currency, l.Rate.Amount)), props.Text{Size: 9, Style: consts.Italic})
		}

		rows := make([][]string, 0, len(l.Entries))
		for _, e := range l.Entries {
			rows = append(rows, []string{
				e.Description,
				e.Start.Local().Format(constants.InvoiceTimeFormat),
				e.End.Local().Format(constants.InvoiceTimeFormat),
				fmt.Sprintf("%.2f", e.Hours()),
			})
		}
		if len(rows) > 0 {
			bg := stripe
			m.TableList([]string{"Description", "Start", "End", "Hours"}, rows, props.TableList{
				HeaderProp:           props.TableListContent{Size: 9, GridSizes: entryGrid},
				ContentProp:          props.TableListContent{Size: 9, GridSizes: entryGrid},
				Align:                consts.Left,
				AlternatedBackground: &bg,
				HeaderContentSpace:   1,
				Line:                 false,
			})
		}

		if l.Rate != nil {
			line(7, fmt.Sprintf("  %.2f hrs × %s = %s", l.Hours(),
				money(l.Rate.Currency, l.Rate.Amount), money(l.Rate.Currency, *l.Cost)), bold)
		} else {
			line(7, fmt.Sprintf("  %.2f hrs", l.Hours()), bold)
		}
		m.Row(4, func() {})
	}

	cur := s.Currency()
	m.Row(4, func() {})
	line(6, "Subtotal: "+money(cur, s.Subtotal), props.Text{Size: 10, Align: consts.Right})
	if s.TaxRate.IsPositive() {
		line(6, fmt.Sprintf("Tax (%s%%): %s", s.TaxRate.StringFixed(1), money(cur, s.TaxAmount)),
			props.Text{Size: 10, Align: consts.Right})
	}
	line(8, "TOTAL DUE: "+money(cur, s.Total), props.Text{Size: 12, Style: consts.Bold, Align: consts.Right, Top: 1})

	if instr := strings.TrimSpace(s.Settings.PaymentInstructions); instr != "" {
		m.Row(10, func() {})
		line(8, "Payment Instructions", heading)
		for _, l := range strings.Split(instr, "\n") {
			line(5, l, small)
		}
	}

	if err := m.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write invoice pdf: %w", err)
	}
	return nil
}
