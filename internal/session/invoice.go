package session

import (
	"github.com/julianstephens/meter/internal/invoice"
	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/models"
)

func (m *Model) updateInvoice(msg Msg) Msg {
	switch msg := msg.(type) {
	case NextInvoiceMode:
		if m.InvoiceMode == InvoiceSelectEntries {
			m.InvoiceIndex = clamp(m.InvoiceIndex+1, len(m.InvoiceEntries))
		} else {
			m.InvoiceMode = InvoiceMode(cycle(int(m.InvoiceMode), 1, int(invoiceModeCount)))
		}
	case PrevInvoiceMode:
		if m.InvoiceMode == InvoiceSelectEntries {
			m.InvoiceIndex = clamp(m.InvoiceIndex-1, len(m.InvoiceEntries))
		} else {
			m.InvoiceMode = InvoiceMode(cycle(int(m.InvoiceMode), -1, int(invoiceModeCount)))
		}

	case EnterSelectEntries:
		m.InvoiceMode = InvoiceSelectEntries
		m.InvoiceIndex = 0
		m.refreshInvoice()
	case ExitInvoiceSelect:
		m.InvoiceMode = InvoiceCurrentMonth
		m.Selected = map[int64]bool{}

	case ToggleEntrySelection:
		if m.Selected[msg.ID] {
			delete(m.Selected, msg.ID)
		} else {
			m.Selected[msg.ID] = true
		}

	case SetCustomRange:
		start, end := msg.Start, msg.End
		m.CustomStart = &start
		m.CustomEnd = &end
		m.InvoiceMode = InvoiceCustomRange

	case CycleInvoiceClient:
		m.cycleInvoiceClient()

	case GenerateInvoice:
		m.generateInvoice()

	case RefreshInvoice:
		m.refreshInvoice()
	}
	return nil
}

// refreshInvoice loads billed entries for selection and the rate table.
func (m *Model) refreshInvoice() {
	billed := true
	entries, err := m.store.ListEntries(&billed)
	if err != nil {
		logger.Error("Failed to list billed entries", "error", err)
	} else {
		m.InvoiceEntries = entries
		m.InvoiceIndex = clamp(m.InvoiceIndex, len(entries))
	}
	m.refreshProjects()
}

// cycleInvoiceClient steps none, first client, ..., last client, none.
func (m *Model) cycleInvoiceClient() {
	if len(m.Clients) == 0 {
		m.InvoiceClient = nil
		return
	}
	next := 0
	if m.InvoiceClient != nil {
		next = -1
		for i, c := range m.Clients {
			if c.ID == *m.InvoiceClient {
				next = i + 1
				break
			}
		}
		if next < 0 || next >= len(m.Clients) {
			m.InvoiceClient = nil
			return
		}
	}
	id := m.Clients[next].ID
	m.InvoiceClient = &id
}

// InvoicePeriod is the window the current mode covers.
func (m *Model) InvoicePeriod() (invoice.Period, bool) {
	now := m.now()
	switch m.InvoiceMode {
	case InvoicePriorMonth:
		return invoice.PriorMonth(now), true
	case InvoiceCustomRange:
		if m.CustomStart == nil || m.CustomEnd == nil {
			return invoice.CurrentMonth(now), false
		}
		return invoice.CustomRange(*m.CustomStart, *m.CustomEnd), true
	case InvoiceSelectEntries:
		return invoice.CurrentMonth(now), false
	}
	return invoice.CurrentMonth(now), true
}

func (m *Model) invoiceEntries(period invoice.Period, ranged bool) ([]models.Entry, error) {
	if m.InvoiceMode == InvoiceSelectEntries {
		var picked []models.Entry
		for _, e := range m.InvoiceEntries {
			if m.Selected[e.ID] {
				picked = append(picked, e)
			}
		}
		return picked, nil
	}
	if !ranged {
		return nil, nil
	}
	billed := true
	return m.store.ListEntriesInRange(period.Start, period.End, &billed)
}

func (m *Model) generateInvoice() {
	period, ranged := m.InvoicePeriod()
	entries, err := m.invoiceEntries(period, ranged)
	if err != nil {
		m.setStatus("Failed to write invoice: %v", err)
		return
	}
	m.refreshProjects()

	res, err := m.generator.Generate(invoice.Request{
		Entries: entries,
		Rates:   m.Rates,
		Period:  period,
		Client:  m.InvoiceClientRecord(),
	})
	if err != nil {
		m.setStatus("Failed to write invoice: %v", err)
		return
	}
	m.LastInvoice = &res
	m.setStatus("Invoice #%d written to %s", res.Invoice.Number, res.Invoice.FilePath)
}
