// Package invoice turns billed entries into priced invoice documents.
package invoice

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Rate is a project's hourly price.
type Rate struct {
	Amount   decimal.Decimal
	Currency string
}

// RatesFromProjects builds the rate table from priced projects.
func RatesFromProjects(projects []models.Project) map[string]Rate {
	rates := make(map[string]Rate, len(projects))
	for _, p := range projects {
		if p.Rate != nil {
			rates[p.Name] = Rate{Amount: *p.Rate, Currency: p.Currency}
		}
	}
	return rates
}

// Params is everything Aggregate needs. It performs no I/O.
type Params struct {
	Entries  []models.Entry
	Rates    map[string]Rate
	TaxRate  decimal.Decimal // percent
	Number   int64
	Period   Period
	IssuedOn time.Time
	Terms    string
	Settings models.InvoiceSettings
	Client   *models.Client
}

// Line is one project's section of an invoice.
type Line struct {
	Project string
	Entries []models.Entry
	Seconds int64
	Rate    *Rate
	// Cost is nil for unpriced projects
	Cost *decimal.Decimal
}

// Hours is fractional hours, seconds/3600.
func (l Line) Hours() float64 {
	return float64(l.Seconds) / 3600.0
}

// Summary is a fully computed invoice, ready to render.
type Summary struct {
	Number    int64
	Period    Period
	IssuedOn  time.Time
	DueOn     time.Time
	Terms     string
	Settings  models.InvoiceSettings
	Client    *models.Client
	Lines     []Line
	Subtotal  decimal.Decimal
	TaxRate   decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
	// HasRates is true when any line is priced
	HasRates bool
}

// TotalHours sums all lines.
func (s Summary) TotalHours() float64 {
	var secs int64
	for _, l := range s.Lines {
		secs += l.Seconds
	}
	return float64(secs) / 3600.0
}

// Currency is the first priced line's currency, used for invoice totals.
func (s Summary) Currency() string {
	for _, l := range s.Lines {
		if l.Rate != nil && l.Rate.Currency != "" {
			return l.Rate.Currency
		}
	}
	return constants.DefaultCurrency
}

// Aggregate groups entries by project and prices them. Running entries
// contribute nothing. A zero rate is still a rate.
func Aggregate(p Params) Summary {
	byProject := map[string]*Line{}
	var order []string
	for _, e := range p.Entries {
		if e.IsActive() {
			continue
		}
		line, ok := byProject[e.Project]
		if !ok {
			line = &Line{Project: e.Project}
			byProject[e.Project] = line
			order = append(order, e.Project)
		}
		line.Entries = append(line.Entries, e)
		line.Seconds += e.Seconds()
	}
	sort.Strings(order)

	s := Summary{
		Number:   p.Number,
		Period:   p.Period,
		IssuedOn: p.IssuedOn,
		DueOn:    DueDate(p.Terms, p.IssuedOn),
		Terms:    p.Terms,
		Settings: p.Settings,
		Client:   p.Client,
		Subtotal: decimal.Zero,
		TaxRate:  p.TaxRate,
	}

	for _, name := range order {
		line := *byProject[name]
		if rate, ok := p.Rates[name]; ok {
			r := rate
			cost := r.Amount.Mul(decimal.NewFromInt(line.Seconds)).Div(decimal.NewFromInt(3600))
			line.Rate = &r
			line.Cost = &cost
			s.Subtotal = s.Subtotal.Add(cost)
			s.HasRates = true
		}
		s.Lines = append(s.Lines, line)
	}

	s.TaxAmount = s.Subtotal.Mul(p.TaxRate).Div(hundred)
	s.Total = s.Subtotal.Add(s.TaxAmount)
	return s
}
