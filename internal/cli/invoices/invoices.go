package invoices

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/meter/internal/cli"
	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/invoice"
	"github.com/julianstephens/meter/internal/models"
	"github.com/julianstephens/meter/internal/storage"
	"github.com/julianstephens/meter/internal/utils"
)

type InvoiceCmd struct {
	Generate GenerateCmd `cmd:"" default:"withargs" help:"Write an invoice for billed entries."`
	List     ListCmd     `cmd:"" help:"List generated invoices."`
}

type GenerateCmd struct {
	Month  int    `short:"m" help:"Month to invoice (1-12). Defaults to the current month."`
	Year   int    `short:"y" help:"Year to invoice. Defaults to the current year."`
	From   string `help:"First day of a custom range (YYYY-MM-DD)."`
	To     string `help:"Last day of a custom range (YYYY-MM-DD)."`
	Client string `short:"c" help:"Client to bill, by ID or name."`
	Format string `short:"f" help:"Output format: pdf or text. Defaults to invoice_format from config."`
}

func (c *GenerateCmd) Run(ctx *cli.Context) error {
	period, err := ParsePeriod(c.Month, c.Year, c.From, c.To, ctx.Clock(), ctx.Location())
	if err != nil {
		return err
	}

	client, err := FindClient(ctx.Store, c.Client)
	if err != nil {
		return err
	}

	billed := true
	entries, err := ctx.Store.ListEntriesInRange(period.Start, period.End, &billed)
	if err != nil {
		return fmt.Errorf("failed to load billed entries: %w", err)
	}
	projects, err := ctx.Store.ListProjects()
	if err != nil {
		return fmt.Errorf("failed to load project rates: %w", err)
	}

	gen, err := ctx.Generator(c.Format)
	if err != nil {
		return err
	}
	res, err := gen.Generate(invoice.Request{
		Entries: entries,
		Rates:   invoice.RatesFromProjects(projects),
		Period:  period,
		Client:  client,
	})
	if err != nil {
		return fmt.Errorf("failed to write invoice: %w", err)
	}

	if len(entries) == 0 {
		ctx.Println(cli.Warning("No billed entries in this period; the invoice is empty."))
	}
	s := res.Summary
	if s.HasRates {
		ctx.Printf("%s: %.2f hrs, total %s%s\n", res.Invoice.Label(), s.TotalHours(), s.Currency(), s.Total.StringFixed(2))
	} else {
		ctx.Printf("%s: %.2f hrs\n", res.Invoice.Label(), s.TotalHours())
	}
	ctx.Printf("Invoice written to %s\n", res.Invoice.FilePath)
	return nil
}

// ParsePeriod resolves the invoice window from flags. A custom range needs
// both ends and wins over month/year; otherwise month and year default to
// now's.
func ParsePeriod(month, year int, from, to string, now time.Time, loc *time.Location) (invoice.Period, error) {
	if from != "" || to != "" {
		if from == "" || to == "" {
			return invoice.Period{}, fmt.Errorf("--from and --to must be given together")
		}
		if month != 0 || year != 0 {
			return invoice.Period{}, fmt.Errorf("--month/--year cannot be combined with --from/--to")
		}
		start, err := utils.ParseDateInLocation(from, loc)
		if err != nil {
			return invoice.Period{}, fmt.Errorf("invalid --from date %q: expected YYYY-MM-DD", from)
		}
		end, err := utils.ParseDateInLocation(to, loc)
		if err != nil {
			return invoice.Period{}, fmt.Errorf("invalid --to date %q: expected YYYY-MM-DD", to)
		}
		if end.Before(start) {
			return invoice.Period{}, fmt.Errorf("--to %s is before --from %s", to, from)
		}
		return invoice.CustomRange(dateOnly(start), dateOnly(end)), nil
	}

	now = now.UTC()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return invoice.Period{}, fmt.Errorf("invalid month %d: must be 1-12", month)
	}
	return invoice.Month(year, time.Month(month)), nil
}

// dateOnly keeps the calendar day of a local date when moving it to UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FindClient looks a client up by numeric ID or case-insensitive name.
// An empty ref means no client.
func FindClient(store storage.Provider, ref string) (*models.Client, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		c, err := store.GetClient(id)
		if err != nil {
			return nil, fmt.Errorf("client %d: %w", id, err)
		}
		return &c, nil
	}

	clients, err := store.ListClients()
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	for _, c := range clients {
		if strings.EqualFold(c.Name, ref) {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("client %q not found", ref)
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	invoices, err := ctx.Store.ListInvoices()
	if err != nil {
		return fmt.Errorf("failed to list invoices: %w", err)
	}
	if len(invoices) == 0 {
		ctx.Println("No invoices found")
		return nil
	}

	clients := map[int64]string{}
	if list, err := ctx.Store.ListClients(); err == nil {
		for _, cl := range list {
			clients[cl.ID] = cl.Name
		}
	}

	tbl := cli.NewTable("NUMBER", "ISSUED", "DUE", "CLIENT", "TOTAL", "FILE")
	for _, inv := range invoices {
		client := "-"
		if inv.ClientID != nil {
			if name, ok := clients[*inv.ClientID]; ok {
				client = name
			}
		}
		tbl.AddRow(inv.Label(), inv.IssuedOn.Format(constants.DateFormat), inv.DueOn.Format(constants.DateFormat),
			client, inv.Total.StringFixed(2), inv.FilePath)
	}
	tbl.RightAlign(4)
	ctx.PrintTable(tbl)
	return nil
}
