package constants

// Layouts for time.Format and time.Parse.
const (
	DateFormat      = "2006-01-02"
	EntryTimeFormat = "2006-01-02 15:04"
	// InvoiceTimeFormat labels entry rows on rendered invoices.
	InvoiceTimeFormat = "01/02 15:04"
	// PeriodFormat names an invoice's billing month.
	PeriodFormat = "2006-01"
	// StorageTimeFormat is how timestamps are persisted: UTC, whole seconds.
	StorageTimeFormat = "2006-01-02T15:04:05Z"
)
