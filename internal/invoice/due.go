package invoice

import (
	"strings"
	"time"
)

// DueDate adds the days implied by terms ("Net 15", "Net 30", "Net 60") to
// the issue date. Anything else is due on receipt.
func DueDate(terms string, issued time.Time) time.Time {
	t := strings.ToLower(terms)
	days := 0
	switch {
	case strings.Contains(t, "net 30"):
		days = 30
	case strings.Contains(t, "net 15"):
		days = 15
	case strings.Contains(t, "net 60"):
		days = 60
	}

	issued = issued.UTC()
	day := time.Date(issued.Year(), issued.Month(), issued.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, days)
}
