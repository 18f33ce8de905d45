package invoice

import (
	"time"

	"github.com/julianstephens/meter/internal/constants"
)

// Period is the inclusive window an invoice covers, in UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// Label renders the period's month as YYYY-MM.
func (p Period) Label() string {
	return p.Start.Format(constants.PeriodFormat)
}

func firstOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// CurrentMonth runs from the first of now's month to now.
func CurrentMonth(now time.Time) Period {
	return Period{Start: firstOfMonth(now), End: now.UTC()}
}

// PriorMonth runs from the first of last month to the first of this month.
func PriorMonth(now time.Time) Period {
	end := firstOfMonth(now)
	return Period{Start: end.AddDate(0, -1, 0), End: end}
}

// CustomRange covers whole days from start's midnight to end's 23:59:59.
func CustomRange(start, end time.Time) Period {
	s := start.UTC()
	e := end.UTC()
	return Period{
		Start: time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC),
		End:   time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, 0, time.UTC),
	}
}

// Month covers one calendar month.
func Month(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Second)}
}
