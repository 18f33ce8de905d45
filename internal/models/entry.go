package models

import (
	"time"
)

// Entry is a single span of tracked work against a project.
type Entry struct {
	ID          int64      `json:"id"`
	Project     string     `json:"project"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`         // UTC
	End         *time.Time `json:"end,omitempty"` // nil while the timer is running
	Billed      bool       `json:"billed"`
}

// IsActive reports whether the entry is still running.
func (e Entry) IsActive() bool {
	return e.End == nil
}

// Duration returns the elapsed time of the entry. Running entries are
// measured up to now.
func (e Entry) Duration(now time.Time) time.Duration {
	end := now
	if e.End != nil {
		end = *e.End
	}
	if end.Before(e.Start) {
		return 0
	}
	return end.Sub(e.Start)
}

// Seconds is the whole-second length of a completed entry, 0 while running.
func (e Entry) Seconds() int64 {
	if e.End == nil {
		return 0
	}
	return int64(e.Duration(*e.End) / time.Second)
}

// Hours returns fractional hours for a completed entry (seconds/3600).
func (e Entry) Hours() float64 {
	return float64(e.Seconds()) / 3600.0
}
