package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/meter/internal/constants"
)

// ParseDateInLocation reads a YYYY-MM-DD date as midnight in loc.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(constants.DateFormat, strings.TrimSpace(dateStr), loc)
}

// ParseEntryTime reads an editable "YYYY-MM-DD HH:MM" timestamp in loc and
// returns it in UTC.
func ParseEntryTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constants.EntryTimeFormat, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatEntryTime renders t in loc as "YYYY-MM-DD HH:MM". A nil time is "".
func FormatEntryTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(constants.EntryTimeFormat)
}

// ParseTimestamp accepts the entry format or RFC 3339, for command-line flags.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := ParseEntryTime(s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, expected %q or RFC 3339", s, constants.EntryTimeFormat)
	}
	return t.UTC(), nil
}

// FormatElapsed renders d as HH:MM:SS, clamping negatives to zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// FormatCountdown renders d as MM:SS, for Pomodoro intervals.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
