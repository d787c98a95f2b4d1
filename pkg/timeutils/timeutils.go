package timeutils

import (
	"fmt"
	"strings"
	"time"
)

// userInputFormats are the date-time layouts accepted from the admin, most
// common first. All of them are day-first.
var userInputFormats = []string{
	"02.01.2006 15:04",
	"02.01.06 15:04",
	"02/01/2006 15:04",
	"02-01-2006 15:04",
}

// ParseUserDateTime parses a user-supplied "DD.MM.YYYY HH:MM" string (and
// the sibling separators). Instants at or before now are rejected, since a
// publish time in the past is always an input mistake.
func ParseUserDateTime(s string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range userInputFormats {
		parsed, err := time.ParseInLocation(layout, trimmed, now.Location())
		if err != nil {
			continue
		}
		if !parsed.After(now) {
			return time.Time{}, fmt.Errorf("time %s is in the past", parsed.Format("02.01.2006 15:04"))
		}
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("could not parse date-time %q, expected DD.MM.YYYY HH:MM", s)
}

// FormatForUser renders a timestamp the way it appears in bot messages,
// e.g. "13.03 (Fri) at 10:00".
func FormatForUser(t time.Time) string {
	return fmt.Sprintf("%s (%s) at %s",
		t.Format("02.01"),
		t.Weekday().String()[:3],
		t.Format("15:04"),
	)
}

// FixedZone builds the process-wide naive-local location from a whole-hour
// UTC offset (the reference deployment runs at UTC+5).
func FixedZone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// TruncateToMinute drops seconds and below; the calendar operates at
// minute granularity.
func TruncateToMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}
