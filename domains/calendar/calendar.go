package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Clock is a minute-resolution time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return Clock{}, fmt.Errorf("invalid time format %q, expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("time %q out of range", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// ClockOf extracts the time-of-day of t.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes returns the clock as minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Window is a posting window on a single weekday. A window whose End is
// numerically before its Start crosses midnight into the next calendar day.
type Window struct {
	Start Clock
	End   Clock
}

// Wraps reports whether the window crosses midnight.
func (w Window) Wraps() bool {
	return w.End.Minutes() < w.Start.Minutes()
}

// Contains checks time-of-day membership for the window's own weekday.
// Bounds are inclusive on both ends.
func (w Window) Contains(c Clock) bool {
	m := c.Minutes()
	if w.Wraps() {
		return m >= w.Start.Minutes() || m <= w.End.Minutes()
	}
	return m >= w.Start.Minutes() && m <= w.End.Minutes()
}

// ContainsCarryOver checks whether c falls in the after-midnight tail of a
// wrapping window, evaluated from the following day.
func (w Window) ContainsCarryOver(c Clock) bool {
	return w.Wraps() && c.Minutes() <= w.End.Minutes()
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// Weekly holds the posting windows for every weekday, indexed by
// time.Weekday so a missing day is impossible by construction.
type Weekly struct {
	days [7][]Window
}

// NewWeekly builds a calendar from a per-weekday window map. Days absent
// from the map have no windows and therefore allow no posting.
func NewWeekly(days map[time.Weekday][]Window) *Weekly {
	w := &Weekly{}
	for day, windows := range days {
		w.days[day] = append([]Window(nil), windows...)
	}
	return w
}

// WindowsFor returns the configured windows for a weekday, possibly empty.
func (w *Weekly) WindowsFor(day time.Weekday) []Window {
	return w.days[day]
}

// IsEmpty reports whether no weekday has any window.
func (w *Weekly) IsEmpty() bool {
	for _, windows := range w.days {
		if len(windows) > 0 {
			return false
		}
	}
	return true
}

// Summary renders the calendar for display, one line per configured day.
func (w *Weekly) Summary() string {
	var lines []string
	for offset := 0; offset < 7; offset++ {
		// Start the listing on Monday.
		day := time.Weekday((offset + 1) % 7)
		windows := w.days[day]
		if len(windows) == 0 {
			continue
		}
		parts := make([]string, 0, len(windows))
		for _, win := range windows {
			parts = append(parts, win.String())
		}
		lines = append(lines, fmt.Sprintf("%s: %s", day.String()[:3], strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "\n")
}

// Default returns the built-in posting calendar used when no schedule file
// is configured. All times are in the process-wide fixed offset.
func Default() *Weekly {
	mustWindow := func(start, end string) Window {
		s, err := ParseClock(start)
		if err != nil {
			panic(err)
		}
		e, err := ParseClock(end)
		if err != nil {
			panic(err)
		}
		return Window{Start: s, End: e}
	}

	return NewWeekly(map[time.Weekday][]Window{
		time.Monday: {
			mustWindow("10:00", "12:00"),
			mustWindow("13:00", "16:00"),
		},
		time.Tuesday: {
			mustWindow("10:00", "12:00"),
			mustWindow("19:00", "22:00"),
		},
		time.Wednesday: {
			mustWindow("10:00", "12:00"),
			mustWindow("13:00", "16:00"),
		},
		time.Thursday: {
			mustWindow("10:00", "12:00"),
			mustWindow("17:00", "22:00"),
		},
		time.Friday: {
			mustWindow("10:00", "12:00"),
			mustWindow("17:00", "22:00"),
			mustWindow("23:00", "01:00"), // until 01:00 Saturday
		},
		time.Saturday: {
			mustWindow("13:00", "16:00"),
			mustWindow("23:00", "02:00"), // until 02:00 Sunday
		},
		time.Sunday: {
			mustWindow("00:00", "02:00"),
			mustWindow("12:00", "16:00"),
			mustWindow("19:00", "22:00"),
		},
	})
}
