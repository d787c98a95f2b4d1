package calendar

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type fileWindow struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// LoadFile reads a weekly calendar from a YAML file keyed by lowercase
// weekday names:
//
//	friday:
//	  - start: "10:00"
//	    end: "12:00"
//
// Unknown day names and malformed windows are errors, not warnings, so a
// misconfigured calendar is caught at startup instead of silently allowing
// nothing.
func LoadFile(path string) (*Weekly, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule file: %w", err)
	}

	var parsed map[string][]fileWindow
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse schedule file %s: %w", path, err)
	}

	days := make(map[time.Weekday][]Window, len(parsed))
	for name, windows := range parsed {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("schedule file %s: unknown weekday %q", path, name)
		}
		for _, fw := range windows {
			start, err := ParseClock(fw.Start)
			if err != nil {
				return nil, fmt.Errorf("schedule file %s, %s: %w", path, name, err)
			}
			end, err := ParseClock(fw.End)
			if err != nil {
				return nil, fmt.Errorf("schedule file %s, %s: %w", path, name, err)
			}
			days[day] = append(days[day], Window{Start: start, End: end})
		}
	}

	return NewWeekly(days), nil
}
