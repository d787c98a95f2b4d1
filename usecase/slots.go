package usecase

import (
	"math/rand"
	"sort"
	"time"

	"github.com/curatorbot/curator/domains/calendar"
	domainSchedule "github.com/curatorbot/curator/domains/schedule"
	pkgError "github.com/curatorbot/curator/pkg/error"
	"github.com/curatorbot/curator/pkg/timeutils"
	"github.com/sirupsen/logrus"
)

// maxScanMinutes bounds the forward slot search to one full week. The scan
// is a deliberate minute-by-minute walk: it runs once per scheduling
// action, never in a hot path, and a bounded linear search is trivially
// auditable against the calendar.
const maxScanMinutes = 7 * 24 * 60

type slotService struct {
	cal *calendar.Weekly
}

// NewSlotService builds the slot query service over a read-only calendar.
func NewSlotService(cal *calendar.Weekly) domainSchedule.ISlotUsecase {
	return &slotService{cal: cal}
}

func (s *slotService) IsAllowed(t time.Time) bool {
	clock := calendar.ClockOf(t)

	for _, w := range s.cal.WindowsFor(t.Weekday()) {
		if w.Contains(clock) {
			return true
		}
	}

	// A wrapping window on the previous weekday spills into this day's
	// early hours.
	prevDay := t.AddDate(0, 0, -1).Weekday()
	for _, w := range s.cal.WindowsFor(prevDay) {
		if w.ContainsCarryOver(clock) {
			return true
		}
	}

	return false
}

func (s *slotService) NextAllowed(from time.Time) (time.Time, error) {
	current := timeutils.TruncateToMinute(from)
	for i := 0; i <= maxScanMinutes; i++ {
		if s.IsAllowed(current) {
			return current, nil
		}
		current = current.Add(time.Minute)
	}
	return time.Time{}, pkgError.NoCapacityError("no available slot within the next 7 days")
}

func (s *slotService) QuickSchedule(option domainSchedule.QuickOption, from time.Time) (time.Time, error) {
	var candidate time.Time
	switch option {
	case domainSchedule.QuickIn30Minutes:
		candidate = from.Add(30 * time.Minute)
	case domainSchedule.QuickIn1Hour:
		candidate = from.Add(time.Hour)
	case domainSchedule.QuickTomorrow9AM:
		tomorrow := from.AddDate(0, 0, 1)
		candidate = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, from.Location())
	default:
		return time.Time{}, pkgError.ValidationError("unknown quick schedule option: " + string(option))
	}

	if s.IsAllowed(candidate) {
		return timeutils.TruncateToMinute(candidate), nil
	}
	return s.NextAllowed(candidate)
}

// slotInstance is one concrete occurrence of a calendar window on a
// calendar date, clipped to the distribution start.
type slotInstance struct {
	start   time.Time
	end     time.Time
	minutes int
}

func (s *slotService) Distribute(req domainSchedule.DistributeRequest) ([]time.Time, error) {
	if req.Count <= 0 {
		return []time.Time{}, nil
	}

	slots := s.collectSlots(req.StartFrom, req.HorizonDays)
	if len(slots) == 0 {
		return nil, pkgError.NoCapacityError("no posting windows within the distribution horizon")
	}

	totalMinutes := 0
	for _, slot := range slots {
		totalMinutes += slot.minutes
	}
	if totalMinutes < req.Count {
		logrus.Warnf("[SLOTS] horizon capacity %d min is below the requested %d posts", totalMinutes, req.Count)
	}

	interval := totalMinutes / req.Count
	if interval < 1 {
		interval = 1
	}

	times := make([]time.Time, 0, req.Count)
	minutesPassed := 0
	for _, slot := range slots {
		if len(times) >= req.Count {
			break
		}
		slotStartMinutes := minutesPassed
		slotEndMinutes := minutesPassed + slot.minutes
		for len(times) < req.Count && minutesPassed < slotEndMinutes {
			position := minutesPassed - slotStartMinutes
			times = append(times, slot.start.Add(time.Duration(position)*time.Minute))
			minutesPassed += interval
		}
		minutesPassed = slotEndMinutes
	}

	// Whatever did not fit is packed into the tail of the last window at
	// small randomized offsets.
	last := slots[len(slots)-1]
	for len(times) < req.Count {
		upper := last.minutes / 2
		if upper > 30 {
			upper = 30
		}
		if upper < 1 {
			upper = 1
		}
		offset := rand.Intn(upper) + 1
		times = append(times, last.end.Add(-time.Duration(offset)*time.Minute))
	}

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	logrus.Infof("[SLOTS] distributed %d posts across %d windows (%d min capacity)",
		len(times), len(slots), totalMinutes)
	return times, nil
}

// collectSlots enumerates window occurrences in [startFrom, startFrom +
// horizonDays), clipping starts and extending wrapping ends by a day.
func (s *slotService) collectSlots(startFrom time.Time, horizonDays int) []slotInstance {
	var slots []slotInstance

	year, month, day := startFrom.Date()
	baseDate := time.Date(year, month, day, 0, 0, 0, 0, startFrom.Location())

	for offset := 0; offset < horizonDays; offset++ {
		date := baseDate.AddDate(0, 0, offset)
		for _, w := range s.cal.WindowsFor(date.Weekday()) {
			slotStart := date.Add(time.Duration(w.Start.Minutes()) * time.Minute)
			slotEnd := date.Add(time.Duration(w.End.Minutes()) * time.Minute)
			if w.Wraps() {
				slotEnd = slotEnd.AddDate(0, 0, 1)
			}
			if slotStart.Before(startFrom) {
				slotStart = startFrom
			}
			// A window that ends at or before startFrom has no capacity
			// left; keeping it would let tail packing place timestamps
			// before the distribution start.
			minutes := int(slotEnd.Sub(slotStart) / time.Minute)
			if minutes < 1 {
				continue
			}
			slots = append(slots, slotInstance{
				start:   slotStart,
				end:     slotEnd,
				minutes: minutes,
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].start.Before(slots[j].start) })
	return slots
}

func (s *slotService) ParseUserTime(input string, now time.Time) (time.Time, error) {
	parsed, err := timeutils.ParseUserDateTime(input, now)
	if err != nil {
		return time.Time{}, pkgError.ValidationError(err.Error())
	}
	if s.IsAllowed(parsed) {
		return timeutils.TruncateToMinute(parsed), nil
	}
	return s.NextAllowed(parsed)
}
