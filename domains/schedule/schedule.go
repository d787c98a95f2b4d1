package schedule

import "time"

// QuickOption is a named shortcut for picking a publish time.
type QuickOption string

const (
	QuickIn30Minutes QuickOption = "30_min"
	QuickIn1Hour     QuickOption = "1_hour"
	QuickTomorrow9AM QuickOption = "tomorrow_9am"
)

// DistributeRequest asks for Count publish times spread over the calendar
// capacity of the next HorizonDays days, starting no earlier than StartFrom.
type DistributeRequest struct {
	Count       int       `json:"count"`
	StartFrom   time.Time `json:"-"` // always assigned server-side
	HorizonDays int       `json:"horizon_days"`
}

// RescheduleRequest moves an already scheduled post to a new time.
type RescheduleRequest struct {
	PostID  int    `json:"post_id"`
	NewTime string `json:"new_time"` // user format, e.g. "02.01.2006 15:04"
}

// ISlotUsecase answers calendar membership questions and assigns publish
// times. All timestamps are naive local times in the process-wide fixed
// offset; implementations never mutate the calendar.
type ISlotUsecase interface {
	// IsAllowed reports whether t falls inside any posting window,
	// including the after-midnight tail of a wrapping window configured
	// on the previous weekday.
	IsAllowed(t time.Time) bool

	// NextAllowed finds the first allowed minute at or after from. It
	// returns a NoCapacityError when no window exists within seven days.
	NextAllowed(from time.Time) (time.Time, error)

	// QuickSchedule resolves a quick option relative to from, deferring
	// to NextAllowed when the naive candidate lands outside the calendar.
	QuickSchedule(option QuickOption, from time.Time) (time.Time, error)

	// Distribute spreads req.Count publish times across the window
	// capacity of the horizon. It returns fewer than req.Count times only
	// when the horizon holds no windows at all.
	Distribute(req DistributeRequest) ([]time.Time, error)

	// ParseUserTime parses a user-supplied date-time string and snaps it
	// to the next allowed slot when it falls outside the calendar.
	ParseUserTime(s string, now time.Time) (time.Time, error)
}
