package scheduling

import (
	"regexp"
	"time"
)

const (
	// DateLayout is the wire format for appointment dates.
	DateLayout = "2006-01-02"
	// SessionCount is the number of sessions in one treatment cycle.
	SessionCount = 3
	// sessionGapDays is the minimum spacing between sessions.
	sessionGapDays = 14
)

// Appointments run in 1-hour slots, on the hour.
var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):00$`)

// ValidTime reports whether clock is a whole-hour "HH:00" time.
func ValidTime(clock string) bool {
	return timePattern.MatchString(clock)
}

// AllowedDay reports whether t falls on a bookable weekday
// (Tuesday, Wednesday or Friday).
func AllowedDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Tuesday, time.Wednesday, time.Friday:
		return true
	}
	return false
}

// ParseSlot parses a "YYYY-MM-DD" date plus "HH:00" time into a single
// point in time.
func ParseSlot(date, clock string) (time.Time, error) {
	if !ValidTime(clock) {
		return time.Time{}, &time.ParseError{
			Layout: "HH:00", Value: clock, Message: ": time must be on the hour",
		}
	}
	return time.Parse(DateLayout+" 15:04", date+" "+clock)
}

// PlanSessions derives the dates of a full treatment cycle from the
// first session. Each follow-up lands 14 days after the previous one,
// rolled forward day by day until it hits an allowed weekday. The
// caller is responsible for validating the first date itself.
func PlanSessions(first time.Time) [SessionCount]time.Time {
	var dates [SessionCount]time.Time
	dates[0] = first

	last := first
	for i := 1; i < SessionCount; i++ {
		next := last.AddDate(0, 0, sessionGapDays)
		for !AllowedDay(next) {
			next = next.AddDate(0, 0, 1)
		}
		dates[i] = next
		last = next
	}
	return dates
}
