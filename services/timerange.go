package services

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// TimeRange is a same-day wall-clock interval, held as minutes since
// midnight. Ranges are half-open: a booking ending at T and another starting
// at exactly T do not overlap, so back-to-back bookings are allowed.
type TimeRange struct {
	start int
	end   int
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// NewTimeRange builds a range from "HH:MM" boundaries. The start must be
// strictly before the end.
func NewTimeRange(startTime, endTime string) (TimeRange, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return TimeRange{}, err
	}
	end, err := parseClock(endTime)
	if err != nil {
		return TimeRange{}, err
	}
	if start >= end {
		return TimeRange{}, fmt.Errorf("start time %s must be before end time %s", startTime, endTime)
	}
	return TimeRange{start: start, end: end}, nil
}

// Overlaps implements the half-open overlap predicate.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.start < o.end && r.end > o.start
}

// Duration of the range.
func (r TimeRange) Duration() time.Duration {
	return time.Duration(r.end-r.start) * time.Minute
}

// parseDate validates a YYYY-MM-DD calendar date.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// isPastDate reports whether date falls before today in now's location.
func isPastDate(date time.Time, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return date.Before(today)
}
