// Package dateutil provides calendar-day bucketing in a fixed business
// timezone. All day keys and weekday classifications are computed in the
// configured zone, never the viewer's local one, so the same instant buckets
// identically no matter where the form is filled out from.
package dateutil

import (
	"errors"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
)

const dayKeyLayout = "2006-01-02"

// LoadZone loads an IANA timezone by name. Empty or "Local" falls back to
// the system zone; production configs should always pin an explicit zone.
func LoadZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// DayKey returns the "YYYY-MM-DD" calendar-day key for an instant, computed
// in loc. Overlap buckets and weekday business rules key off this string.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}

// Weekday returns the weekday of the instant's calendar day in loc.
func Weekday(t time.Time, loc *time.Location) time.Weekday {
	return t.In(loc).Weekday()
}

// IsSaturday reports whether the instant falls on a Saturday in loc.
func IsSaturday(t time.Time, loc *time.Location) bool {
	return Weekday(t, loc) == time.Saturday
}

// IsSunday reports whether the instant falls on a Sunday in loc.
func IsSunday(t time.Time, loc *time.Location) bool {
	return Weekday(t, loc) == time.Sunday
}

// IsFriday reports whether the instant falls on a Friday in loc.
func IsFriday(t time.Time, loc *time.Location) bool {
	return Weekday(t, loc) == time.Friday
}

// IsWeekend reports whether the instant falls on a Saturday or Sunday in loc.
func IsWeekend(t time.Time, loc *time.Location) bool {
	wd := Weekday(t, loc)
	return wd == time.Saturday || wd == time.Sunday
}

// ParseDate parses a "YYYY-MM-DD" date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dayKeyLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// DateRange represents a validated inclusive date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a DateRange from "YYYY-MM-DD" strings. endDate may be
// empty, which collapses the range to a single day.
func NewDateRange(startDate, endDate string, loc *time.Location) (*DateRange, error) {
	start, err := ParseDate(startDate, loc)
	if err != nil {
		return nil, err
	}

	end := start
	if endDate != "" {
		end, err = ParseDate(endDate, loc)
		if err != nil {
			return nil, err
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}

	return &DateRange{Start: start, End: end}, nil
}

// Days enumerates every calendar day of the range, both endpoints included.
func (r *DateRange) Days() []time.Time {
	return EnumerateDays(r.Start, r.End)
}

// EnumerateDays returns every calendar day from start through end inclusive.
// Both endpoints are truncated to midnight in their own location first.
func EnumerateDays(start, end time.Time) []time.Time {
	start = TruncateToDay(start)
	end = TruncateToDay(end)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
