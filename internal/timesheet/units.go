package timesheet

import (
	"strconv"

	"github.com/rmoreno/timecard/internal/clock"
)

// UnitMinutes is the billing unit resolution.
const UnitMinutes = 15

// DurationMinutes returns the elapsed minutes between two clock times on the
// same day. Missing endpoints yield ErrMissingTime; zero-length and inverted
// intervals yield ErrEndNotAfterStart. Overnight spans are not supported.
func DurationMinutes(from, to *clock.Time) (int, error) {
	if from == nil || to == nil {
		return 0, ErrMissingTime
	}
	d := to.Minutes() - from.Minutes()
	if d <= 0 {
		return 0, ErrEndNotAfterStart
	}
	return d, nil
}

// ValidateRange returns nil when the interval is usable, or the user-facing
// validation error.
func ValidateRange(from, to *clock.Time) error {
	_, err := DurationMinutes(from, to)
	return err
}

// MinutesToUnits converts minutes to billing units. Fractional units are
// kept exactly; nothing rounds or clamps, so 37 minutes is 37.0/15 units.
func MinutesToUnits(minutes int) float64 {
	return float64(minutes) / UnitMinutes
}

// MinutesToHours converts minutes to fractional hours.
func MinutesToHours(minutes int) float64 {
	return float64(minutes) / 60
}

// FormatHours renders an hour total with two decimals. Display only; stored
// values keep the full precision.
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 2, 64)
}
