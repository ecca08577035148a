// Package clock provides the canonical 12-hour time value used by all
// timesheet entry logic, plus the free-text parser that turns whatever a
// user typed into one.
package clock

import (
	"errors"
	"fmt"
	"time"
)

// Conversion errors.
var (
	ErrMinutesOutOfRange = errors.New("minutes since midnight must be in [0, 1440)")
	ErrInvalidWireTime   = errors.New("time must be in HH:mm format")
)

// Meridiem is the AM/PM half of a 12-hour clock time.
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

// Toggle returns the other meridiem.
func (m Meridiem) Toggle() Meridiem {
	if m == AM {
		return PM
	}
	return AM
}

// Time is an immutable 12-hour clock value. Hour is always 1..12 and Minute
// 0..59 when constructed through Parse or FromMinutes.
type Time struct {
	Hour     int
	Minute   int
	Meridiem Meridiem
}

// Valid reports whether the value satisfies the 12-hour invariants.
func (t Time) Valid() bool {
	return t.Hour >= 1 && t.Hour <= 12 &&
		t.Minute >= 0 && t.Minute <= 59 &&
		(t.Meridiem == AM || t.Meridiem == PM)
}

// Minutes returns minutes since midnight. 12 AM maps to 00:00 and 12 PM to
// 12:00.
func (t Time) Minutes() int {
	h24 := t.Hour
	switch {
	case t.Hour == 12 && t.Meridiem == AM:
		h24 = 0
	case t.Hour == 12 && t.Meridiem == PM:
		h24 = 12
	case t.Meridiem == PM:
		h24 = t.Hour + 12
	}
	return h24*60 + t.Minute
}

// FromMinutes converts minutes since midnight back to a 12-hour value.
func FromMinutes(m int) (Time, error) {
	if m < 0 || m >= 24*60 {
		return Time{}, ErrMinutesOutOfRange
	}
	h24 := m / 60
	t := Time{Minute: m % 60, Meridiem: AM}
	if h24 >= 12 {
		t.Meridiem = PM
	}
	t.Hour = h24 % 12
	if t.Hour == 0 {
		t.Hour = 12
	}
	return t, nil
}

// Wire returns the 24-hour "HH:mm" form used in persisted payloads.
func (t Time) Wire() string {
	m := t.Minutes()
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FromWire parses the 24-hour "HH:mm" wire form.
func FromWire(s string) (Time, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return Time{}, ErrInvalidWireTime
	}
	return FromMinutes(parsed.Hour()*60 + parsed.Minute())
}

// String renders the display form, e.g. "3:05 PM". The hour carries no
// leading zero.
func (t Time) String() string {
	return fmt.Sprintf("%d:%02d %s", t.Hour, t.Minute, t.Meridiem)
}

// Display renders the field text shown after a successful blur, e.g. "3:05".
// The meridiem is rendered separately by the field.
func (t Time) Display() string {
	return fmt.Sprintf("%d:%02d", t.Hour, t.Minute)
}

// WithMeridiem returns a copy with only the meridiem replaced. Toggling
// AM/PM on an existing value must not change hour or minute, so callers
// reconstruct via this method instead of re-parsing text.
func (t Time) WithMeridiem(m Meridiem) Time {
	t.Meridiem = m
	return t
}
