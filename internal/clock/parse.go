package clock

import (
	"errors"
	"strings"
)

// Parse outcomes. ErrEmpty means the user entered nothing, which callers
// treat as "field not set" rather than bad input.
var (
	ErrEmpty       = errors.New("no time entered")
	ErrInvalidTime = errors.New("invalid time")
)

// Parse interprets free-typed text as a 12-hour clock time.
//
// A trailing AM/PM token (case-insensitive, optional surrounding whitespace)
// overrides current; otherwise the caller's currently selected meridiem is
// carried over. Every other non-digit character is ignored and the remaining
// digits are split:
//
//	1-2 digits  "3", "11"  -> hour, minute 0
//	3 digits    "315"      -> 3:15
//	4 digits    "1030"     -> 10:30
//	5+ digits   "10307"    -> first four digits, as above
//
// Four digits try the two-digit hour first; when that split is out of range
// the one-digit hour is retried with the remaining three digits as the
// minute ("9059" -> 9:59). The three-digit minute must still be at most 59,
// so "1300" stays invalid.
func Parse(raw string, current Meridiem) (Time, error) {
	mer, rest := trailingMeridiem(raw)
	if mer == "" {
		mer = current
	}

	var digits []byte
	for i := 0; i < len(rest); i++ {
		if rest[i] >= '0' && rest[i] <= '9' {
			digits = append(digits, rest[i])
		}
	}

	var hour, minute int
	switch {
	case len(digits) == 0:
		return Time{}, ErrEmpty
	case len(digits) <= 2:
		hour = digitsToInt(digits)
	case len(digits) == 3:
		hour = digitsToInt(digits[:1])
		minute = digitsToInt(digits[1:])
	default:
		digits = digits[:4]
		hour = digitsToInt(digits[:2])
		minute = digitsToInt(digits[2:])
		if !inRange(hour, minute) {
			hour = digitsToInt(digits[:1])
			minute = digitsToInt(digits[1:])
		}
	}

	if !inRange(hour, minute) {
		return Time{}, ErrInvalidTime
	}
	return Time{Hour: hour, Minute: minute, Meridiem: mer}, nil
}

func inRange(hour, minute int) bool {
	return hour >= 1 && hour <= 12 && minute <= 59
}

func digitsToInt(digits []byte) int {
	n := 0
	for _, d := range digits {
		n = n*10 + int(d-'0')
	}
	return n
}

// trailingMeridiem detects an AM/PM token at the end of the text. It returns
// the empty meridiem and the original text when no token is present.
func trailingMeridiem(s string) (Meridiem, string) {
	trimmed := strings.TrimRight(s, " \t")
	upper := strings.ToUpper(trimmed)
	switch {
	case strings.HasSuffix(upper, "AM"):
		return AM, trimmed[:len(trimmed)-2]
	case strings.HasSuffix(upper, "PM"):
		return PM, trimmed[:len(trimmed)-2]
	}
	return "", s
}

// AutoColon rewrites digit-only field text as the user types, inserting the
// hour:minute colon once enough digits accumulate: "315" becomes "3:15" and
// "1030" becomes "10:30". Text that already contains a colon or any other
// non-digit is returned unchanged. This is an editing affordance fired on
// change events only; blur goes through Parse instead.
func AutoColon(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return s
		}
	}
	switch {
	case len(s) == 3:
		return s[:1] + ":" + s[1:]
	case len(s) >= 4:
		return s[:2] + ":" + s[2:]
	}
	return s
}
