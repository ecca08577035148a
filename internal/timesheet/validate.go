package timesheet

import (
	"errors"
	"fmt"
	"time"

	"github.com/rmoreno/timecard/internal/clock"
	"github.com/rmoreno/timecard/internal/dateutil"
)

// FieldError pins a validation failure to one slot field so the form layer
// can render it inline.
type FieldError struct {
	DayKey   string
	Category Category
	Field    string // "from", "to" or "range"
	Err      error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.DayKey, e.Category, e.Field, e.Err)
}

// Unwrap exposes the underlying validation error for errors.Is checks.
func (e FieldError) Unwrap() error {
	return e.Err
}

// Validate checks every in-use slot: both endpoints present, well formed and
// end strictly after start. Saving is blocked while any error remains.
func (d *Draft) Validate(loc *time.Location) []FieldError {
	var errs []FieldError
	for _, day := range d.Days {
		key := dateutil.DayKey(day.Date, loc)
		for _, cat := range day.Categories() {
			s := day.Slots[cat]
			if s == nil || !s.Use {
				continue
			}
			errs = append(errs, validateSlot(key, cat, s)...)
		}
	}
	return errs
}

func validateSlot(dayKey string, cat Category, s *Slot) []FieldError {
	var errs []FieldError
	if s.From == nil {
		errs = append(errs, FieldError{DayKey: dayKey, Category: cat, Field: "from", Err: ErrMissingTime})
	} else if !s.From.Valid() {
		errs = append(errs, FieldError{DayKey: dayKey, Category: cat, Field: "from", Err: clock.ErrInvalidTime})
	}
	if s.To == nil {
		errs = append(errs, FieldError{DayKey: dayKey, Category: cat, Field: "to", Err: ErrMissingTime})
	} else if !s.To.Valid() {
		errs = append(errs, FieldError{DayKey: dayKey, Category: cat, Field: "to", Err: clock.ErrInvalidTime})
	}
	if len(errs) > 0 {
		return errs
	}

	if err := ValidateRange(s.From, s.To); err != nil && !errors.Is(err, ErrMissingTime) {
		errs = append(errs, FieldError{DayKey: dayKey, Category: cat, Field: "range", Err: err})
	}
	return errs
}
