package timesheet

import (
	"time"

	"github.com/rmoreno/timecard/internal/clock"
	"github.com/rmoreno/timecard/internal/dateutil"
)

// DefaultTimes is the bulk-apply template for one slot category. Weekday and
// weekend templates are configured separately because therapy schedules
// usually differ between them.
type DefaultTimes struct {
	Category Category
	From     clock.Time
	To       clock.Time
}

// ApplyDefaults fills slot times across the draft's days. Weekday days take
// the weekday templates and weekend days the weekend ones, classified in
// loc. Fields the user already edited (touched) are left alone unless
// overwriteTouched is set. Filled slots are marked in use.
func (d *Draft) ApplyDefaults(weekday, weekend []DefaultTimes, loc *time.Location, overwriteTouched bool) {
	for _, day := range d.Days {
		templates := weekday
		if dateutil.IsWeekend(day.Date, loc) {
			templates = weekend
		}
		for _, tmpl := range templates {
			applyTemplate(day.Slot(tmpl.Category), tmpl, overwriteTouched)
		}
	}
}

func applyTemplate(s *Slot, tmpl DefaultTimes, overwriteTouched bool) {
	if overwriteTouched || !s.FromTouched {
		from := tmpl.From
		s.From = &from
	}
	if overwriteTouched || !s.ToTouched {
		to := tmpl.To
		s.To = &to
	}
	s.Use = true
}
