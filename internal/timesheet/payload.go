package timesheet

import (
	"time"

	"github.com/rmoreno/timecard/internal/dateutil"
)

// Interval is the flat persisted-record shape produced on save and compared
// by the cross-record overlap gateway.
type Interval struct {
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Minutes   int      `json:"minutes"`
	Units     float64  `json:"units"`
	Category  Category `json:"category,omitempty"`
	Invoiced  bool     `json:"invoiced"`
}

// Payload flattens every in-use slot into wire intervals, dated by the
// calendar-day key in loc. Slots that fail range validation are skipped
// here; Validate reports them so the caller can block the save.
func (d *Draft) Payload(loc *time.Location) []Interval {
	var out []Interval
	for _, day := range d.Days {
		key := dateutil.DayKey(day.Date, loc)
		for _, cat := range day.Categories() {
			s := day.Slots[cat]
			if s == nil || !s.Use {
				continue
			}
			mins, err := DurationMinutes(s.From, s.To)
			if err != nil {
				continue
			}
			out = append(out, Interval{
				Date:      key,
				StartTime: s.From.Wire(),
				EndTime:   s.To.Wire(),
				Minutes:   mins,
				Units:     MinutesToUnits(mins),
				Category:  cat,
				Invoiced:  s.Invoiced,
			})
		}
	}
	return out
}
