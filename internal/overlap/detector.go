// Package overlap detects same-day interval conflicts, both within one
// timesheet draft and against previously saved records through the Gateway.
package overlap

import (
	"fmt"
	"sort"
	"time"

	"github.com/rmoreno/timecard/internal/clock"
	"github.com/rmoreno/timecard/internal/dateutil"
	"github.com/rmoreno/timecard/internal/timesheet"
)

// Span is one comparable interval: a calendar date plus start and end in
// minutes since midnight.
type Span struct {
	Date     time.Time
	Category timesheet.Category
	Start    int
	End      int
}

// Conflict reports one calendar day with intersecting intervals. External
// marks conflicts found against saved records rather than within the draft.
type Conflict struct {
	DayKey     string
	Categories []timesheet.Category
	Message    string
	External   bool
}

// Intersects reports strict open-interval intersection. Back-to-back
// intervals sharing an endpoint do not conflict.
func Intersects(start1, end1, start2, end2 int) bool {
	return start1 < end2 && end1 > start2
}

// FindInternal flags every day on which two spans intersect, grouping by the
// calendar-day key in loc. One Conflict is produced per day, naming the
// categories involved; same-category double booking and cross-category
// overlap are both flagged. Spans with a non-positive length are excluded
// from the comparison set rather than reported. Never panics.
func FindInternal(spans []Span, loc *time.Location) []Conflict {
	byDay := make(map[string][]Span)
	for _, s := range spans {
		if s.End <= s.Start {
			continue
		}
		key := dateutil.DayKey(s.Date, loc)
		byDay[key] = append(byDay[key], s)
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conflicts []Conflict
	for _, key := range keys {
		day := byDay[key]
		sort.Slice(day, func(i, j int) bool { return day[i].Start < day[j].Start })

		var cats []timesheet.Category
		for i := 0; i < len(day); i++ {
			for j := i + 1; j < len(day); j++ {
				if Intersects(day[i].Start, day[i].End, day[j].Start, day[j].End) {
					cats = appendCategory(cats, day[i].Category)
					cats = appendCategory(cats, day[j].Category)
				}
			}
		}
		if len(cats) > 0 {
			conflicts = append(conflicts, Conflict{
				DayKey:     key,
				Categories: cats,
				Message:    fmt.Sprintf("time entries on %s overlap", key),
			})
		}
	}
	return conflicts
}

// DraftSpans extracts comparable spans from every in-use slot that has both
// endpoints. Unusable slots are skipped, matching the detector's tolerance
// for unparsed input.
func DraftSpans(d *timesheet.Draft) []Span {
	var spans []Span
	for _, day := range d.Days {
		for _, cat := range day.Categories() {
			s := day.Slots[cat]
			if s == nil || !s.Use || s.From == nil || s.To == nil {
				continue
			}
			spans = append(spans, Span{
				Date:     day.Date,
				Category: cat,
				Start:    s.From.Minutes(),
				End:      s.To.Minutes(),
			})
		}
	}
	return spans
}

// IntervalSpans converts wire intervals back to spans, dropping any whose
// times fail to parse. loc anchors the interval's date-only string.
func IntervalSpans(intervals []timesheet.Interval, loc *time.Location) []Span {
	var spans []Span
	for _, iv := range intervals {
		date, err := dateutil.ParseDate(iv.Date, loc)
		if err != nil {
			continue
		}
		from, err := clock.FromWire(iv.StartTime)
		if err != nil {
			continue
		}
		to, err := clock.FromWire(iv.EndTime)
		if err != nil {
			continue
		}
		spans = append(spans, Span{
			Date:     date,
			Category: iv.Category,
			Start:    from.Minutes(),
			End:      to.Minutes(),
		})
	}
	return spans
}

func appendCategory(cats []timesheet.Category, c timesheet.Category) []timesheet.Category {
	for _, existing := range cats {
		if existing == c {
			return cats
		}
	}
	return append(cats, c)
}
