// Package timesheet models one draft timesheet: per-day slots, duration and
// billing-unit math, and the flat wire payload produced on save.
package timesheet

import (
	"errors"
	"sort"
	"time"

	"github.com/rmoreno/timecard/internal/clock"
)

// Validation errors.
var (
	ErrMissingTime      = errors.New("start and end times are required")
	ErrEndNotAfterStart = errors.New("end time must be after start time")
)

// Category names a slot within a day. The standard forms carry a primary
// service slot and an optional supervision slot; simplified forms use a
// single slot.
type Category string

const (
	CategoryPrimary     Category = "primary"
	CategorySupervision Category = "supervision"
	CategorySingle      Category = "single"
)

// Slot is one interval within a day. From and To stay nil until the user
// enters (or defaults fill) a time. The touched flags record manual edits,
// which exempt a field from bulk default application.
type Slot struct {
	From        *clock.Time
	To          *clock.Time
	Use         bool
	Invoiced    bool
	FromTouched bool
	ToTouched   bool
}

// DayEntry is one calendar day of a timesheet draft.
type DayEntry struct {
	Date  time.Time
	Slots map[Category]*Slot
}

// NewDayEntry creates an empty day for the given date.
func NewDayEntry(date time.Time) *DayEntry {
	return &DayEntry{Date: date, Slots: make(map[Category]*Slot)}
}

// Slot returns the slot for a category, creating it when absent.
func (d *DayEntry) Slot(cat Category) *Slot {
	if d.Slots == nil {
		d.Slots = make(map[Category]*Slot)
	}
	s, ok := d.Slots[cat]
	if !ok {
		s = &Slot{}
		d.Slots[cat] = s
	}
	return s
}

// Categories returns the day's slot categories in a stable order: primary,
// supervision, single, then anything else alphabetically.
func (d *DayEntry) Categories() []Category {
	cats := make([]Category, 0, len(d.Slots))
	for c := range d.Slots {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		ri, rj := categoryRank(cats[i]), categoryRank(cats[j])
		if ri != rj {
			return ri < rj
		}
		return cats[i] < cats[j]
	})
	return cats
}

func categoryRank(c Category) int {
	switch c {
	case CategoryPrimary:
		return 0
	case CategorySupervision:
		return 1
	case CategorySingle:
		return 2
	default:
		return 3
	}
}

// Draft owns the day entries for one provider/client timesheet.
type Draft struct {
	ProviderID string
	ClientID   string
	RecordID   string // set when editing a previously saved record
	Days       []*DayEntry
}

// NewDraft creates a draft with one empty DayEntry per calendar day of the
// inclusive date range.
func NewDraft(providerID, clientID string, days []time.Time) *Draft {
	d := &Draft{ProviderID: providerID, ClientID: clientID}
	for _, day := range days {
		d.Days = append(d.Days, NewDayEntry(day))
	}
	return d
}

// HasInvoiced reports whether any slot in the draft was already billed.
// Callers use it to ask for confirmation before resaving.
func (d *Draft) HasInvoiced() bool {
	for _, day := range d.Days {
		for _, s := range day.Slots {
			if s != nil && s.Invoiced {
				return true
			}
		}
	}
	return false
}
