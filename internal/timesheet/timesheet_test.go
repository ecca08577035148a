package timesheet

import (
	"errors"
	"testing"
	"time"

	"github.com/rmoreno/timecard/internal/clock"
	"github.com/rmoreno/timecard/internal/dateutil"
)

func nyZone(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading zone: %v", err)
	}
	return loc
}

func weekdayDefaults() []DefaultTimes {
	return []DefaultTimes{
		{Category: CategoryPrimary, From: clock.Time{Hour: 3, Minute: 0, Meridiem: clock.PM}, To: clock.Time{Hour: 4, Minute: 0, Meridiem: clock.PM}},
		{Category: CategorySupervision, From: clock.Time{Hour: 4, Minute: 0, Meridiem: clock.PM}, To: clock.Time{Hour: 5, Minute: 0, Meridiem: clock.PM}},
	}
}

func TestApplyDefaultsOnSingleMonday(t *testing.T) {
	loc := nyZone(t)
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, loc)

	d := NewDraft("prov-1", "client-1", []time.Time{monday})
	d.ApplyDefaults(weekdayDefaults(), nil, loc, false)

	if len(d.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(d.Days))
	}
	day := d.Days[0]

	primary := day.Slots[CategoryPrimary]
	if primary == nil || !primary.Use {
		t.Fatal("primary slot should be filled and in use")
	}
	mins, err := DurationMinutes(primary.From, primary.To)
	if err != nil {
		t.Fatalf("primary duration: %v", err)
	}
	if mins != 60 {
		t.Errorf("primary duration = %d, want 60", mins)
	}
	if got := MinutesToUnits(mins); got != 4 {
		t.Errorf("primary units = %v, want 4", got)
	}
	if got := FormatHours(MinutesToHours(mins)); got != "1.00" {
		t.Errorf("primary hours = %q, want %q", got, "1.00")
	}

	supervision := day.Slots[CategorySupervision]
	if supervision == nil || !supervision.Use {
		t.Fatal("supervision slot should be filled and in use")
	}
	if mins, _ := DurationMinutes(supervision.From, supervision.To); mins != 60 {
		t.Errorf("supervision duration = %d, want 60", mins)
	}
}

func TestApplyDefaultsHonorsTouchedFields(t *testing.T) {
	loc := nyZone(t)
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, loc)

	d := NewDraft("prov-1", "client-1", []time.Time{monday})
	slot := d.Days[0].Slot(CategoryPrimary)
	manual := clock.Time{Hour: 1, Minute: 30, Meridiem: clock.PM}
	slot.From = &manual
	slot.FromTouched = true

	d.ApplyDefaults(weekdayDefaults(), nil, loc, false)

	if *slot.From != manual {
		t.Errorf("touched from was overwritten: got %v, want %v", *slot.From, manual)
	}
	if slot.To == nil || slot.To.Hour != 4 {
		t.Errorf("untouched to should take the default, got %v", slot.To)
	}

	d.ApplyDefaults(weekdayDefaults(), nil, loc, true)
	if slot.From.Hour != 3 {
		t.Errorf("overwriteTouched should replace the manual time, got %v", *slot.From)
	}
}

func TestApplyDefaultsUsesWeekendTemplates(t *testing.T) {
	loc := nyZone(t)
	// Friday through Sunday.
	days := dateutil.EnumerateDays(
		time.Date(2026, 1, 9, 0, 0, 0, 0, loc),
		time.Date(2026, 1, 11, 0, 0, 0, 0, loc),
	)

	weekend := []DefaultTimes{
		{Category: CategorySingle, From: clock.Time{Hour: 9, Minute: 0, Meridiem: clock.AM}, To: clock.Time{Hour: 10, Minute: 0, Meridiem: clock.AM}},
	}

	d := NewDraft("prov-1", "client-1", days)
	d.ApplyDefaults(weekdayDefaults(), weekend, loc, false)

	if d.Days[0].Slots[CategoryPrimary] == nil {
		t.Error("Friday should take the weekday template")
	}
	if d.Days[0].Slots[CategorySingle] != nil {
		t.Error("Friday should not take the weekend template")
	}
	for i := 1; i <= 2; i++ {
		if d.Days[i].Slots[CategorySingle] == nil {
			t.Errorf("day %d should take the weekend template", i)
		}
		if d.Days[i].Slots[CategoryPrimary] != nil {
			t.Errorf("day %d should not take the weekday template", i)
		}
	}
}

func TestPayload(t *testing.T) {
	loc := nyZone(t)
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, loc)

	d := NewDraft("prov-1", "client-1", []time.Time{monday})
	slot := d.Days[0].Slot(CategoryPrimary)
	slot.From = ct(1, 0, clock.PM)
	slot.To = ct(2, 30, clock.PM)
	slot.Use = true

	skipped := d.Days[0].Slot(CategorySupervision)
	skipped.From = ct(2, 0, clock.PM)
	skipped.To = ct(2, 0, clock.PM) // zero length, excluded from payload
	skipped.Use = true

	unused := d.Days[0].Slot(CategorySingle)
	unused.From = ct(5, 0, clock.PM)
	unused.To = ct(6, 0, clock.PM)
	unused.Use = false

	payload := d.Payload(loc)
	if len(payload) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(payload))
	}

	got := payload[0]
	want := Interval{
		Date:      "2026-01-05",
		StartTime: "13:00",
		EndTime:   "14:30",
		Minutes:   90,
		Units:     6.0,
		Category:  CategoryPrimary,
	}
	if got != want {
		t.Errorf("payload[0] = %+v, want %+v", got, want)
	}
}

func TestValidate(t *testing.T) {
	loc := nyZone(t)
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, loc)

	d := NewDraft("prov-1", "client-1", []time.Time{monday})

	missing := d.Days[0].Slot(CategoryPrimary)
	missing.Use = true

	inverted := d.Days[0].Slot(CategorySupervision)
	inverted.From = ct(4, 0, clock.PM)
	inverted.To = ct(3, 0, clock.PM)
	inverted.Use = true

	ignored := d.Days[0].Slot(CategorySingle)
	ignored.Use = false // not in use, never validated

	errs := d.Validate(loc)
	if len(errs) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(errs), errs)
	}

	var missingCount, rangeCount int
	for _, fe := range errs {
		if fe.DayKey != "2026-01-05" {
			t.Errorf("field error day key = %q, want 2026-01-05", fe.DayKey)
		}
		switch {
		case errors.Is(fe.Err, ErrMissingTime):
			missingCount++
		case errors.Is(fe.Err, ErrEndNotAfterStart):
			rangeCount++
			if fe.Category != CategorySupervision || fe.Field != "range" {
				t.Errorf("range error attributed to %s/%s", fe.Category, fe.Field)
			}
		default:
			t.Errorf("unexpected error kind: %v", fe.Err)
		}
	}
	if missingCount != 2 || rangeCount != 1 {
		t.Errorf("got %d missing and %d range errors, want 2 and 1", missingCount, rangeCount)
	}
}

func TestHasInvoiced(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, nyZone(t))

	d := NewDraft("prov-1", "client-1", []time.Time{monday})
	if d.HasInvoiced() {
		t.Error("empty draft should not report invoiced slots")
	}
	d.Days[0].Slot(CategoryPrimary).Invoiced = true
	if !d.HasInvoiced() {
		t.Error("draft with an invoiced slot should report it")
	}
}

func TestCategoriesOrder(t *testing.T) {
	day := NewDayEntry(time.Now())
	day.Slot(CategorySingle)
	day.Slot(CategorySupervision)
	day.Slot(CategoryPrimary)

	got := day.Categories()
	want := []Category{CategoryPrimary, CategorySupervision, CategorySingle}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Categories() = %v, want %v", got, want)
		}
	}
}
