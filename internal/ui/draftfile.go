package ui

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rmoreno/timecard/internal/clock"
	"github.com/rmoreno/timecard/internal/dateutil"
	"github.com/rmoreno/timecard/internal/timesheet"
)

// draftFile is the on-disk TOML shape of a timesheet draft. Times are
// written in the same free-text form the entry fields accept, so a file can
// say "3:00 PM", "300pm" or "15:00"-style "3:00 PM" interchangeably.
type draftFile struct {
	Provider string         `toml:"provider"`
	Client   string         `toml:"client"`
	Record   string         `toml:"record,omitempty"`
	Days     []draftDayFile `toml:"day"`
}

type draftDayFile struct {
	Date  string          `toml:"date"`
	Slots []draftSlotFile `toml:"slot"`
}

type draftSlotFile struct {
	Category string `toml:"category"`
	From     string `toml:"from"`
	To       string `toml:"to"`
	Use      *bool  `toml:"use,omitempty"`
	Invoiced bool   `toml:"invoiced,omitempty"`
}

// loadDraft reads a draft file. Time parse failures come back as field
// errors keyed to the day and slot, not as a load failure, so the check
// command can report all of them at once.
func loadDraft(path string, loc *time.Location) (*timesheet.Draft, []timesheet.FieldError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading draft file: %w", err)
	}

	var df draftFile
	if err := toml.Unmarshal(data, &df); err != nil {
		return nil, nil, fmt.Errorf("parsing draft file: %w", err)
	}
	if df.Provider == "" || df.Client == "" {
		return nil, nil, errors.New("draft file must set provider and client")
	}

	draft := &timesheet.Draft{
		ProviderID: df.Provider,
		ClientID:   df.Client,
		RecordID:   df.Record,
	}

	var fieldErrs []timesheet.FieldError
	for _, dd := range df.Days {
		date, err := dateutil.ParseDate(dd.Date, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("day %q: %w", dd.Date, err)
		}
		day := timesheet.NewDayEntry(date)
		dayKey := dateutil.DayKey(date, loc)

		for _, ds := range dd.Slots {
			cat := timesheet.Category(ds.Category)
			if cat == "" {
				cat = timesheet.CategorySingle
			}
			slot := day.Slot(cat)
			slot.Invoiced = ds.Invoiced
			slot.Use = ds.Use == nil || *ds.Use

			slot.From, fieldErrs = parseSlotTime(ds.From, dayKey, cat, "from", fieldErrs)
			slot.To, fieldErrs = parseSlotTime(ds.To, dayKey, cat, "to", fieldErrs)
		}
		draft.Days = append(draft.Days, day)
	}

	return draft, fieldErrs, nil
}

// parseSlotTime parses one time cell. Empty cells stay nil without error;
// draft files carry explicit AM/PM tokens, so the carried meridiem defaults
// to AM.
func parseSlotTime(raw, dayKey string, cat timesheet.Category, field string, errs []timesheet.FieldError) (*clock.Time, []timesheet.FieldError) {
	t, err := clock.Parse(raw, clock.AM)
	switch {
	case err == nil:
		return &t, errs
	case errors.Is(err, clock.ErrEmpty):
		return nil, errs
	default:
		return nil, append(errs, timesheet.FieldError{
			DayKey:   dayKey,
			Category: cat,
			Field:    field,
			Err:      fmt.Errorf("%q: %w", raw, err),
		})
	}
}

// writeDraft renders a draft back to the TOML file shape.
func writeDraft(path string, d *timesheet.Draft, loc *time.Location) error {
	df := draftFile{
		Provider: d.ProviderID,
		Client:   d.ClientID,
		Record:   d.RecordID,
	}

	for _, day := range d.Days {
		dd := draftDayFile{Date: dateutil.DayKey(day.Date, loc)}
		for _, cat := range day.Categories() {
			s := day.Slots[cat]
			if s == nil {
				continue
			}
			ds := draftSlotFile{Category: string(cat), Invoiced: s.Invoiced}
			if !s.Use {
				use := false
				ds.Use = &use
			}
			if s.From != nil {
				ds.From = s.From.String()
			}
			if s.To != nil {
				ds.To = s.To.String()
			}
			dd.Slots = append(dd.Slots, ds)
		}
		df.Days = append(df.Days, dd)
	}

	data, err := toml.Marshal(df)
	if err != nil {
		return fmt.Errorf("marshaling draft: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing draft file: %w", err)
	}
	return nil
}
