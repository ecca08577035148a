// Package store provides the SQLite-backed record store implementing the
// cross-record overlap gateway.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/rmoreno/timecard/internal/dateutil"
	"github.com/rmoreno/timecard/internal/overlap"
	"github.com/rmoreno/timecard/internal/timesheet"
)

// SQLite persists saved timesheet records and answers cross-record overlap
// checks against them.
type SQLite struct {
	db   *sql.DB
	zone *time.Location
}

// New opens (or creates) the database at path and runs migrations. All
// date-only strings in the store are interpreted in zone.
func New(path string, zone *time.Location) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLite{db: db, zone: zone}, nil
}

// Record is one saved timesheet: a subject pair plus its flat intervals.
type Record struct {
	ID         string
	ProviderID string
	ClientID   string
	Intervals  []timesheet.Interval
	CreatedAt  time.Time
}

// SaveRecord persists a record and its intervals atomically. A missing ID is
// assigned; saving an existing ID replaces its intervals (edit-and-resave).
func (s *SQLite) SaveRecord(ctx context.Context, r *Record) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (id, provider_id, client_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET provider_id = excluded.provider_id,
		                              client_id = excluded.client_id
	`, r.ID, r.ProviderID, r.ClientID, r.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM intervals WHERE record_id = ?`, r.ID); err != nil {
		return fmt.Errorf("clearing intervals: %w", err)
	}

	for _, iv := range r.Intervals {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO intervals (record_id, date, start_time, end_time, minutes, units, category, invoiced)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, iv.Date, iv.StartTime, iv.EndTime, iv.Minutes, iv.Units, string(iv.Category), iv.Invoiced)
		if err != nil {
			return fmt.Errorf("inserting interval: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing record: %w", err)
	}
	return nil
}

// GetRecord retrieves a record by ID. Returns nil when not found.
func (s *SQLite) GetRecord(ctx context.Context, id string) (*Record, error) {
	var (
		r         Record
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, provider_id, client_id, created_at FROM records WHERE id = ?
	`, id).Scan(&r.ID, &r.ProviderID, &r.ClientID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying record: %w", err)
	}

	r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	r.Intervals, err = s.recordIntervals(ctx, id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLite) recordIntervals(ctx context.Context, recordID string) ([]timesheet.Interval, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, start_time, end_time, minutes, units, category, invoiced
		FROM intervals
		WHERE record_id = ?
		ORDER BY date, start_time
	`, recordID)
	if err != nil {
		return nil, fmt.Errorf("querying intervals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanIntervals(rows)
}

// SubjectIntervals returns all persisted intervals for the provider/client
// pair, excluding the named record (the one being edited).
func (s *SQLite) SubjectIntervals(ctx context.Context, subject overlap.Subject, excludeRecordID string) ([]timesheet.Interval, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.date, i.start_time, i.end_time, i.minutes, i.units, i.category, i.invoiced
		FROM intervals i
		JOIN records r ON r.id = i.record_id
		WHERE r.provider_id = ? AND r.client_id = ? AND r.id != ?
		ORDER BY i.date, i.start_time
	`, subject.ProviderID, subject.ClientID, excludeRecordID)
	if err != nil {
		return nil, fmt.Errorf("querying subject intervals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanIntervals(rows)
}

func scanIntervals(rows *sql.Rows) ([]timesheet.Interval, error) {
	var out []timesheet.Interval
	for rows.Next() {
		var (
			iv       timesheet.Interval
			category sql.NullString
		)
		if err := rows.Scan(&iv.Date, &iv.StartTime, &iv.EndTime, &iv.Minutes, &iv.Units, &category, &iv.Invoiced); err != nil {
			return nil, fmt.Errorf("scanning interval: %w", err)
		}
		if category.Valid {
			iv.Category = timesheet.Category(category.String)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating intervals: %w", err)
	}
	return out, nil
}

// Check implements overlap.Gateway: each candidate interval is compared
// against every persisted, non-excluded interval for the subject on the same
// calendar day using the strict open-interval predicate. One conflict is
// reported per day.
func (s *SQLite) Check(ctx context.Context, req overlap.Request) (overlap.Response, error) {
	persisted, err := s.SubjectIntervals(ctx, req.Subject, req.ExcludeRecordID)
	if err != nil {
		return overlap.Response{}, err
	}

	candidates := overlap.IntervalSpans(req.Candidates, s.zone)
	existing := overlap.IntervalSpans(persisted, s.zone)

	byDay := make(map[string][]timesheet.Category)
	for _, c := range candidates {
		cKey := dateutil.DayKey(c.Date, s.zone)
		for _, e := range existing {
			if dateutil.DayKey(e.Date, s.zone) != cKey {
				continue
			}
			if overlap.Intersects(c.Start, c.End, e.Start, e.End) {
				byDay[cKey] = appendCategory(byDay[cKey], c.Category)
			}
		}
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	resp := overlap.Response{}
	for _, key := range keys {
		resp.Conflicts = append(resp.Conflicts, overlap.Conflict{
			DayKey:     key,
			Categories: byDay[key],
			Message:    fmt.Sprintf("time entries on %s overlap a previously saved timesheet", key),
			External:   true,
		})
	}
	return resp, nil
}

func appendCategory(cats []timesheet.Category, c timesheet.Category) []timesheet.Category {
	for _, existing := range cats {
		if existing == c {
			return cats
		}
	}
	return append(cats, c)
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
