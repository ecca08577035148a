package overlap

import (
	"context"
	"errors"

	"github.com/rmoreno/timecard/internal/timesheet"
)

// ErrGatewayUnavailable reports that the cross-record check could not run.
// External state degrades to "unknown"; internal conflicts are unaffected.
var ErrGatewayUnavailable = errors.New("external overlap check unavailable")

// Subject identifies the provider/client pair whose saved records are
// compared against.
type Subject struct {
	ProviderID string
	ClientID   string
}

// Request asks a store whether candidate intervals collide with previously
// persisted intervals for the same subject. ExcludeRecordID names the record
// currently being edited so it never conflicts with its own saved state.
type Request struct {
	Subject         Subject
	Candidates      []timesheet.Interval
	ExcludeRecordID string
}

// Response carries the cross-record conflicts, if any.
type Response struct {
	Conflicts []Conflict
}

// Gateway is the contract the storage layer must satisfy: compare the
// candidates against all non-excluded persisted intervals for the subject
// using the same strict predicate as FindInternal.
type Gateway interface {
	Check(ctx context.Context, req Request) (Response, error)
}
