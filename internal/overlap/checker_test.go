package overlap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rmoreno/timecard/internal/timesheet"
)

// fakeGateway records calls and answers from a canned script.
type fakeGateway struct {
	mu    sync.Mutex
	calls []Request
	resp  Response
	err   error
	delay time.Duration
}

func (f *fakeGateway) Check(ctx context.Context, req Request) (Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	resp, err, delay := f.resp, f.err, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
	}
	return resp, err
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func req(date string) Request {
	return Request{
		Subject:    Subject{ProviderID: "prov-1", ClientID: "client-1"},
		Candidates: []timesheet.Interval{{Date: date, StartTime: "13:00", EndTime: "14:00"}},
	}
}

func waitForResult(t *testing.T, c *Checker) Result {
	t.Helper()
	select {
	case r := <-c.Results():
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for checker result")
		return Result{}
	}
}

func TestCheckerDebouncesRapidSubmits(t *testing.T) {
	gw := &fakeGateway{
		resp: Response{Conflicts: []Conflict{{DayKey: "2026-01-05", Message: "overlaps saved entry"}}},
	}
	c := NewChecker(gw, 50*time.Millisecond, time.Second)
	defer c.Close()

	c.Submit(req("2026-01-03"))
	c.Submit(req("2026-01-04"))
	want := c.Submit(req("2026-01-05"))

	r := waitForResult(t, c)
	if r.Seq != want {
		t.Errorf("result seq = %d, want %d", r.Seq, want)
	}
	if r.Err != nil {
		t.Errorf("unexpected error: %v", r.Err)
	}
	if gw.callCount() != 1 {
		t.Errorf("gateway called %d times, want 1 (debounced)", gw.callCount())
	}

	gw.mu.Lock()
	got := gw.calls[0].Candidates[0].Date
	gw.mu.Unlock()
	if got != "2026-01-05" {
		t.Errorf("gateway saw candidate date %q, want the last submitted", got)
	}

	if len(r.Conflicts) != 1 || !r.Conflicts[0].External {
		t.Errorf("conflicts = %+v, want one external conflict", r.Conflicts)
	}
}

func TestCheckerLastRequestWins(t *testing.T) {
	gw := &fakeGateway{delay: 100 * time.Millisecond}
	c := NewChecker(gw, 10*time.Millisecond, time.Second)
	defer c.Close()

	c.Submit(req("2026-01-05"))
	// Let the first request go in flight, then supersede it.
	time.Sleep(40 * time.Millisecond)
	want := c.Submit(req("2026-01-06"))

	r := waitForResult(t, c)
	if r.Seq != want {
		t.Fatalf("delivered seq %d, want only the newest %d", r.Seq, want)
	}

	// No second (stale) result may arrive.
	select {
	case stale := <-c.Results():
		t.Fatalf("stale result delivered: %+v", stale)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCheckerGatewayFailureDegradesGracefully(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection refused")}
	c := NewChecker(gw, 10*time.Millisecond, time.Second)
	defer c.Close()

	c.Submit(req("2026-01-05"))
	r := waitForResult(t, c)

	if !errors.Is(r.Err, ErrGatewayUnavailable) {
		t.Errorf("result error = %v, want ErrGatewayUnavailable", r.Err)
	}
	if len(r.Conflicts) != 0 {
		t.Errorf("failed check should not fabricate conflicts, got %v", r.Conflicts)
	}
}

func TestCheckerTimeout(t *testing.T) {
	gw := &fakeGateway{delay: time.Second}
	c := NewChecker(gw, 10*time.Millisecond, 50*time.Millisecond)
	defer c.Close()

	c.Submit(req("2026-01-05"))
	r := waitForResult(t, c)
	if !errors.Is(r.Err, ErrGatewayUnavailable) {
		t.Errorf("timed-out check error = %v, want ErrGatewayUnavailable", r.Err)
	}
}

func TestCheckerCloseStopsPendingWork(t *testing.T) {
	gw := &fakeGateway{}
	c := NewChecker(gw, 20*time.Millisecond, time.Second)

	c.Submit(req("2026-01-05"))
	c.Close()

	time.Sleep(100 * time.Millisecond)
	if gw.callCount() != 0 {
		t.Errorf("gateway called %d times after Close, want 0", gw.callCount())
	}
}
