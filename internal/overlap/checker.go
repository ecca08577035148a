package overlap

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultDebounce is the trailing-edge delay before a submitted request
	// actually hits the gateway. Re-submitting within the window restarts it.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultTimeout bounds each gateway call so a slow store cannot hold the
	// form hostage.
	DefaultTimeout = 5 * time.Second
)

// Result carries the outcome of one cross-record check. When Err is set the
// external state is unknown; callers keep presenting internal conflicts.
type Result struct {
	Seq       uint64
	Conflicts []Conflict
	Err       error
}

// Checker debounces cross-record checks against a Gateway and delivers only
// the newest result. Rapid edits collapse into one gateway call; a response
// arriving after a newer request has been submitted is discarded, never
// merged (last-request-wins).
type Checker struct {
	gateway  Gateway
	debounce time.Duration
	timeout  time.Duration
	results  chan Result

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	closed bool
}

// NewChecker wraps a gateway with debounce and timeout handling. Zero
// durations take the defaults.
func NewChecker(gw Gateway, debounce, timeout time.Duration) *Checker {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		gateway:  gw,
		debounce: debounce,
		timeout:  timeout,
		results:  make(chan Result, 1),
	}
}

// Submit schedules a check for req after the debounce window, superseding
// any pending or in-flight check. It returns the sequence number whose
// Result callers should expect; results with a smaller sequence are stale.
func (c *Checker) Submit(req Request) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.seq
	}

	c.seq++
	seq := c.seq
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.run(seq, req)
	})
	return seq
}

// Results delivers at most the latest Result; stale results are dropped
// before delivery so the consumer only ever observes the newest state.
func (c *Checker) Results() <-chan Result {
	return c.results
}

// Close stops any pending check. In-flight gateway calls finish but their
// results are discarded.
func (c *Checker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Checker) run(seq uint64, req Request) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	resp, err := c.gateway.Check(ctx, req)
	if err != nil {
		err = errors.Join(ErrGatewayUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.seq {
		// A newer request superseded this one while it was in flight.
		return
	}

	conflicts := resp.Conflicts
	for i := range conflicts {
		conflicts[i].External = true
	}

	// Replace any undelivered older result instead of blocking.
	select {
	case <-c.results:
	default:
	}
	c.results <- Result{Seq: seq, Conflicts: conflicts, Err: err}
}
