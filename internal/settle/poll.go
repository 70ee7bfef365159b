package settle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeoutError is returned when a polled condition never held within its bound.
// A timeout is a real failure; it is never retried.
type TimeoutError struct {
	Condition string
	Timeout   time.Duration
	Waited    time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s (bound %s)", e.Waited, e.Condition, e.Timeout)
}

// IsTimeout returns true if err is or wraps a *TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// Condition is evaluated on every poll. Returning an error stops polling.
type Condition func(ctx context.Context) (bool, error)

// Poll evaluates cond until it returns true, returns an error, ctx is done, or
// timeout elapses. The condition is always evaluated at least once, and once more
// at the deadline.
func Poll(ctx context.Context, clock Clock, interval, timeout time.Duration, name string, cond Condition) error {
	start := clock.Now()
	for {
		ok, err := cond(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		waited := clock.Now().Sub(start)
		if waited >= timeout {
			return &TimeoutError{Condition: name, Timeout: timeout, Waited: waited}
		}

		wait := interval
		if remaining := timeout - waited; remaining < wait {
			wait = remaining
		}
		if err := clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Snapshot returns the current regions matching the output style selector.
type Snapshot func(ctx context.Context) ([]Region, error)

// AwaitOutput blocks until the output region is ready to read, then applies the
// grace delay.
//
// For non-blank input the readiness predicate is OutputReady. Blank input never
// produces output, so readiness is relaxed to "an output region exists"; the
// grace delay still applies so that stale output from a debounced clear is flushed.
func AwaitOutput(ctx context.Context, clock Clock, p Policy, snapshot Snapshot, injected string) error {
	name := "non-empty output region"
	ready := OutputReady
	if strings.TrimSpace(injected) == "" {
		name = "output region"
		ready = func(regions []Region) bool {
			_, ok := FirstOutput(regions)
			return ok
		}
	}

	err := Poll(ctx, clock, p.PollInterval, p.ReadyTimeout, name, func(ctx context.Context) (bool, error) {
		regions, err := snapshot(ctx)
		if err != nil {
			return false, err
		}
		return ready(regions), nil
	})
	if err != nil {
		return err
	}

	return clock.Sleep(ctx, p.GraceDelay)
}
