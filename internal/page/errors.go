package page

import (
	"errors"
	"fmt"
	"time"
)

// NavigationError means the page did not reach a loaded state in time.
// It is fatal to the case, not to the run.
type NavigationError struct {
	URL     string
	Timeout time.Duration
	Err     error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s (timeout %s): %v", e.URL, e.Timeout, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// ElementNotFoundError means a region was missing or ambiguous, which signals
// that the page no longer matches the structure the harness depends on.
type ElementNotFoundError struct {
	Region  string // "input" or "output"
	Locator string // accessible name or CSS selector used
	Matches int    // number of candidates found
}

func (e *ElementNotFoundError) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("%s region not found (%s)", e.Region, e.Locator)
	}
	return fmt.Sprintf("%s region ambiguous: %d matches (%s)", e.Region, e.Matches, e.Locator)
}

// IsNavigationError returns true if err is or wraps a *NavigationError.
func IsNavigationError(err error) bool {
	var ne *NavigationError
	return errors.As(err, &ne)
}

// IsElementNotFound returns true if err is or wraps an *ElementNotFoundError.
func IsElementNotFound(err error) bool {
	var ee *ElementNotFoundError
	return errors.As(err, &ee)
}
