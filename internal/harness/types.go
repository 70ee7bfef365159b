package harness

import (
	"fmt"
	"time"

	"github.com/roach88/swiftcheck/internal/fixture"
	"github.com/roach88/swiftcheck/internal/settle"
)

// Status is the outcome of one case.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// FailureKind classifies why a case failed.
type FailureKind string

const (
	FailureNone             FailureKind = ""
	FailureNavigation       FailureKind = "navigation"
	FailureElementNotFound  FailureKind = "element_not_found"
	FailureTimeout          FailureKind = "timeout"
	FailureMismatch         FailureKind = "mismatch"
	FailureLiveness         FailureKind = "liveness"
	FailureNondeterministic FailureKind = "nondeterministic"
	FailureSession          FailureKind = "session"
	FailureCanceled         FailureKind = "canceled"
)

// NegativeMode selects how negative cases are asserted.
type NegativeMode string

const (
	// NegativeDefect passes when the output equals the documented actual text.
	NegativeDefect NegativeMode = "defect"

	// NegativeExpected passes when the output equals the expected text. Known
	// defects fail in this mode.
	NegativeExpected NegativeMode = "expected"

	// NegativeGap passes when the output differs from the expected text.
	NegativeGap NegativeMode = "gap"
)

// NegativeModes lists every mode.
var NegativeModes = []NegativeMode{NegativeDefect, NegativeExpected, NegativeGap}

// ParseNegativeMode converts s to a NegativeMode. Empty means NegativeDefect.
func ParseNegativeMode(s string) (NegativeMode, error) {
	switch m := NegativeMode(s); m {
	case "":
		return NegativeDefect, nil
	case NegativeDefect, NegativeExpected, NegativeGap:
		return m, nil
	}
	return "", fmt.Errorf("unknown negative mode %q: must be one of %v", s, NegativeModes)
}

// Verdict is the recorded outcome of one case.
type Verdict struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category fixture.Category `json:"category"`
	Status   Status           `json:"status"`
	Kind     FailureKind      `json:"kind,omitempty"`

	Input    string `json:"input"`
	Expected string `json:"expected"`

	// Want is the text the output was compared against. It differs from
	// Expected for negative cases outside NegativeExpected mode.
	Want string `json:"want"`

	// Actual is the last output read from the page.
	Actual string `json:"actual"`

	// Intermediate is the output read after the partial input of a ui case.
	Intermediate string `json:"intermediate,omitempty"`

	Diff    string `json:"diff,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Message string `json:"message,omitempty"`

	// Phase is the phase a passed case ended in, or the phase a failed case
	// was in when it failed.
	Phase settle.Phase `json:"phase"`

	Duration time.Duration `json:"duration_ns"`
}

// Passed reports whether the case passed.
func (v Verdict) Passed() bool {
	return v.Status == StatusPassed
}

// RunResult is the outcome of running a catalog.
type RunResult struct {
	RunID        string       `json:"run_id"`
	Catalog      string       `json:"catalog"`
	Target       string       `json:"target"`
	NegativeMode NegativeMode `json:"negative_mode"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`

	// Canceled is set when the run stopped before every case ran.
	Canceled bool `json:"canceled,omitempty"`

	Verdicts []Verdict `json:"verdicts"`
}

// Pass reports whether every case ran and passed.
func (r *RunResult) Pass() bool {
	if r.Canceled {
		return false
	}
	for _, v := range r.Verdicts {
		if !v.Passed() {
			return false
		}
	}
	return true
}

// Failures returns the failed verdicts in run order.
func (r *RunResult) Failures() []Verdict {
	var out []Verdict
	for _, v := range r.Verdicts {
		if !v.Passed() {
			out = append(out, v)
		}
	}
	return out
}

// Duration returns the wall time of the run.
func (r *RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
