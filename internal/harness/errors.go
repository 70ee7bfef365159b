package harness

import (
	"errors"
	"fmt"
)

// Check names what an assertion compared.
type Check string

const (
	// CheckOutput compares the final output with the fixture.
	CheckOutput Check = "output"

	// CheckLiveness requires a non-empty output after partial input.
	CheckLiveness Check = "liveness"

	// CheckIdempotence requires a repeated cycle to read the same output.
	CheckIdempotence Check = "idempotence"
)

// AssertionMismatch is returned when the observed output fails an assertion.
type AssertionMismatch struct {
	Check Check
	Want  string // compared text
	Got   string // observed text

	// Negated means the assertion required Got != Want.
	Negated bool
}

func (e *AssertionMismatch) Error() string {
	switch {
	case e.Check == CheckLiveness:
		return "no output after partial input"
	case e.Check == CheckIdempotence:
		return fmt.Sprintf("repeated cycle read %q, first read %q", e.Got, e.Want)
	case e.Negated:
		return fmt.Sprintf("output %q equals expected; the documented gap is closed", e.Got)
	default:
		return fmt.Sprintf("expected %q, got %q", e.Want, e.Got)
	}
}

// Kind maps the check to a failure kind.
func (e *AssertionMismatch) Kind() FailureKind {
	switch e.Check {
	case CheckLiveness:
		return FailureLiveness
	case CheckIdempotence:
		return FailureNondeterministic
	default:
		return FailureMismatch
	}
}

// IsAssertionMismatch returns true if err is an *AssertionMismatch.
func IsAssertionMismatch(err error) bool {
	var m *AssertionMismatch
	return errors.As(err, &m)
}
