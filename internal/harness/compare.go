package harness

import (
	"strings"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/swiftcheck/internal/fixture"
)

// want returns the text the final output is compared against and whether the
// comparison is negated.
func want(tc fixture.TestCase, mode NegativeMode) (string, bool) {
	if tc.Category != fixture.CategoryNegative {
		return tc.Expected, false
	}
	switch mode {
	case NegativeExpected:
		return tc.Expected, false
	case NegativeGap:
		return tc.Expected, true
	default:
		actual, _ := tc.ActualValue()
		return actual, false
	}
}

// assertOutput compares got with w using exact string equality.
func assertOutput(w, got string, negated bool) error {
	if (got == w) != negated {
		return nil
	}
	return &AssertionMismatch{Check: CheckOutput, Want: w, Got: got, Negated: negated}
}

// diff renders a -want +got diff of two texts.
func diff(w, got string) string {
	return cmp.Diff(w, got)
}

// hint explains near misses that exact comparison cannot show at a glance.
func hint(w, got string) string {
	switch {
	case w != got && norm.NFC.String(w) == norm.NFC.String(got):
		return "texts differ only in Unicode normalization (equal under NFC)"
	case w != strings.TrimSpace(w) && strings.TrimSpace(w) == got:
		return "expected text has surrounding whitespace; output is trimmed before comparison"
	case strings.Join(strings.Fields(w), " ") == strings.Join(strings.Fields(got), " "):
		return "texts differ only in whitespace or line breaks"
	}
	return ""
}
