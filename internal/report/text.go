package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/roach88/swiftcheck/internal/fixture"
	"github.com/roach88/swiftcheck/internal/harness"
)

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

// WriteText writes the human-readable report. Verbose adds diffs, phases and
// timings to failed cases.
func WriteText(w io.Writer, r *harness.RunResult, verbose bool) error {
	tw := &errWriter{w: w}

	fmt.Fprintf(tw, "Run %s: catalog %s, negative mode %s\n\n", r.RunID, r.Catalog, r.NegativeMode)
	for _, v := range r.Verdicts {
		writeVerdict(tw, v, verbose)
	}

	s := Summarize(r)
	if len(s.Categories) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "By category:")
		for _, c := range s.Categories {
			line := fmt.Sprintf("  %-8s %d/%d passed", c.Category, c.Passed, c.Total)
			if c.Failed > 0 {
				failColor.Fprintln(tw, line)
			} else {
				fmt.Fprintln(tw, line)
			}
		}
	}

	fmt.Fprintln(tw)
	if r.Canceled {
		warnColor.Fprintln(tw, "Run canceled before every case finished")
	}
	fmt.Fprintf(tw, "Test Summary: %d passed, %d failed, %d total\n", s.Passed, s.Failed, s.Total)
	if s.Failed == 0 && !r.Canceled {
		passColor.Fprintln(tw, "✓ All cases passed")
	}
	return tw.err
}

// WriteVerdict writes the report lines for a single case.
func WriteVerdict(w io.Writer, v harness.Verdict, verbose bool) error {
	tw := &errWriter{w: w}
	writeVerdict(tw, v, verbose)
	return tw.err
}

func writeVerdict(w io.Writer, v harness.Verdict, verbose bool) {
	if v.Passed() {
		passColor.Fprint(w, "✓")
		fmt.Fprintf(w, " %s - %s\n", v.ID, v.Name)
		return
	}

	failColor.Fprint(w, "✗")
	fmt.Fprintf(w, " %s - %s [%s]\n", v.ID, v.Name, v.Kind)

	switch v.Kind {
	case harness.FailureMismatch, harness.FailureLiveness, harness.FailureNondeterministic:
	default:
		fmt.Fprintf(w, "    error:  %s\n", v.Message)
	}
	if v.Category == fixture.CategoryUI {
		fmt.Fprintf(w, "    intermediate: %q\n", v.Intermediate)
	}
	fmt.Fprintf(w, "    want:   %q\n", v.Want)
	fmt.Fprintf(w, "    actual: %q\n", v.Actual)
	if v.Hint != "" {
		warnColor.Fprintf(w, "    hint: %s\n", v.Hint)
	}

	if !verbose {
		return
	}
	if v.Diff != "" {
		fmt.Fprintln(w, "    diff (-want +actual):")
		for _, line := range strings.Split(strings.TrimRight(v.Diff, "\n"), "\n") {
			fmt.Fprintf(w, "      %s\n", line)
		}
	}
	dimColor.Fprintf(w, "    phase %s after %s\n", v.Phase, v.Duration)
}

// errWriter remembers the first write error so rendering code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
