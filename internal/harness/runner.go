package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/swiftcheck/internal/fixture"
	"github.com/roach88/swiftcheck/internal/page"
	"github.com/roach88/swiftcheck/internal/settle"
)

// Options tunes assertion behavior.
type Options struct {
	// NegativeMode selects how negative cases are asserted.
	NegativeMode NegativeMode

	// CheckIdempotence repeats each cycle on the same session and fails the
	// case if the second read differs from the first.
	CheckIdempotence bool
}

// Observer is notified as cases start and finish. Calls happen on the
// goroutine running the catalog.
type Observer interface {
	CaseStarted(tc fixture.TestCase, index, total int)
	CaseFinished(v Verdict)
}

// Runner executes catalogs. Cases run sequentially, one session each.
type Runner struct {
	Sessions page.SessionFactory
	Target   page.Target
	Policy   settle.Policy
	Options  Options

	// Clock defaults to settle.SystemClock.
	Clock settle.Clock

	// Logger defaults to a discard logger.
	Logger *slog.Logger

	// RunIDs defaults to UUIDv7Generator.
	RunIDs RunIDGenerator

	// Observer is optional.
	Observer Observer
}

func (r *Runner) init() error {
	if r.Sessions == nil {
		return fmt.Errorf("runner: session factory is required")
	}
	if err := r.Target.Validate(); err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	if err := r.Policy.Validate(); err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	mode, err := ParseNegativeMode(string(r.Options.NegativeMode))
	if err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	r.Options.NegativeMode = mode
	if r.Clock == nil {
		r.Clock = settle.SystemClock{}
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.RunIDs == nil {
		r.RunIDs = UUIDv7Generator{}
	}
	return nil
}

// Run executes every case of cat in catalog order and returns the collected
// verdicts. A case failure never stops the run; cancellation of ctx does,
// after recording the in-flight case. The error is non-nil only when the
// runner itself is misconfigured.
func (r *Runner) Run(ctx context.Context, cat *fixture.Catalog) (*RunResult, error) {
	if err := r.init(); err != nil {
		return nil, err
	}

	result := &RunResult{
		RunID:        r.RunIDs.Generate(),
		Catalog:      cat.Name(),
		Target:       r.Target.URL,
		NegativeMode: r.Options.NegativeMode,
		StartedAt:    r.Clock.Now(),
		Verdicts:     make([]Verdict, 0, cat.Len()),
	}
	logger := r.Logger.With("run_id", result.RunID)
	logger.Info("run started", "catalog", cat.Name(), "cases", cat.Len(), "url", r.Target.URL)

	total := cat.Len()
	index := 0
	for tc := range cat.AllCases() {
		if index > 0 {
			if err := r.Clock.Sleep(ctx, r.Policy.InterCaseDelay); err != nil {
				result.Canceled = true
				break
			}
		}
		if r.Observer != nil {
			r.Observer.CaseStarted(tc, index, total)
		}

		v := r.runCase(ctx, logger, tc)
		result.Verdicts = append(result.Verdicts, v)
		if r.Observer != nil {
			r.Observer.CaseFinished(v)
		}
		index++

		if ctx.Err() != nil {
			result.Canceled = index < total || v.Kind == FailureCanceled
			break
		}
	}

	result.FinishedAt = r.Clock.Now()
	failed := len(result.Failures())
	logger.Info("run finished",
		"passed", len(result.Verdicts)-failed,
		"failed", failed,
		"canceled", result.Canceled,
		"duration", result.Duration())
	return result, nil
}

// RunCase executes a single case in a fresh session.
func (r *Runner) RunCase(ctx context.Context, tc fixture.TestCase) (Verdict, error) {
	if err := r.init(); err != nil {
		return Verdict{}, err
	}
	return r.runCase(ctx, r.Logger, tc), nil
}

func (r *Runner) runCase(ctx context.Context, logger *slog.Logger, tc fixture.TestCase) Verdict {
	logger = logger.With("case_id", tc.ID)
	start := r.Clock.Now()
	tracker := settle.NewTracker()

	v := Verdict{
		ID:       tc.ID,
		Name:     tc.Name,
		Category: tc.Category,
		Input:    tc.Input,
		Expected: tc.Expected,
	}
	w, negated := want(tc, r.Options.NegativeMode)
	v.Want = w

	err := r.execute(ctx, logger, tracker, tc, &v)
	if err == nil {
		err = assertOutput(w, v.Actual, negated)
	}
	if err == nil {
		err = tracker.Advance(settle.PhaseVerdict)
	}

	v.Duration = r.Clock.Now().Sub(start)
	if err != nil {
		tracker.Fail(err)
		v.Status = StatusFailed
		v.Kind = classify(ctx, err)
		v.Message = err.Error()
		var m *AssertionMismatch
		if errors.As(err, &m) && m.Check != CheckLiveness && !m.Negated {
			v.Diff = diff(m.Want, m.Got)
			v.Hint = hint(m.Want, m.Got)
		}
		v.Phase = tracker.LastActive()
		logger.Warn("case failed", "kind", v.Kind, "phase", v.Phase, "err", err)
		return v
	}

	v.Status = StatusPassed
	v.Phase = tracker.LastActive()
	logger.Info("case passed", "duration", v.Duration)
	return v
}

// execute opens a session, navigates, and runs the category's cycle. It fills
// v.Actual and v.Intermediate as reads happen.
func (r *Runner) execute(ctx context.Context, logger *slog.Logger, t *settle.Tracker, tc fixture.TestCase, v *Verdict) error {
	surface, err := r.Sessions.NewSession(ctx)
	if err != nil {
		return &SessionError{Err: err}
	}
	a := page.NewAdapter(surface, r.Target, r.Policy, r.Clock, logger)
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close session", "error", err)
		}
	}()

	if err := a.Navigate(ctx); err != nil {
		return err
	}

	cycle := r.convert
	if tc.Category == fixture.CategoryUI {
		cycle = r.typeLive
	}

	got, err := cycle(ctx, a, t, tc, v)
	if err != nil {
		return err
	}
	v.Actual = got

	if !r.Options.CheckIdempotence {
		return nil
	}
	again, err := cycle(ctx, a, t, tc, v)
	if err != nil {
		return err
	}
	if again != got {
		v.Want = got
		v.Actual = again
		return &AssertionMismatch{Check: CheckIdempotence, Want: got, Got: again}
	}
	return nil
}

type cycleFunc func(ctx context.Context, a *page.Adapter, t *settle.Tracker, tc fixture.TestCase, v *Verdict) (string, error)

// convert is the positive and negative cycle: clear, set the whole input at
// once, await readiness, read.
func (r *Runner) convert(ctx context.Context, a *page.Adapter, t *settle.Tracker, tc fixture.TestCase, v *Verdict) (string, error) {
	if err := clearInput(ctx, a, t); err != nil {
		return "", err
	}
	if err := a.SetText(ctx, tc.Input); err != nil {
		return "", err
	}
	return awaitAndRead(ctx, a, t, tc.Input)
}

// typeLive is the ui cycle: type the partial input key by key, check that the
// page already shows output, then type the remainder and read the final output.
func (r *Runner) typeLive(ctx context.Context, a *page.Adapter, t *settle.Tracker, tc fixture.TestCase, v *Verdict) (string, error) {
	if err := clearInput(ctx, a, t); err != nil {
		return "", err
	}
	if err := a.TypeIncrementally(ctx, tc.Partial(), r.Policy.KeystrokeDelay); err != nil {
		return "", err
	}
	if err := r.Clock.Sleep(ctx, r.Policy.PartialSettle); err != nil {
		return "", err
	}
	inter, err := a.ReadOutput(ctx)
	if err != nil {
		return "", err
	}
	v.Intermediate = inter
	if err := t.Advance(settle.PhaseRead); err != nil {
		return "", err
	}
	if inter == "" {
		return "", &AssertionMismatch{Check: CheckLiveness}
	}

	if err := t.Advance(settle.PhaseInjecting); err != nil {
		return "", err
	}
	if err := a.TypeIncrementally(ctx, tc.Remainder(), r.Policy.KeystrokeDelay); err != nil {
		return "", err
	}
	return awaitAndRead(ctx, a, t, tc.Input)
}

func clearInput(ctx context.Context, a *page.Adapter, t *settle.Tracker) error {
	if err := a.Clear(ctx); err != nil {
		return err
	}
	if err := t.Advance(settle.PhaseCleared); err != nil {
		return err
	}
	return t.Advance(settle.PhaseInjecting)
}

func awaitAndRead(ctx context.Context, a *page.Adapter, t *settle.Tracker, injected string) (string, error) {
	if err := t.Advance(settle.PhaseAwaitingReady); err != nil {
		return "", err
	}
	if err := a.AwaitReady(ctx, injected); err != nil {
		return "", err
	}
	if err := t.Advance(settle.PhaseReady); err != nil {
		return "", err
	}
	got, err := a.ReadOutput(ctx)
	if err != nil {
		return "", err
	}
	if err := t.Advance(settle.PhaseRead); err != nil {
		return "", err
	}
	return got, nil
}

// SessionError is returned when a page session cannot be created.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("open session: %v", e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// classify maps a case error to its failure kind.
func classify(ctx context.Context, err error) FailureKind {
	var m *AssertionMismatch
	switch {
	case errors.As(err, &m):
		return m.Kind()
	case ctx.Err() != nil:
		return FailureCanceled
	case page.IsNavigationError(err):
		return FailureNavigation
	case page.IsElementNotFound(err):
		return FailureElementNotFound
	case settle.IsTimeout(err):
		return FailureTimeout
	default:
		return FailureSession
	}
}
