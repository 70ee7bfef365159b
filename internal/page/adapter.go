package page

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/swiftcheck/internal/settle"
)

// Adapter drives one Surface through the harness contract.
// It is not safe for concurrent use.
type Adapter struct {
	surface Surface
	target  Target
	policy  settle.Policy
	clock   settle.Clock
	logger  *slog.Logger
}

// NewAdapter wraps surface. A nil logger discards output.
func NewAdapter(surface Surface, target Target, policy settle.Policy, clock settle.Clock, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{
		surface: surface,
		target:  target,
		policy:  policy,
		clock:   clock,
		logger:  logger,
	}
}

// Navigate loads the target page, then waits the load settle delay.
func (a *Adapter) Navigate(ctx context.Context) error {
	if err := a.surface.Navigate(ctx, a.target.URL, a.policy.NavigationTimeout); err != nil {
		return &NavigationError{URL: a.target.URL, Timeout: a.policy.NavigationTimeout, Err: err}
	}
	a.logger.Debug("page loaded", "url", a.target.URL)
	return a.clock.Sleep(ctx, a.policy.LoadSettle)
}

// LocateInput verifies that exactly one labelled text box exists.
func (a *Adapter) LocateInput(ctx context.Context) error {
	n, err := a.surface.CountInputs(ctx, a.target.InputLabel)
	if err != nil {
		return fmt.Errorf("locate input: %w", err)
	}
	if n != 1 {
		return &ElementNotFoundError{Region: "input", Locator: a.target.InputLabel, Matches: n}
	}
	return nil
}

// LocateOutput returns the first selector match that is not an input.
func (a *Adapter) LocateOutput(ctx context.Context) (settle.Region, error) {
	regions, err := a.surface.Regions(ctx, a.target.OutputSelector)
	if err != nil {
		return settle.Region{}, fmt.Errorf("locate output: %w", err)
	}
	out, ok := settle.FirstOutput(regions)
	if !ok {
		return settle.Region{}, &ElementNotFoundError{Region: "output", Locator: a.target.OutputSelector}
	}
	return out, nil
}

// Clear empties the input and waits the clear settle delay. The output may show
// stale or empty content until the page recomputes.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.LocateInput(ctx); err != nil {
		return err
	}
	if err := a.surface.ClearInput(ctx, a.target.InputLabel); err != nil {
		return fmt.Errorf("clear input: %w", err)
	}
	return a.clock.Sleep(ctx, a.policy.ClearSettle)
}

// SetText replaces the input content in one step.
func (a *Adapter) SetText(ctx context.Context, text string) error {
	if err := a.LocateInput(ctx); err != nil {
		return err
	}
	if err := a.surface.FillInput(ctx, a.target.InputLabel, text); err != nil {
		return fmt.Errorf("fill input: %w", err)
	}
	return nil
}

// TypeIncrementally types text one character at a time so that the page's live
// update path is exercised.
func (a *Adapter) TypeIncrementally(ctx context.Context, text string, perChar time.Duration) error {
	if err := a.LocateInput(ctx); err != nil {
		return err
	}
	if err := a.surface.TypeInput(ctx, a.target.InputLabel, text, perChar); err != nil {
		return fmt.Errorf("type input: %w", err)
	}
	return nil
}

// AwaitReady blocks until the output is ready to read. injected is the full
// text currently in the input; blank input relaxes the readiness predicate.
func (a *Adapter) AwaitReady(ctx context.Context, injected string) error {
	start := a.clock.Now()
	err := settle.AwaitOutput(ctx, a.clock, a.policy, a.snapshot, injected)
	a.logger.Debug("await ready", "waited", a.clock.Now().Sub(start), "err", err)
	return err
}

// ReadOutput returns the trimmed output text without waiting.
func (a *Adapter) ReadOutput(ctx context.Context) (string, error) {
	out, err := a.LocateOutput(ctx)
	if err != nil {
		return "", err
	}
	return out.TrimmedText(), nil
}

// Close releases the underlying surface.
func (a *Adapter) Close() error {
	return a.surface.Close()
}

func (a *Adapter) snapshot(ctx context.Context) ([]settle.Region, error) {
	return a.surface.Regions(ctx, a.target.OutputSelector)
}
