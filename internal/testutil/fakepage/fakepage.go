// Package fakepage simulates the target page for harness tests.
//
// The simulated page behaves like the real one where it matters to the
// synchronization policy: output is recomputed Debounce after the last input
// change, optionally through a draft render first, and the input and output
// share the style selector. Time is virtual and comes from a ManualClock.
package fakepage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/swiftcheck/internal/page"
	"github.com/roach88/swiftcheck/internal/settle"
	"github.com/roach88/swiftcheck/internal/testutil"
)

// Translator maps the full input text to the text the page renders.
type Translator func(input string) string

// Options configures one simulated page.
type Options struct {
	Clock     *testutil.ManualClock
	Translate Translator

	// Draft, when set, is rendered Debounce after a change; the final
	// Translate result follows StageDelay later.
	Draft      Translator
	Debounce   time.Duration
	StageDelay time.Duration

	// Inputs is the number of text boxes carrying the label. Zero means one.
	// Use -1 for none.
	Inputs int

	// NoOutput removes the output container from the page.
	NoOutput bool

	// NavigateErr is returned from Navigate.
	NavigateErr error
}

// Surface is a simulated page. It implements page.Surface.
type Surface struct {
	opts Options

	mu         sync.Mutex
	input      string
	previous   string
	lastChange time.Time
	changed    bool
	navigated  bool
	closed     bool
	calls      []string

	inFlight   atomic.Int32
	overlapped atomic.Bool
}

var _ page.Surface = (*Surface)(nil)

// New creates a simulated page.
func New(opts Options) *Surface {
	if opts.Translate == nil {
		opts.Translate = func(s string) string { return s }
	}
	return &Surface{opts: opts}
}

// ErrClosed is returned by every call after Close.
var ErrClosed = errors.New("page closed")

func (s *Surface) enter(call string) (func(), error) {
	if s.inFlight.Add(1) > 1 {
		s.overlapped.Store(true)
	}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	closed := s.closed
	s.mu.Unlock()
	leave := func() { s.inFlight.Add(-1) }
	if closed {
		leave()
		return nil, ErrClosed
	}
	return leave, nil
}

// Navigate implements page.Surface.
func (s *Surface) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	leave, err := s.enter("navigate")
	if err != nil {
		return err
	}
	defer leave()
	if s.opts.NavigateErr != nil {
		return s.opts.NavigateErr
	}
	s.mu.Lock()
	s.navigated = true
	s.mu.Unlock()
	return nil
}

// CountInputs implements page.Surface.
func (s *Surface) CountInputs(ctx context.Context, label string) (int, error) {
	leave, err := s.enter("count")
	if err != nil {
		return 0, err
	}
	defer leave()
	return s.inputCount(), nil
}

func (s *Surface) inputCount() int {
	switch {
	case s.opts.Inputs < 0:
		return 0
	case s.opts.Inputs == 0:
		return 1
	default:
		return s.opts.Inputs
	}
}

// ClearInput implements page.Surface.
func (s *Surface) ClearInput(ctx context.Context, label string) error {
	leave, err := s.enter("clear")
	if err != nil {
		return err
	}
	defer leave()
	s.set("")
	return nil
}

// FillInput implements page.Surface.
func (s *Surface) FillInput(ctx context.Context, label, text string) error {
	leave, err := s.enter("fill")
	if err != nil {
		return err
	}
	defer leave()
	s.set(text)
	return nil
}

// TypeInput implements page.Surface. Each character is a separate change and
// advances the clock by perChar.
func (s *Surface) TypeInput(ctx context.Context, label, text string, perChar time.Duration) error {
	leave, err := s.enter("type")
	if err != nil {
		return err
	}
	defer leave()
	for _, r := range text {
		s.mu.Lock()
		next := s.input + string(r)
		s.mu.Unlock()
		s.set(next)
		if err := s.opts.Clock.Sleep(ctx, perChar); err != nil {
			return err
		}
	}
	return nil
}

// Regions implements page.Surface. The input is listed first, as on the real page.
func (s *Surface) Regions(ctx context.Context, selector string) ([]settle.Region, error) {
	leave, err := s.enter("regions")
	if err != nil {
		return nil, err
	}
	defer leave()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.navigated {
		return nil, fmt.Errorf("regions before navigation")
	}

	var regions []settle.Region
	for i := 0; i < s.inputCount(); i++ {
		regions = append(regions, settle.Region{Tag: "TEXTAREA", Text: s.input})
	}
	if !s.opts.NoOutput {
		regions = append(regions, settle.Region{Tag: "DIV", Text: s.renderedLocked(s.opts.Clock.Now())})
	}
	return regions, nil
}

// Close implements page.Surface.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Input returns the current input text.
func (s *Surface) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Rendered returns what the output region shows right now.
func (s *Surface) Rendered() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderedLocked(s.opts.Clock.Now())
}

// Calls returns the call log, e.g. ["navigate", "count", "clear", ...].
func (s *Surface) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Closed reports whether Close was called.
func (s *Surface) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Overlapped reports whether two calls were ever in flight at once.
func (s *Surface) Overlapped() bool {
	return s.overlapped.Load()
}

func (s *Surface) set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.opts.Clock.Now()
	s.previous = s.renderedLocked(now)
	s.input = text
	s.lastChange = now
	s.changed = true
}

func (s *Surface) renderedLocked(now time.Time) string {
	if !s.changed {
		return s.previous
	}
	since := now.Sub(s.lastChange)
	switch {
	case since >= s.opts.Debounce+s.opts.StageDelay:
		return s.opts.Translate(s.input)
	case s.opts.Draft != nil && since >= s.opts.Debounce:
		return s.opts.Draft(s.input)
	default:
		return s.previous
	}
}

// Factory hands out simulated pages. It implements page.SessionFactory.
type Factory struct {
	// Options builds the options for the n-th session (0-based).
	Options func(n int) Options

	// Err, when set, is returned instead of a session.
	Err error

	mu       sync.Mutex
	sessions []*Surface
}

var _ page.SessionFactory = (*Factory)(nil)

// NewFactory returns a factory that gives every session the same options.
func NewFactory(opts Options) *Factory {
	return &Factory{Options: func(int) Options { return opts }}
}

// NewSession implements page.SessionFactory.
func (f *Factory) NewSession(ctx context.Context) (page.Surface, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s := New(f.Options(len(f.sessions)))
	f.sessions = append(f.sessions, s)
	return s, nil
}

// Sessions returns every session created so far.
func (f *Factory) Sessions() []*Surface {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Surface(nil), f.sessions...)
}

// WordTable returns a translator that maps whitespace-separated words through
// table and joins them with single spaces. Unknown words pass through. Line
// breaks collapse to spaces, which mirrors a defect of the real page.
func WordTable(table map[string]string) Translator {
	return func(input string) string {
		words := strings.Fields(input)
		for i, w := range words {
			if out, ok := table[w]; ok {
				words[i] = out
			}
		}
		return strings.Join(words, " ")
	}
}

// SinhalaWords covers every word used by the harness test scenarios.
func SinhalaWords() map[string]string {
	return map[string]string{
		"oyaata":     "ඔයාට",
		"kohomadha?": "කොහොමද?",
		"mama":       "මම",
		"karanavaa":  "කරනවා",
		"gedhara":    "ගෙදර",
		"yanavaa.":   "යනවා.",
		"yanavaa":    "යනවා",
		"oyaana":     "ඔයාන",
		"evadha?":    "එවද්ද?",
		"api":        "අපි",
		"passe":      "පස්සේ",
		"kathaa":     "කතා",
		"karamu.":    "කරමු.",
		"oyaa":       "ඔයා",
		"ekka":       "එක්ක",
		"tharahin":   "තරහින්",
		"inne":       "ඉන්නේ",
		"Thanks":     "Thanks",
		"machan":     "මචන්",
	}
}

// Sinhala is WordTable(SinhalaWords()).
func Sinhala() Translator {
	return WordTable(SinhalaWords())
}
