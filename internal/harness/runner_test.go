package harness

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swiftcheck/internal/fixture"
	"github.com/roach88/swiftcheck/internal/page"
	"github.com/roach88/swiftcheck/internal/settle"
	"github.com/roach88/swiftcheck/internal/testutil"
	"github.com/roach88/swiftcheck/internal/testutil/fakepage"
)

const debounce = 500 * time.Millisecond

func ptr(s string) *string { return &s }

var (
	greeting = fixture.TestCase{
		ID: "Pos_Fun_0001", Name: "greeting", Category: fixture.CategoryPositive,
		Input: "oyaata kohomadha?", Expected: "ඔයාට කොහොමද?", LengthClass: fixture.LengthSmall,
	}
	specialChars = fixture.TestCase{
		ID: "Neg_Fun_0003", Name: "special characters", Category: fixture.CategoryNegative,
		Input: "mama @#$% karanavaa", Expected: "මම @#$% කරනවා", Actual: ptr("මම @#$% කරනවා"),
		LengthClass: fixture.LengthSmall,
	}
	emptyInput = fixture.TestCase{
		ID: "Neg_Fun_0004", Name: "empty input", Category: fixture.CategoryNegative,
		Input: "", Expected: "", Actual: ptr(""), LengthClass: fixture.LengthSmall,
	}
	lineBreaks = fixture.TestCase{
		ID: "Neg_Fun_0010", Name: "line breaks", Category: fixture.CategoryNegative,
		Input:       "mama gedhara yanavaa.\noyaana evadha?\napi passe kathaa karamu.",
		Expected:    "මම ගෙදර යනවා.\nඔයාන එවද්ද?\nඅපි පස්සේ කතා කරමු.",
		Actual:      ptr("මම ගෙදර යනවා. ඔයාන එවද්ද? අපි පස්සේ කතා කරමු."),
		LengthClass: fixture.LengthMedium,
	}
	liveUpdate = fixture.TestCase{
		ID: "Pos_UI_0001", Name: "live update", Category: fixture.CategoryUI,
		Input: "mama oyaa ekka tharahin inne", Expected: "මම ඔයා එක්ක තරහින් ඉන්නේ",
		LengthClass: fixture.LengthSmall, BehaviorTag: "Real-time output update",
	}
)

func catalog(t *testing.T, cases ...fixture.TestCase) *fixture.Catalog {
	t.Helper()
	c, err := fixture.New("test", "", cases)
	require.NoError(t, err)
	return c
}

func sinhalaPage(clock *testutil.ManualClock) fakepage.Options {
	return fakepage.Options{Clock: clock, Translate: fakepage.Sinhala(), Debounce: debounce}
}

func newRunner(clock *testutil.ManualClock, sessions page.SessionFactory, opts Options) *Runner {
	return &Runner{
		Sessions: sessions,
		Target:   page.DefaultTarget(),
		Policy:   settle.DefaultPolicy(),
		Options:  opts,
		Clock:    clock,
		RunIDs:   testutil.NewFixedRunIDGenerator("run-1"),
	}
}

func runOne(t *testing.T, opts fakepage.Options, runOpts Options, tc fixture.TestCase) Verdict {
	t.Helper()
	r := newRunner(opts.Clock, fakepage.NewFactory(opts), runOpts)
	v, err := r.RunCase(context.Background(), tc)
	require.NoError(t, err)
	return v
}

func TestRun_PositiveGreeting(t *testing.T) {
	clock := testutil.NewManualClock()
	v := runOne(t, sinhalaPage(clock), Options{}, greeting)

	assert.True(t, v.Passed(), v.Message)
	assert.Equal(t, "ඔයාට කොහොමද?", v.Actual)
	assert.Equal(t, settle.PhaseVerdict, v.Phase)
	assert.Empty(t, v.Kind)

	// load settle + clear settle + debounce + grace
	assert.Equal(t, 6500*time.Millisecond, clock.Elapsed())
	assert.Equal(t, 6500*time.Millisecond, v.Duration)
}

func TestRun_EmptyInputNeitherErrorsNorHangs(t *testing.T) {
	for _, mode := range NegativeModes[:2] {
		t.Run(string(mode), func(t *testing.T) {
			clock := testutil.NewManualClock()
			v := runOne(t, sinhalaPage(clock), Options{NegativeMode: mode}, emptyInput)

			assert.True(t, v.Passed(), v.Message)
			assert.Equal(t, "", v.Actual)
			// No polling beyond the first snapshot: load + clear + grace.
			assert.Equal(t, 6*time.Second, clock.Elapsed())
		})
	}
}

func TestRun_SpecialCharactersPreserved(t *testing.T) {
	clock := testutil.NewManualClock()
	v := runOne(t, sinhalaPage(clock), Options{}, specialChars)

	assert.True(t, v.Passed(), v.Message)
	assert.Equal(t, "මම @#$% කරනවා", v.Actual)
}

func TestRun_NegativeModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     NegativeMode
		tc       fixture.TestCase
		wantPass bool
		wantWant string
	}{
		{"defect matches documented output", NegativeDefect, lineBreaks, true, "මම ගෙදර යනවා. ඔයාන එවද්ද? අපි පස්සේ කතා කරමු."},
		{"expected fails on known defect", NegativeExpected, lineBreaks, false, lineBreaks.Expected},
		{"gap still open", NegativeGap, lineBreaks, true, lineBreaks.Expected},
		{"gap closed", NegativeGap, specialChars, false, specialChars.Expected},
		{"empty mode means defect", "", lineBreaks, true, "මම ගෙදර යනවා. ඔයාන එවද්ද? අපි පස්සේ කතා කරමු."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := testutil.NewManualClock()
			v := runOne(t, sinhalaPage(clock), Options{NegativeMode: tt.mode}, tt.tc)

			assert.Equal(t, tt.wantPass, v.Passed(), v.Message)
			assert.Equal(t, tt.wantWant, v.Want)
			if !tt.wantPass {
				assert.Equal(t, FailureMismatch, v.Kind)
				assert.Equal(t, settle.PhaseRead, v.Phase)
			}
		})
	}
}

func TestRun_MismatchCarriesDiffAndHint(t *testing.T) {
	clock := testutil.NewManualClock()
	v := runOne(t, sinhalaPage(clock), Options{NegativeMode: NegativeExpected}, lineBreaks)

	require.False(t, v.Passed())
	assert.NotEmpty(t, v.Diff)
	assert.Equal(t, "texts differ only in whitespace or line breaks", v.Hint)
	assert.Contains(t, v.Message, "expected")
}

func TestRun_GapClosedHasNoDiff(t *testing.T) {
	clock := testutil.NewManualClock()
	v := runOne(t, sinhalaPage(clock), Options{NegativeMode: NegativeGap}, specialChars)

	require.False(t, v.Passed())
	assert.Empty(t, v.Diff)
	assert.Contains(t, v.Message, "gap is closed")
}

func TestRun_UILiveUpdate(t *testing.T) {
	clock := testutil.NewManualClock()
	v := runOne(t, sinhalaPage(clock), Options{}, liveUpdate)

	assert.True(t, v.Passed(), v.Message)
	assert.Equal(t, "මම ඔයා එක්ක", v.Intermediate)
	assert.Equal(t, "මම ඔයා එක්ක තරහින් ඉන්නේ", v.Actual)

	var keystrokes int
	for _, d := range clock.Sleeps() {
		if d == settle.DefaultPolicy().KeystrokeDelay {
			keystrokes++
		}
	}
	assert.Equal(t, len([]rune(liveUpdate.Input)), keystrokes)
}

func TestRun_UINoIntermediateOutput(t *testing.T) {
	clock := testutil.NewManualClock()
	opts := sinhalaPage(clock)
	opts.Debounce = 2 * time.Second // longer than the partial settle

	v := runOne(t, opts, Options{}, liveUpdate)

	assert.False(t, v.Passed())
	assert.Equal(t, FailureLiveness, v.Kind)
	assert.Equal(t, settle.PhaseRead, v.Phase)
	assert.Equal(t, "", v.Intermediate)
	assert.Empty(t, v.Diff)
}

func TestRun_NoOutputTimesOut(t *testing.T) {
	clock := testutil.NewManualClock()
	opts := sinhalaPage(clock)
	opts.Translate = func(string) string { return "" }

	v := runOne(t, opts, Options{}, greeting)

	assert.False(t, v.Passed())
	assert.Equal(t, FailureTimeout, v.Kind)
	assert.Equal(t, settle.PhaseAwaitingReady, v.Phase)
	assert.Contains(t, v.Message, "non-empty output region")
	// load + clear + the full ready bound, no grace delay
	assert.Equal(t, 13*time.Second, clock.Elapsed())
}

func TestRun_ReadyTooEarly(t *testing.T) {
	draft := func(string) string { return "..." }

	t.Run("grace covers second stage", func(t *testing.T) {
		clock := testutil.NewManualClock()
		opts := sinhalaPage(clock)
		opts.Draft = draft
		opts.StageDelay = 2 * time.Second

		v := runOne(t, opts, Options{}, greeting)
		assert.True(t, v.Passed(), v.Message)
	})

	t.Run("second stage after grace", func(t *testing.T) {
		clock := testutil.NewManualClock()
		opts := sinhalaPage(clock)
		opts.Draft = draft
		opts.StageDelay = 5 * time.Second

		v := runOne(t, opts, Options{}, greeting)
		assert.False(t, v.Passed())
		assert.Equal(t, FailureMismatch, v.Kind)
		assert.Equal(t, "...", v.Actual)
	})
}

func TestRun_ElementNotFound(t *testing.T) {
	tests := []struct {
		name    string
		inputs  int
		message string
	}{
		{"missing input", -1, "input region not found"},
		{"ambiguous input", 2, "input region ambiguous: 2 matches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := testutil.NewManualClock()
			opts := sinhalaPage(clock)
			opts.Inputs = tt.inputs

			v := runOne(t, opts, Options{}, greeting)
			assert.Equal(t, FailureElementNotFound, v.Kind)
			assert.Equal(t, settle.PhaseIdle, v.Phase)
			assert.Contains(t, v.Message, tt.message)
		})
	}
}

func TestRun_NavigationFailure(t *testing.T) {
	clock := testutil.NewManualClock()
	opts := sinhalaPage(clock)
	opts.NavigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")

	v := runOne(t, opts, Options{}, greeting)
	assert.Equal(t, FailureNavigation, v.Kind)
	assert.Equal(t, settle.PhaseIdle, v.Phase)
	assert.Contains(t, v.Message, "ERR_NAME_NOT_RESOLVED")
}

func TestRun_SessionFailure(t *testing.T) {
	clock := testutil.NewManualClock()
	factory := fakepage.NewFactory(sinhalaPage(clock))
	factory.Err = errors.New("browser has been closed")

	v, err := newRunner(clock, factory, Options{}).RunCase(context.Background(), greeting)
	require.NoError(t, err)
	assert.Equal(t, FailureSession, v.Kind)
	assert.Contains(t, v.Message, "open session")
}

func TestRun_FailureDoesNotStopRun(t *testing.T) {
	clock := testutil.NewManualClock()
	translate := fakepage.Sinhala()
	opts := sinhalaPage(clock)
	opts.Translate = func(in string) string {
		if strings.Contains(in, "@") {
			return ""
		}
		return translate(in)
	}
	factory := fakepage.NewFactory(opts)
	r := newRunner(clock, factory, Options{})

	result, err := r.Run(context.Background(), catalog(t, greeting, specialChars, lineBreaks))
	require.NoError(t, err)

	require.Len(t, result.Verdicts, 3)
	assert.True(t, result.Verdicts[0].Passed())
	assert.Equal(t, FailureTimeout, result.Verdicts[1].Kind)
	assert.True(t, result.Verdicts[2].Passed())
	assert.False(t, result.Pass())
	assert.Len(t, result.Failures(), 1)

	sessions := factory.Sessions()
	require.Len(t, sessions, 3)
	for _, s := range sessions {
		assert.True(t, s.Closed())
		assert.False(t, s.Overlapped())
	}
}

func TestRun_SessionIsolation(t *testing.T) {
	clock := testutil.NewManualClock()
	factory := fakepage.NewFactory(sinhalaPage(clock))
	r := newRunner(clock, factory, Options{})

	_, err := r.Run(context.Background(), catalog(t, greeting, lineBreaks))
	require.NoError(t, err)

	sessions := factory.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, greeting.Input, sessions[0].Input())
	assert.Equal(t, lineBreaks.Input, sessions[1].Input())
	assert.Equal(t, "navigate", sessions[1].Calls()[0])
}

func TestRun_InterCaseDelay(t *testing.T) {
	clock := testutil.NewManualClock()
	r := newRunner(clock, fakepage.NewFactory(sinhalaPage(clock)), Options{})
	r.Policy.InterCaseDelay = 7 * time.Second

	_, err := r.Run(context.Background(), catalog(t, greeting, specialChars, emptyInput))
	require.NoError(t, err)

	var delays int
	for _, d := range clock.Sleeps() {
		if d == 7*time.Second {
			delays++
		}
	}
	assert.Equal(t, 2, delays)
}

func TestRun_Result(t *testing.T) {
	clock := testutil.NewManualClock()
	r := newRunner(clock, fakepage.NewFactory(sinhalaPage(clock)), Options{})

	result, err := r.Run(context.Background(), catalog(t, liveUpdate, greeting))
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, "test", result.Catalog)
	assert.Equal(t, page.DefaultTarget().URL, result.Target)
	assert.Equal(t, NegativeDefect, result.NegativeMode)
	assert.Equal(t, testutil.Epoch, result.StartedAt)
	assert.Equal(t, clock.Now(), result.FinishedAt)
	assert.True(t, result.Pass())

	// Catalog order: positive before ui.
	assert.Equal(t, greeting.ID, result.Verdicts[0].ID)
	assert.Equal(t, liveUpdate.ID, result.Verdicts[1].ID)
}

func TestRun_Idempotence(t *testing.T) {
	t.Run("stable page", func(t *testing.T) {
		clock := testutil.NewManualClock()
		factory := fakepage.NewFactory(sinhalaPage(clock))
		r := newRunner(clock, factory, Options{CheckIdempotence: true})

		result, err := r.Run(context.Background(), catalog(t, greeting, liveUpdate))
		require.NoError(t, err)
		assert.True(t, result.Pass())
		assert.Len(t, factory.Sessions(), 2, "the repeat reuses the session")
	})

	t.Run("drifting page", func(t *testing.T) {
		clock := testutil.NewManualClock()
		opts := sinhalaPage(clock)
		opts.Translate = func(in string) string {
			if in == "" {
				return ""
			}
			if clock.Elapsed() < 7*time.Second {
				return "A"
			}
			return "B"
		}

		v := runOne(t, opts, Options{CheckIdempotence: true}, greeting)
		assert.Equal(t, FailureNondeterministic, v.Kind)
		assert.Equal(t, "A", v.Want)
		assert.Equal(t, "B", v.Actual)
		assert.Equal(t, settle.PhaseRead, v.Phase)
	})
}

func TestRun_CanceledContext(t *testing.T) {
	clock := testutil.NewManualClock()
	factory := fakepage.NewFactory(sinhalaPage(clock))
	r := newRunner(clock, factory, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, catalog(t, greeting, specialChars))
	require.NoError(t, err)

	assert.True(t, result.Canceled)
	assert.False(t, result.Pass())
	require.Len(t, result.Verdicts, 1)
	assert.Equal(t, FailureCanceled, result.Verdicts[0].Kind)
	assert.True(t, factory.Sessions()[0].Closed())
}

type recorder struct {
	started  []string
	finished []Status
}

func (r *recorder) CaseStarted(tc fixture.TestCase, index, total int) {
	r.started = append(r.started, tc.ID)
}

func (r *recorder) CaseFinished(v Verdict) {
	r.finished = append(r.finished, v.Status)
}

func TestRun_Observer(t *testing.T) {
	clock := testutil.NewManualClock()
	rec := &recorder{}
	r := newRunner(clock, fakepage.NewFactory(sinhalaPage(clock)), Options{NegativeMode: NegativeExpected})
	r.Observer = rec

	_, err := r.Run(context.Background(), catalog(t, greeting, lineBreaks))
	require.NoError(t, err)

	assert.Equal(t, []string{greeting.ID, lineBreaks.ID}, rec.started)
	assert.Equal(t, []Status{StatusPassed, StatusFailed}, rec.finished)
}

func TestRun_Misconfigured(t *testing.T) {
	clock := testutil.NewManualClock()
	cat := catalog(t, greeting)

	r := newRunner(clock, nil, Options{})
	_, err := r.Run(context.Background(), cat)
	assert.ErrorContains(t, err, "session factory is required")

	r = newRunner(clock, fakepage.NewFactory(sinhalaPage(clock)), Options{NegativeMode: "strict"})
	_, err = r.Run(context.Background(), cat)
	assert.ErrorContains(t, err, "unknown negative mode")

	r = newRunner(clock, fakepage.NewFactory(sinhalaPage(clock)), Options{})
	r.Policy.PollInterval = 0
	_, err = r.Run(context.Background(), cat)
	assert.Error(t, err)

	r = newRunner(clock, fakepage.NewFactory(sinhalaPage(clock)), Options{})
	r.Target.OutputSelector = ""
	_, err = r.Run(context.Background(), cat)
	assert.ErrorContains(t, err, "output selector is required")
}

func TestRun_Golden(t *testing.T) {
	clock := testutil.NewManualClock()
	r := newRunner(clock, fakepage.NewFactory(sinhalaPage(clock)), Options{})

	result, err := r.Run(context.Background(), catalog(t, greeting, specialChars, emptyInput, lineBreaks, liveUpdate))
	require.NoError(t, err)

	AssertGolden(t, "scenarios", result)
}
