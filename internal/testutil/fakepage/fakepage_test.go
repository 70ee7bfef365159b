package fakepage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swiftcheck/internal/testutil"
)

var ctx = context.Background()

func output(t *testing.T, s *Surface) string {
	t.Helper()
	regions, err := s.Regions(ctx, "div")
	require.NoError(t, err)
	require.NotEmpty(t, regions)
	return regions[len(regions)-1].Text
}

func TestSurface_DebouncedRender(t *testing.T) {
	clock := testutil.NewManualClock()
	s := New(Options{Clock: clock, Translate: Sinhala(), Debounce: 500 * time.Millisecond})
	require.NoError(t, s.Navigate(ctx, "http://localhost/", time.Second))

	require.NoError(t, s.FillInput(ctx, "label", "oyaata kohomadha?"))
	assert.Equal(t, "", output(t, s))

	clock.Advance(499 * time.Millisecond)
	assert.Equal(t, "", output(t, s))

	clock.Advance(time.Millisecond)
	assert.Equal(t, "ඔයාට කොහොමද?", output(t, s))
	assert.Equal(t, "oyaata kohomadha?", s.Input())
}

func TestSurface_PreviousOutputUntilDebounce(t *testing.T) {
	clock := testutil.NewManualClock()
	s := New(Options{Clock: clock, Translate: Sinhala(), Debounce: time.Second})
	require.NoError(t, s.Navigate(ctx, "http://localhost/", time.Second))

	require.NoError(t, s.FillInput(ctx, "label", "mama"))
	clock.Advance(time.Second)
	require.NoError(t, s.ClearInput(ctx, "label"))

	// The cleared input has not re-rendered yet.
	assert.Equal(t, "මම", s.Rendered())
	clock.Advance(time.Second)
	assert.Equal(t, "", s.Rendered())
}

func TestSurface_DraftStage(t *testing.T) {
	clock := testutil.NewManualClock()
	s := New(Options{
		Clock:      clock,
		Translate:  Sinhala(),
		Draft:      strings.ToUpper,
		Debounce:   time.Second,
		StageDelay: 2 * time.Second,
	})
	require.NoError(t, s.Navigate(ctx, "http://localhost/", time.Second))
	require.NoError(t, s.FillInput(ctx, "label", "mama"))

	clock.Advance(time.Second)
	assert.Equal(t, "MAMA", s.Rendered())
	clock.Advance(2 * time.Second)
	assert.Equal(t, "මම", s.Rendered())
}

func TestSurface_TypeInputAdvancesClock(t *testing.T) {
	clock := testutil.NewManualClock()
	s := New(Options{Clock: clock, Translate: Sinhala(), Debounce: time.Second})
	require.NoError(t, s.Navigate(ctx, "http://localhost/", time.Second))

	require.NoError(t, s.TypeInput(ctx, "label", "mama", 100*time.Millisecond))
	assert.Equal(t, "mama", s.Input())
	assert.Equal(t, 400*time.Millisecond, clock.Elapsed())

	// Each keystroke restarts the debounce.
	assert.Equal(t, "", s.Rendered())
	clock.Advance(900 * time.Millisecond)
	assert.Equal(t, "මම", s.Rendered())
}

func TestSurface_Regions(t *testing.T) {
	clock := testutil.NewManualClock()

	s := New(Options{Clock: clock})
	_, err := s.Regions(ctx, "div")
	assert.Error(t, err, "regions before navigation")

	require.NoError(t, s.Navigate(ctx, "http://localhost/", time.Second))
	regions, err := s.Regions(ctx, "div")
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.True(t, regions[0].IsInput())
	assert.False(t, regions[1].IsInput())

	s = New(Options{Clock: clock, Inputs: 2, NoOutput: true})
	require.NoError(t, s.Navigate(ctx, "http://localhost/", time.Second))
	regions, err = s.Regions(ctx, "div")
	require.NoError(t, err)
	assert.Len(t, regions, 2)
	n, err := s.CountInputs(ctx, "label")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s = New(Options{Clock: clock, Inputs: -1})
	n, err = s.CountInputs(ctx, "label")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSurface_NavigateError(t *testing.T) {
	boom := errors.New("net::ERR_NAME_NOT_RESOLVED")
	s := New(Options{Clock: testutil.NewManualClock(), NavigateErr: boom})
	assert.ErrorIs(t, s.Navigate(ctx, "http://localhost/", time.Second), boom)
}

func TestSurface_ClosedRejectsCalls(t *testing.T) {
	s := New(Options{Clock: testutil.NewManualClock()})
	require.NoError(t, s.Close())

	assert.True(t, s.Closed())
	assert.ErrorIs(t, s.Navigate(ctx, "http://localhost/", time.Second), ErrClosed)
	assert.ErrorIs(t, s.FillInput(ctx, "label", "x"), ErrClosed)
	assert.Equal(t, []string{"navigate", "fill"}, s.Calls())
	assert.False(t, s.Overlapped())
}

func TestFactory(t *testing.T) {
	clock := testutil.NewManualClock()
	f := &Factory{Options: func(n int) Options {
		return Options{Clock: clock, Inputs: n + 1}
	}}

	for range 2 {
		_, err := f.NewSession(ctx)
		require.NoError(t, err)
	}
	sessions := f.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, 1, sessions[0].inputCount())
	assert.Equal(t, 2, sessions[1].inputCount())

	f.Err = errors.New("browser gone")
	_, err := f.NewSession(ctx)
	assert.EqualError(t, err, "browser gone")
	assert.Len(t, f.Sessions(), 2)
}

func TestWordTable(t *testing.T) {
	tr := WordTable(map[string]string{"mama": "මම"})
	assert.Equal(t, "මම unknown", tr("mama  unknown"))
	assert.Equal(t, "මම මම", tr("mama\nmama"))
	assert.Equal(t, "", tr(""))
}
