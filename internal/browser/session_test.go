package browser

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swiftcheck/internal/settle"
)

func TestToRegions(t *testing.T) {
	raw := []any{
		map[string]any{"tag": "TEXTAREA", "role": "", "text": "oyaata"},
		map[string]any{"tag": "DIV", "role": "", "text": "ඔයාට"},
		map[string]any{"tag": "DIV"},
	}

	regions, err := toRegions(raw)
	require.NoError(t, err)
	assert.Equal(t, []settle.Region{
		{Tag: "TEXTAREA", Text: "oyaata"},
		{Tag: "DIV", Text: "ඔයාට"},
		{Tag: "DIV"},
	}, regions)

	out, ok := settle.FirstOutput(regions)
	require.True(t, ok)
	assert.Equal(t, "ඔයාට", out.Text)
}

func TestToRegions_Empty(t *testing.T) {
	regions, err := toRegions(nil)
	require.NoError(t, err)
	assert.Empty(t, regions)

	regions, err = toRegions([]any{})
	require.NoError(t, err)
	assert.Empty(t, regions)
}

func TestToRegions_BadShape(t *testing.T) {
	_, err := toRegions("nope")
	assert.Error(t, err)

	_, err = toRegions([]any{42})
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))

	err := translate(fmt.Errorf("locator.fill: %w", playwright.ErrTimeout))
	assert.True(t, errors.Is(err, ErrActionTimeout))
	assert.True(t, errors.Is(err, playwright.ErrTimeout))

	other := errors.New("target closed")
	assert.Equal(t, other, translate(other))
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 1500.0, *millis(1500*time.Millisecond))
	assert.Equal(t, 0.0, *millis(0))
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	opts := DefaultOptions()
	opts.Engine = "netscape"
	assert.ErrorContains(t, opts.Validate(), "unknown browser")

	opts = DefaultOptions()
	opts.ActionTimeout = 0
	assert.ErrorContains(t, opts.Validate(), "action timeout")
}
