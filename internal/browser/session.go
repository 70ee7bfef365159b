package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/roach88/swiftcheck/internal/page"
	"github.com/roach88/swiftcheck/internal/settle"
)

// regionsScript snapshots matched elements in document order.
const regionsScript = `els => els.map(e => ({
	tag: e.tagName,
	role: e.getAttribute("role") || "",
	text: e.textContent || ""
}))`

// Session is one isolated browser context and page.
type Session struct {
	bctx          playwright.BrowserContext
	page          playwright.Page
	actionTimeout time.Duration
}

var _ page.Surface = (*Session)(nil)

// Navigate loads url and waits for network idle.
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   millis(timeout),
	})
	return translate(err)
}

// CountInputs counts text boxes with the exact accessible name label.
func (s *Session) CountInputs(ctx context.Context, label string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := s.input(label).Count()
	return n, translate(err)
}

// ClearInput empties the labelled text box.
func (s *Session) ClearInput(ctx context.Context, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return translate(s.input(label).Clear(playwright.LocatorClearOptions{
		Timeout: millis(s.actionTimeout),
	}))
}

// FillInput sets the labelled text box in one step.
func (s *Session) FillInput(ctx context.Context, label, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return translate(s.input(label).Fill(text, playwright.LocatorFillOptions{
		Timeout: millis(s.actionTimeout),
	}))
}

// TypeInput presses one key per character with perChar between them.
func (s *Session) TypeInput(ctx context.Context, label, text string, perChar time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	budget := s.actionTimeout + time.Duration(len([]rune(text)))*perChar
	return translate(s.input(label).PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Delay:   millis(perChar),
		Timeout: millis(budget),
	}))
}

// Regions snapshots every element matching selector.
func (s *Session) Regions(ctx context.Context, selector string) ([]settle.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := s.page.Locator(selector).EvaluateAll(regionsScript)
	if err != nil {
		return nil, translate(err)
	}
	return toRegions(raw)
}

// Close destroys the browser context and its page.
func (s *Session) Close() error {
	if err := s.bctx.Close(); err != nil {
		return fmt.Errorf("close browser context: %w", err)
	}
	return nil
}

func (s *Session) input(label string) playwright.Locator {
	return s.page.GetByRole(*playwright.AriaRoleTextbox, playwright.PageGetByRoleOptions{
		Name:  label,
		Exact: playwright.Bool(true),
	})
}

// ErrActionTimeout is returned when a browser action exceeds its timeout.
var ErrActionTimeout = errors.New("browser action timed out")

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %w", ErrActionTimeout, err)
	}
	return err
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// toRegions converts the EvaluateAll result into regions.
func toRegions(raw any) ([]settle.Region, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected region snapshot type %T", raw)
	}
	regions := make([]settle.Region, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("region %d: unexpected type %T", i, item)
		}
		regions = append(regions, settle.Region{
			Tag:  str(m["tag"]),
			Role: str(m["role"]),
			Text: str(m["text"]),
		})
	}
	return regions, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
