package page

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/roach88/swiftcheck/internal/settle"
)

// Surface is the browser-automation capability set for one isolated page.
type Surface interface {
	// Navigate loads url and blocks until the network is idle or timeout elapses.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// CountInputs returns how many text boxes have the accessible name label.
	CountInputs(ctx context.Context, label string) (int, error)

	// ClearInput empties the text box named label.
	ClearInput(ctx context.Context, label string) error

	// FillInput replaces the content of the text box named label in one step.
	FillInput(ctx context.Context, label, text string) error

	// TypeInput types text one character at a time, waiting perChar between keys.
	TypeInput(ctx context.Context, label, text string, perChar time.Duration) error

	// Regions snapshots every element matching the CSS selector, in document order.
	Regions(ctx context.Context, selector string) ([]settle.Region, error)

	// Close destroys the page and everything scoped to it.
	Close() error
}

// SessionFactory creates a fresh, isolated Surface per test case.
type SessionFactory interface {
	NewSession(ctx context.Context) (Surface, error)
}

// Target identifies the page under test and its two regions.
type Target struct {
	URL            string `json:"url"`
	InputLabel     string `json:"input_label"`
	OutputSelector string `json:"output_selector"`
}

// DefaultTarget returns the swifttranslator.com layout.
func DefaultTarget() Target {
	return Target{
		URL:            "https://www.swifttranslator.com/",
		InputLabel:     "Input Your Singlish Text Here.",
		OutputSelector: "div.w-full.h-80.p-3.rounded-lg.ring-1.ring-slate-300.whitespace-pre-wrap",
	}
}

// Validate checks that every field is set and the URL is absolute.
func (t Target) Validate() error {
	if t.URL == "" {
		return fmt.Errorf("target url is required")
	}
	if u, err := url.Parse(t.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("target url %q must be an absolute http(s) URL", t.URL)
	}
	if t.InputLabel == "" {
		return fmt.Errorf("input label is required")
	}
	if t.OutputSelector == "" {
		return fmt.Errorf("output selector is required")
	}
	return nil
}
