package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/roach88/swiftcheck/internal/fixture"
	"github.com/roach88/swiftcheck/internal/harness"
)

// Progress shows a progress bar while a catalog runs. It implements
// harness.Observer.
type Progress struct {
	bar    *progressbar.ProgressBar
	w      io.Writer
	passed int
	failed int
}

var _ harness.Observer = (*Progress)(nil)

// NewProgress creates a bar for total cases, drawn on w.
func NewProgress(w io.Writer, total int) *Progress {
	p := &Progress{w: w}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(p.describe("")),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return p
}

func (p *Progress) describe(id string) string {
	d := color.CyanString("Running cases: ") +
		color.GreenString("[passed: %d", p.passed) +
		" | " +
		color.RedString("failed: %d]", p.failed)
	if id != "" {
		d += " " + id
	}
	return d
}

// CaseStarted shows the running case id.
func (p *Progress) CaseStarted(tc fixture.TestCase, index, total int) {
	p.bar.Describe(p.describe(tc.ID))
}

// CaseFinished updates the counts and advances the bar.
func (p *Progress) CaseFinished(v harness.Verdict) {
	if v.Passed() {
		p.passed++
	} else {
		p.failed++
	}
	p.bar.Describe(p.describe(""))
	_ = p.bar.Add(1)
}

// Finish completes the bar.
func (p *Progress) Finish() error {
	return p.bar.Finish()
}
