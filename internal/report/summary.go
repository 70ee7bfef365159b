package report

import (
	"github.com/roach88/swiftcheck/internal/fixture"
	"github.com/roach88/swiftcheck/internal/harness"
)

// CategoryCount holds the tallies for one category.
type CategoryCount struct {
	Category fixture.Category `json:"category"`
	Passed   int              `json:"passed"`
	Failed   int              `json:"failed"`
	Total    int              `json:"total"`
}

// Summary holds run-wide and per-category tallies.
type Summary struct {
	Passed     int             `json:"passed"`
	Failed     int             `json:"failed"`
	Total      int             `json:"total"`
	Canceled   bool            `json:"canceled,omitempty"`
	Categories []CategoryCount `json:"categories"`
}

// Summarize tallies verdicts. Categories appear in catalog order and only
// when at least one case ran.
func Summarize(r *harness.RunResult) Summary {
	s := Summary{Canceled: r.Canceled, Categories: []CategoryCount{}}
	for _, cat := range fixture.Categories {
		c := CategoryCount{Category: cat}
		for _, v := range r.Verdicts {
			if v.Category != cat {
				continue
			}
			c.Total++
			if v.Passed() {
				c.Passed++
			} else {
				c.Failed++
			}
		}
		if c.Total == 0 {
			continue
		}
		s.Categories = append(s.Categories, c)
		s.Passed += c.Passed
		s.Failed += c.Failed
		s.Total += c.Total
	}
	return s
}

// Document is the JSON form of a run.
type Document struct {
	Run     *harness.RunResult `json:"run"`
	Summary Summary            `json:"summary"`
}

// NewDocument pairs r with its summary.
func NewDocument(r *harness.RunResult) Document {
	return Document{Run: r, Summary: Summarize(r)}
}
