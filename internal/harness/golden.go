package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/swiftcheck/internal/settle"
)

// VerdictSnapshot holds the run-independent part of a verdict. Durations and
// run ids are left out so that snapshots compare byte-for-byte across runs.
type VerdictSnapshot struct {
	ID           string       `json:"id"`
	Status       Status       `json:"status"`
	Kind         FailureKind  `json:"kind,omitempty"`
	Want         string       `json:"want"`
	Actual       string       `json:"actual"`
	Intermediate string       `json:"intermediate,omitempty"`
	Hint         string       `json:"hint,omitempty"`
	Phase        settle.Phase `json:"phase"`
}

// RunSnapshot is the golden form of a RunResult.
type RunSnapshot struct {
	Catalog      string            `json:"catalog"`
	NegativeMode NegativeMode      `json:"negative_mode"`
	Canceled     bool              `json:"canceled,omitempty"`
	Verdicts     []VerdictSnapshot `json:"verdicts"`
}

// Snapshot returns the golden form of r.
func (r *RunResult) Snapshot() RunSnapshot {
	s := RunSnapshot{
		Catalog:      r.Catalog,
		NegativeMode: r.NegativeMode,
		Canceled:     r.Canceled,
		Verdicts:     make([]VerdictSnapshot, len(r.Verdicts)),
	}
	for i, v := range r.Verdicts {
		s.Verdicts[i] = VerdictSnapshot{
			ID:           v.ID,
			Status:       v.Status,
			Kind:         v.Kind,
			Want:         v.Want,
			Actual:       v.Actual,
			Intermediate: v.Intermediate,
			Hint:         v.Hint,
			Phase:        v.Phase,
		}
	}
	return s
}

// AssertGolden compares the snapshot of result against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, result *RunResult) {
	t.Helper()

	data, err := json.MarshalIndent(result.Snapshot(), "", "  ")
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
