package settle

import (
	"fmt"
	"slices"
)

// Phase is a step in the per-case state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCleared
	PhaseInjecting
	PhaseAwaitingReady
	PhaseReady
	PhaseRead
	PhaseVerdict
	PhaseFailed
)

var phaseNames = map[Phase]string{
	PhaseIdle:          "idle",
	PhaseCleared:       "cleared",
	PhaseInjecting:     "injecting",
	PhaseAwaitingReady: "awaiting_ready",
	PhaseReady:         "ready",
	PhaseRead:          "read",
	PhaseVerdict:       "verdict",
	PhaseFailed:        "failed",
}

// String returns the snake_case name used in logs and reports.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// MarshalText lets phases appear by name in JSON output.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase converts a snake_case name back to a Phase.
func ParsePhase(name string) (Phase, error) {
	for p, n := range phaseNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// transitions lists the legal successors of each phase. Failed is handled
// separately because it is reachable from every non-terminal phase.
//
// Read → Cleared restarts a cycle on the same session (idempotence check).
// Read → Injecting continues typing after an intermediate read (liveness check).
var transitions = map[Phase][]Phase{
	PhaseIdle:          {PhaseCleared},
	PhaseCleared:       {PhaseInjecting},
	PhaseInjecting:     {PhaseAwaitingReady, PhaseRead},
	PhaseAwaitingReady: {PhaseReady},
	PhaseReady:         {PhaseRead},
	PhaseRead:          {PhaseVerdict, PhaseCleared, PhaseInjecting},
}

// TransitionError reports an illegal phase change.
type TransitionError struct {
	From Phase
	To   Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal phase transition %s -> %s", e.From, e.To)
}

// Tracker records the phases one case passes through.
// It is owned by a single case and is not safe for concurrent use.
type Tracker struct {
	phase   Phase
	history []Phase
	err     error
}

// NewTracker returns a tracker in PhaseIdle.
func NewTracker() *Tracker {
	return &Tracker{phase: PhaseIdle, history: []Phase{PhaseIdle}}
}

// Phase returns the current phase.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// History returns every phase entered, in order, starting with PhaseIdle.
func (t *Tracker) History() []Phase {
	return slices.Clone(t.history)
}

// Err returns the error passed to Fail, if any.
func (t *Tracker) Err() error {
	return t.err
}

// Terminal reports whether the case has reached Verdict or Failed.
func (t *Tracker) Terminal() bool {
	return t.phase == PhaseVerdict || t.phase == PhaseFailed
}

// Advance moves to the next phase or returns a *TransitionError.
func (t *Tracker) Advance(to Phase) error {
	if to == PhaseFailed {
		return fmt.Errorf("use Fail to enter %s", PhaseFailed)
	}
	if !slices.Contains(transitions[t.phase], to) {
		return &TransitionError{From: t.phase, To: to}
	}
	t.phase = to
	t.history = append(t.history, to)
	return nil
}

// Fail moves to PhaseFailed and records err. Failing a terminal tracker is a no-op
// so the first failure wins.
func (t *Tracker) Fail(err error) {
	if t.Terminal() {
		return
	}
	t.err = err
	t.phase = PhaseFailed
	t.history = append(t.history, PhaseFailed)
}

// LastActive returns the phase the case was in when it failed, or the current
// phase if it has not failed.
func (t *Tracker) LastActive() Phase {
	if t.phase != PhaseFailed || len(t.history) < 2 {
		return t.phase
	}
	return t.history[len(t.history)-2]
}
