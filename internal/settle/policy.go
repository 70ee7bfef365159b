package settle

import (
	"fmt"
	"time"
)

// Policy holds the timing contract for one target page.
// The zero value is not usable; start from DefaultPolicy.
type Policy struct {
	NavigationTimeout time.Duration `json:"navigation_timeout" yaml:"navigation_timeout"`
	LoadSettle        time.Duration `json:"load_settle" yaml:"load_settle"`
	ClearSettle       time.Duration `json:"clear_settle" yaml:"clear_settle"`
	ReadyTimeout      time.Duration `json:"ready_timeout" yaml:"ready_timeout"`
	PollInterval      time.Duration `json:"poll_interval" yaml:"poll_interval"`
	GraceDelay        time.Duration `json:"grace_delay" yaml:"grace_delay"`
	InterCaseDelay    time.Duration `json:"inter_case_delay" yaml:"inter_case_delay"`
	KeystrokeDelay    time.Duration `json:"keystroke_delay" yaml:"keystroke_delay"`
	PartialSettle     time.Duration `json:"partial_settle" yaml:"partial_settle"`
}

// DefaultPolicy returns the timings that keep swifttranslator.com stable.
func DefaultPolicy() Policy {
	return Policy{
		NavigationTimeout: 30 * time.Second,
		LoadSettle:        2 * time.Second,
		ClearSettle:       1 * time.Second,
		ReadyTimeout:      10 * time.Second,
		PollInterval:      100 * time.Millisecond,
		GraceDelay:        3 * time.Second,
		InterCaseDelay:    2 * time.Second,
		KeystrokeDelay:    150 * time.Millisecond,
		PartialSettle:     1500 * time.Millisecond,
	}
}

// Validate checks that bounds are positive and delays are not negative.
func (p Policy) Validate() error {
	bounds := []struct {
		name string
		d    time.Duration
	}{
		{"navigation_timeout", p.NavigationTimeout},
		{"ready_timeout", p.ReadyTimeout},
		{"poll_interval", p.PollInterval},
	}
	for _, b := range bounds {
		if b.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", b.name, b.d)
		}
	}

	delays := []struct {
		name string
		d    time.Duration
	}{
		{"load_settle", p.LoadSettle},
		{"clear_settle", p.ClearSettle},
		{"grace_delay", p.GraceDelay},
		{"inter_case_delay", p.InterCaseDelay},
		{"keystroke_delay", p.KeystrokeDelay},
		{"partial_settle", p.PartialSettle},
	}
	for _, d := range delays {
		if d.d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", d.name, d.d)
		}
	}

	if p.PollInterval > p.ReadyTimeout {
		return fmt.Errorf("poll_interval (%s) exceeds ready_timeout (%s)", p.PollInterval, p.ReadyTimeout)
	}
	return nil
}
