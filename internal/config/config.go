// Package config assembles run settings from defaults, an optional .env file
// and SWIFTCHECK_* environment variables. Command-line flags are applied on
// top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/roach88/swiftcheck/internal/browser"
	"github.com/roach88/swiftcheck/internal/harness"
	"github.com/roach88/swiftcheck/internal/page"
	"github.com/roach88/swiftcheck/internal/settle"
)

// Environment variables read by ApplyEnv.
const (
	EnvURL          = "SWIFTCHECK_URL"
	EnvHeadless     = "SWIFTCHECK_HEADLESS"
	EnvBrowser      = "SWIFTCHECK_BROWSER"
	EnvDatabase     = "SWIFTCHECK_DB"
	EnvNegativeMode = "SWIFTCHECK_NEGATIVE_MODE"
	EnvReadyTimeout = "SWIFTCHECK_READY_TIMEOUT"
	EnvGraceDelay   = "SWIFTCHECK_GRACE_DELAY"
)

// DefaultEnvFile is read when present.
const DefaultEnvFile = ".env"

// Config holds all configuration for a run.
type Config struct {
	Target  page.Target
	Policy  settle.Policy
	Browser browser.Options

	// Database is the run history path. Empty disables history.
	Database string

	NegativeMode     harness.NegativeMode
	CheckIdempotence bool
}

// Default returns the configuration for swifttranslator.com.
func Default() *Config {
	return &Config{
		Target:       page.DefaultTarget(),
		Policy:       settle.DefaultPolicy(),
		Browser:      browser.DefaultOptions(),
		NegativeMode: harness.NegativeDefect,
	}
}

// Load returns Default() updated from envFile and the process environment.
// A missing envFile is ignored; variables already set in the environment take
// precedence over the file.
func Load(envFile string) (*Config, error) {
	if err := ReadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadEnvFile copies the variables of path into the process environment
// without overriding ones already set. An empty path or a missing file is
// not an error.
func ReadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from the variables lookup finds.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvURL); ok && v != "" {
		c.Target.URL = v
	}
	if v, ok := lookup(EnvHeadless); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHeadless, err)
		}
		c.Browser.Headless = b
	}
	if v, ok := lookup(EnvBrowser); ok && v != "" {
		c.Browser.Engine = v
	}
	if v, ok := lookup(EnvDatabase); ok {
		c.Database = v
	}
	if v, ok := lookup(EnvNegativeMode); ok && v != "" {
		c.NegativeMode = harness.NegativeMode(v)
	}
	if err := durationEnv(lookup, EnvReadyTimeout, &c.Policy.ReadyTimeout); err != nil {
		return err
	}
	if err := durationEnv(lookup, EnvGraceDelay, &c.Policy.GraceDelay); err != nil {
		return err
	}
	return nil
}

func durationEnv(lookup func(string) (string, bool), key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	if _, err := harness.ParseNegativeMode(string(c.NegativeMode)); err != nil {
		return err
	}
	return nil
}
