package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/swiftcheck/internal/browser"
	"github.com/roach88/swiftcheck/internal/config"
	"github.com/roach88/swiftcheck/internal/fixture"
	"github.com/roach88/swiftcheck/internal/harness"
	"github.com/roach88/swiftcheck/internal/page"
	"github.com/roach88/swiftcheck/internal/report"
	"github.com/roach88/swiftcheck/internal/settle"
	"github.com/roach88/swiftcheck/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	selection

	EnvFile      string
	URL          string
	Database     string
	Browser      string
	Headed       bool
	Install      bool
	NegativeMode string
	Idempotence  bool
	ReadyTimeout time.Duration
	GraceDelay   time.Duration
	NoProgress   bool

	// Sessions overrides the browser (for testing). When nil a browser is
	// launched from the configuration.
	Sessions page.SessionFactory

	// Clock overrides the wall clock (for testing).
	Clock settle.Clock

	// RunIDs overrides the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs harness.RunIDGenerator

	// Lookup overrides os.LookupEnv (for testing).
	Lookup func(string) (string, bool)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [catalog.yaml]",
		Short: "Run a catalog against the translator",
		Long: `Run every case of a catalog against the live translator page and report
a verdict per case. Without a catalog argument the built-in swifttranslator.com
catalog is used.

Settings are taken from defaults, the catalog's target, a .env file,
SWIFTCHECK_* environment variables and finally the flags below.

Example:
  swiftcheck run
  swiftcheck run --category negative --negative-mode expected
  swiftcheck run ./cases.yaml --filter 'Pos_UI_*' --headed --db ./history.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(opts, catalogArg(args), cmd)
		},
	}

	opts.selection.register(cmd)
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", config.DefaultEnvFile, "dotenv file to read (ignored if missing)")
	cmd.Flags().StringVar(&opts.URL, "url", "", "translator page URL")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringVar(&opts.Browser, "browser", "", "browser engine (chromium|firefox|webkit)")
	cmd.Flags().BoolVar(&opts.Headed, "headed", false, "show the browser window")
	cmd.Flags().BoolVar(&opts.Install, "install", false, "install the browser driver before running")
	cmd.Flags().StringVar(&opts.NegativeMode, "negative-mode", "", "negative case assertion (defect|expected|gap)")
	cmd.Flags().BoolVar(&opts.Idempotence, "idempotence", false, "repeat each case on the same page and require the same output")
	cmd.Flags().DurationVar(&opts.ReadyTimeout, "ready-timeout", 0, "maximum wait for output to become ready")
	cmd.Flags().DurationVar(&opts.GraceDelay, "grace-delay", 0, "wait after output is ready before reading it")
	cmd.Flags().BoolVar(&opts.NoProgress, "no-progress", false, "disable the progress bar")

	return cmd
}

// resolveConfig layers defaults, the catalog target, the environment and the
// flags that were set explicitly.
func (opts *RunOptions) resolveConfig(cmd *cobra.Command, cat *fixture.Catalog) (*config.Config, error) {
	lookup := opts.Lookup
	if lookup == nil {
		if err := config.ReadEnvFile(opts.EnvFile); err != nil {
			return nil, err
		}
		lookup = os.LookupEnv
	}

	cfg := config.Default()
	if cat.Target() != "" {
		cfg.Target.URL = cat.Target()
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Target.URL = opts.URL
	}
	if flags.Changed("db") {
		cfg.Database = opts.Database
	}
	if flags.Changed("browser") {
		cfg.Browser.Engine = opts.Browser
	}
	if flags.Changed("headed") {
		cfg.Browser.Headless = !opts.Headed
	}
	if flags.Changed("negative-mode") {
		cfg.NegativeMode = harness.NegativeMode(opts.NegativeMode)
	}
	if flags.Changed("ready-timeout") {
		cfg.Policy.ReadyTimeout = opts.ReadyTimeout
	}
	if flags.Changed("grace-delay") {
		cfg.Policy.GraceDelay = opts.GraceDelay
	}
	cfg.Browser.Install = opts.Install
	cfg.CheckIdempotence = opts.Idempotence

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCatalog(opts *RunOptions, catalogPath string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return out.commandError(ErrCodeCatalog, "failed to load catalog", err)
	}
	cat, err = opts.selection.apply(cat)
	if err != nil {
		return out.commandError(ErrCodeConfig, "invalid selection", err)
	}
	if cat.Len() == 0 {
		_ = out.Error(ErrCodeNoCases, "no cases match the selection", nil)
		return NewExitError(ExitCommandError, "no cases match the selection")
	}

	cfg, err := opts.resolveConfig(cmd, cat)
	if err != nil {
		return out.commandError(ErrCodeConfig, "invalid configuration", err)
	}

	var st *store.Store
	if cfg.Database != "" {
		logger.Debug("opening database", "path", cfg.Database)
		st, err = store.Open(cfg.Database)
		if err != nil {
			return out.commandError(ErrCodeDatabase, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping after the current case", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	sessions := opts.Sessions
	if sessions == nil {
		launcher, err := browser.Launch(ctx, cfg.Browser, logger)
		if err != nil {
			return out.commandError(ErrCodeBrowser, "failed to launch browser", err)
		}
		defer func() {
			if closeErr := launcher.Close(); closeErr != nil {
				logger.Error("error closing browser", "error", closeErr)
			}
		}()
		sessions = launcher
	}

	runner := &harness.Runner{
		Sessions: sessions,
		Target:   cfg.Target,
		Policy:   cfg.Policy,
		Options: harness.Options{
			NegativeMode:     cfg.NegativeMode,
			CheckIdempotence: cfg.CheckIdempotence,
		},
		Clock:  opts.Clock,
		Logger: logger,
		RunIDs: opts.RunIDs,
	}

	var progress *report.Progress
	if !out.JSON() && !opts.NoProgress {
		progress = report.NewProgress(cmd.ErrOrStderr(), cat.Len())
		runner.Observer = progress
	}

	result, err := runner.Run(ctx, cat)
	if err != nil {
		return out.commandError(ErrCodeConfig, "failed to start run", err)
	}
	if progress != nil {
		_ = progress.Finish()
	}

	if err := writeRun(out, result); err != nil {
		return err
	}

	if st != nil {
		if err := st.SaveRun(context.WithoutCancel(ctx), result); err != nil {
			logger.Error("failed to record run", "run_id", result.RunID, "error", err)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		logger.Debug("run recorded", "run_id", result.RunID, "db", cfg.Database)
	}

	return runOutcome(result)
}

// writeRun prints the report of a finished run.
func writeRun(out *OutputFormatter, result *harness.RunResult) error {
	if out.JSON() {
		doc := report.NewDocument(result)
		if result.Pass() {
			return out.Success(doc)
		}
		return out.Failure(ErrCodeTestFailed, failureMessage(result), doc)
	}
	return report.WriteText(out.Writer, result, out.Verbose)
}

// runOutcome maps a run to the command's exit status.
func runOutcome(result *harness.RunResult) error {
	if result.Pass() {
		return nil
	}
	return NewExitError(ExitFailure, failureMessage(result))
}

func failureMessage(result *harness.RunResult) string {
	failed := len(result.Failures())
	if result.Canceled {
		return fmt.Sprintf("run canceled after %d case(s), %d failed", len(result.Verdicts), failed)
	}
	return fmt.Sprintf("%d of %d case(s) failed", failed, len(result.Verdicts))
}
