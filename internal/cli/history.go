package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/swiftcheck/internal/config"
	"github.com/roach88/swiftcheck/internal/report"
	"github.com/roach88/swiftcheck/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	EnvFile  string
	Limit    int
	Case     string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs",
		Long: `Show runs recorded with 'swiftcheck run --db'.

Without arguments the most recent runs are listed. With a run id the full
report of that run is printed. With --case the verdicts of one case across
runs are listed, newest first.

Example:
  swiftcheck history --db ./history.db
  swiftcheck history --db ./history.db 0192f3c4-...
  swiftcheck history --db ./history.db --case Neg_Fun_0010`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $SWIFTCHECK_DB)")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", config.DefaultEnvFile, "dotenv file to read (ignored if missing)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of entries (0 for all)")
	cmd.Flags().StringVar(&opts.Case, "case", "", "show the verdicts of this case id")

	return cmd
}

func runHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout())

	if len(args) > 0 && opts.Case != "" {
		_ = out.Error(ErrCodeConfig, "a run id and --case are mutually exclusive", nil)
		return NewExitError(ExitCommandError, "a run id and --case are mutually exclusive")
	}

	path, err := opts.databasePath()
	if err != nil {
		return out.commandError(ErrCodeConfig, "invalid configuration", err)
	}
	if path == "" {
		_ = out.Error(ErrCodeConfig, "no database: set --db or "+config.EnvDatabase, nil)
		return NewExitError(ExitCommandError, "no database configured")
	}
	// Opening creates the file, which would hide a mistyped path.
	if _, err := os.Stat(path); err != nil {
		return out.commandError(ErrCodeDatabase, "database not found", err)
	}

	st, err := store.Open(path)
	if err != nil {
		return out.commandError(ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	switch {
	case len(args) > 0:
		result, err := st.GetRun(ctx, args[0])
		if errors.Is(err, store.ErrRunNotFound) {
			_ = out.Error(ErrCodeNotFound, fmt.Sprintf("run %s not found", args[0]), nil)
			return WrapExitError(ExitCommandError, "run "+args[0], err)
		}
		if err != nil {
			return out.commandError(ErrCodeDatabase, "failed to read run", err)
		}
		if out.JSON() {
			return out.Success(report.NewDocument(result))
		}
		return report.WriteText(out.Writer, result, out.Verbose)

	case opts.Case != "":
		records, err := st.CaseHistory(ctx, opts.Case, opts.Limit)
		if err != nil {
			return out.commandError(ErrCodeDatabase, "failed to read case history", err)
		}
		if out.JSON() {
			return out.Success(records)
		}
		if len(records) == 0 {
			fmt.Fprintf(out.Writer, "No recorded verdicts for %s\n", opts.Case)
			return nil
		}
		fmt.Fprintf(out.Writer, "%s\n\n", opts.Case)
		for _, rec := range records {
			fmt.Fprintf(out.Writer, "%s  %s\n", rec.StartedAt.UTC().Format(time.RFC3339), rec.RunID)
			if err := report.WriteVerdict(out.Writer, rec.Verdict, out.Verbose); err != nil {
				return err
			}
		}
		return nil

	default:
		runs, err := st.ListRuns(ctx, opts.Limit)
		if err != nil {
			return out.commandError(ErrCodeDatabase, "failed to list runs", err)
		}
		if out.JSON() {
			return out.Success(runs)
		}
		if len(runs) == 0 {
			fmt.Fprintln(out.Writer, "No recorded runs")
			return nil
		}
		w := tabwriter.NewWriter(out.Writer, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tSTARTED\tCATALOG\tPASSED\tFAILED\tSTATUS")
		for _, r := range runs {
			status := "pass"
			switch {
			case r.Canceled:
				status = "canceled"
			case r.Failed > 0:
				status = "fail"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
				r.ID, r.StartedAt.UTC().Format(time.RFC3339), r.Catalog, r.Passed, r.Failed, status)
		}
		return w.Flush()
	}
}

// databasePath resolves --db, falling back to the environment.
func (opts *HistoryOptions) databasePath() (string, error) {
	if opts.Database != "" {
		return opts.Database, nil
	}
	if err := config.ReadEnvFile(opts.EnvFile); err != nil {
		return "", err
	}
	return os.Getenv(config.EnvDatabase), nil
}
