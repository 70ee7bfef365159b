package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/swiftcheck/internal/fixture"
)

// ValidationResult holds the outcome for one catalog file.
type ValidationResult struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Cases int    `json:"cases,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog.yaml>...",
		Short: "Validate catalog files without running them",
		Long: `Validate catalog files without opening a browser.

Checks YAML syntax, unknown fields and the catalog schema, then the catalog
rules: unique ids, negative cases carrying their documented actual output,
and UI cases having a usable partial input.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd.OutOrStdout())

	results := make([]ValidationResult, 0, len(paths))
	invalid := 0
	for _, path := range paths {
		res := ValidationResult{Path: path, Valid: true}
		cat, err := fixture.Load(path)
		if err != nil {
			res.Valid = false
			res.Error = err.Error()
			invalid++
		} else {
			res.Cases = cat.Len()
		}
		results = append(results, res)
	}

	if out.JSON() {
		if invalid == 0 {
			return out.Success(results)
		}
		if err := out.Failure(ErrCodeInvalidCatalog, fmt.Sprintf("%d catalog(s) invalid", invalid), results); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d catalog(s)", invalid))
	}

	for _, res := range results {
		if res.Valid {
			fmt.Fprintf(out.Writer, "✓ %s (%d cases)\n", res.Path, res.Cases)
		} else {
			color.New(color.FgRed).Fprintf(out.Writer, "✗ %s\n", res.Path)
			fmt.Fprintf(out.Writer, "    %s\n", res.Error)
		}
	}

	if invalid > 0 {
		fmt.Fprintf(out.Writer, "\n%d of %d catalog(s) invalid\n", invalid, len(results))
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d catalog(s)", invalid))
	}
	fmt.Fprintln(out.Writer, "✓ All catalogs valid")
	return nil
}
