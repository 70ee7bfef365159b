package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/swiftcheck/internal/fixture"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	selection
}

// CatalogListing is the JSON payload of the list command.
type CatalogListing struct {
	Catalog string             `json:"catalog"`
	Target  string             `json:"target,omitempty"`
	Counts  map[string]int     `json:"counts"`
	Cases   []fixture.TestCase `json:"cases"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list [catalog.yaml]",
		Short: "List the cases of a catalog",
		Long: `List the cases of a catalog in run order: positive, then negative, then UI.
Without a catalog argument the built-in catalog is listed.

Example:
  swiftcheck list
  swiftcheck list --category ui --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, catalogArg(args), cmd)
		},
	}

	opts.selection.register(cmd)
	return cmd
}

func runList(opts *ListOptions, catalogPath string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout())

	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return out.commandError(ErrCodeCatalog, "failed to load catalog", err)
	}
	cat, err = opts.selection.apply(cat)
	if err != nil {
		return out.commandError(ErrCodeConfig, "invalid selection", err)
	}

	if out.JSON() {
		listing := CatalogListing{
			Catalog: cat.Name(),
			Target:  cat.Target(),
			Counts:  map[string]int{},
			Cases:   []fixture.TestCase{},
		}
		for tc := range cat.AllCases() {
			listing.Cases = append(listing.Cases, tc)
			listing.Counts[string(tc.Category)]++
		}
		return out.Success(listing)
	}

	w := tabwriter.NewWriter(out.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tSIZE\tNAME")
	for tc := range cat.AllCases() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", tc.ID, tc.Category, tc.LengthClass, tc.Name)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out.Writer, "\n%d case(s): %d positive, %d negative, %d ui\n",
		cat.Len(),
		cat.Count(fixture.CategoryPositive),
		cat.Count(fixture.CategoryNegative),
		cat.Count(fixture.CategoryUI))
	return nil
}
