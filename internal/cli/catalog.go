package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/swiftcheck/internal/fixture"
)

// selection holds the catalog-narrowing flags shared by run and list.
type selection struct {
	Filter     string
	Categories []string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.Filter, "filter", "", "only cases whose id matches this glob (e.g. 'Neg_*')")
	cmd.Flags().StringSliceVar(&s.Categories, "category", nil, "only these categories (positive, negative, ui)")
}

// apply narrows cat by category, then by id pattern.
func (s *selection) apply(cat *fixture.Catalog) (*fixture.Catalog, error) {
	cats := make([]fixture.Category, 0, len(s.Categories))
	for _, name := range s.Categories {
		c, err := fixture.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cat.Only(cats...).Filter(s.Filter)
}

// loadCatalog reads the catalog at path, or the embedded one when path is
// empty.
func loadCatalog(path string) (*fixture.Catalog, error) {
	if path == "" {
		return fixture.Default()
	}
	return fixture.Load(path)
}

func catalogArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
