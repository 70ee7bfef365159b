package fixture

import (
	"fmt"
	"iter"
	"path"
	"slices"
)

// Catalog is an immutable, ordered collection of test cases.
type Catalog struct {
	name   string
	target string
	cases  []TestCase // grouped by category, declared order within a group
	index  map[string]int
}

// New validates cases and builds a catalog. Cases are regrouped by category;
// order within a category is preserved.
func New(name, target string, cases []TestCase) (*Catalog, error) {
	if err := validateCases(cases); err != nil {
		return nil, err
	}
	return build(name, target, cases), nil
}

func build(name, target string, cases []TestCase) *Catalog {
	c := &Catalog{
		name:   name,
		target: target,
		cases:  make([]TestCase, 0, len(cases)),
		index:  make(map[string]int, len(cases)),
	}
	for _, cat := range Categories {
		for _, tc := range cases {
			if tc.Category == cat {
				c.index[tc.ID] = len(c.cases)
				c.cases = append(c.cases, tc.clone())
			}
		}
	}
	return c
}

// Name returns the catalog name.
func (c *Catalog) Name() string {
	return c.name
}

// Target returns the page URL recorded in the catalog, or "".
func (c *Catalog) Target() string {
	return c.target
}

// Len returns the number of cases.
func (c *Catalog) Len() int {
	return len(c.cases)
}

// Count returns the number of cases in cat.
func (c *Catalog) Count(cat Category) int {
	n := 0
	for _, tc := range c.cases {
		if tc.Category == cat {
			n++
		}
	}
	return n
}

// AllCases yields every case grouped by category.
func (c *Catalog) AllCases() iter.Seq[TestCase] {
	return func(yield func(TestCase) bool) {
		for _, tc := range c.cases {
			if !yield(tc.clone()) {
				return
			}
		}
	}
}

// Cases yields the cases of one category in declared order.
func (c *Catalog) Cases(cat Category) iter.Seq[TestCase] {
	return func(yield func(TestCase) bool) {
		for _, tc := range c.cases {
			if tc.Category != cat {
				continue
			}
			if !yield(tc.clone()) {
				return
			}
		}
	}
}

// Lookup returns the case with id.
func (c *Catalog) Lookup(id string) (TestCase, bool) {
	i, ok := c.index[id]
	if !ok {
		return TestCase{}, false
	}
	return c.cases[i].clone(), true
}

// IDs returns every id in iteration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.cases))
	for i, tc := range c.cases {
		ids[i] = tc.ID
	}
	return ids
}

// Filter returns a catalog holding only the cases whose id matches the glob
// pattern (path.Match syntax). An empty pattern matches everything.
func (c *Catalog) Filter(pattern string) (*Catalog, error) {
	if pattern == "" {
		return c, nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
	}
	var kept []TestCase
	for _, tc := range c.cases {
		if ok, _ := path.Match(pattern, tc.ID); ok {
			kept = append(kept, tc)
		}
	}
	return build(c.name, c.target, kept), nil
}

// Only returns a catalog restricted to the given categories. With no
// categories it returns c.
func (c *Catalog) Only(cats ...Category) *Catalog {
	if len(cats) == 0 {
		return c
	}
	var kept []TestCase
	for _, tc := range c.cases {
		if slices.Contains(cats, tc.Category) {
			kept = append(kept, tc)
		}
	}
	return build(c.name, c.target, kept)
}
