package fixture

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog document.
type File struct {
	// Name identifies the catalog in reports.
	Name string `yaml:"name"`

	// Target is the default page URL for this catalog.
	Target string `yaml:"target,omitempty"`

	// Cases lists the fixtures. Order within a category is preserved.
	Cases []TestCase `yaml:"cases"`
}

//go:embed catalogs/swifttranslator.yaml
var defaultCatalog []byte

// DefaultSource is the name reported for the embedded catalog.
const DefaultSource = "swifttranslator.yaml"

// Default returns the embedded swifttranslator.com catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog, DefaultSource)
}

// Load reads and validates a catalog file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields (typos), or violates a catalog invariant.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes and validates a catalog document. source names the document
// in error messages.
func Parse(data []byte, source string) (*Catalog, error) {
	// Strict decoding catches typos like "expect:" vs "expected:"
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("%s: failed to parse YAML: %w", source, err)
	}

	if err := validateFile(&f); err != nil {
		return nil, fmt.Errorf("%s: invalid catalog: %w", source, err)
	}

	return build(f.Name, f.Target, f.Cases), nil
}

// validateFile checks document-level fields, then every case.
func validateFile(f *File) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(f.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}
	return validateCases(f.Cases)
}

// validateCases enforces cross-field invariants, then the CUE schema.
func validateCases(cases []TestCase) error {
	seen := make(map[string]int, len(cases))
	for i, tc := range cases {
		if err := validateCase(i, tc); err != nil {
			return err
		}
		if prev, dup := seen[tc.ID]; dup {
			return fmt.Errorf("cases[%d]: duplicate id %q (first declared at cases[%d])", i, tc.ID, prev)
		}
		seen[tc.ID] = i
	}

	for i, tc := range cases {
		if err := validateSchema(tc); err != nil {
			return fmt.Errorf("cases[%d] (%s): %w", i, tc.ID, err)
		}
	}
	return nil
}

// validateCase checks a single case's required fields and cross-field rules.
func validateCase(i int, tc TestCase) error {
	if tc.ID == "" {
		return fmt.Errorf("cases[%d]: id is required", i)
	}
	if tc.Name == "" {
		return fmt.Errorf("cases[%d] (%s): name is required", i, tc.ID)
	}
	if !tc.Category.Valid() {
		return fmt.Errorf("cases[%d] (%s): unknown category %q", i, tc.ID, tc.Category)
	}
	if !tc.LengthClass.Valid() {
		return fmt.Errorf("cases[%d] (%s): lengthClass must be S, M or L, got %q", i, tc.ID, tc.LengthClass)
	}

	switch tc.Category {
	case CategoryNegative:
		if tc.Actual == nil {
			return fmt.Errorf("cases[%d] (%s): negative case requires actual (use \"\" for empty output)", i, tc.ID)
		}
	default:
		if tc.Actual != nil {
			return fmt.Errorf("cases[%d] (%s): actual is only allowed on negative cases", i, tc.ID)
		}
	}

	if tc.PartialInput != "" {
		if tc.Category != CategoryUI {
			return fmt.Errorf("cases[%d] (%s): partialInput is only allowed on ui cases", i, tc.ID)
		}
		if !strings.HasPrefix(tc.Input, tc.PartialInput) || tc.PartialInput == tc.Input {
			return fmt.Errorf("cases[%d] (%s): partialInput must be a proper prefix of input", i, tc.ID)
		}
	}
	if tc.Category == CategoryUI && strings.TrimSpace(tc.Partial()) == "" {
		return fmt.Errorf("cases[%d] (%s): ui case needs a non-blank partial input", i, tc.ID)
	}

	return nil
}
