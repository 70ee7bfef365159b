package fixture

import "fmt"

// Category classifies how a case is asserted.
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryNegative Category = "negative"
	CategoryUI       Category = "ui"
)

// Categories lists every category in reporting order.
var Categories = []Category{CategoryPositive, CategoryNegative, CategoryUI}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryPositive, CategoryNegative, CategoryUI:
		return true
	}
	return false
}

// ParseCategory converts s to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q: must be one of %v", s, Categories)
	}
	return c, nil
}

// LengthClass is an informational size bucket.
type LengthClass string

const (
	LengthSmall  LengthClass = "S"
	LengthMedium LengthClass = "M"
	LengthLarge  LengthClass = "L"
)

// Valid reports whether l is S, M or L.
func (l LengthClass) Valid() bool {
	switch l {
	case LengthSmall, LengthMedium, LengthLarge:
		return true
	}
	return false
}

// TestCase is one fixture record. Treat it as immutable.
type TestCase struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Category Category `yaml:"category" json:"category"`
	Input    string   `yaml:"input" json:"input"`
	Expected string   `yaml:"expected" json:"expected"`

	// Actual is the output the page currently renders for a negative case.
	// It is set (possibly to "") on every negative case and nil otherwise.
	Actual *string `yaml:"actual,omitempty" json:"actual,omitempty"`

	Topic       string      `yaml:"topic,omitempty" json:"topic,omitempty"`
	GrammarTag  string      `yaml:"grammarTag,omitempty" json:"grammarTag,omitempty"`
	LengthClass LengthClass `yaml:"lengthClass" json:"lengthClass"`
	BehaviorTag string      `yaml:"behaviorTag,omitempty" json:"behaviorTag,omitempty"`

	// PartialInput is the prefix typed before a ui case's intermediate read.
	PartialInput string `yaml:"partialInput,omitempty" json:"partialInput,omitempty"`
}

// ActualValue returns the documented defect output and whether one is recorded.
func (tc TestCase) ActualValue() (string, bool) {
	if tc.Actual == nil {
		return "", false
	}
	return *tc.Actual, true
}

// Partial returns the prefix typed before the intermediate read: PartialInput
// when set, otherwise the first half of Input by rune count.
func (tc TestCase) Partial() string {
	if tc.PartialInput != "" {
		return tc.PartialInput
	}
	runes := []rune(tc.Input)
	return string(runes[:(len(runes)+1)/2])
}

// Remainder returns the part of Input typed after the intermediate read.
func (tc TestCase) Remainder() string {
	return tc.Input[len(tc.Partial()):]
}

func (tc TestCase) clone() TestCase {
	if tc.Actual != nil {
		a := *tc.Actual
		tc.Actual = &a
	}
	return tc
}

// String returns "ID - Name", the way runners label a case.
func (tc TestCase) String() string {
	return fmt.Sprintf("%s - %s", tc.ID, tc.Name)
}
