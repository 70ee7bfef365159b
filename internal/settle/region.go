package settle

import "strings"

// Region is a snapshot of one element matching the output style selector.
//
// On the target page the input textarea and the output container share the
// same CSS classes, so a selector match alone does not identify the output.
type Region struct {
	Tag  string `json:"tag"`  // upper-case tag name, e.g. "DIV"
	Role string `json:"role"` // ARIA role attribute, may be empty
	Text string `json:"text"` // raw textContent
}

// IsInput reports whether the region is a text-entry element.
// Text areas, input elements, and anything with role=textbox are inputs.
func (r Region) IsInput() bool {
	switch strings.ToUpper(r.Tag) {
	case "TEXTAREA", "INPUT":
		return true
	}
	return strings.EqualFold(r.Role, "textbox")
}

// TrimmedText returns the text with leading and trailing whitespace removed.
func (r Region) TrimmedText() string {
	return strings.TrimSpace(r.Text)
}

// FirstOutput returns the first region that is not an input.
func FirstOutput(regions []Region) (Region, bool) {
	for _, r := range regions {
		if !r.IsInput() {
			return r, true
		}
	}
	return Region{}, false
}

// OutputReady is the readiness predicate: at least one region is not an input
// and carries non-whitespace text.
func OutputReady(regions []Region) bool {
	for _, r := range regions {
		if !r.IsInput() && len(r.TrimmedText()) > 0 {
			return true
		}
	}
	return false
}
