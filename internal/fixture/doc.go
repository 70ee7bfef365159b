// Package fixture provides the data-driven test-case catalog.
//
// A catalog is a YAML document holding an ordered list of test cases:
//
//	name: swifttranslator
//	target: https://www.swifttranslator.com/
//	cases:
//	  - id: Pos_Fun_0001
//	    name: "Convert a short daily greeting phrase"
//	    category: positive
//	    input: "oyaata kohomadha?"
//	    expected: "ඔයාට කොහොමද?"
//	    topic: "Greeting / request / response"
//	    grammarTag: "Interrogative (question)"
//	    lengthClass: S
//	  - id: Neg_Fun_0010
//	    category: negative
//	    ...
//	    actual: "මම ගෙදර යනවා. ඔයාන එවද්ද?"
//
// # Categories
//
//   - positive: the output must equal expected exactly.
//   - negative: documents a known defect. expected is the desired value and
//     actual records what the page currently renders.
//   - ui: liveness. An intermediate read taken while typing must be non-empty
//     before the final read equals expected.
//
// # Validation
//
// Catalogs are decoded strictly (unknown fields are rejected), then checked for
// cross-field invariants (unique ids, actual only on negative cases, partial
// input is a prefix) and finally validated against the embedded CUE schema.
//
// Text fields are never normalized: expected values are opaque and compared
// byte-for-byte.
//
// # Iteration
//
// AllCases yields cases grouped by category (positive, negative, ui) in declared
// order. The sequence is lazy, finite, and can be ranged over any number of times.
// Catalogs are immutable once loaded.
package fixture
