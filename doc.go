// Package lazydiff is a structured data differ that describes the difference
// between two values as a tree, computing only the parts of the tree that get
// inspected.
//
// lazydiff operates on the go types created by unmarshaling from JSON, which
// are two complex types:
//
//	map[string]interface{}
//	[]interface{}
//
// and four scalar types:
//
//	string, float64, bool, nil
//
// any other slice, array or string-keyed map is treated as an array or record,
// and every go number type compares numerically as a number. This lets
// lazydiff compare documents decoded from different formats.
//
// Compare returns a Diff, one of:
//
//	*NoDiff      both sides are the same value
//	*ValueDiff   the values differ & have no structure to compare, or are of
//	             different kinds
//	*StringDiff  two different strings, with character-level Changes
//	*ObjectDiff  two records, with one child Diff per key
//	*ArrayDiff   two arrays, with one child Diff per index
//
// "the same value" is an identity check: numbers compare numerically with NaN
// equal to itself & +0 distinct from -0, strings & bools compare exactly, and
// records & arrays must be the very same map or slice. Children of records
// and arrays are compared the first time they, or HasDifference, are read.
// string changes are calculated the first time they're read. Every lazily
// computed field is cached & safe for concurrent first access.
//
// A key present on only one side, or an index past the end of the shorter
// array, compares against the Missing sentinel, which is distinct from nil.
//
// Flatten turns a record or array diff into a list of (Path, leaf Diff) pairs,
// with paths rendered like $[1][0].word
//
// Values containing cycles are not supported: inspecting their diff recurses
// without end.
package lazydiff
