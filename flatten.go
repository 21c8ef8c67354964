package lazydiff

import "encoding/json"

// FlatDiff pairs a leaf diff with its location
type FlatDiff struct {
	Path Path
	Diff Diff
}

// MarshalJSON encodes a flat diff as a compact [path, type, old, new] array.
// NoDiff leaves encode their single value as both old & new. Flatten only
// produces leaves, so nested diffs are not encoded
func (f FlatDiff) MarshalJSON() ([]byte, error) {
	var old, new interface{}
	switch df := f.Diff.(type) {
	case *NoDiff:
		old, new = df.Value(), df.Value()
	case *StringDiff:
		old, new = df.Old(), df.New()
	case *ValueDiff:
		old, new = df.Old(), df.New()
	}
	return json.Marshal([]interface{}{f.Path.String(), f.Diff.Type().String(), old, new})
}

// Flatten lists every leaf beneath n exactly once, each tagged with its full
// path from n. record keys are visited in sorted order & array indexes in
// order, descending depth-first into nested records & arrays. the result is
// cached on n
func Flatten(n Nested) []FlatDiff {
	return n.Flat()
}

func flatten(n Nested) []FlatDiff {
	var flat []FlatDiff
	n.each(func(a Addr, child Diff) {
		if nested, ok := child.(Nested); ok {
			for _, fd := range nested.Flat() {
				flat = append(flat, FlatDiff{Path: fd.Path.Prepend(a), Diff: fd.Diff})
			}
			return
		}
		flat = append(flat, FlatDiff{Path: NewPath(a), Diff: child})
	})
	return flat
}

// Changed filters a flattened list down to the leaves that differ, keeping
// their order
func Changed(flat []FlatDiff) []FlatDiff {
	var changed []FlatDiff
	for _, fd := range flat {
		if fd.Diff.HasDifference() {
			changed = append(changed, fd)
		}
	}
	return changed
}

// Walk visits n & every diff beneath it in top-down (prefix) order, using the
// same ordering as Flatten. the root is visited with the empty path. if fn
// returns false the children of that diff are skipped
func Walk(n Nested, fn func(p Path, d Diff) bool) {
	walk(n, Path{}, fn)
}

func walk(d Diff, p Path, fn func(p Path, d Diff) bool) {
	kontinue := fn(p, d)
	if nested, ok := d.(Nested); kontinue && ok {
		nested.each(func(a Addr, child Diff) {
			walk(child, p.Append(a), fn)
		})
	}
}
