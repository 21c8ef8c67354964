package lazydiff

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// StringDiffer produces character-level change segments that turn old into
// new. implementations must be safe to call from multiple goroutines
type StringDiffer interface {
	DiffText(old, new string) []Change
}

// StringDifferFunc adapts a plain function to the StringDiffer interface
type StringDifferFunc func(old, new string) []Change

// DiffText calls f(old, new)
func (f StringDifferFunc) DiffText(old, new string) []Change {
	return f(old, new)
}

// dmpDiffer computes character diffs with the diff-match-patch algorithm
type dmpDiffer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewDMPStringDiffer returns the default StringDiffer, backed by
// diff-match-patch operating on characters (no line mode)
func NewDMPStringDiffer() StringDiffer {
	return dmpDiffer{dmp: diffmatchpatch.New()}
}

func (d dmpDiffer) DiffText(old, new string) []Change {
	diffs := d.dmp.DiffMain(old, new, false)
	changes := make([]Change, 0, len(diffs))
	for _, df := range diffs {
		if df.Text == "" {
			continue
		}
		changes = append(changes, Change{Type: dmpOperation(df.Type), Text: df.Text})
	}
	return changes
}

func dmpOperation(t diffmatchpatch.Operation) Operation {
	switch t {
	case diffmatchpatch.DiffInsert:
		return DTInsert
	case diffmatchpatch.DiffDelete:
		return DTDelete
	default:
		return DTContext
	}
}
