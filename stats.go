package lazydiff

// Stats holds statistical metadata about a diff tree
type Stats struct {
	Leaves    int `json:"leaves"`              // count of leaf diffs
	Unchanged int `json:"unchanged,omitempty"` // number of leaves with no difference

	Inserts       int `json:"inserts,omitempty"`       // number of leaves missing on the left
	Deletes       int `json:"deletes,omitempty"`       // number of leaves missing on the right
	Updates       int `json:"updates,omitempty"`       // number of non-string values changed in place
	StringUpdates int `json:"stringUpdates,omitempty"` // number of strings changed in place
}

// CalcStats counts the leaves of a nested diff by how they changed
func CalcStats(n Nested) *Stats {
	st := &Stats{}
	for _, fd := range n.Flat() {
		st.Leaves++
		switch df := fd.Diff.(type) {
		case *NoDiff:
			st.Unchanged++
		case *StringDiff:
			st.StringUpdates++
		case *ValueDiff:
			switch {
			case IsMissing(df.Old()):
				st.Inserts++
			case IsMissing(df.New()):
				st.Deletes++
			default:
				st.Updates++
			}
		}
	}
	return st
}

// NodeChange returns a count of the shift in leaves between left & right trees
func (s Stats) NodeChange() int {
	return s.Inserts - s.Deletes
}

// Changes is the number of leaves that differ in any way
func (s Stats) Changes() int {
	return s.Leaves - s.Unchanged
}
