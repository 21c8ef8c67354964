package lazydiff

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrInvariant is returned when a Diff is constructed for values that don't
// satisfy its precondition: a NoDiff for values that aren't the same, or a
// ValueDiff for values that are
var ErrInvariant = errors.New("diff invariant violated")

// DiffType tags each of the closed set of Diff implementations
type DiffType uint8

const (
	// DiffTypeNone is a *NoDiff
	DiffTypeNone DiffType = iota
	// DiffTypeValue is a *ValueDiff
	DiffTypeValue
	// DiffTypeString is a *StringDiff
	DiffTypeString
	// DiffTypeObject is an *ObjectDiff
	DiffTypeObject
	// DiffTypeArray is an *ArrayDiff
	DiffTypeArray
)

func (t DiffType) String() string {
	switch t {
	case DiffTypeNone:
		return "NoDiff"
	case DiffTypeValue:
		return "ValueDiff"
	case DiffTypeString:
		return "StringDiff"
	case DiffTypeObject:
		return "ObjectDiff"
	case DiffTypeArray:
		return "ArrayDiff"
	default:
		return fmt.Sprintf("DiffType(%d)", uint8(t))
	}
}

// Diff describes how two values compare at one location. The set of
// implementations is closed: *NoDiff, *ValueDiff, *StringDiff, *ObjectDiff
// and *ArrayDiff. Switch on the concrete type, or on Type()
type Diff interface {
	// Type returns the tag of the concrete implementation
	Type() DiffType
	// HasDifference is true if the compared values differ anywhere
	HasDifference() bool

	isDiff()
}

// IsLeaf reports whether d has no children, which holds for every Diff
// except *ObjectDiff & *ArrayDiff
func IsLeaf(d Diff) bool {
	switch d.(type) {
	case *ObjectDiff, *ArrayDiff:
		return false
	default:
		return true
	}
}

// NoDiff is the result of comparing a value with itself
type NoDiff struct {
	value interface{}
}

// NewNoDiff creates a NoDiff, returning an error wrapping ErrInvariant if a &
// b are not the same value
func NewNoDiff(a, b interface{}) (*NoDiff, error) {
	if !sameValue(a, b) {
		return nil, fmt.Errorf("no diff for %v and %v: values are not the same: %w", a, b, ErrInvariant)
	}
	return &NoDiff{value: a}, nil
}

// Type returns DiffTypeNone
func (d *NoDiff) Type() DiffType { return DiffTypeNone }

// HasDifference is always false
func (d *NoDiff) HasDifference() bool { return false }

// Value is the value both sides share
func (d *NoDiff) Value() interface{} { return d.value }

func (d *NoDiff) isDiff() {}

// ValueDiff records two values that differ & can't be compared structurally,
// either because they're different kinds or because they're scalars
type ValueDiff struct {
	old, new interface{}
}

// NewValueDiff creates a ValueDiff, returning an error wrapping ErrInvariant if
// a & b are the same value
func NewValueDiff(a, b interface{}) (*ValueDiff, error) {
	if sameValue(a, b) {
		return nil, fmt.Errorf("value diff for %v: values are the same: %w", a, ErrInvariant)
	}
	return &ValueDiff{old: a, new: b}, nil
}

// Type returns DiffTypeValue
func (d *ValueDiff) Type() DiffType { return DiffTypeValue }

// HasDifference is always true
func (d *ValueDiff) HasDifference() bool { return true }

// Old is the left-hand value, exactly as passed to Compare
func (d *ValueDiff) Old() interface{} { return d.old }

// New is the right-hand value, exactly as passed to Compare
func (d *ValueDiff) New() interface{} { return d.new }

func (d *ValueDiff) isDiff() {}

// StringDiff is a ValueDiff between two strings that can also describe the
// character-level changes from Old to New
type StringDiff struct {
	ValueDiff
	oldStr, newStr string
	sd             StringDiffer
	log            logrus.FieldLogger

	once    sync.Once
	changes []Change
}

// newStringDiff expects two KindString values. a & b are kept verbatim, named
// string types included
func newStringDiff(a, b interface{}, sd StringDiffer, log logrus.FieldLogger) (*StringDiff, error) {
	as, bs := reflect.ValueOf(a).String(), reflect.ValueOf(b).String()
	if as == bs {
		return nil, fmt.Errorf("string diff for %q: values are the same: %w", as, ErrInvariant)
	}
	return &StringDiff{
		ValueDiff: ValueDiff{old: a, new: b},
		oldStr:    as,
		newStr:    bs,
		sd:        sd,
		log:       log,
	}, nil
}

// Type returns DiffTypeString
func (d *StringDiff) Type() DiffType { return DiffTypeString }

// OldString is Old as a string
func (d *StringDiff) OldString() string { return d.oldStr }

// NewString is New as a string
func (d *StringDiff) NewString() string { return d.newStr }

// Changes lists the character-level segments that turn Old into New. They're
// calculated on first call & cached
func (d *StringDiff) Changes() []Change {
	d.once.Do(func() {
		d.changes = d.sd.DiffText(d.OldString(), d.NewString())
		d.log.WithFields(logrus.Fields{
			"kind":     DiffTypeString,
			"segments": len(d.changes),
		}).Debug("computed string changes")
	})
	return d.changes
}
