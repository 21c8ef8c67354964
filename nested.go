package lazydiff

import (
	"reflect"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Nested is a Diff with children: *ObjectDiff or *ArrayDiff
type Nested interface {
	Diff
	// Old is the left-hand container, exactly as passed to Compare
	Old() interface{}
	// New is the right-hand container, exactly as passed to Compare
	New() interface{}
	// Flat lists every leaf beneath this node with its path, see Flatten
	Flat() []FlatDiff

	// each calls fn for every child in flattening order
	each(fn func(a Addr, child Diff))
}

// ObjectDiff compares two records key-by-key. Children are calculated on
// first access, and HasDifference counts as an access
type ObjectDiff struct {
	d        *Differ
	obj1     interface{}
	obj2     interface{}
	once     sync.Once
	diff     bool
	keys     []string
	children map[string]Diff

	flatOnce sync.Once
	flat     []FlatDiff
}

// Type returns DiffTypeObject
func (o *ObjectDiff) Type() DiffType { return DiffTypeObject }

// Old is the left-hand record
func (o *ObjectDiff) Old() interface{} { return o.obj1 }

// New is the right-hand record
func (o *ObjectDiff) New() interface{} { return o.obj2 }

// HasDifference is true if any child differs
func (o *ObjectDiff) HasDifference() bool {
	o.once.Do(o.calc)
	return o.diff
}

// Children maps every key present in either record to the diff of its
// values. A key present on only one side is compared against Missing. The
// returned map is shared & must not be modified
func (o *ObjectDiff) Children() map[string]Diff {
	o.once.Do(o.calc)
	return o.children
}

// Keys lists the keys of Children in sorted order
func (o *ObjectDiff) Keys() []string {
	o.once.Do(o.calc)
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Flat lists every leaf beneath this node, see Flatten
func (o *ObjectDiff) Flat() []FlatDiff {
	o.flatOnce.Do(func() { o.flat = flatten(o) })
	return o.flat
}

func (o *ObjectDiff) isDiff() {}

func (o *ObjectDiff) each(fn func(a Addr, child Diff)) {
	o.once.Do(o.calc)
	for _, key := range o.keys {
		fn(StringAddr(key), o.children[key])
	}
}

func (o *ObjectDiff) calc() {
	m1, m2 := recordEntries(o.obj1), recordEntries(o.obj2)

	o.children = make(map[string]Diff, len(m1))
	for key, v1 := range m1 {
		v2, ok := m2[key]
		if !ok {
			v2 = Missing
		}
		o.add(key, o.d.compare(v1, v2))
	}
	for key, v2 := range m2 {
		if _, ok := m1[key]; !ok {
			o.add(key, o.d.compare(Missing, v2))
		}
	}
	sort.Strings(o.keys)

	o.d.log().WithFields(logrus.Fields{
		"kind":     DiffTypeObject,
		"children": len(o.keys),
		"changed":  o.diff,
	}).Debug("computed nested diff")
}

func (o *ObjectDiff) add(key string, df Diff) {
	o.keys = append(o.keys, key)
	o.children[key] = df
	if df.HasDifference() {
		o.diff = true
	}
}

// recordEntries lists the entries of a KindObject value
func recordEntries(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}

	rv := reflect.ValueOf(v)
	m := make(map[string]interface{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m
}

// ArrayDiff compares two arrays index-by-index. Children are calculated on
// first access, and HasDifference counts as an access
type ArrayDiff struct {
	d        *Differ
	obj1     interface{}
	obj2     interface{}
	once     sync.Once
	diff     bool
	children []Diff

	flatOnce sync.Once
	flat     []FlatDiff
}

// Type returns DiffTypeArray
func (a *ArrayDiff) Type() DiffType { return DiffTypeArray }

// Old is the left-hand array
func (a *ArrayDiff) Old() interface{} { return a.obj1 }

// New is the right-hand array
func (a *ArrayDiff) New() interface{} { return a.obj2 }

// HasDifference is true if any child differs
func (a *ArrayDiff) HasDifference() bool {
	a.once.Do(a.calc)
	return a.diff
}

// Children holds one diff per index up to the length of the longer array.
// Indexes past the end of the shorter array are compared against Missing. The
// returned slice is shared & must not be modified
func (a *ArrayDiff) Children() []Diff {
	a.once.Do(a.calc)
	return a.children
}

// Flat lists every leaf beneath this node, see Flatten
func (a *ArrayDiff) Flat() []FlatDiff {
	a.flatOnce.Do(func() { a.flat = flatten(a) })
	return a.flat
}

func (a *ArrayDiff) isDiff() {}

func (a *ArrayDiff) each(fn func(addr Addr, child Diff)) {
	a.once.Do(a.calc)
	for i, ch := range a.children {
		fn(IndexAddr(i), ch)
	}
}

func (a *ArrayDiff) calc() {
	l1, at1 := arrayElems(a.obj1)
	l2, at2 := arrayElems(a.obj2)
	n := max(l1, l2)

	a.children = make([]Diff, n)
	for i := 0; i < n; i++ {
		v1, v2 := Missing, Missing
		if i < l1 {
			v1 = at1(i)
		}
		if i < l2 {
			v2 = at2(i)
		}
		df := a.d.compare(v1, v2)
		a.children[i] = df
		if df.HasDifference() {
			a.diff = true
		}
	}

	a.d.log().WithFields(logrus.Fields{
		"kind":     DiffTypeArray,
		"children": n,
		"changed":  a.diff,
	}).Debug("computed nested diff")
}

// arrayElems returns the length of a KindArray value & an accessor for its
// elements
func arrayElems(v interface{}) (int, func(i int) interface{}) {
	if s, ok := v.([]interface{}); ok {
		return len(s), func(i int) interface{} { return s[i] }
	}

	rv := reflect.ValueOf(v)
	return rv.Len(), func(i int) interface{} { return rv.Index(i).Interface() }
}
