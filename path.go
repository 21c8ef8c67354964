package lazydiff

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Addr is a single segment of a Path: either a record key or an array index
type Addr interface {
	// Value returns the underlying string or int
	Value() interface{}
	// String renders the segment the way it appears in a Path
	String() string
	// Eq reports whether two addresses point at the same location
	Eq(b Addr) bool
}

// StringAddr is a record key
type StringAddr string

// Value returns the key as a string
func (a StringAddr) Value() interface{} { return string(a) }

// String renders the key as ".key"
func (a StringAddr) String() string { return "." + string(a) }

// Eq tests for equality with another address
func (a StringAddr) Eq(b Addr) bool {
	s, ok := b.(StringAddr)
	return ok && s == a
}

// IndexAddr is an array index
type IndexAddr int

// Value returns the index as an int
func (a IndexAddr) Value() interface{} { return int(a) }

// String renders the index as "[n]"
func (a IndexAddr) String() string { return "[" + strconv.Itoa(int(a)) + "]" }

// Eq tests for equality with another address
func (a IndexAddr) Eq(b Addr) bool {
	i, ok := b.(IndexAddr)
	return ok && i == a
}

// Path locates a value inside a nested structure as an ordered list of
// addresses. A Path is immutable: every method that combines paths returns a
// new Path. The zero Path is the root, "$"
type Path struct {
	addrs []Addr
}

// NewPath creates a Path from addresses, copying them
func NewPath(addrs ...Addr) Path {
	if len(addrs) == 0 {
		return Path{}
	}
	cp := make([]Addr, len(addrs))
	copy(cp, addrs)
	return Path{addrs: cp}
}

// PathFrom builds a Path from a raw sequence of strings & integers. it fails
// on any other segment type, or a negative index
func PathFrom(segments []interface{}) (Path, error) {
	addrs := make([]Addr, 0, len(segments))
	for i, seg := range segments {
		switch x := seg.(type) {
		case string:
			addrs = append(addrs, StringAddr(x))
		case StringAddr:
			addrs = append(addrs, x)
		case IndexAddr:
			if x < 0 {
				return Path{}, fmt.Errorf("segment %d: negative index %d", i, x)
			}
			addrs = append(addrs, x)
		case int:
			if x < 0 {
				return Path{}, fmt.Errorf("segment %d: negative index %d", i, x)
			}
			addrs = append(addrs, IndexAddr(x))
		case int64:
			if x < 0 {
				return Path{}, fmt.Errorf("segment %d: negative index %d", i, x)
			}
			addrs = append(addrs, IndexAddr(x))
		default:
			return Path{}, fmt.Errorf("segment %d: unsupported path segment type %T", i, seg)
		}
	}
	return Path{addrs: addrs}, nil
}

// Len is the number of segments in the path
func (p Path) Len() int { return len(p.addrs) }

// Addrs returns a copy of the path's segments
func (p Path) Addrs() []Addr {
	cp := make([]Addr, len(p.addrs))
	copy(cp, p.addrs)
	return cp
}

// String renders the path, starting with "$" and adding "[n]" for every index
// and ".key" for every key. eg: $[1][0].word
func (p Path) String() string {
	b := &strings.Builder{}
	b.WriteByte('$')
	for _, a := range p.addrs {
		b.WriteString(a.String())
	}
	return b.String()
}

// Equal reports whether two paths have the same segments in the same order
func (p Path) Equal(b Path) bool {
	if len(p.addrs) != len(b.addrs) {
		return false
	}
	for i, a := range p.addrs {
		if !a.Eq(b.addrs[i]) {
			return false
		}
	}
	return true
}

// Prepend returns a new path with a placed in front of p's segments
func (p Path) Prepend(a Addr) Path {
	addrs := make([]Addr, 0, len(p.addrs)+1)
	addrs = append(addrs, a)
	return Path{addrs: append(addrs, p.addrs...)}
}

// Append returns a new path with a added after p's segments
func (p Path) Append(a Addr) Path {
	addrs := make([]Addr, 0, len(p.addrs)+1)
	addrs = append(addrs, p.addrs...)
	return Path{addrs: append(addrs, a)}
}

// MarshalJSON encodes the path as its rendered string
func (p Path) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
