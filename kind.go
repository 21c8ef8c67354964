package lazydiff

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
)

// Kind defines all of the atoms in our universe, or the kinds of data we
// will encounter while comparing two values
type Kind uint8

const (
	// KindOther is any value outside our universe. compared as an opaque scalar
	KindOther Kind = iota
	// KindMissing is the kind of the Missing sentinel
	KindMissing
	// KindNull is a nil value
	KindNull
	// KindBool is a boolean
	KindBool
	// KindNumber covers every go integer & float type, plus json.Number
	KindNumber
	// KindString is a string
	KindString
	// KindArray is any slice or array
	KindArray
	// KindObject is any map with a string key
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "Missing"
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	default:
		return "Other"
	}
}

type missing struct{}

func (missing) String() string { return "<missing>" }

// MarshalJSON encodes Missing as null
func (missing) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Missing stands in for a value that isn't there: a record key present on
// only one side of a comparison, or an array index past the end of the
// shorter array. Missing is distinct from nil
var Missing interface{} = missing{}

// IsMissing reports whether v is the Missing sentinel
func IsMissing(v interface{}) bool {
	_, ok := v.(missing)
	return ok
}

// kindOf classifies a value. the common decoded-JSON types are switched on
// directly, reflection handles everything else
func kindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case missing:
		return KindMissing
	case bool:
		return KindBool
	case string:
		return KindString
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr, json.Number:
		return KindNumber
	case []interface{}:
		return KindArray
	case map[string]interface{}:
		return KindObject
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}
	}
	return KindOther
}

// sameValue is the identity check that decides between NoDiff and everything
// else. numbers compare numerically with NaN equal to itself & +0 distinct
// from -0, records & arrays compare by reference
func sameValue(a, b interface{}) bool {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case KindMissing, KindNull:
		return true
	case KindBool:
		return reflect.ValueOf(a).Bool() == reflect.ValueOf(b).Bool()
	case KindString:
		return reflect.ValueOf(a).String() == reflect.ValueOf(b).String()
	case KindNumber:
		return sameNumber(a, b)
	case KindObject:
		ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
		return ra.Type() == rb.Type() && ra.Pointer() == rb.Pointer()
	case KindArray:
		return sameArray(reflect.ValueOf(a), reflect.ValueOf(b))
	default:
		// Value.Comparable checks the dynamic contents of interface fields,
		// which == would otherwise panic on
		ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
		if ra.Type() != rb.Type() || !ra.Comparable() || !rb.Comparable() {
			return false
		}
		return a == b
	}
}

// sameArray reports whether two array values share a backing array. go arrays
// (as opposed to slices) are values, and have no identity to share
func sameArray(a, b reflect.Value) bool {
	if a.Kind() != reflect.Slice || b.Kind() != reflect.Slice || a.Type() != b.Type() {
		return false
	}
	// zero-length slices may all point at the same runtime address
	if a.Len() == 0 || a.Len() != b.Len() {
		return false
	}
	return a.Pointer() == b.Pointer()
}

// number is a normalized numeric value. integers stay exact, floats are only
// used when at least one side is a go float
type number struct {
	isFloat bool
	neg     bool // for integers: value is negative & stored in i
	i       int64
	u       uint64
	f       float64

	// a json.Number outside the int64 range, or with a fraction or exponent.
	// dec holds the exact value, f the nearest float64 (±Inf when out of range)
	dec *big.Float
	// a json.Number that doesn't parse as a number at all
	bad bool
	raw string
}

func toNumber(v interface{}) number {
	if n, ok := v.(json.Number); ok {
		return jsonNumber(n)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{u: rv.Uint()}
	default:
		return number{isFloat: true, f: rv.Float()}
	}
}

// decimalPrec is the mantissa size json decimals are parsed with. it is fixed
// so equal values spelled differently round the same way
const decimalPrec = 1024

func jsonNumber(n json.Number) number {
	s := string(n)
	// "-0" parses as the integer 0, losing its sign
	if i, err := n.Int64(); err == nil && !(i == 0 && strings.HasPrefix(s, "-")) {
		return intNumber(i)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return number{bad: true, raw: s}
	}
	dec, _, err := big.ParseFloat(s, 10, decimalPrec, big.ToNearestEven)
	if err != nil {
		return number{bad: true, raw: s}
	}
	return number{f: f, dec: dec, raw: s}
}

func intNumber(i int64) number {
	if i < 0 {
		return number{neg: true, i: i}
	}
	return number{u: uint64(i)}
}

func (n number) float() float64 {
	switch {
	case n.isFloat, n.dec != nil:
		return n.f
	case n.neg:
		return float64(n.i)
	default:
		return float64(n.u)
	}
}

func (n number) bigFloat() *big.Float {
	switch {
	case n.dec != nil:
		return n.dec
	case n.neg:
		return new(big.Float).SetInt64(n.i)
	default:
		return new(big.Float).SetUint64(n.u)
	}
}

// sameNumber compares integers exactly, json decimals against integers or
// each other exactly, and anything involving a go float as float64
func sameNumber(a, b interface{}) bool {
	na, nb := toNumber(a), toNumber(b)
	if na.bad || nb.bad {
		return na.bad && nb.bad && na.raw == nb.raw
	}

	if na.isFloat || nb.isFloat {
		fa, fb := na.float(), nb.float()
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		if fa == 0 && fb == 0 {
			return math.Signbit(fa) == math.Signbit(fb)
		}
		return fa == fb
	}

	if na.dec == nil && nb.dec == nil {
		return na.neg == nb.neg && na.i == nb.i && na.u == nb.u
	}

	ba, bb := na.bigFloat(), nb.bigFloat()
	if ba.Sign() == 0 && bb.Sign() == 0 {
		return ba.Signbit() == bb.Signbit()
	}
	return ba.Cmp(bb) == 0
}
