package lazydiff

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func mustJSON(t *testing.T, data string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestCompareClassification(t *testing.T) {
	negZero := math.Copysign(0, -1)
	same := map[string]interface{}{"a": 1.0}
	sameArr := []interface{}{"a"}

	cases := []struct {
		description string
		a, b        interface{}
		expect      DiffType
		diff        bool
	}{
		{"nil nil", nil, nil, DiffTypeNone, false},
		{"missing missing", Missing, Missing, DiffTypeNone, false},
		{"equal numbers", 1.0, 1.0, DiffTypeNone, false},
		{"equal empty strings", "", "", DiffTypeNone, false},
		{"equal bools", true, true, DiffTypeNone, false},
		{"NaN NaN", math.NaN(), math.NaN(), DiffTypeNone, false},
		{"+0 -0", 0.0, negZero, DiffTypeValue, true},
		{"same record", same, same, DiffTypeNone, false},
		{"same array", sameArr, sameArr, DiffTypeNone, false},
		{"different numbers", 1.0, 2.0, DiffTypeValue, true},
		{"different bools", true, false, DiffTypeValue, true},
		{"number string", 1.0, "1", DiffTypeValue, true},
		{"nil number", nil, 1.0, DiffTypeValue, true},
		{"number nil", 1.0, nil, DiffTypeValue, true},
		{"nil missing", nil, Missing, DiffTypeValue, true},
		{"array record", []interface{}{}, map[string]interface{}{}, DiffTypeValue, true},
		{"record array", map[string]interface{}{}, []interface{}{}, DiffTypeValue, true},
		{"nil record", nil, map[string]interface{}{}, DiffTypeValue, true},
		{"strings", "a", "b", DiffTypeString, true},
		{"empty records", map[string]interface{}{}, map[string]interface{}{}, DiffTypeObject, false},
		{"empty arrays", []interface{}{}, []interface{}{}, DiffTypeArray, false},
		{"equal records", map[string]interface{}{"a": 1.0}, map[string]interface{}{"a": 1.0}, DiffTypeObject, false},
		{"records", map[string]interface{}{"a": 1.0}, map[string]interface{}{"a": 2.0}, DiffTypeObject, true},
		{"arrays", []interface{}{1.0}, []interface{}{1.0, 2.0}, DiffTypeArray, true},
		{"typed slices", []string{"a"}, []string{"a"}, DiffTypeArray, false},
		{"typed maps", map[string]int{"a": 1}, map[string]int{"a": 2}, DiffTypeObject, true},
		{"int map key is not a record", map[int]int{}, map[int]int{}, DiffTypeValue, true},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			got := Compare(c.a, c.b)
			if got.Type() != c.expect {
				t.Errorf("type mismatch. want: %s. got: %s", c.expect, got.Type())
			}
			if got.HasDifference() != c.diff {
				t.Errorf("HasDifference mismatch. want: %t. got: %t", c.diff, got.HasDifference())
			}
		})
	}
}

func TestCompareIncomparableOther(t *testing.T) {
	type box struct{ X interface{} }
	a := box{X: []int{1}}

	got := Compare(a, a)
	if got.Type() != DiffTypeValue {
		t.Errorf("expected ValueDiff, got %s", got.Type())
	}
	od := Compare(map[string]interface{}{"a": a}, map[string]interface{}{"a": a}).(*ObjectDiff)
	if !od.HasDifference() {
		t.Error("expected a difference")
	}
}

func TestCompareJSONNumbers(t *testing.T) {
	decode := func(data string) interface{} {
		dec := json.NewDecoder(strings.NewReader(data))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			t.Fatal(err)
		}
		return v
	}

	cases := []struct {
		description string
		src, dst    string
		diff        bool
	}{
		{"big ints", `{"n": 12345678901234567890123}`, `{"n": 12345678901234567890124}`, true},
		{"equal big ints", `{"n": 12345678901234567890123}`, `{"n": 12345678901234567890123}`, false},
		{"overflow", `{"n": [1e400]}`, `{"n": [-1e400]}`, true},
		{"equal overflow", `{"n": [1e400]}`, `{"n": [1e400]}`, false},
		{"fractions", `{"n": 1.5}`, `{"n": 1.50}`, false},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			got := Compare(decode(c.src), decode(c.dst))
			if got.HasDifference() != c.diff {
				t.Errorf("HasDifference mismatch. want: %t. got: %t", c.diff, got.HasDifference())
			}
		})
	}
}

func TestCompareKindMismatchKeepsOriginals(t *testing.T) {
	a := []interface{}{}
	b := map[string]interface{}{}

	vd, ok := Compare(a, b).(*ValueDiff)
	if !ok {
		t.Fatalf("expected *ValueDiff, got %T", Compare(a, b))
	}
	if reflect.ValueOf(vd.Old()).Pointer() != reflect.ValueOf(a).Pointer() {
		t.Error("expected Old to be the original array")
	}
	if reflect.ValueOf(vd.New()).Pointer() != reflect.ValueOf(b).Pointer() {
		t.Error("expected New to be the original record")
	}
}

func TestCompareMixedKinds(t *testing.T) {
	vals := []interface{}{
		"afaerg", 3.25, nil, Missing, map[string]interface{}{}, []interface{}{}, "ñlaieurgnv", true,
	}

	for _, a := range vals {
		for _, b := range vals {
			got := Compare(a, b)
			switch {
			case sameValue(a, b):
				if _, ok := got.(*NoDiff); !ok {
					t.Errorf("Compare(%v, %v): expected *NoDiff, got %T", a, b, got)
				}
			case kindOf(a) != kindOf(b):
				if _, ok := got.(*ValueDiff); !ok {
					t.Errorf("Compare(%v, %v): expected *ValueDiff, got %T", a, b, got)
				}
				if !got.HasDifference() {
					t.Errorf("Compare(%v, %v): expected a difference", a, b)
				}
			case kindOf(a) == KindArray:
				if _, ok := got.(*ArrayDiff); !ok {
					t.Errorf("Compare(%v, %v): expected *ArrayDiff, got %T", a, b, got)
				}
			case kindOf(a) == KindObject:
				if _, ok := got.(*ObjectDiff); !ok {
					t.Errorf("Compare(%v, %v): expected *ObjectDiff, got %T", a, b, got)
				}
			case kindOf(a) == KindString:
				if _, ok := got.(*StringDiff); !ok {
					t.Errorf("Compare(%v, %v): expected *StringDiff, got %T", a, b, got)
				}
			}
		}
	}
}

func TestCompareString(t *testing.T) {
	got, ok := Compare("a", "b").(*StringDiff)
	if !ok {
		t.Fatalf("expected *StringDiff, got %T", Compare("a", "b"))
	}
	if !got.HasDifference() {
		t.Error("expected a difference")
	}
	if got.Old() != "a" || got.New() != "b" {
		t.Errorf("old & new mismatch. want: a, b. got: %v, %v", got.Old(), got.New())
	}
	if len(got.Changes()) == 0 {
		t.Error("expected string changes")
	}
}

func TestCompareNamedString(t *testing.T) {
	type name string
	got, ok := Compare(name("a"), name("b")).(*StringDiff)
	if !ok {
		t.Fatalf("expected *StringDiff, got %T", Compare(name("a"), name("b")))
	}
	if got.Old() != name("a") {
		t.Errorf("expected Old to keep its type, got %T", got.Old())
	}
	if got.OldString() != "a" || got.NewString() != "b" {
		t.Errorf("string mismatch. want: a, b. got: %s, %s", got.OldString(), got.NewString())
	}
}

func TestEmptyContainers(t *testing.T) {
	od, ok := Compare(map[string]interface{}{}, map[string]interface{}{}).(*ObjectDiff)
	if !ok {
		t.Fatal("expected *ObjectDiff")
	}
	if od.HasDifference() {
		t.Error("expected no difference")
	}
	if len(od.Children()) != 0 {
		t.Errorf("expected no children, got %d", len(od.Children()))
	}

	ad, ok := Compare([]interface{}{}, []interface{}{}).(*ArrayDiff)
	if !ok {
		t.Fatal("expected *ArrayDiff")
	}
	if ad.HasDifference() {
		t.Error("expected no difference")
	}
	if len(ad.Children()) != 0 {
		t.Errorf("expected no children, got %d", len(ad.Children()))
	}
}

func TestInvariantErrors(t *testing.T) {
	if _, err := NewNoDiff(1.0, 2.0); !errors.Is(err, ErrInvariant) {
		t.Errorf("NewNoDiff of distinct values: expected ErrInvariant, got: %v", err)
	}
	if _, err := NewNoDiff(map[string]interface{}{}, map[string]interface{}{}); !errors.Is(err, ErrInvariant) {
		t.Errorf("NewNoDiff of distinct records: expected ErrInvariant, got: %v", err)
	}
	if _, err := NewValueDiff("a", "a"); !errors.Is(err, ErrInvariant) {
		t.Errorf("NewValueDiff of same values: expected ErrInvariant, got: %v", err)
	}
	if _, err := NewValueDiff(Missing, Missing); !errors.Is(err, ErrInvariant) {
		t.Errorf("NewValueDiff of Missing: expected ErrInvariant, got: %v", err)
	}

	nd, err := NewNoDiff(math.NaN(), math.NaN())
	if err != nil {
		t.Fatalf("NewNoDiff(NaN, NaN): unexpected error: %s", err)
	}
	if !math.IsNaN(nd.Value().(float64)) {
		t.Errorf("expected NaN value, got %v", nd.Value())
	}
	if _, err := NewValueDiff(0.0, math.Copysign(0, -1)); err != nil {
		t.Errorf("NewValueDiff(+0, -0): unexpected error: %s", err)
	}
}

func TestRecordChildren(t *testing.T) {
	a := mustJSON(t, `{"a": 1, "b": [1, 2], "c": null}`)
	b := mustJSON(t, `{"a": 1, "b": [1, 3], "d": null}`)

	od := Compare(a, b).(*ObjectDiff)
	if !od.HasDifference() {
		t.Error("expected a difference")
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, od.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	ch := od.Children()
	if ch["a"].Type() != DiffTypeNone {
		t.Errorf("a: expected NoDiff, got %s", ch["a"].Type())
	}
	if ch["b"].Type() != DiffTypeArray || !ch["b"].HasDifference() {
		t.Errorf("b: expected a changed ArrayDiff, got %s", ch["b"].Type())
	}
	if vd := ch["c"].(*ValueDiff); vd.Old() != nil || !IsMissing(vd.New()) {
		t.Errorf("c: expected nil -> Missing, got %v -> %v", vd.Old(), vd.New())
	}
	if vd := ch["d"].(*ValueDiff); !IsMissing(vd.Old()) || vd.New() != nil {
		t.Errorf("d: expected Missing -> nil, got %v -> %v", vd.Old(), vd.New())
	}
}

func TestArrayChildren(t *testing.T) {
	ad := Compare([]interface{}{1.0, 2.0, 3.0}, []interface{}{1.0, 4.0}).(*ArrayDiff)
	ch := ad.Children()
	if len(ch) != 3 {
		t.Fatalf("expected 3 children, got %d", len(ch))
	}
	expect := []DiffType{DiffTypeNone, DiffTypeValue, DiffTypeValue}
	for i, df := range ch {
		if df.Type() != expect[i] {
			t.Errorf("index %d: expected %s, got %s", i, expect[i], df.Type())
		}
	}
	if last := ch[2].(*ValueDiff); last.Old() != 3.0 || !IsMissing(last.New()) {
		t.Errorf("index 2: expected 3 -> Missing, got %v -> %v", last.Old(), last.New())
	}
}

func TestSubSliceIsNotSameArray(t *testing.T) {
	s := []interface{}{1.0, 2.0, 3.0}
	ad, ok := Compare(s, s[:2]).(*ArrayDiff)
	if !ok {
		t.Fatalf("expected *ArrayDiff, got %T", Compare(s, s[:2]))
	}
	if !ad.HasDifference() {
		t.Error("expected a difference")
	}
}

// countingDiffer counts every call nested diffs make to compare their
// children
func countingDiffer(opts ...Option) (*Differ, *int64) {
	var calls int64
	d := New(opts...)
	d.compare = func(a, b interface{}) Diff {
		atomic.AddInt64(&calls, 1)
		return d.Compare(a, b)
	}
	return d, &calls
}

func TestNestedMemoization(t *testing.T) {
	obj1 := mustJSON(t, `{"a": "hello", "c": "hello", "d": [{"word": "hello"}]}`)
	obj2 := mustJSON(t, `{"b": "world", "c": "world", "d": [{"word": "world"}]}`)

	d, calls := countingDiffer()
	od := d.Compare(obj1, obj2).(*ObjectDiff)
	if *calls != 0 {
		t.Fatalf("expected Compare to defer child comparison, got %d calls", *calls)
	}

	if !od.HasDifference() {
		t.Error("expected a difference")
	}
	// a, b, c, d at the top level, d[0], and d[0].word
	if *calls != 6 {
		t.Errorf("expected 6 compare calls, got %d", *calls)
	}

	first := od.Children()
	od.HasDifference()
	od.Keys()
	second := od.Children()
	if diff := cmp.Diff(first, second, cmp.Comparer(func(a, b Diff) bool { return a == b })); diff != "" {
		t.Errorf("children mismatch (-first +second):\n%s", diff)
	}

	f1 := od.Flat()
	f2 := Flatten(od)
	if len(f1) != 4 || &f1[0] != &f2[0] {
		t.Error("expected flattened list to be cached")
	}
	if *calls != 6 {
		t.Errorf("expected repeat reads not to compare, got %d compare calls", *calls)
	}
}

func TestArrayMemoization(t *testing.T) {
	d, calls := countingDiffer()
	ad := d.Compare([]interface{}{1.0, 2.0}, []interface{}{1.0}).(*ArrayDiff)

	ad.Children()
	if *calls != 2 {
		t.Errorf("expected 2 compare calls, got %d", *calls)
	}
	ad.HasDifference()
	ad.Children()
	ad.Flat()
	ad.Flat()
	if *calls != 2 {
		t.Errorf("expected repeat reads not to compare, got %d compare calls", *calls)
	}
}

func TestConcurrentFirstAccess(t *testing.T) {
	obj1 := mustJSON(t, `{"a": [1, 2, {"b": "c"}], "d": {"e": "f"}}`)
	obj2 := mustJSON(t, `{"a": [1, 3, {"b": "x"}], "d": {"e": "g"}, "h": true}`)

	d, calls := countingDiffer()
	od := d.Compare(obj1, obj2).(*ObjectDiff)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				od.Children()
			case 1:
				od.HasDifference()
			default:
				od.Flat()
			}
		}(i)
	}
	wg.Wait()

	// a, d, h; a[0..2]; a[2].b; d.e
	if got := atomic.LoadInt64(calls); got != 8 {
		t.Errorf("expected 8 compare calls, got %d", got)
	}
	if len(od.Flat()) != 5 {
		t.Errorf("expected 5 leaves, got %d", len(od.Flat()))
	}
}

func TestOptionLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	d := New(OptionLogger(logger))
	od := d.Compare(
		map[string]interface{}{"a": "x"},
		map[string]interface{}{"a": "y"},
	).(*ObjectDiff)
	od.HasDifference()
	od.Children()["a"].(*StringDiff).Changes()

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Message != "computed nested diff" {
		t.Errorf("unexpected message: %q", entries[0].Message)
	}
	if entries[0].Data["children"] != 1 || entries[0].Data["changed"] != true {
		t.Errorf("unexpected fields: %v", entries[0].Data)
	}
	if entries[1].Message != "computed string changes" {
		t.Errorf("unexpected message: %q", entries[1].Message)
	}
}
