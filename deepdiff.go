package lazydiff

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Config are any possible configuration parameters for comparing values
type Config struct {
	// StringDiffer calculates character-level changes for StringDiff nodes.
	// defaults to diff-match-patch
	StringDiffer StringDiffer
	// Logger receives debug entries as lazy parts of a diff tree are
	// calculated. defaults to discarding everything
	Logger logrus.FieldLogger
}

// Option is a function that adjusts a config, zero or more Options can be
// passed to New
type Option func(cfg *Config)

// OptionStringDiffer sets the collaborator used to calculate string changes
func OptionStringDiffer(sd StringDiffer) Option {
	return func(cfg *Config) {
		cfg.StringDiffer = sd
	}
}

// OptionLogger sets a logger for debug output
func OptionLogger(l logrus.FieldLogger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// Differ compares values. A Differ holds no state between comparisons & is
// safe for concurrent use
type Differ struct {
	cfg *Config
	// compare is the function nested diffs use to compare their children.
	// every child comparison goes through it, tests swap it to count calls
	compare func(a, b interface{}) Diff
}

// New creates a Differ
func New(opts ...Option) *Differ {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.StringDiffer == nil {
		cfg.StringDiffer = NewDMPStringDiffer()
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}

	d := &Differ{cfg: cfg}
	d.compare = d.Compare
	return d
}

var defaultDiffer = New()

// Compare compares a & b with the default Differ
func Compare(a, b interface{}) Diff {
	return defaultDiffer.Compare(a, b)
}

// Compare classifies a pair of values & returns the matching Diff. first
// match wins:
//
//  1. a & b are the same value: *NoDiff
//  2. a & b are different kinds: *ValueDiff
//  3. both strings: *StringDiff
//  4. both arrays: *ArrayDiff
//  5. both records: *ObjectDiff
//  6. any other pair of scalars: *ValueDiff
//
// comparison of children in arrays & records is deferred until the returned
// diff is inspected. Compare never fails, but cyclic values are not supported
// and will recurse without end once inspected
func (d *Differ) Compare(a, b interface{}) Diff {
	if sameValue(a, b) {
		return must(NewNoDiff(a, b))
	}

	kind := kindOf(a)
	if kind != kindOf(b) {
		return must(NewValueDiff(a, b))
	}

	switch kind {
	case KindString:
		return must(newStringDiff(a, b, d.cfg.StringDiffer, d.log()))
	case KindArray:
		return &ArrayDiff{d: d, obj1: a, obj2: b}
	case KindObject:
		return &ObjectDiff{d: d, obj1: a, obj2: b}
	default:
		return must(NewValueDiff(a, b))
	}
}

func (d *Differ) log() logrus.FieldLogger {
	return d.cfg.Logger
}

// must panics on invariant errors. Compare checks every precondition before
// constructing a diff, so a panic here is a bug in Compare
func must[T Diff](df T, err error) Diff {
	if err != nil {
		panic(err)
	}
	return df
}
