package frame

import (
	"strconv"
	"strings"
)

// Kind identifies which arm of a Value is populated.
type Kind int

const (
	// KindMissing is an absent value (null). It is the zero Kind.
	KindMissing Kind = iota
	// KindInt is a signed 64-bit integer.
	KindInt
	// KindFloat is a 64-bit float.
	KindFloat
	// KindText is a string.
	KindText
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Value is a single table cell: an integer, a float, a text or missing.
// The zero Value is missing.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Int returns an integer cell.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a float cell.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns a text cell. Text("") is not missing.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Null returns a missing cell.
func Null() Value { return Value{} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsNull() bool     { return v.kind == KindMissing }
func (v Value) IsNumeric() bool  { return v.kind == KindInt || v.kind == KindFloat }
func (v Value) AsInt() int64     { return v.i }
func (v Value) AsFloat() float64 { return v.f }
func (v Value) AsText() string   { return v.s }

// Number returns the numeric content of an Int or Float cell.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// String renders the cell for display. Missing renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindText:
		return v.s
	default:
		return ""
	}
}

// Equal reports whether a and b hold the same kind and content.
// Int(5), Float(5) and Text("5") are pairwise unequal; two missing values are equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindText:
		return a.s == b.s
	default:
		return true
	}
}

// Compare orders values for sorting: missing first, then numbers by magnitude
// (Int and Float compared together), then text lexicographically.
func Compare(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 1:
		x, _ := a.Number()
		y, _ := b.Number()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case 2:
		return strings.Compare(a.s, b.s)
	}
	return 0
}

func rank(v Value) int {
	switch v.kind {
	case KindInt, KindFloat:
		return 1
	case KindText:
		return 2
	}
	return 0
}

// Coerce converts a raw field into a cell. The field is trimmed, then:
// empty text stays Text(""); an all-ASCII-digit string becomes Int; anything
// that parses as a float becomes Float (so "-5" is Float(-5)); the rest is Text.
func Coerce(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Text("")
	}
	if allDigits(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(n)
		}
	}
	if f, ok := parseFloat(s); ok {
		return Float(f)
	}
	return Text(s)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// parseFloat accepts decimal and exponent forms plus nan/inf spellings.
// Hex floats and digit separators are rejected.
func parseFloat(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// out-of-range magnitudes still parse to ±Inf
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}

var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"null": {},
	"NaN":  {},
}

// IsMissingIndicator reports whether v counts as missing for DropMissing:
// a missing cell, or one of the texts "", "NA", "N/A", "null", "NaN".
// Float NaN is a number, not an indicator.
func IsMissingIndicator(v Value) bool {
	switch v.kind {
	case KindMissing:
		return true
	case KindText:
		_, ok := missingTokens[v.s]
		return ok
	}
	return false
}
