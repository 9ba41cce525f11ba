package frame

import (
	"fmt"
	"strings"
)

// Predicate decides whether a row is kept by Filter.
type Predicate func(Row) bool

// Comparison operators understood by Where.
const (
	OpEq       = "=="
	OpNe       = "!="
	OpLt       = "<"
	OpLe       = "<="
	OpGt       = ">"
	OpGe       = ">="
	OpContains = "contains"
)

// Where compares a column against operand. Numbers compare by magnitude
// whatever their kind; texts compare lexicographically. A number never equals
// a text, and ordering between them is false. contains tests substrings of
// the rendered cell.
func Where(column, op string, operand Value) (Predicate, error) {
	switch op {
	case OpEq, "=":
		return func(r Row) bool { return looseEqual(r[column], operand) }, nil
	case OpNe:
		return func(r Row) bool { return !looseEqual(r[column], operand) }, nil
	case OpLt, OpLe, OpGt, OpGe:
		return func(r Row) bool {
			c, ok := order(r[column], operand)
			if !ok {
				return false
			}
			switch op {
			case OpLt:
				return c < 0
			case OpLe:
				return c <= 0
			case OpGt:
				return c > 0
			}
			return c >= 0
		}, nil
	case OpContains:
		needle := operand.String()
		return func(r Row) bool {
			v, ok := r[column]
			return ok && strings.Contains(v.String(), needle)
		}, nil
	}
	return nil, fmt.Errorf("%w: unsupported operator %q", ErrBadCondition, op)
}

// looseEqual is Equal, except that Int and Float compare by magnitude.
func looseEqual(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		x, _ := a.Number()
		y, _ := b.Number()
		return x == y
	}
	return Equal(a, b)
}

func order(a, b Value) (int, bool) {
	switch {
	case a.IsNumeric() && b.IsNumeric():
		return Compare(a, b), true
	case a.kind == KindText && b.kind == KindText:
		return strings.Compare(a.s, b.s), true
	}
	return 0, false
}

var conditionOps = []string{OpGe, OpLe, OpNe, OpEq, OpLt, OpGt, "="}

// ParseCondition parses "column<op>value", e.g. "fare>=100", "city==LA" or
// "city contains San". The value is converted with Coerce; wrap it in
// double quotes to force text.
func ParseCondition(s string) (Predicate, error) {
	if i := strings.Index(s, " "+OpContains+" "); i > 0 {
		col := strings.TrimSpace(s[:i])
		val := strings.TrimSpace(s[i+len(OpContains)+2:])
		return Where(col, OpContains, operandValue(val))
	}
	for i := 0; i < len(s); i++ {
		for _, op := range conditionOps {
			if strings.HasPrefix(s[i:], op) {
				col := strings.TrimSpace(s[:i])
				if col == "" {
					return nil, fmt.Errorf("%w: missing column in %q", ErrBadCondition, s)
				}
				return Where(col, op, operandValue(strings.TrimSpace(s[i+len(op):])))
			}
		}
	}
	return nil, fmt.Errorf("%w: no operator in %q", ErrBadCondition, s)
}

func operandValue(s string) Value {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return Text(s[1 : len(s)-1])
	}
	return Coerce(s)
}

// And keeps a row when every predicate does.
func And(ps ...Predicate) Predicate {
	return func(r Row) bool {
		for _, p := range ps {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Or keeps a row when any predicate does.
func Or(ps ...Predicate) Predicate {
	return func(r Row) bool {
		for _, p := range ps {
			if p(r) {
				return true
			}
		}
		return false
	}
}
