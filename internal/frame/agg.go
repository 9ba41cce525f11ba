package frame

import (
	"fmt"
	"sort"
	"strings"
)

// Aggregation operation names accepted by Agg.
const (
	OpSum    = "sum"
	OpMean   = "mean"
	OpCount  = "count"
	OpMin    = "min"
	OpMax    = "max"
	OpMedian = "median"
)

// AggSpec asks for one operation over one column.
type AggSpec struct {
	Column string
	Op     string
}

// Name is the output column name, column_op.
func (s AggSpec) Name() string { return s.Column + "_" + s.Op }

// ParseAggSpec parses "column=op" (also accepts "column:op").
func ParseAggSpec(s string) (AggSpec, error) {
	i := strings.LastIndexAny(s, "=:")
	if i <= 0 || i == len(s)-1 {
		return AggSpec{}, fmt.Errorf("aggregation %q: want column=op", s)
	}
	return AggSpec{Column: strings.TrimSpace(s[:i]), Op: strings.TrimSpace(s[i+1:])}, nil
}

// Agg produces one row per group: the grouping columns carrying the key,
// then one column per spec named column_op. Only Int and Float cells are
// operands; other cells are skipped. With no operands the result is missing,
// except count which yields 0.
//
// The result's column list is the key order of the first produced row, so
// aggregating an empty view gives a table with no columns.
func (g *Grouped) Agg(specs ...AggSpec) (*Table, error) {
	for _, s := range specs {
		if !knownOp(s.Op) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAggregation, s.Op)
		}
	}
	out := &Table{}
	for _, grp := range g.groups {
		row := make(Row, len(g.by)+len(specs))
		var order []string
		put := func(name string, v Value) {
			if _, dup := row[name]; !dup {
				order = append(order, name)
			}
			row[name] = v
		}
		for i, c := range g.by {
			put(c, grp.key.parts[i])
		}
		for _, s := range specs {
			put(s.Name(), aggregate(s.Op, operands(grp.rows, s.Column)))
		}
		if out.columns == nil {
			out.columns = order
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

func knownOp(op string) bool {
	switch op {
	case OpSum, OpMean, OpCount, OpMin, OpMax, OpMedian:
		return true
	}
	return false
}

func operands(rows []Row, col string) []Value {
	var vals []Value
	for _, r := range rows {
		if v := r[col]; v.IsNumeric() {
			vals = append(vals, v)
		}
	}
	return vals
}

func aggregate(op string, vals []Value) Value {
	if op == OpCount {
		return Int(int64(len(vals)))
	}
	if len(vals) == 0 {
		return Null()
	}
	switch op {
	case OpSum:
		return sum(vals)
	case OpMean:
		total, _ := sum(vals).Number()
		return Float(total / float64(len(vals)))
	case OpMin, OpMax:
		best := vals[0]
		for _, v := range vals[1:] {
			c := Compare(v, best)
			if (op == OpMin && c < 0) || (op == OpMax && c > 0) {
				best = v
			}
		}
		return best
	case OpMedian:
		sorted := append([]Value(nil), vals...)
		sort.SliceStable(sorted, func(i, j int) bool { return Compare(sorted[i], sorted[j]) < 0 })
		n := len(sorted)
		mid := n / 2
		if n%2 == 1 {
			return sorted[mid]
		}
		a, _ := sorted[mid-1].Number()
		b, _ := sorted[mid].Number()
		return Float((a + b) / 2)
	}
	return Null()
}

// sum stays integral while every operand is an Int and the total fits in
// an int64; otherwise it is a Float.
func sum(vals []Value) Value {
	var (
		isum  int64
		fsum  float64
		float bool
	)
	for _, v := range vals {
		if v.kind == KindFloat {
			float = true
		}
		n, _ := v.Number()
		fsum += n
		if !float {
			next := isum + v.i
			if (v.i > 0 && next < isum) || (v.i < 0 && next > isum) {
				float = true
			}
			isum = next
		}
	}
	if float {
		return Float(fsum)
	}
	return Int(isum)
}
