package frame

import (
	"fmt"
	"strings"
)

// JoinType selects which unmatched rows a join keeps.
type JoinType int

const (
	Inner JoinType = iota
	Left
	Right
	Outer
)

func (j JoinType) String() string {
	switch j {
	case Left:
		return "left"
	case Right:
		return "right"
	case Outer:
		return "outer"
	default:
		return "inner"
	}
}

// ParseJoinType accepts inner, left, right and outer (full is an alias of outer).
func ParseJoinType(s string) (JoinType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inner":
		return Inner, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "outer", "full":
		return Outer, nil
	}
	return Inner, fmt.Errorf("%w: %s", ErrUnknownJoin, s)
}

// Join combines t with other on the on columns.
//
// Every row of t is matched against an index of other built once per call.
// A match emits t's row overlaid with the other row, the other side winning
// on shared names; several matches emit several rows. For Left and Outer an
// unmatched t row is emitted with missing cells for other's columns. For
// Right and Outer, other rows whose key never occurs in t follow at the end,
// with missing cells for t's columns.
//
// Keys compare with Equal: Int(5) does not match Float(5) or Text("5").
// The result's columns are t's then other's, without repeats.
func (t *Table) Join(other *Table, on []string, how JoinType) *Table {
	index := make(map[string][]Row)
	for _, r := range other.rows {
		if k, ok := joinKey(r, on); ok {
			index[k] = append(index[k], r)
		}
	}

	out := &Table{columns: mergeColumns(t.columns, other.columns)}
	seen := make(map[string]struct{})
	for _, r := range t.rows {
		k, ok := joinKey(r, on)
		if ok {
			seen[k] = struct{}{}
		}
		if matches := index[k]; ok && len(matches) > 0 {
			for _, m := range matches {
				combined := r.Clone()
				for c, v := range m {
					combined[c] = v
				}
				out.rows = append(out.rows, combined)
			}
			continue
		}
		if how == Left || how == Outer {
			out.rows = append(out.rows, padRow(r, other.columns))
		}
	}

	if how == Right || how == Outer {
		for _, r := range other.rows {
			k, ok := joinKey(r, on)
			if ok {
				if _, hit := seen[k]; hit {
					continue
				}
			}
			out.rows = append(out.rows, padRow(r, t.columns))
		}
	}
	return out
}

func joinKey(r Row, on []string) (string, bool) {
	parts := make([]Value, len(on))
	for i, c := range on {
		parts[i] = r[c]
	}
	return encodeKey(parts)
}

func padRow(r Row, columns []string) Row {
	out := r.Clone()
	for _, c := range columns {
		if _, ok := out[c]; !ok {
			out[c] = Null()
		}
	}
	return out
}

func mergeColumns(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, cols := range [][]string{a, b} {
		for _, c := range cols {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
