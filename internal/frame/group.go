package frame

import (
	"math"
	"strconv"
	"strings"
)

// GroupKey identifies one group: the values of the grouping columns, in the
// order they were given.
type GroupKey struct {
	parts []Value
}

// Single returns the bare key value when the view groups by exactly one
// column. Callers branch on this the same way they would on a scalar key
// versus a tuple key.
func (k GroupKey) Single() (Value, bool) {
	if len(k.parts) == 1 {
		return k.parts[0], true
	}
	return Value{}, false
}

// Parts returns the key components.
func (k GroupKey) Parts() []Value { return append([]Value(nil), k.parts...) }

// String joins the rendered components with ", ".
func (k GroupKey) String() string {
	s := make([]string, len(k.parts))
	for i, p := range k.parts {
		s[i] = p.String()
	}
	return strings.Join(s, ", ")
}

type group struct {
	key  GroupKey
	rows []Row
}

// Grouped partitions a table's rows by key. Groups keep the order in which
// their key was first seen; rows keep table order within a group.
type Grouped struct {
	by     []string
	groups []*group
}

// GroupBy partitions the rows by the values of the by columns. A column a
// row lacks contributes a missing component.
func (t *Table) GroupBy(by ...string) *Grouped {
	g := &Grouped{by: append([]string(nil), by...)}
	index := make(map[string]*group)
	for n, r := range t.rows {
		parts := make([]Value, len(by))
		for i, c := range by {
			parts[i] = r[c]
		}
		enc, ok := encodeKey(parts)
		if !ok {
			// NaN never equals another key, so it always opens a fresh group
			enc = "\x00nan" + strconv.Itoa(n)
		}
		grp, seen := index[enc]
		if !seen {
			grp = &group{key: GroupKey{parts: parts}}
			index[enc] = grp
			g.groups = append(g.groups, grp)
		}
		grp.rows = append(grp.rows, r)
	}
	return g
}

// By returns the grouping column names.
func (g *Grouped) By() []string { return append([]string(nil), g.by...) }

// Len returns the number of distinct keys.
func (g *Grouped) Len() int { return len(g.groups) }

// Keys returns the group keys in first-seen order.
func (g *Grouped) Keys() []GroupKey {
	out := make([]GroupKey, len(g.groups))
	for i, grp := range g.groups {
		out[i] = grp.key
	}
	return out
}

// Rows returns copies of the rows of the i-th group.
func (g *Grouped) Rows(i int) []Row {
	out := make([]Row, len(g.groups[i].rows))
	for j, r := range g.groups[i].rows {
		out[j] = r.Clone()
	}
	return out
}

// Size returns the total number of rows across all groups.
func (g *Grouped) Size() int {
	n := 0
	for _, grp := range g.groups {
		n += len(grp.rows)
	}
	return n
}

// encodeKey renders a key tuple so that two tuples encode alike exactly when
// they are pairwise Equal. It reports false when a component is a float NaN,
// which is equal to nothing.
func encodeKey(parts []Value) (string, bool) {
	var b strings.Builder
	for _, p := range parts {
		switch p.kind {
		case KindInt:
			b.WriteString("i")
			b.WriteString(strconv.FormatInt(p.i, 10))
		case KindFloat:
			if math.IsNaN(p.f) {
				return "", false
			}
			f := p.f
			if f == 0 {
				f = 0 // fold -0 into 0
			}
			b.WriteString("f")
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		case KindText:
			b.WriteString("t")
			b.WriteString(strconv.Itoa(len(p.s)))
			b.WriteByte(':')
			b.WriteString(p.s)
		default:
			b.WriteString("n")
		}
		b.WriteByte('|')
	}
	return b.String(), true
}
