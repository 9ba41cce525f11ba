// Package frame is a small in-memory table engine.
//
// A Table is an ordered list of column names plus an ordered list of rows,
// each row a mapping from column name to a typed cell Value. Every operation
// returns a new Table; inputs are never mutated.
//
// Rows are open mappings: a row may hold keys that are not in the column
// list (they are carried along but not displayed) and may lack keys that are
// (projection fills them with empty text). The column list is the schema.
//
// Example:
//
//	t, err := frame.Load("fares.csv")
//	if err != nil {
//	    return err
//	}
//	avg, err := t.DropMissing("city").GroupBy("city").Agg(frame.AggSpec{Column: "fare", Op: "mean"})
package frame

import (
	"fmt"
	"sort"
)

// Row maps column names to cells.
type Row map[string]Value

// Get returns the cell for col and whether the row holds that key.
func (r Row) Get(col string) (Value, bool) {
	v, ok := r[col]
	return v, ok
}

// Clone returns a shallow copy of the row. Values are immutable, so this is
// a full copy.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered column list and an ordered list of rows.
type Table struct {
	columns  []string
	rows     []Row
	warnings []*RowWidthMismatch
}

// New builds a table from columns and rows. Both are copied.
func New(columns []string, rows []Row) *Table {
	t := &Table{columns: append([]string(nil), columns...), rows: make([]Row, len(rows))}
	for i, r := range rows {
		t.rows[i] = r.Clone()
	}
	return t
}

// Columns returns a copy of the column list.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns a copy of row i.
func (t *Table) Row(i int) Row { return t.rows[i].Clone() }

// Rows returns copies of all rows in order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Clone()
	}
	return out
}

// Warnings returns the diagnostics collected while loading.
func (t *Table) Warnings() []*RowWidthMismatch {
	return append([]*RowWidthMismatch(nil), t.warnings...)
}

// HasColumn reports whether name is in the column list.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Select projects the table onto columns, in the order given. A column a row
// lacks is filled with Text("").
//
// Repeated names are kept in the column list, but a row holds one value per
// key, so the repeats share a single cell.
func (t *Table) Select(columns ...string) *Table {
	out := &Table{columns: append([]string(nil), columns...), rows: make([]Row, 0, len(t.rows))}
	for _, r := range t.rows {
		nr := make(Row, len(columns))
		for _, c := range columns {
			if v, ok := r[c]; ok {
				nr[c] = v
			} else {
				nr[c] = Text("")
			}
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

// SelectIndex projects by zero-based position in the current column list.
func (t *Table) SelectIndex(indices ...int) (*Table, error) {
	names := make([]string, len(indices))
	for i, idx := range indices {
		if idx < 0 {
			idx += len(t.columns)
		}
		if idx < 0 || idx >= len(t.columns) {
			return nil, fmt.Errorf("select %d of %d columns: %w", indices[i], len(t.columns), ErrColumnIndex)
		}
		names[i] = t.columns[idx]
	}
	return t.Select(names...), nil
}

// SelectAny accepts names or positions. When every item is an int the items
// are positions; otherwise every item is formatted with fmt.Sprint and used as
// a name, even if it looks numeric.
func (t *Table) SelectAny(items ...any) (*Table, error) {
	indices := make([]int, 0, len(items))
	for _, it := range items {
		n, ok := it.(int)
		if !ok {
			indices = nil
			break
		}
		indices = append(indices, n)
	}
	if indices != nil {
		return t.SelectIndex(indices...)
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = fmt.Sprint(it)
	}
	return t.Select(names...), nil
}

// Filter keeps the rows for which pred returns true, in order. pred receives
// a copy of each row.
func (t *Table) Filter(pred func(Row) bool) *Table {
	out := &Table{columns: t.Columns()}
	for _, r := range t.rows {
		if pred(r.Clone()) {
			out.rows = append(out.rows, r.Clone())
		}
	}
	return out
}

// DropMissing removes rows holding a missing indicator (see IsMissingIndicator)
// in any of columns, or in any table column when columns is empty. A key the
// row lacks counts as missing.
func (t *Table) DropMissing(columns ...string) *Table {
	check := columns
	if len(check) == 0 {
		check = t.columns
	}
	return t.Filter(func(r Row) bool {
		for _, c := range check {
			v, ok := r[c]
			if !ok || IsMissingIndicator(v) {
				return false
			}
		}
		return true
	})
}

// Head returns the first n rows (all rows when n exceeds the length, none
// when n <= 0).
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return New(t.columns, t.rows[:n])
}

// SortKey orders by one column.
type SortKey struct {
	Column string
	Desc   bool
}

// SortBy returns the rows stably sorted by keys using Compare. A key the row
// lacks sorts as missing.
func (t *Table) SortBy(keys ...SortKey) *Table {
	out := New(t.columns, t.rows)
	sort.SliceStable(out.rows, func(i, j int) bool {
		for _, k := range keys {
			c := Compare(out.rows[i][k.Column], out.rows[j][k.Column])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out
}

// WithColumn derives a column from each row. The name is appended to the
// column list unless already present, in which case the values are replaced.
func (t *Table) WithColumn(name string, fn func(Row) Value) *Table {
	out := &Table{columns: t.Columns(), rows: make([]Row, len(t.rows))}
	if !t.HasColumn(name) {
		out.columns = append(out.columns, name)
	}
	for i, r := range t.rows {
		nr := r.Clone()
		nr[name] = fn(r.Clone())
		out.rows[i] = nr
	}
	return out
}

// Rename moves column from to to in both the column list and every row. If
// to already exists in a row it is overwritten by the renamed value.
func (t *Table) Rename(from, to string) *Table {
	out := &Table{columns: t.Columns(), rows: make([]Row, len(t.rows))}
	for i, c := range out.columns {
		if c == from {
			out.columns[i] = to
		}
	}
	for i, r := range t.rows {
		nr := r.Clone()
		if v, ok := nr[from]; ok {
			delete(nr, from)
			nr[to] = v
		}
		out.rows[i] = nr
	}
	return out
}
