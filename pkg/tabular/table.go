// Package tabular provides the in-memory table type that synchronization
// operates on: ordered named columns of nullable string cells with row-wise
// relational operations (select, filter, join, concat, group-and-aggregate).
//
// Tables are deterministic: rows keep stable input order, joins emit rows in
// left-table order, and grouping visits keys in first-seen order. The dedup
// tie-break "first non-null wins" is therefore stable input order.
package tabular

import (
	"fmt"

	"github.com/sportsync/rosetta/pkg/errors"
)

// Value is a nullable string cell. The zero value is null.
type Value struct {
	str   string
	valid bool
}

// String creates a non-null cell holding s.
func String(s string) Value {
	return Value{str: s, valid: true}
}

// Null returns a null cell.
func Null() Value {
	return Value{}
}

// IsNull reports whether the cell is null.
func (v Value) IsNull() bool {
	return !v.valid
}

// String returns the cell's contents, or the empty string for null cells.
func (v Value) String() string {
	return v.str
}

// Equal reports whether both cells are non-null and hold the same string.
// A null cell never equals anything, including another null cell.
func (v Value) Equal(o Value) bool {
	return v.valid && o.valid && v.str == o.str
}

// Table is an ordered collection of named columns of nullable string cells.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]Value
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	t := &Table{
		cols:  append([]string(nil), columns...),
		index: make(map[string]int, len(columns)),
	}
	for i, c := range t.cols {
		t.index[c] = i
	}
	return t
}

// FromStringRows builds a table from raw string rows, treating empty strings
// as null cells. Rows shorter than the column list are padded with nulls.
func FromStringRows(columns []string, rows [][]string) *Table {
	t := New(columns...)
	for _, r := range rows {
		cells := make([]Value, len(columns))
		for i := range columns {
			if i < len(r) && r[i] != "" {
				cells[i] = String(r[i])
			}
		}
		t.rows = append(t.rows, cells)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Value returns the cell at row i in the named column.
// Missing columns read as null.
func (t *Table) Value(i int, column string) Value {
	ci, ok := t.index[column]
	if !ok {
		return Null()
	}
	return t.rows[i][ci]
}

// SetValue overwrites the cell at row i in the named column.
func (t *Table) SetValue(i int, column string, v Value) error {
	ci, ok := t.index[column]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrColumnNotFound, column)
	}
	t.rows[i][ci] = v
	return nil
}

// EnsureColumn adds the named column filled with nulls if it does not
// already exist.
func (t *Table) EnsureColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], Null())
	}
}

// AppendRow adds a row from a column-to-cell map. Columns absent from the
// map are filled with nulls; unknown map keys are an error.
func (t *Table) AppendRow(cells map[string]Value) error {
	row := make([]Value, len(t.cols))
	for name, v := range cells {
		ci, ok := t.index[name]
		if !ok {
			return fmt.Errorf("%w: %s", errors.ErrColumnNotFound, name)
		}
		row[ci] = v
	}
	t.rows = append(t.rows, row)
	return nil
}

// Rename renames a column in place. Renaming a missing column is an error;
// renaming onto an existing column is an error.
func (t *Table) Rename(from, to string) error {
	ci, ok := t.index[from]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrColumnNotFound, from)
	}
	if t.HasColumn(to) {
		return errors.NewValidationError("column", to, "rename target already exists")
	}
	t.cols[ci] = to
	delete(t.index, from)
	t.index[to] = ci
	return nil
}

// DropColumns removes the named columns. Missing names are ignored.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := make([]string, 0, len(t.cols))
	keptIdx := make([]int, 0, len(t.cols))
	for i, c := range t.cols {
		if !drop[c] {
			kept = append(kept, c)
			keptIdx = append(keptIdx, i)
		}
	}
	if len(kept) == len(t.cols) {
		return
	}
	rows := make([][]Value, len(t.rows))
	for ri, row := range t.rows {
		nr := make([]Value, len(kept))
		for j, ci := range keptIdx {
			nr[j] = row[ci]
		}
		rows[ri] = nr
	}
	t.cols = kept
	t.rows = rows
	t.index = make(map[string]int, len(kept))
	for i, c := range kept {
		t.index[c] = i
	}
}

// Select returns a new table holding only the named columns, in the given
// order. Selecting a missing column is an error.
func (t *Table) Select(columns ...string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		ci, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("%w: %s", errors.ErrColumnNotFound, c)
		}
		idx[i] = ci
	}
	out := New(columns...)
	out.rows = make([][]Value, len(t.rows))
	for ri, row := range t.rows {
		nr := make([]Value, len(columns))
		for j, ci := range idx {
			nr[j] = row[ci]
		}
		out.rows[ri] = nr
	}
	return out, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.cols...)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out
}

// Filter returns a new table holding only the rows for which keep returns
// true, preserving order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.cols...)
	for i := range t.rows {
		if keep(Row{t: t, i: i}) {
			out.rows = append(out.rows, append([]Value(nil), t.rows[i]...))
		}
	}
	return out
}

// DropNullRows returns a new table without the rows that have a null cell in
// any of the subset columns. Columns missing from the table are ignored,
// matching the forgiving subset semantics the sync passes rely on.
func (t *Table) DropNullRows(subset ...string) *Table {
	present := make([]string, 0, len(subset))
	for _, c := range subset {
		if t.HasColumn(c) {
			present = append(present, c)
		}
	}
	return t.Filter(func(r Row) bool {
		for _, c := range present {
			if r.Get(c).IsNull() {
				return false
			}
		}
		return true
	})
}

// Distinct returns a new table with duplicate rows removed, keeping the
// first occurrence of each.
func (t *Table) Distinct() *Table {
	out := New(t.cols...)
	seen := make(map[string]bool, len(t.rows))
	for _, row := range t.rows {
		key := rowKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.rows = append(out.rows, append([]Value(nil), row...))
	}
	return out
}

// Column returns a copy of the named column's cells in row order.
func (t *Table) Column(name string) ([]Value, error) {
	ci, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrColumnNotFound, name)
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[ci]
	}
	return out, nil
}

// NonNullSet returns the distinct non-null values in the named column.
// A missing column yields an empty set.
func (t *Table) NonNullSet(column string) map[string]bool {
	set := make(map[string]bool)
	ci, ok := t.index[column]
	if !ok {
		return set
	}
	for _, row := range t.rows {
		if !row[ci].IsNull() {
			set[row[ci].String()] = true
		}
	}
	return set
}

// Concat returns a new table holding all rows of t followed by all rows of
// other. The column set is the union (t's columns first); cells absent from
// a side are null.
func (t *Table) Concat(other *Table) *Table {
	cols := append([]string(nil), t.cols...)
	for _, c := range other.cols {
		if _, ok := t.index[c]; !ok {
			cols = append(cols, c)
		}
	}
	out := New(cols...)
	out.rows = make([][]Value, 0, len(t.rows)+len(other.rows))
	for i := range t.rows {
		out.rows = append(out.rows, projectRow(t, i, out))
	}
	for i := range other.rows {
		out.rows = append(out.rows, projectRow(other, i, out))
	}
	return out
}

// Row is a read-only view of one table row.
type Row struct {
	t *Table
	i int
}

// Get returns the cell in the named column. Missing columns read as null.
func (r Row) Get(column string) Value {
	return r.t.Value(r.i, column)
}

// Index returns the row's position in its table.
func (r Row) Index() int {
	return r.i
}

// projectRow copies row i of src into the column layout of dst.
func projectRow(src *Table, i int, dst *Table) []Value {
	row := make([]Value, len(dst.cols))
	for j, c := range dst.cols {
		if ci, ok := src.index[c]; ok {
			row[j] = src.rows[i][ci]
		}
	}
	return row
}

// rowKey serializes a row for duplicate detection. Null and empty-string
// cells must not collide, so validity is encoded explicitly.
func rowKey(row []Value) string {
	key := make([]byte, 0, 16*len(row))
	for _, v := range row {
		if v.IsNull() {
			key = append(key, 0)
		} else {
			key = append(key, 1)
			key = append(key, v.String()...)
		}
		key = append(key, 0x1f)
	}
	return string(key)
}
