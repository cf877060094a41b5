package tabular

import (
	"fmt"

	"github.com/sportsync/rosetta/pkg/errors"
)

// Join-suffix constants applied to overlapping non-key columns, mirroring
// the `_x`/`_y` convention of relational merge operations.
const (
	leftSuffix  = "_x"
	rightSuffix = "_y"
)

// LeftJoin joins t with right on the given key columns. Every row of t is
// emitted at least once, in order; rows with one or more matches in right
// are emitted once per match, rows with none get null cells for right's
// columns. Rows with a null value in any key column never match.
//
// Overlapping non-key column names are disambiguated with the `_x` (left)
// and `_y` (right) suffixes. Use CoalesceJoined or KeepFirstJoined to fold
// them back afterwards.
func (t *Table) LeftJoin(right *Table, on []string) (*Table, error) {
	return t.join(right, on, false)
}

// InnerJoin joins t with right on the given key columns, emitting only rows
// with at least one match. Row order follows t.
func (t *Table) InnerJoin(right *Table, on []string) (*Table, error) {
	return t.join(right, on, true)
}

func (t *Table) join(right *Table, on []string, inner bool) (*Table, error) {
	if len(on) == 0 {
		return nil, errors.NewValidationError("on", on, "join requires at least one key column")
	}
	for _, k := range on {
		if !t.HasColumn(k) {
			return nil, fmt.Errorf("%w: left join key %s", errors.ErrColumnNotFound, k)
		}
		if !right.HasColumn(k) {
			return nil, fmt.Errorf("%w: right join key %s", errors.ErrColumnNotFound, k)
		}
	}

	keySet := make(map[string]bool, len(on))
	for _, k := range on {
		keySet[k] = true
	}

	// Output layout: left columns (suffixed where they collide with a
	// right non-key column), then right non-key columns (suffixed where
	// they collide with a left column).
	rightExtra := make([]string, 0, len(right.cols))
	rightExtraIdx := make([]int, 0, len(right.cols))
	for i, c := range right.cols {
		if !keySet[c] {
			rightExtra = append(rightExtra, c)
			rightExtraIdx = append(rightExtraIdx, i)
		}
	}
	rightExtraSet := make(map[string]bool, len(rightExtra))
	for _, c := range rightExtra {
		rightExtraSet[c] = true
	}

	outCols := make([]string, 0, len(t.cols)+len(rightExtra))
	for _, c := range t.cols {
		if !keySet[c] && rightExtraSet[c] {
			outCols = append(outCols, c+leftSuffix)
		} else {
			outCols = append(outCols, c)
		}
	}
	for _, c := range rightExtra {
		if t.HasColumn(c) && !keySet[c] {
			outCols = append(outCols, c+rightSuffix)
		} else {
			outCols = append(outCols, c)
		}
	}
	out := New(outCols...)

	// Hash the right side by key tuple. Null keys are excluded: a null
	// never equals anything, so such rows cannot match.
	buckets := make(map[string][]int, right.Len())
	for ri := range right.rows {
		key, ok := joinKey(right, ri, on)
		if !ok {
			continue
		}
		buckets[key] = append(buckets[key], ri)
	}

	for li := range t.rows {
		key, ok := joinKey(t, li, on)
		var matches []int
		if ok {
			matches = buckets[key]
		}
		if len(matches) == 0 {
			if inner {
				continue
			}
			row := make([]Value, len(outCols))
			copy(row, t.rows[li])
			out.rows = append(out.rows, row)
			continue
		}
		for _, ri := range matches {
			row := make([]Value, len(outCols))
			copy(row, t.rows[li])
			for j, ci := range rightExtraIdx {
				row[len(t.cols)+j] = right.rows[ri][ci]
			}
			out.rows = append(out.rows, row)
		}
	}
	return out, nil
}

// joinKey serializes row i's key tuple. The second return is false when any
// key cell is null.
func joinKey(t *Table, i int, on []string) (string, bool) {
	key := make([]byte, 0, 16*len(on))
	for _, k := range on {
		v := t.rows[i][t.index[k]]
		if v.IsNull() {
			return "", false
		}
		key = append(key, v.String()...)
		key = append(key, 0x1f)
	}
	return string(key), true
}

// CoalesceJoined folds suffixed column pairs produced by a join back into
// single columns: for each name, null cells of `name_x` are filled from
// `name_y`, then `name_x` is renamed to name and `name_y` dropped. Non-null
// `name_x` cells are never overwritten. Names without both suffixed columns
// are ignored.
func (t *Table) CoalesceJoined(columns ...string) {
	for _, c := range columns {
		lx, ly := c+leftSuffix, c+rightSuffix
		li, lok := t.index[lx]
		ri, rok := t.index[ly]
		if !lok || !rok {
			continue
		}
		for _, row := range t.rows {
			if row[li].IsNull() && !row[ri].IsNull() {
				row[li] = row[ri]
			}
		}
		t.DropColumns(ly)
		// Rename cannot fail here: ly is gone and c cannot coexist
		// with its own suffixed forms after a join.
		_ = t.Rename(lx, c)
	}
}

// KeepFirstJoined folds suffixed column pairs by keeping the left copy
// unchanged: `name_x` is renamed to name and `name_y` dropped. Names without
// both suffixed columns are ignored.
func (t *Table) KeepFirstJoined(columns ...string) {
	for _, c := range columns {
		lx, ly := c+leftSuffix, c+rightSuffix
		if !t.HasColumn(lx) || !t.HasColumn(ly) {
			continue
		}
		t.DropColumns(ly)
		_ = t.Rename(lx, c)
	}
}

// OverwriteMatchedJoined folds suffixed column pairs by taking `name_y`
// wherever the row's cell in the given key column is contained in matched:
// those rows take the right-side value, all other rows keep the left value.
// Used by cascade layers that must claim their own matches while leaving
// earlier layers' rows untouched.
func (t *Table) OverwriteMatchedJoined(column, keyColumn string, matched map[string]bool) {
	lx, ly := column+leftSuffix, column+rightSuffix
	li, lok := t.index[lx]
	ri, rok := t.index[ly]
	ki, kok := t.index[keyColumn]
	if !lok || !rok || !kok {
		return
	}
	for _, row := range t.rows {
		if !row[ki].IsNull() && matched[row[ki].String()] && row[li].IsNull() {
			row[li] = row[ri]
		}
	}
	t.DropColumns(ly)
	_ = t.Rename(lx, column)
}
