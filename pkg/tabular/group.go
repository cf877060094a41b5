package tabular

import (
	"fmt"
	"strconv"

	"github.com/sportsync/rosetta/pkg/errors"
)

// GroupFirstNonNull groups rows by exact equality on the key columns and
// aggregates each value column by taking the first non-null cell in row
// order. Rows with a null cell in any key column form their own singleton
// groups. The result has one row per group, columns = keys then values,
// with groups emitted in first-seen order.
//
// Running the operation twice is idempotent: a grouped table regrouped on
// the same keys yields itself.
func (t *Table) GroupFirstNonNull(keys []string, values []string) (*Table, error) {
	if len(keys) == 0 {
		return nil, errors.NewValidationError("keys", keys, "grouping requires at least one key column")
	}
	for _, k := range keys {
		if !t.HasColumn(k) {
			return nil, fmt.Errorf("%w: group key %s", errors.ErrColumnNotFound, k)
		}
	}
	valIdx := make([]int, len(values))
	for i, v := range values {
		ci, ok := t.index[v]
		if !ok {
			return nil, fmt.Errorf("%w: aggregate column %s", errors.ErrColumnNotFound, v)
		}
		valIdx[i] = ci
	}
	keyIdx := make([]int, len(keys))
	for i, k := range keys {
		keyIdx[i] = t.index[k]
	}

	out := New(append(append([]string{}, keys...), values...)...)
	groups := make(map[string]int, t.Len())
	for ri, row := range t.rows {
		gk, grouped := groupKey(row, keyIdx)
		if !grouped {
			// Null key cell: singleton group, keyed by row number so
			// it can never collide with a real group.
			gk = "\x00row:" + strconv.Itoa(ri)
		}
		oi, ok := groups[gk]
		if !ok {
			nr := make([]Value, len(out.cols))
			for i, ci := range keyIdx {
				nr[i] = row[ci]
			}
			for i, ci := range valIdx {
				nr[len(keys)+i] = row[ci]
			}
			groups[gk] = len(out.rows)
			out.rows = append(out.rows, nr)
			continue
		}
		// First non-null wins: only fill cells still null.
		for i, ci := range valIdx {
			if out.rows[oi][len(keys)+i].IsNull() && !row[ci].IsNull() {
				out.rows[oi][len(keys)+i] = row[ci]
			}
		}
	}
	return out, nil
}

// groupKey serializes the key tuple of a row. The second return is false
// when any key cell is null.
func groupKey(row []Value, keyIdx []int) (string, bool) {
	key := make([]byte, 0, 16*len(keyIdx))
	for _, ci := range keyIdx {
		v := row[ci]
		if v.IsNull() {
			return "", false
		}
		key = append(key, v.String()...)
		key = append(key, 0x1f)
	}
	return string(key), true
}
