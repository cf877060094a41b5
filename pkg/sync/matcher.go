// Package sync implements cross-provider entity synchronization: the
// generic three-pass engine that reduces N per-provider tables into one
// deduplicated cross-reference table, and the entity-specific pairwise
// matchers it delegates to.
package sync

import (
	"time"

	"github.com/sportsync/rosetta/pkg/content"
	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/tabular"
)

// PairMatcher is the pluggable strategy that reconciles one pair of
// same-typed content wrappers. Implementations return a new wrapper whose
// table carries both sides' identifier columns on every matched (and
// carried-through unmatched) row, and must never mutate their inputs.
type PairMatcher interface {
	// EntityType returns the entity type the matcher reconciles.
	EntityType() content.EntityType

	// SynchronizePair reconciles two wrappers of the matcher's entity type.
	SynchronizePair(input1, input2 *content.Content) (*content.Content, error)
}

// notImplementedMatcher is the zero strategy: it satisfies the base
// contract of carrying an empty side through and otherwise fails.
type notImplementedMatcher struct {
	entityType content.EntityType
}

// EntityType returns the entity type the matcher reconciles.
func (m *notImplementedMatcher) EntityType() content.EntityType {
	return m.entityType
}

// SynchronizePair fails: the generic engine has no pairwise methodology of
// its own.
func (m *notImplementedMatcher) SynchronizePair(input1, input2 *content.Content) (*content.Content, error) {
	if carried := carryEmptySide(input1, input2); carried != nil {
		return carried, nil
	}
	return nil, errors.WrapSync(m.entityType.String(),
		[]string{input1.Provider, input2.Provider}, errors.ErrNotImplemented)
}

// carryEmptySide implements the shared base contract of every pairwise
// matcher: when one side has no rows, the other side is returned with a
// null column added for the empty side's identifier — a schema-preserving
// carry-through, not a match. Returns nil when both sides have rows. The
// inputs are never mutated; the carried side is a fresh wrapper over a
// cloned table.
func carryEmptySide(input1, input2 *content.Content) *content.Content {
	if input1.Data.Len() == 0 && input2.Data.Len() > 0 {
		data := input2.Data.Clone()
		data.EnsureColumn(input1.IDField)
		return &content.Content{
			EntityType: input2.EntityType,
			Provider:   input2.Provider,
			IDField:    input2.IDField,
			Data:       data,
		}
	}
	if input2.Data.Len() == 0 {
		data := input1.Data.Clone()
		data.EnsureColumn(input2.IDField)
		return &content.Content{
			EntityType: input1.EntityType,
			Provider:   input1.Provider,
			IDField:    input1.IDField,
			Data:       data,
		}
	}
	return nil
}

// remainderOf returns a wrapper over the rows of c whose identifier does
// not appear in the basis table's copy of c's identifier column.
func remainderOf(c *content.Content, basis *tabular.Table) *content.Content {
	seen := basis.NonNullSet(c.IDField)
	missing := c.Data.Filter(func(r tabular.Row) bool {
		v := r.Get(c.IDField)
		return v.IsNull() || !seen[v.String()]
	})
	return &content.Content{
		EntityType: c.EntityType,
		Provider:   c.Provider,
		IDField:    c.IDField,
		Data:       missing,
	}
}

const dateLayout = "2006-01-02"

// swappedDateLayout renders year-day-month, used for birth-date
// day/month-swap perturbation.
const swappedDateLayout = "2006-02-01"

// shiftDateColumn returns a copy of the table with the named date column
// shifted by the given number of days and reformatted with the target
// layout. Null or unparseable cells pass through unchanged.
func shiftDateColumn(t *tabular.Table, column string, days int, layout string) *tabular.Table {
	out := t.Clone()
	if !out.HasColumn(column) {
		return out
	}
	for i := 0; i < out.Len(); i++ {
		v := out.Value(i, column)
		if v.IsNull() {
			continue
		}
		parsed, err := time.Parse(dateLayout, v.String())
		if err != nil {
			continue
		}
		shifted := parsed.AddDate(0, 0, days)
		_ = out.SetValue(i, column, tabular.String(shifted.Format(layout)))
	}
	return out
}
