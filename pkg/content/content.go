// Package content wraps one provider's table of records for one entity
// type. The wrapper carries the provider-qualified identifier column and
// exposes the two operations synchronization is built from: merge
// (left-join enrichment with sibling identifier columns) and append
// (row union).
package content

import (
	"fmt"
	"strings"

	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/tabular"
)

// EntityType is the category of record being reconciled.
type EntityType string

// Supported entity types.
const (
	EntityTypeMatch  EntityType = "match"
	EntityTypePlayer EntityType = "player"
	EntityTypeTeam   EntityType = "team"
)

// String returns the string representation of an entity type.
func (e EntityType) String() string {
	return string(e)
}

// IDField returns the provider-qualified identifier column name for a
// provider and entity type, e.g. "opta_player_id".
func IDField(provider string, entityType EntityType) string {
	return fmt.Sprintf("%s_%s_id", provider, entityType)
}

// Content wraps one provider's table of one entity type.
type Content struct {
	EntityType EntityType
	Provider   string
	IDField    string
	Data       *tabular.Table
}

// New creates a content wrapper, validating the identifier-column invariant:
// a non-empty table must carry the provider-qualified id column with a
// non-null value on every row. An empty table gets the column added.
func New(entityType EntityType, provider string, data *tabular.Table) (*Content, error) {
	if data == nil {
		return nil, errors.NewContentError(entityType.String(), provider, "data table must not be nil", errors.ErrInvalidInput)
	}
	idField := IDField(provider, entityType)
	if data.Len() == 0 {
		data.EnsureColumn(idField)
	} else {
		if !data.HasColumn(idField) {
			return nil, errors.NewContentError(entityType.String(), provider,
				fmt.Sprintf("identifier column %s missing", idField), errors.ErrColumnNotFound)
		}
		for i := 0; i < data.Len(); i++ {
			if data.Value(i, idField).IsNull() {
				return nil, errors.NewContentError(entityType.String(), provider,
					fmt.Sprintf("identifier column %s has a null value at row %d", idField, i), errors.ErrInvalidInput)
			}
		}
	}
	return &Content{
		EntityType: entityType,
		Provider:   provider,
		IDField:    idField,
		Data:       data,
	}, nil
}

// siblingIDPattern returns the substring identifying sibling identifier
// columns of the wrapper's entity type.
func (c *Content) siblingIDPattern() string {
	return fmt.Sprintf("_%s_id", c.EntityType)
}

// Merge combines two wrappers by left-joining c's table with the sibling
// identifier columns of right on right's id field, which must already be a
// column of c. Attribute columns of right never cross over. The result is a
// new wrapper keeping c's entity type and provider; c is left untouched.
// A nil right is a no-op returning c.
func (c *Content) Merge(right *Content) (*Content, error) {
	if right == nil {
		return c, nil
	}
	if c.EntityType != right.EntityType {
		return nil, errors.NewContentError(c.EntityType.String(), c.Provider,
			fmt.Sprintf("cannot merge entity type %s into %s", right.EntityType, c.EntityType),
			errors.ErrEntityTypeMismatch)
	}
	if !c.Data.HasColumn(right.IDField) {
		return nil, errors.NewContentError(c.EntityType.String(), c.Provider,
			fmt.Sprintf("merge key %s is not a column of the left table", right.IDField),
			errors.ErrColumnNotFound)
	}

	pattern := c.siblingIDPattern()
	idColumns := make([]string, 0, 4)
	for _, col := range right.Data.Columns() {
		if strings.Contains(col, pattern) {
			idColumns = append(idColumns, col)
		}
	}
	if len(idColumns) == 0 {
		return nil, errors.NewContentError(c.EntityType.String(), c.Provider,
			fmt.Sprintf("right table carries no %s identifier columns", c.EntityType),
			errors.ErrColumnNotFound)
	}

	subset, err := right.Data.Select(idColumns...)
	if err != nil {
		return nil, err
	}
	merged, err := c.Data.LeftJoin(subset, []string{right.IDField})
	if err != nil {
		return nil, err
	}
	// Identifier columns present on both sides collapse back to one,
	// filling gaps from the right, never overwriting.
	merged.CoalesceJoined(idColumns...)

	return &Content{
		EntityType: c.EntityType,
		Provider:   c.Provider,
		IDField:    c.IDField,
		Data:       merged,
	}, nil
}

// Append adds all rows of right to the end of c's table in place. The
// column set becomes the union, with missing cells null. A nil right is a
// no-op; appending a different entity type is an error.
func (c *Content) Append(right *Content) error {
	if right == nil {
		return nil
	}
	if c.EntityType != right.EntityType {
		return errors.NewContentError(c.EntityType.String(), c.Provider,
			fmt.Sprintf("cannot append entity type %s to %s", right.EntityType, c.EntityType),
			errors.ErrEntityTypeMismatch)
	}
	c.AppendTable(right.Data)
	return nil
}

// AppendTable adds all rows of a raw table to the end of c's table in
// place. A nil or empty table is a no-op.
func (c *Content) AppendTable(t *tabular.Table) {
	if t == nil || t.Len() == 0 {
		return
	}
	c.Data = c.Data.Concat(t)
}

// TransformProviderFields converts a unified-schema table (a generic
// "provider_{type}_id" column plus a provider-label column) to the
// provider-qualified layout: the generic id column is renamed to the
// wrapper's id field and the label column dropped. If either piece is
// missing the call is a no-op.
func (c *Content) TransformProviderFields() {
	generic := fmt.Sprintf("provider_%s_id", c.EntityType)
	hasLabel := c.Data.HasColumn("data_provider") || c.Data.HasColumn("provider")
	if !hasLabel || !c.Data.HasColumn(generic) {
		return
	}
	_ = c.Data.Rename(generic, c.IDField)
	c.Data.DropColumns("data_provider", "provider")
}
