package sync

import (
	"github.com/rs/zerolog"

	"github.com/sportsync/rosetta/pkg/content"
	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/tabular"
)

// Engine drives the entity-type-agnostic three-pass synchronization
// algorithm, delegating pairwise matching to an injected PairMatcher.
type Engine struct {
	entityType  content.EntityType
	content     []*content.Content
	joinColumns []string
	matcher     PairMatcher
	logger      zerolog.Logger
}

// New creates a generic engine over an ordered list of same-typed content
// wrappers. The join columns drive final grouping and deduplication and
// must not be empty. The matcher supplies the pairwise methodology; passing
// nil yields an engine whose Synchronize fails with a not-implemented error
// once pairwise matching is needed.
func New(entityType content.EntityType, cs []*content.Content, joinColumns []string, matcher PairMatcher, opts ...Option) (*Engine, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	for _, c := range cs {
		if c.EntityType != entityType {
			return nil, errors.NewContentError(entityType.String(), c.Provider,
				"engine content must share the engine's entity type", errors.ErrEntityTypeMismatch)
		}
	}
	if len(o.joinColumns) > 0 {
		joinColumns = o.joinColumns
	}
	if len(joinColumns) == 0 {
		return nil, &errors.DataQualityError{
			EntityType: entityType.String(),
			Message:    "no join columns remaining to use for aggregation",
		}
	}
	if matcher == nil {
		matcher = &notImplementedMatcher{entityType: entityType}
	}
	return &Engine{
		entityType:  entityType,
		content:     cs,
		joinColumns: joinColumns,
		matcher:     matcher,
		logger:      o.logger,
	}, nil
}

// JoinColumns returns the columns the engine groups and deduplicates on.
func (e *Engine) JoinColumns() []string {
	return append([]string(nil), e.joinColumns...)
}

// Synchronize reduces the engine's provider datasets into one deduplicated,
// fully cross-referenced wrapper.
//
// Pass 1 pairwise-matches neighboring providers and folds the results
// together, keeping only rows carrying every provider's identifier. Pass 2
// re-runs the same agglomeration over each provider's leftover rows,
// appending any newly fully-synced rows. Pass 3 appends every remaining
// unmatched row as-is, stamped with its provider, so no input record is
// ever silently dropped. A final group-by on the join columns collapses
// duplicate claims, keeping the first non-null identifier per provider in
// stable input order.
func (e *Engine) Synchronize() (*content.Content, error) {
	if len(e.content) == 0 {
		empty, err := content.New(e.entityType, "unknown", tabular.New())
		if err != nil {
			return nil, err
		}
		return empty, nil
	}
	if len(e.content) == 1 {
		return e.content[0], nil
	}

	e.logger.Info().
		Str("entity_type", e.entityType.String()).
		Int("datasets", len(e.content)).
		Msg("Starting synchronization")

	// Pass 1: agglomeration across the full provider chain.
	e.logger.Info().Msg("Pass 1: agglomeration")
	syncResult, err := e.agglomerate(e.content)
	if err != nil {
		return nil, err
	}

	idMask := make([]string, len(e.content))
	for i, c := range e.content {
		idMask[i] = c.IDField
	}

	synced := &content.Content{
		EntityType: e.entityType,
		Provider:   e.content[0].Provider,
		IDField:    e.content[0].IDField,
		Data:       syncResult.Data.DropNullRows(idMask...),
	}
	e.logger.Info().
		Str("basis", e.content[0].Provider).
		Int("total_rows", syncResult.Data.Len()).
		Int("fully_synced", synced.Data.Len()).
		Msg("Pass 1 complete")

	// Pass 2: give leftovers a second agglomeration among themselves.
	var remainders []*content.Content
	for _, c := range e.content {
		missing := remainderOf(c, synced.Data)
		if missing.Data.Len() > 0 {
			e.logger.Info().
				Str("provider", c.Provider).
				Int("rows", missing.Data.Len()).
				Msg("Pass 2: collected unsynced rows")
			remainders = append(remainders, missing)
		}
	}
	if len(remainders) > 1 {
		e.logger.Info().Int("datasets", len(remainders)).Msg("Pass 2: agglomeration on remainders")
		remResult, err := e.agglomerate(remainders)
		if err != nil {
			return nil, err
		}
		remIDMask := make([]string, 0, len(idMask))
		for _, id := range idMask {
			if remResult.Data.HasColumn(id) {
				remIDMask = append(remIDMask, id)
			}
		}
		newlySynced := remResult.Data.DropNullRows(remIDMask...)
		e.logger.Info().Int("rows", newlySynced.Len()).Msg("Pass 2: newly fully synced rows")
		if newlySynced.Len() > 0 {
			synced.AppendTable(newlySynced)
		}
	}

	// Pass 3: surface what never matched, stamped with its provider.
	for _, c := range e.content {
		r := remainderOf(c, synced.Data)
		if r.Data.Len() == 0 {
			continue
		}
		e.logger.Info().
			Str("provider", c.Provider).
			Int("rows", r.Data.Len()).
			Msg("Pass 3: appending unsynced rows")

		applicable := make([]string, 0)
		var missingCols []string
		for _, col := range synced.Data.Columns() {
			if r.Data.HasColumn(col) {
				applicable = append(applicable, col)
			} else {
				missingCols = append(missingCols, col)
			}
		}
		appendable, err := r.Data.Select(applicable...)
		if err != nil {
			return nil, err
		}
		for _, col := range missingCols {
			appendable.EnsureColumn(col)
		}
		setUniformColumn(appendable, "provider", c.Provider)
		synced.AppendTable(appendable)
	}

	e.logger.Info().Int("rows", synced.Data.Len()).Msg("Pre-deduplication")

	// Final dedup: one row per distinct join-column tuple, first non-null
	// identifier wins in stable input order.
	deduped, err := synced.Data.GroupFirstNonNull(e.joinColumns, idMask)
	if err != nil {
		return nil, errors.WrapSync(e.entityType.String(), e.providers(), err)
	}
	setUniformColumn(deduped, "provider", e.content[0].Provider)
	synced.Data = deduped

	e.logger.Info().
		Int("rows", synced.Data.Len()).
		Strs("join_columns", e.joinColumns).
		Msg("After deduplication")
	return synced, nil
}

// agglomerate pairwise-matches neighboring wrappers and left-folds the
// results together with sibling-identifier merges.
func (e *Engine) agglomerate(cs []*content.Content) (*content.Content, error) {
	results := make([]*content.Content, 0, len(cs)-1)
	for i := 0; i < len(cs)-1; i++ {
		z, err := e.matcher.SynchronizePair(cs[i], cs[i+1])
		if err != nil {
			return nil, errors.WrapSync(e.entityType.String(),
				[]string{cs[i].Provider, cs[i+1].Provider}, err)
		}
		results = append(results, z)
	}
	folded := results[0]
	for _, r := range results[1:] {
		var err error
		folded, err = folded.Merge(r)
		if err != nil {
			return nil, errors.WrapSync(e.entityType.String(), e.providers(), err)
		}
	}
	return folded, nil
}

func (e *Engine) providers() []string {
	out := make([]string, len(e.content))
	for i, c := range e.content {
		out[i] = c.Provider
	}
	return out
}

// setUniformColumn stamps every row of the table with the same value,
// adding the column first if absent.
func setUniformColumn(t *tabular.Table, column, value string) {
	t.EnsureColumn(column)
	for i := 0; i < t.Len(); i++ {
		_ = t.SetValue(i, column, tabular.String(value))
	}
}
