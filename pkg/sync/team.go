package sync

import (
	"github.com/rs/zerolog"

	"github.com/sportsync/rosetta/pkg/content"
	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/similarity"
	"github.com/sportsync/rosetta/pkg/tabular"
	"github.com/sportsync/rosetta/pkg/textnorm"
)

// defaultTeamThreshold is the cosine-similarity floor for the second team
// tier. The third tier accepts the optimal assignment regardless of score.
const defaultTeamThreshold = 0.75

// TeamMatcher reconciles team records pairwise: exact join on team_name,
// then cosine similarity over club-normalized names at the default
// threshold, then a final cosine pass with no threshold at all.
type TeamMatcher struct {
	joinColumns []string
	logger      zerolog.Logger
}

// NewTeamMatcher creates a team matcher over the given exact-join key
// columns.
func NewTeamMatcher(joinColumns []string, logger zerolog.Logger) *TeamMatcher {
	return &TeamMatcher{joinColumns: joinColumns, logger: logger}
}

// EntityType returns the entity type the matcher reconciles.
func (m *TeamMatcher) EntityType() content.EntityType {
	return content.EntityTypeTeam
}

// teamJoinColumns returns the exact-join key columns for team
// synchronization.
func teamJoinColumns(useCompetitionContext bool) []string {
	if useCompetitionContext {
		return []string{"team_name", "competition_id", "season_id"}
	}
	return []string{"team_name"}
}

// NewTeamEngine creates a synchronization engine for team records.
func NewTeamEngine(cs []*content.Content, opts ...Option) (*Engine, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	joinColumns := teamJoinColumns(o.useCompetitionContext)
	matcher := NewTeamMatcher(joinColumns, o.logger)
	return New(content.EntityTypeTeam, cs, joinColumns, matcher, opts...)
}

// SynchronizePair reconciles two team wrappers. Later tiers only ever fill
// identifier gaps, never overwrite earlier matches.
func (m *TeamMatcher) SynchronizePair(input1, input2 *content.Content) (*content.Content, error) {
	if carried := carryEmptySide(input1, input2); carried != nil {
		return carried, nil
	}

	m.logger.Debug().
		Str("input1", input1.Provider).Int("len1", input1.Data.Len()).
		Str("input2", input2.Provider).Int("len2", input2.Data.Len()).
		Msg("Attempting pair synchronization")

	// First tier: names are equal.
	syncResult, err := input1.Data.LeftJoin(input2.Data, m.joinColumns)
	if err != nil {
		return nil, err
	}
	synced := syncResult.DropNullRows(input1.IDField, input2.IDField)

	// Second and third tiers: cosine similarity over normalized club
	// names, first thresholded, then accepting the best available
	// assignment outright.
	for _, threshold := range []float64{defaultTeamThreshold, 0.0} {
		remaining1 := remainderOf(input1, synced)
		remaining2 := remainderOf(input2, synced)
		if remaining1.Data.Len() == 0 || remaining2.Data.Len() == 0 {
			break
		}
		m.logger.Debug().
			Float64("threshold", threshold).
			Int("len1", remaining1.Data.Len()).
			Int("len2", remaining2.Data.Len()).
			Msg("Attempting cosine-similarity pair synchronization")

		pairs, err := m.cosinePairs(remaining1, remaining2, threshold)
		if err != nil {
			return nil, err
		}
		m.logger.Debug().Float64("threshold", threshold).Int("rows", pairs.Len()).
			Msg("Cosine-similarity synchronization complete")
		if pairs.Len() == 0 {
			continue
		}

		syncResult, err = syncResult.LeftJoin(pairs, []string{input1.IDField})
		if err != nil {
			return nil, err
		}
		syncResult.CoalesceJoined(input2.IDField)
		synced = syncResult.DropNullRows(input1.IDField, input2.IDField)
	}

	return &content.Content{
		EntityType: input1.EntityType,
		Provider:   input1.Provider,
		IDField:    input1.IDField,
		Data:       syncResult,
	}, nil
}

// cosinePairs runs the optimal-assignment cosine match over the two sides'
// team names and returns the identifier pairs whose similarity meets the
// threshold.
func (m *TeamMatcher) cosinePairs(input1, input2 *content.Content, threshold float64) (*tabular.Table, error) {
	names1, err := input1.Data.Column("team_name")
	if err != nil {
		return nil, err
	}
	names2, err := input2.Data.Column("team_name")
	if err != nil {
		return nil, err
	}

	matches, err := similarity.CosineMatch(names1, names2,
		similarity.WithNormalizer(textnorm.NormalizeTeamName))
	if err != nil {
		if errors.IsEmptyInput(err) {
			return tabular.New(input1.IDField, input2.IDField), nil
		}
		return nil, err
	}

	pairs := tabular.New(input1.IDField, input2.IDField)
	for _, match := range matches {
		if match.Similarity < threshold {
			continue
		}
		err := pairs.AppendRow(map[string]tabular.Value{
			input1.IDField: input1.Data.Value(match.Index1, input1.IDField),
			input2.IDField: input2.Data.Value(match.Index2, input2.IDField),
		})
		if err != nil {
			return nil, err
		}
	}
	return pairs.DropNullRows(input1.IDField, input2.IDField).Distinct(), nil
}
