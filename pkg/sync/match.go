package sync

import (
	"github.com/rs/zerolog"

	"github.com/sportsync/rosetta/pkg/content"
	"github.com/sportsync/rosetta/pkg/tabular"
)

// dateShiftRange is the half-open day-offset window tried when two
// providers disagree on a fixture's date (timezones, TV scheduling).
const (
	dateShiftMin = -3
	dateShiftMax = 3
)

// MatchMatcher reconciles fixture records pairwise with a three-tier
// date-tolerant methodology: exact join on the configured key columns,
// then date-shifted joins over [-3, 3) days in both directions, then a
// matchday-keyed join for fixtures postponed outside that window.
type MatchMatcher struct {
	joinColumns []string
	logger      zerolog.Logger
}

// NewMatchMatcher creates a fixture matcher over the given exact-join key
// columns (which must include match_date for the date-shift tier to apply).
func NewMatchMatcher(joinColumns []string, logger zerolog.Logger) *MatchMatcher {
	return &MatchMatcher{joinColumns: joinColumns, logger: logger}
}

// EntityType returns the entity type the matcher reconciles.
func (m *MatchMatcher) EntityType() content.EntityType {
	return content.EntityTypeMatch
}

// matchJoinColumns returns the exact-join key columns for fixture
// synchronization.
func matchJoinColumns(useCompetitionContext bool) []string {
	if useCompetitionContext {
		return []string{"match_date", "competition_id", "season_id", "home_team_id", "away_team_id"}
	}
	return []string{"match_date", "home_team_id", "away_team_id"}
}

// NewMatchEngine creates a synchronization engine for fixture records.
func NewMatchEngine(cs []*content.Content, opts ...Option) (*Engine, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	joinColumns := matchJoinColumns(o.useCompetitionContext)
	matcher := NewMatchMatcher(joinColumns, o.logger)
	return New(content.EntityTypeMatch, cs, joinColumns, matcher, opts...)
}

// SynchronizePair reconciles two fixture wrappers. Later tiers only ever
// fill identifier gaps the earlier tiers left null, never overwrite.
func (m *MatchMatcher) SynchronizePair(input1, input2 *content.Content) (*content.Content, error) {
	if carried := carryEmptySide(input1, input2); carried != nil {
		return carried, nil
	}

	m.logger.Debug().
		Str("input1", input1.Provider).Int("len1", input1.Data.Len()).
		Str("input2", input2.Provider).Int("len2", input2.Data.Len()).
		Msg("Attempting pair synchronization")

	// First tier: dates are equal.
	syncResult, err := input1.Data.LeftJoin(input2.Data, m.joinColumns)
	if err != nil {
		return nil, err
	}
	synced := syncResult.DropNullRows(input1.IDField, input2.IDField)

	// Second tier: dates are off by [-3, 3).
	remaining1 := remainderOf(input1, synced)
	remaining2 := remainderOf(input2, synced)

	var attempts []*tabular.Table
	if remaining1.Data.Len() > 0 && remaining2.Data.Len() > 0 {
		m.logger.Debug().
			Int("len1", remaining1.Data.Len()).
			Int("len2", remaining2.Data.Len()).
			Msg("Attempting date-adjusted pair synchronization")
		for d := dateShiftMin; d < dateShiftMax; d++ {
			pairs, err := m.synchronizeOnAdjustedDates(remaining1, remaining2, d)
			if err != nil {
				return nil, err
			}
			attempts = append(attempts, pairs)
		}
		for d := dateShiftMin; d < dateShiftMax; d++ {
			pairs, err := m.synchronizeOnAdjustedDates(remaining2, remaining1, d)
			if err != nil {
				return nil, err
			}
			attempts = append(attempts, pairs)
		}
	}
	if len(attempts) > 0 {
		attemptSyncs := tabular.New(input1.IDField, input2.IDField)
		for _, a := range attempts {
			attemptSyncs = attemptSyncs.Concat(a)
		}
		attemptSyncs = attemptSyncs.DropNullRows(input1.IDField, input2.IDField).Distinct()
		m.logger.Debug().Int("rows", attemptSyncs.Len()).Msg("Date-adjusted synchronization complete")

		if attemptSyncs.Len() > 0 {
			syncResult, err = syncResult.LeftJoin(attemptSyncs, []string{input1.IDField})
			if err != nil {
				return nil, err
			}
			syncResult.CoalesceJoined(input2.IDField)
		}
	}

	// Third tier: matchday instead of match_date, for fixtures postponed
	// outside the shift window.
	synced = syncResult.DropNullRows(input1.IDField, input2.IDField)
	remaining1 = remainderOf(input1, synced)
	remaining2 = remainderOf(input2, synced)
	if remaining1.Data.Len() > 0 && remaining2.Data.Len() > 0 &&
		remaining1.Data.HasColumn("matchday") && remaining2.Data.HasColumn("matchday") {
		m.logger.Debug().
			Int("len1", remaining1.Data.Len()).
			Int("len2", remaining2.Data.Len()).
			Msg("Attempting matchday pair synchronization")
		pairs, err := m.synchronizeOnMatchday(remaining1, remaining2)
		if err != nil {
			return nil, err
		}
		m.logger.Debug().Int("rows", pairs.Len()).Msg("Matchday synchronization complete")

		if pairs.Len() > 0 {
			syncResult, err = syncResult.LeftJoin(pairs, []string{input1.IDField})
			if err != nil {
				return nil, err
			}
			syncResult.CoalesceJoined(input2.IDField)
		}
	}

	return &content.Content{
		EntityType: input1.EntityType,
		Provider:   input1.Provider,
		IDField:    input1.IDField,
		Data:       syncResult,
	}, nil
}

// synchronizeOnAdjustedDates joins the pair after shifting input1's
// match_date by the given day offset, returning the identifier pairs of
// newly complete rows. input1 is copied before the shift; the caller's
// table is never touched.
func (m *MatchMatcher) synchronizeOnAdjustedDates(input1, input2 *content.Content, days int) (*tabular.Table, error) {
	m.logger.Debug().
		Int("days", days).
		Str("input1", input1.Provider).Int("len1", input1.Data.Len()).
		Str("input2", input2.Provider).Int("len2", input2.Data.Len()).
		Msg("Triggering date adjustment and sync")

	adjusted := shiftDateColumn(input1.Data, "match_date", days, dateLayout)
	joined, err := input2.Data.InnerJoin(adjusted, m.joinColumns)
	if err != nil {
		return nil, err
	}
	pairs, err := joined.DropNullRows(input1.IDField, input2.IDField).
		Select(input1.IDField, input2.IDField)
	if err != nil {
		return nil, err
	}
	m.logger.Debug().Int("days", days).Int("rows", pairs.Len()).Msg("Date adjustment found synced rows")
	return pairs, nil
}

// synchronizeOnMatchday joins the pair on matchday in place of match_date,
// returning the identifier pairs of newly complete rows.
func (m *MatchMatcher) synchronizeOnMatchday(input1, input2 *content.Content) (*tabular.Table, error) {
	tempJoin := make([]string, len(m.joinColumns))
	for i, k := range m.joinColumns {
		if k == "match_date" {
			tempJoin[i] = "matchday"
		} else {
			tempJoin[i] = k
		}
	}
	joined, err := input1.Data.InnerJoin(input2.Data, tempJoin)
	if err != nil {
		return nil, err
	}
	return joined.DropNullRows(input1.IDField, input2.IDField).
		Select(input1.IDField, input2.IDField)
}
