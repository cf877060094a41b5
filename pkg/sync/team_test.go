package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsync/rosetta/pkg/content"
	"github.com/sportsync/rosetta/pkg/logging"
)

func TestTeamJoinColumns(t *testing.T) {
	assert.Equal(t, []string{"team_name"}, teamJoinColumns(false))
	assert.Equal(t, []string{"team_name", "competition_id", "season_id"}, teamJoinColumns(true))
}

func TestTeamPairExactNames(t *testing.T) {
	a := mustContent(t, content.EntityTypeTeam, "a",
		[]string{"a_team_id", "team_name"}, [][]string{{"a1", "Arsenal"}})
	b := mustContent(t, content.EntityTypeTeam, "b",
		[]string{"b_team_id", "team_name"}, [][]string{{"b1", "Arsenal"}})

	matcher := NewTeamMatcher(teamJoinColumns(false), logging.Nop)
	synced, err := matcher.SynchronizePair(a, b)
	require.NoError(t, err)
	require.Equal(t, 1, synced.Data.Len())
	assert.Equal(t, "b1", synced.Data.Value(0, "b_team_id").String())
}

func TestTeamPairCosineSimilarity(t *testing.T) {
	a := mustContent(t, content.EntityTypeTeam, "a",
		[]string{"a_team_id", "team_name"}, [][]string{
			{"a1", "Arsenal"},
			{"a2", "Atlanta Beat"},
		})
	b := mustContent(t, content.EntityTypeTeam, "b",
		[]string{"b_team_id", "team_name"}, [][]string{
			{"b1", "Arsenal"},
			{"b2", "Atlanta Beat WFC"},
		})

	matcher := NewTeamMatcher(teamJoinColumns(false), logging.Nop)
	synced, err := matcher.SynchronizePair(a, b)
	require.NoError(t, err)
	require.Equal(t, 2, synced.Data.Len())

	byID := indexByColumn(t, synced.Data, "a_team_id")
	assert.Equal(t, "b1", synced.Data.Value(byID["a1"], "b_team_id").String())
	assert.Equal(t, "b2", synced.Data.Value(byID["a2"], "b_team_id").String(),
		"club normalization resolves the women's suffix")
}

func TestTeamPairThresholdlessTier(t *testing.T) {
	// Nothing alike about these names, but the final tier takes the best
	// assignment anyway.
	a := mustContent(t, content.EntityTypeTeam, "a",
		[]string{"a_team_id", "team_name"}, [][]string{{"a1", "Arsenal"}})
	b := mustContent(t, content.EntityTypeTeam, "b",
		[]string{"b_team_id", "team_name"}, [][]string{{"b1", "Sporting Gijon"}})

	matcher := NewTeamMatcher(teamJoinColumns(false), logging.Nop)
	synced, err := matcher.SynchronizePair(a, b)
	require.NoError(t, err)
	require.Equal(t, 1, synced.Data.Len())
	assert.Equal(t, "b1", synced.Data.Value(0, "b_team_id").String())
}

func TestTeamPairEmptySideCarries(t *testing.T) {
	a := mustContent(t, content.EntityTypeTeam, "a",
		[]string{"a_team_id", "team_name"}, [][]string{{"a1", "Arsenal"}})
	empty := mustContent(t, content.EntityTypeTeam, "b",
		[]string{"b_team_id", "team_name"}, nil)

	matcher := NewTeamMatcher(teamJoinColumns(false), logging.Nop)
	synced, err := matcher.SynchronizePair(a, empty)
	require.NoError(t, err)
	require.Equal(t, 1, synced.Data.Len())
	assert.True(t, synced.Data.Value(0, "b_team_id").IsNull())
}

func TestTeamPairKeepsUnmatchedRows(t *testing.T) {
	a := mustContent(t, content.EntityTypeTeam, "a",
		[]string{"a_team_id", "team_name"}, [][]string{
			{"a1", "Arsenal"},
			{"a2", "Chelsea"},
		})
	b := mustContent(t, content.EntityTypeTeam, "b",
		[]string{"b_team_id", "team_name"}, [][]string{{"b1", "Arsenal"}})

	matcher := NewTeamMatcher(teamJoinColumns(false), logging.Nop)
	synced, err := matcher.SynchronizePair(a, b)
	require.NoError(t, err)
	require.Equal(t, 2, synced.Data.Len(), "unmatched left rows stay, with a null sibling id")

	byID := indexByColumn(t, synced.Data, "a_team_id")
	assert.True(t, synced.Data.Value(byID["a2"], "b_team_id").IsNull())
}
