package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsync/rosetta/pkg/content"
	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/logging"
)

var playerJoinColumns = []string{"jersey_number", "team_id", "player_name"}

func TestNewPlayerEngineFiltersUnreliableColumns(t *testing.T) {
	a := mustContent(t, content.EntityTypePlayer, "a",
		[]string{"a_player_id", "player_name", "jersey_number", "team_id"}, [][]string{
			{"p1", "Jordi Alba", "18", "T1"},
		})
	// b carries no jersey numbers at all.
	b := mustContent(t, content.EntityTypePlayer, "b",
		[]string{"b_player_id", "player_name", "team_id"}, [][]string{
			{"q1", "Jordi Alba", "T1"},
		})

	engine, err := NewPlayerEngine([]*content.Content{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"team_id", "player_name"}, engine.JoinColumns())
}

func TestNewPlayerEngineFiltersPartialColumns(t *testing.T) {
	a := mustContent(t, content.EntityTypePlayer, "a",
		[]string{"a_player_id", "player_name", "jersey_number", "team_id"}, [][]string{
			{"p1", "Jordi Alba", "18", "T1"},
			{"p2", "Sergi Roberto", "", "T1"},
		})
	b := mustContent(t, content.EntityTypePlayer, "b",
		[]string{"b_player_id", "player_name", "jersey_number", "team_id"}, [][]string{
			{"q1", "Jordi Alba", "18", "T1"},
		})

	engine, err := NewPlayerEngine([]*content.Content{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"team_id", "player_name"}, engine.JoinColumns(),
		"a column with partial coverage anywhere is dropped for everyone")
}

func TestNewPlayerEngineNoUsableColumns(t *testing.T) {
	a := mustContent(t, content.EntityTypePlayer, "a",
		[]string{"a_player_id", "height"}, [][]string{{"p1", "180"}})

	_, err := NewPlayerEngine([]*content.Content{a})
	require.Error(t, err)
	var dq *errors.DataQualityError
	assert.ErrorAs(t, err, &dq)
}

func TestPlayerPairFirstLayer(t *testing.T) {
	a := mustContent(t, content.EntityTypePlayer, "a",
		[]string{"a_player_id", "player_name", "jersey_number", "team_id"}, [][]string{
			{"p1", "Jordi Alba", "18", "T1"},
			{"p2", "Lionel Messi", "10", "T1"},
		})
	b := mustContent(t, content.EntityTypePlayer, "b",
		[]string{"b_player_id", "player_name", "jersey_number", "team_id"}, [][]string{
			{"q1", "Lionel Messi", "10", "T1"},
			{"q2", "Jordi Alba", "18", "T1"},
		})

	matcher := NewPlayerMatcher(playerJoinColumns, nil, logging.Nop)
	synced, err := matcher.SynchronizePair(a, b)
	require.NoError(t, err)
	require.Equal(t, 2, synced.Data.Len())

	byID := indexByColumn(t, synced.Data, "a_player_id")
	assert.Equal(t, "q2", synced.Data.Value(byID["p1"], "b_player_id").String())
	assert.Equal(t, "q1", synced.Data.Value(byID["p2"], "b_player_id").String())
}

func TestPlayerPairJerseyMismatchFallsThrough(t *testing.T) {
	// Identical names but different jerseys: the first layer rejects the
	// pair, the team-only cosine layer accepts it.
	a := mustContent(t, content.EntityTypePlayer, "a",
		[]string{"a_player_id", "player_name", "jersey_number", "team_id"}, [][]string{
			{"p1", "Jordi Alba", "18", "T1"},
		})
	b := mustContent(t, content.EntityTypePlayer, "b",
		[]string{"b_player_id", "player_name", "jersey_number", "team_id"}, [][]string{
			{"q1", "Jordi Alba", "3", "T1"},
		})

	matcher := NewPlayerMatcher(playerJoinColumns, nil, logging.Nop)
	synced, err := matcher.SynchronizePair(a, b)
	require.NoError(t, err)
	require.Equal(t, 1, synced.Data.Len())
	assert.Equal(t, "q1", synced.Data.Value(0, "b_player_id").String())
}

func TestPlayerPairBirthDateSwap(t *testing.T) {
	// Same player, month and day transposed between providers, dissimilar
	// jerseys so the birth-date layer has to do the work.
	a := mustContent(t, content.EntityTypePlayer, "a",
		[]string{"a_player_id", "player_name", "jersey_number", "team_id", "birth_date"}, [][]string{
			{"p1", "Cristiano Ronaldo", "7", "T1", "1985-02-05"},
		})
	b := mustContent(t, content.EntityTypePlayer, "b",
		[]string{"b_player_id", "player_name", "jersey_number", "team_id", "birth_date"}, [][]string{
			{"q1", "Cristiano Ronaldo", "99", "T2", "1985-05-02"},
		})

	matcher := NewPlayerMatcher(playerJoinColumns, nil, logging.Nop)
	layer := Layer{
		Title:             "birth date swap",
		ShiftBirthDate:    true,
		SwapBirthMonthDay: true,
		Input1Field:       "player_name",
		Input2Field:       "player_name",
		OtherEqualFields:  []string{"birth_date"},
		Threshold:         defaultPlayerThreshold,
	}
	pairs, err := matcher.runLayer(a, b, layer)
	require.NoError(t, err)
	require.Equal(t, 1, pairs.Len())
	assert.Equal(t, "p1", pairs.Value(0, "a_player_id").String())
	assert.Equal(t, "q1", pairs.Value(0, "b_player_id").String())

	// The perturbation runs on a copy.
	assert.Equal(t, "1985-02-05", a.Data.Value(0, "birth_date").String())
}

func TestPlayerPairBirthDateCascade(t *testing.T) {
	a := mustContent(t, content.EntityTypePlayer, "a",
		[]string{"a_player_id", "player_name", "jersey_number", "team_id", "birth_date"}, [][]string{
			{"p1", "Cristiano Ronaldo", "7", "T1", "1985-02-05"},
		})
	b := mustContent(t, content.EntityTypePlayer, "b",
		[]string{"b_player_id", "player_name", "jersey_number", "team_id", "birth_date"}, [][]string{
			{"q1", "Cristiano Ronaldo", "99", "T1", "1985-05-02"},
		})

	matcher := NewPlayerMatcher(playerJoinColumns, nil, logging.Nop)
	synced, err := matcher.SynchronizePair(a, b)
	require.NoError(t, err)
	require.Equal(t, 1, synced.Data.Len())
	assert.Equal(t, "q1", synced.Data.Value(0, "b_player_id").String())
}

func TestPlayerPairLastResortLayer(t *testing.T) {
	// Name forms too far apart for every similarity threshold; only the
	// closing thresholdless jersey/team layer can pair them.
	a := mustContent(t, content.EntityTypePlayer, "a",
		[]string{"a_player_id", "player_name", "jersey_number", "team_id"}, [][]string{
			{"p1", "Robert Lewandowski", "9", "T1"},
		})
	b := mustContent(t, content.EntityTypePlayer, "b",
		[]string{"b_player_id", "player_name", "jersey_number", "team_id"}, [][]string{
			{"q1", "Lewa", "9", "T1"},
		})

	matcher := NewPlayerMatcher(playerJoinColumns, nil, logging.Nop)
	synced, err := matcher.SynchronizePair(a, b)
	require.NoError(t, err)
	require.Equal(t, 1, synced.Data.Len())
	assert.Equal(t, "q1", synced.Data.Value(0, "b_player_id").String())
}

func TestRunLayerRejectsDuplicateClaims(t *testing.T) {
	// Two rows share an identifier, so the layer's matches claim the same
	// id twice. Nothing may come out of it.
	a := mustContent(t, content.EntityTypePlayer, "a",
		[]string{"a_player_id", "player_name", "team_id"}, [][]string{
			{"p1", "John Smith", "T1"},
			{"p1", "Jon Smith", "T1"},
		})
	b := mustContent(t, content.EntityTypePlayer, "b",
		[]string{"b_player_id", "player_name", "team_id"}, [][]string{
			{"q1", "John Smith", "T1"},
			{"q2", "Jon Smith", "T1"},
		})

	matcher := NewPlayerMatcher([]string{"team_id", "player_name"}, nil, logging.Nop)
	pairs, err := matcher.runLayer(a, b, Layer{
		Title:            "duplicate claims",
		Input1Field:      "player_name",
		Input2Field:      "player_name",
		OtherEqualFields: []string{"team_id"},
		Threshold:        0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, pairs.Len())
}

func TestRunLayerSkipsMissingNameField(t *testing.T) {
	a := mustContent(t, content.EntityTypePlayer, "a",
		[]string{"a_player_id", "player_name", "team_id"}, [][]string{
			{"p1", "Jordi Alba", "T1"},
		})
	b := mustContent(t, content.EntityTypePlayer, "b",
		[]string{"b_player_id", "player_name", "team_id"}, [][]string{
			{"q1", "Jordi Alba", "T1"},
		})

	matcher := NewPlayerMatcher([]string{"team_id", "player_name"}, nil, logging.Nop)
	pairs, err := matcher.runLayer(a, b, Layer{
		Title:       "nickname layer without nicknames",
		Input1Field: "player_nickname",
		Input2Field: "player_name",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, pairs.Len())
}

func TestPlayerPairCustomLayers(t *testing.T) {
	a := mustContent(t, content.EntityTypePlayer, "a",
		[]string{"a_player_id", "player_name", "jersey_number", "team_id"}, [][]string{
			{"p1", "Robert Lewandowski", "9", "T1"},
		})
	b := mustContent(t, content.EntityTypePlayer, "b",
		[]string{"b_player_id", "player_name", "jersey_number", "team_id"}, [][]string{
			{"q1", "Lewa", "10", "T2"},
		})

	// The custom cascade has no equality requirements at all, so even this
	// pair resolves.
	matcher := NewPlayerMatcher(playerJoinColumns, []Layer{{
		Title:       "anything goes",
		Input1Field: "player_name",
		Input2Field: "player_name",
		Threshold:   0,
	}}, logging.Nop)
	synced, err := matcher.SynchronizePair(a, b)
	require.NoError(t, err)
	require.Equal(t, 1, synced.Data.Len())
	assert.Equal(t, "q1", synced.Data.Value(0, "b_player_id").String())
}
