package sync

import (
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sportsync/rosetta/pkg/content"
	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/similarity"
	"github.com/sportsync/rosetta/pkg/tabular"
)

// defaultPlayerThreshold is the cosine-similarity floor for name-based
// player layers. The closing layer of the cascade drops it to zero.
const defaultPlayerThreshold = 0.75

// Method selects the string-similarity methodology a player layer uses to
// compare name fields. The zero value means cosine.
type Method string

const (
	// MethodCosine pairs names by TF-IDF cosine similarity and optimal
	// assignment.
	MethodCosine Method = "cosine"
	// MethodNaive pairs names by whitespace token-set overlap, catching
	// nickname-versus-full-name cases.
	MethodNaive Method = "naive"
	// MethodFuzzy pairs names by Levenshtein edit-distance ratio.
	MethodFuzzy Method = "fuzzy"
)

// Layer is one strategy of the player synchronization cascade: which name
// fields to compare, how, at what threshold, which other fields must be
// exactly equal for a pair to count, and an optional birth-date
// perturbation applied to the first input before comparing.
type Layer struct {
	// Title names the strategy in trace logs.
	Title string

	// Method is the name-similarity methodology. Zero value is cosine.
	Method Method

	// ShiftBirthDate enables the birth-date perturbation: input1's
	// birth_date is shifted by DateShiftDays days (and re-rendered
	// year-day-month when SwapBirthMonthDay is set) on a copy before the
	// layer runs. Requires birth_date on both sides to take effect.
	ShiftBirthDate    bool
	DateShiftDays     int
	SwapBirthMonthDay bool

	// Input1Field and Input2Field are the name columns compared, one per
	// side. Layers whose fields are missing match nothing.
	Input1Field string
	Input2Field string

	// OtherEqualFields must be cell-equal on both sides for a name match
	// to be accepted. Fields missing from either side are ignored; null
	// cells never compare equal.
	OtherEqualFields []string

	// Threshold is the minimum similarity for cosine and fuzzy layers.
	Threshold float64
}

// PlayerMatcher reconciles player records pairwise by running a cascade of
// layers over the still-unmatched remainder, each layer only ever filling
// identifier gaps the earlier ones left null.
type PlayerMatcher struct {
	joinColumns []string
	layers      []Layer
	logger      zerolog.Logger
}

// NewPlayerMatcher creates a player matcher. layers, when non-empty,
// replaces the built-in cascade that otherwise follows the initial
// jersey/team layer.
func NewPlayerMatcher(joinColumns []string, layers []Layer, logger zerolog.Logger) *PlayerMatcher {
	return &PlayerMatcher{joinColumns: joinColumns, layers: layers, logger: logger}
}

// EntityType returns the entity type the matcher reconciles.
func (m *PlayerMatcher) EntityType() content.EntityType {
	return content.EntityTypePlayer
}

// NewPlayerEngine creates a synchronization engine for player records.
//
// Unlike the match and team engines it takes no fixed join columns: player
// data is the least uniform across providers, so the base column set
// (jersey_number, team_id, player_name) is vetted first and any column a
// provider omits or leaves partially null is removed from the join logic.
// Creation fails with a data-quality error when no usable column remains.
func NewPlayerEngine(cs []*content.Content, opts ...Option) (*Engine, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	base := []string{"jersey_number", "team_id", "player_name"}
	joinColumns := make([]string, 0, len(base))
	for _, col := range base {
		reliable := true
		for _, c := range cs {
			if !c.Data.HasColumn(col) {
				o.logger.Debug().Str("column", col).Str("provider", c.Provider).
					Msg("Removing column from join logic: provider does not include it")
				reliable = false
				break
			}
			if !fullyPopulated(c.Data, col) {
				o.logger.Debug().Str("column", col).Str("provider", c.Provider).
					Msg("Removing column from join logic: provider does not have complete coverage")
				reliable = false
				break
			}
		}
		if reliable {
			joinColumns = append(joinColumns, col)
		}
	}

	matcher := NewPlayerMatcher(joinColumns, o.playerLayers, o.logger)
	return New(content.EntityTypePlayer, cs, joinColumns, matcher, opts...)
}

// fullyPopulated reports whether every row of the table has a non-null
// value in the column.
func fullyPopulated(t *tabular.Table, column string) bool {
	for i := 0; i < t.Len(); i++ {
		if t.Value(i, column).IsNull() {
			return false
		}
	}
	return true
}

// SynchronizePair reconciles two player wrappers.
//
// An initial layer pairs names at the default cosine threshold with equal
// jersey number and team. The cascade then works the remainder: birth-date
// perturbation layers (day shifts of -1 and 0, with and without the
// month/day swap, over every name-field combination) when birth_date is
// fully populated on both sides, then cosine-by-team, naive-by-team, and a
// final thresholdless layer on jersey and team. Unlike the match and team
// matchers only fully cross-referenced rows are returned; the engine's
// later passes re-surface what stayed unmatched.
func (m *PlayerMatcher) SynchronizePair(input1, input2 *content.Content) (*content.Content, error) {
	if carried := carryEmptySide(input1, input2); carried != nil {
		return carried, nil
	}

	m.logger.Debug().
		Str("input1", input1.Provider).Int("len1", input1.Data.Len()).
		Str("input2", input2.Provider).Int("len2", input2.Data.Len()).
		Msg("Attempting simple match on jersey/team")

	pairs, err := m.runLayer(input1, input2, Layer{
		Title:            "Layer 1: cosine similarity x jersey number x team",
		OtherEqualFields: []string{"jersey_number", "team_id"},
		Input1Field:      "player_name",
		Input2Field:      "player_name",
		Threshold:        defaultPlayerThreshold,
	})
	if err != nil {
		return nil, err
	}

	baseCols := make([]string, 0, 8)
	for _, col := range []string{"player_name", "player_nickname", "jersey_number", "team_id"} {
		if input1.Data.HasColumn(col) {
			baseCols = append(baseCols, col)
		}
	}
	baseCols = append(baseCols, idColumnsOf(input1.Data)...)
	base, err := input1.Data.Select(baseCols...)
	if err != nil {
		return nil, err
	}
	syncResult, err := base.LeftJoin(pairs, []string{input1.IDField})
	if err != nil {
		return nil, err
	}
	synced := syncResult.DropNullRows(input1.IDField, input2.IDField)
	m.logger.Debug().Int("rows", synced.Len()).Msg("Simple match on jersey/team complete")

	layers := m.layers
	if len(layers) == 0 {
		layers = m.buildCascade(input1, input2)
	}
	m.logger.Debug().Int("strategies", len(layers)).
		Msg("Collected pair synchronization strategies, applying until rows run out")

	for _, layer := range layers {
		remaining1 := remainderOf(input1, synced)
		remaining2 := remainderOf(input2, synced)
		if remaining1.Data.Len() == 0 || remaining2.Data.Len() == 0 {
			m.logger.Debug().Msg("No more data to synchronize")
			break
		}

		attempts, err := m.runLayer(remaining1, remaining2, layer)
		if err != nil {
			return nil, err
		}
		if attempts.Len() == 0 {
			continue
		}

		syncResult, err = syncResult.LeftJoin(attempts, []string{input1.IDField})
		if err != nil {
			return nil, err
		}
		syncResult.OverwriteMatchedJoined(input2.IDField, input1.IDField,
			attempts.NonNullSet(input1.IDField))
		synced = syncResult.DropNullRows(input1.IDField, input2.IDField)
	}

	final := synced
	m.logger.Debug().Int("rows", final.Len()).
		Msg("All pair sync strategies applied")
	return &content.Content{
		EntityType: input1.EntityType,
		Provider:   input1.Provider,
		IDField:    input1.IDField,
		Data:       final,
	}, nil
}

// buildCascade assembles the built-in strategy list applied after the
// initial jersey/team layer.
func (m *PlayerMatcher) buildCascade(input1, input2 *content.Content) []Layer {
	nameFields := [][2]string{
		{"player_name", "player_name"},
		{"player_name", "player_nickname"},
		{"player_nickname", "player_name"},
		{"player_nickname", "player_nickname"},
	}

	var layers []Layer

	// Providers disagree on birth dates too (timezones, human error,
	// transposed month and day), so when the field is complete on both
	// sides, try every small perturbation of it.
	birthDateReliable := input1.Data.HasColumn("birth_date") &&
		fullyPopulated(input1.Data, "birth_date") &&
		input2.Data.HasColumn("birth_date") &&
		fullyPopulated(input2.Data, "birth_date")
	if birthDateReliable {
		for _, p := range nameFields {
			for _, swap := range []bool{false, true} {
				for d := -1; d < 1; d++ {
					layers = append(layers, Layer{
						Title:             "Layer 2: cosine similarity x birth date x team",
						ShiftBirthDate:    true,
						DateShiftDays:     d,
						SwapBirthMonthDay: swap,
						Input1Field:       p[0],
						Input2Field:       p[1],
						OtherEqualFields:  []string{"birth_date", "team_id"},
						Threshold:         defaultPlayerThreshold,
					})
				}
			}
		}
	} else {
		m.logger.Debug().Msg("Skipping birth date matching strategies: birth_date field is not reliable")
	}

	for _, p := range nameFields {
		layers = append(layers, Layer{
			Title:            "Layer 3: cosine similarity x team",
			Input1Field:      p[0],
			Input2Field:      p[1],
			OtherEqualFields: []string{"team_id"},
			Threshold:        defaultPlayerThreshold,
		})
	}

	for _, p := range nameFields {
		layers = append(layers, Layer{
			Title:            "Layer 4: naive similarity x team",
			Method:           MethodNaive,
			Input1Field:      p[0],
			Input2Field:      p[1],
			OtherEqualFields: []string{"team_id"},
		})
	}

	layer5Fields := []string{"jersey_number", "team_id"}
	layer5Title := "Layer 5: jersey number x team"
	if !slices.Contains(m.joinColumns, "jersey_number") {
		m.logger.Debug().Msg("Removing jersey_number from Layer 5: marked unreliable")
		layer5Fields = []string{"team_id"}
		layer5Title = "Layer 5: team"
	}
	layers = append(layers, Layer{
		Title:            layer5Title,
		Input1Field:      "player_name",
		Input2Field:      "player_name",
		OtherEqualFields: layer5Fields,
		Threshold:        0,
	})

	return layers
}

// runLayer applies one strategy to a pair and returns the accepted
// identifier pairs as a two-column table. Inputs are never mutated: the
// birth-date perturbation operates on a copy. Pairs where either
// identifier is claimed more than once within the layer are rejected
// wholesale, so a layer can never propagate a duplicate cross-reference.
func (m *PlayerMatcher) runLayer(input1, input2 *content.Content, layer Layer) (*tabular.Table, error) {
	m.logger.Debug().
		Str("strategy", layer.Title).
		Str("method", string(layer.method())).
		Bool("shift_birth_date", layer.ShiftBirthDate).
		Int("shift_days", layer.DateShiftDays).
		Bool("swap_birth_month_day", layer.SwapBirthMonthDay).
		Str("input1_field", layer.Input1Field).
		Str("input2_field", layer.Input2Field).
		Strs("other_equal_fields", layer.OtherEqualFields).
		Float64("threshold", layer.Threshold).
		Str("input1", input1.Provider).Int("len1", input1.Data.Len()).
		Str("input2", input2.Provider).Int("len2", input2.Data.Len()).
		Msg("Attempting strategy-based pair synchronization")

	pairs := tabular.New(input1.IDField, input2.IDField)

	left := input1.Data
	if layer.ShiftBirthDate && left.HasColumn("birth_date") && input2.Data.HasColumn("birth_date") {
		layout := dateLayout
		if layer.SwapBirthMonthDay {
			layout = swappedDateLayout
		}
		left = shiftDateColumn(left, "birth_date", layer.DateShiftDays, layout)
	}

	if !left.HasColumn(layer.Input1Field) || !input2.Data.HasColumn(layer.Input2Field) {
		m.logger.Debug().Str("strategy", layer.Title).Msg("Skipping strategy: name field missing")
		return pairs, nil
	}
	col1, err := left.Column(layer.Input1Field)
	if err != nil {
		return nil, err
	}
	col2, err := input2.Data.Column(layer.Input2Field)
	if err != nil {
		return nil, err
	}

	var matches []similarity.Match
	switch layer.method() {
	case MethodNaive:
		matches, err = similarity.NaiveMatch(col1, col2)
	case MethodFuzzy:
		matches, err = similarity.FuzzyMatch(col1, col2, layer.Threshold)
	default:
		matches, err = similarity.CosineMatch(col1, col2)
	}
	if err != nil {
		if errors.IsEmptyInput(err) {
			return pairs, nil
		}
		return nil, err
	}

	equalFields := make([]string, 0, len(layer.OtherEqualFields))
	for _, f := range layer.OtherEqualFields {
		if left.HasColumn(f) && input2.Data.HasColumn(f) {
			equalFields = append(equalFields, f)
		}
	}

	type pair struct{ id1, id2 tabular.Value }
	accepted := make([]pair, 0, len(matches))
	count1 := make(map[string]int)
	count2 := make(map[string]int)
	for _, match := range matches {
		if layer.method() != MethodNaive && match.Similarity < layer.Threshold {
			continue
		}
		equal := true
		for _, f := range equalFields {
			if !left.Value(match.Index1, f).Equal(input2.Data.Value(match.Index2, f)) {
				equal = false
				break
			}
		}
		if !equal {
			continue
		}
		id1 := input1.Data.Value(match.Index1, input1.IDField)
		id2 := input2.Data.Value(match.Index2, input2.IDField)
		if id1.IsNull() || id2.IsNull() {
			continue
		}
		accepted = append(accepted, pair{id1: id1, id2: id2})
		count1[id1.String()]++
		count2[id2.String()]++
	}

	for _, p := range accepted {
		if count1[p.id1.String()] != 1 || count2[p.id2.String()] != 1 {
			continue
		}
		err := pairs.AppendRow(map[string]tabular.Value{
			input1.IDField: p.id1,
			input2.IDField: p.id2,
		})
		if err != nil {
			return nil, err
		}
	}

	m.logger.Debug().Str("strategy", layer.Title).Int("rows", pairs.Len()).
		Msg("Strategy-based pair synchronization complete")
	return pairs, nil
}

// method resolves the layer's similarity methodology, defaulting to cosine.
func (l Layer) method() Method {
	if l.Method == "" {
		return MethodCosine
	}
	return l.Method
}

// idColumnsOf returns the table's provider identifier columns, in layout
// order.
func idColumnsOf(t *tabular.Table) []string {
	var out []string
	for _, c := range t.Columns() {
		if strings.HasSuffix(c, "_player_id") {
			out = append(out, c)
		}
	}
	return out
}
