package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/tabular"
	"github.com/sportsync/rosetta/pkg/textnorm"
)

func values(ss ...string) []tabular.Value {
	out := make([]tabular.Value, len(ss))
	for i, s := range ss {
		if s == "" {
			out[i] = tabular.Null()
		} else {
			out[i] = tabular.String(s)
		}
	}
	return out
}

func TestCosineMatchIdenticalStrings(t *testing.T) {
	matches, err := CosineMatch(
		values("Manchester United", "Manchester City"),
		values("Manchester City", "Manchester United"))
	require.NoError(t, err)
	require.Len(t, matches, 2)

	for _, m := range matches {
		assert.Equal(t, m.Input1, m.Input2, "optimal assignment pairs the equal strings")
		assert.InDelta(t, 1.0, m.Similarity, 1e-9)
	}
}

func TestCosineMatchAssignmentIsGloballyOptimal(t *testing.T) {
	// A greedy matcher would let "Atlanta" claim "Atlanta Beat" first and
	// strand the better pairing. The assignment solver cannot.
	matches, err := CosineMatch(
		values("Atlanta", "Atlanta Beat"),
		values("Atlanta Beat", "Atlanta"))
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, m.Input1, m.Input2)
	}
}

func TestCosineMatchRectangular(t *testing.T) {
	matches, err := CosineMatch(
		values("Arsenal", "Chelsea", "Liverpool"),
		values("Liverpool"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "one match per element of the smaller side")
	assert.Equal(t, "Liverpool", matches[0].Input1)
	assert.Equal(t, 2, matches[0].Index1)
	assert.Equal(t, 0, matches[0].Index2)
}

func TestCosineMatchIndicesAddressOriginalSlices(t *testing.T) {
	matches, err := CosineMatch(
		values("", "Arsenal"),
		values("", "", "Arsenal"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].Index1, "indices skip over dropped nulls")
	assert.Equal(t, 2, matches[0].Index2)
}

func TestCosineMatchEmptyInput(t *testing.T) {
	_, err := CosineMatch(values(""), values("Arsenal"))
	assert.ErrorIs(t, err, errors.ErrEmptyInput)

	_, err = CosineMatch(nil, values("Arsenal"))
	assert.ErrorIs(t, err, errors.ErrEmptyInput)
}

func TestCosineMatchNormalizerOption(t *testing.T) {
	matches, err := CosineMatch(
		values("Atlanta Beat"),
		values("Atlanta Beat WFC"),
		WithNormalizer(textnorm.NormalizeTeamName))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-9,
		"club normalization makes the names identical before vectorization")
	assert.Equal(t, "atlanta beat", matches[0].Input1Normalized)
}

func TestCosineMatchInvalidNGramLength(t *testing.T) {
	_, err := CosineMatch(values("a"), values("b"), WithNGramLength(0))
	assert.Error(t, err)
}

func TestNaiveMatchExactAndSubset(t *testing.T) {
	matches, err := NaiveMatch(
		values("Jordi Alba", "Lionel Andrés Messi"),
		values("Messi", "Jordi Alba"))
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "Jordi Alba", matches[0].Input1)
	assert.Equal(t, "Jordi Alba", matches[0].Input2)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-9)

	assert.Equal(t, "Lionel Andrés Messi", matches[1].Input1)
	assert.Equal(t, "Messi", matches[1].Input2)
	assert.InDelta(t, 1.0/3.0, matches[1].Similarity, 1e-9)
}

func TestNaiveMatchConsumesEachStringOnce(t *testing.T) {
	matches, err := NaiveMatch(
		values("John Smith", "John Paul Smith"),
		values("John Smith"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "John Smith", matches[0].Input1)
}

func TestNaiveMatchEmptyInput(t *testing.T) {
	_, err := NaiveMatch(values(""), values("x"))
	assert.ErrorIs(t, err, errors.ErrEmptyInput)
}

func TestFuzzyMatch(t *testing.T) {
	matches, err := FuzzyMatch(values("kitten"), values("sitting", "kitten"), 0.9)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "kitten", matches[0].Input2)

	matches, err = FuzzyMatch(values("kitten"), values("sitting"), 0.5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0-3.0/7.0, matches[0].Similarity, 1e-9)

	matches, err = FuzzyMatch(values("kitten"), values("sitting"), 0.9)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFuzzyMatchThresholdValidation(t *testing.T) {
	_, err := FuzzyMatch(values("a"), values("b"), 1.5)
	assert.Error(t, err)
	_, err = FuzzyMatch(values("a"), values("b"), -0.1)
	assert.Error(t, err)
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 1.0, Ratio("abc", "abc"), 1e-9)
	assert.InDelta(t, 1.0, Ratio("", ""), 1e-9)
	assert.InDelta(t, 1.0-3.0/7.0, Ratio("kitten", "sitting"), 1e-9)
	assert.InDelta(t, 0.0, Ratio("abc", "xyz"), 1e-9)
}
