package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsync/rosetta/pkg/tabular"
)

func TestCleanSpaces(t *testing.T) {
	assert.Equal(t, "a b", CleanSpaces("a b"))
	assert.Equal(t, "x", CleanSpaces("  x  "))
}

func TestRemoveAccents(t *testing.T) {
	assert.Equal(t, "Jose Mourinho", RemoveAccents("José Mourinho"))
	assert.Equal(t, "Muller", RemoveAccents("Müller"))
	assert.Equal(t, "Saul Niguez", RemoveAccents("Saúl Ñíguez"))
}

func TestRemoveAccentsNonDecomposable(t *testing.T) {
	// These letters have no combining-mark decomposition and go through the
	// transliteration table instead.
	assert.Equal(t, "Sorensen", RemoveAccents("Sørensen"))
	assert.Equal(t, "Lukasz Fabianski", RemoveAccents("Łukasz Fabiański"))
	assert.Equal(t, "Nils Aussem", RemoveAccents("Nils Außem"))
	assert.Equal(t, "Caglar Soyuncu", RemoveAccents("Çağlar Söyüncü"))
	assert.Equal(t, "Sigurdsson", RemoveAccents("Sigurðsson"))
	assert.Equal(t, "Haegeland", RemoveAccents("Hægeland"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "jose mourinho", Normalize("  José  Mourinho "))
	assert.Equal(t, "o neill", Normalize("O'Neill"))
	assert.Equal(t, "st etienne", Normalize("St.-Étienne"))
	assert.Equal(t, "", Normalize("  "))

	// Single tokens survive normalization intact even when the letter has no
	// decomposed form.
	assert.Equal(t, "sorensen", Normalize("Sørensen"))
	assert.Equal(t, "lukasz fabianski", Normalize("Łukasz Fabiański"))
	assert.Equal(t, "nils aussem", Normalize("Nils Außem"))
}

func TestRemoveWomensSuffixes(t *testing.T) {
	assert.Equal(t, "Arsenal", RemoveWomensSuffixes("Arsenal Women"))
	assert.Equal(t, "Atlanta Beat", RemoveWomensSuffixes("Atlanta Beat WFC"))
	assert.Equal(t, "Chelsea", RemoveWomensSuffixes("Chelsea, Women's"))
	assert.Equal(t, "Barcelona", RemoveWomensSuffixes("Barcelona Femenino"))
}

func TestRemoveYouthSuffixes(t *testing.T) {
	assert.Equal(t, "England", RemoveYouthSuffixes("England Under-19"))
	assert.Equal(t, "Mexico", RemoveYouthSuffixes("Mexico Sub 20"))
	assert.Equal(t, "Spain", RemoveYouthSuffixes("Spain U-21"))
}

func TestNormalizeTeamName(t *testing.T) {
	assert.Equal(t, "barcelona", NormalizeTeamName("FC Barcelona"))
	assert.Equal(t, "real madrid", NormalizeTeamName("Real Madrid CF"))
	assert.Equal(t, "lyon", NormalizeTeamName("Olympique Lyon"))
	// Women's marks never distinguish clubs across providers.
	assert.Equal(t,
		NormalizeTeamName("Atlanta Beat"),
		NormalizeTeamName("Atlanta Beat WFC"))
}

func TestNGrams(t *testing.T) {
	grams, err := NGrams("abc", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, grams)

	// Punctuation and whitespace never produce n-grams.
	grams, err = NGrams("a b,c", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "bc"}, grams)

	grams, err = NGrams("ab", 3)
	require.NoError(t, err)
	assert.Empty(t, grams)

	_, err = NGrams("abc", 0)
	assert.Error(t, err)
}

func TestNormalizeColumnPreservesNulls(t *testing.T) {
	col := []tabular.Value{tabular.String("José"), tabular.Null()}
	out := NormalizeColumn(col)
	require.Len(t, out, 2)
	assert.Equal(t, "jose", out[0].String())
	assert.True(t, out[1].IsNull())

	teams := NormalizeTeamNameColumn([]tabular.Value{tabular.String("FC Barcelona"), tabular.Null()})
	assert.Equal(t, "barcelona", teams[0].String())
	assert.True(t, teams[1].IsNull())
}
