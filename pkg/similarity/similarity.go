// Package similarity computes pairwise string similarity between two
// collections, pairing them one-to-one. The primary methodology vectorizes
// normalized strings into character-n-gram TF-IDF vectors, computes the full
// cosine similarity matrix, and solves the rectangular linear assignment
// problem over it, so no two strings on one side ever compete for the same
// unique best candidate on the other — the failure mode of greedy
// nearest-neighbor pairing.
//
// Two cheaper methodologies back it up for cascade fallbacks: token-set
// ("naive") matching and Levenshtein-ratio ("fuzzy") matching.
package similarity

import (
	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/tabular"
	"github.com/sportsync/rosetta/pkg/textnorm"
)

// Match is one paired result. Index1 and Index2 address the original input
// slices (before null dropping). Raw strings are reported pre-normalization
// alongside their normalized forms.
type Match struct {
	Input1           string
	Input1Normalized string
	Input2           string
	Input2Normalized string
	Similarity       float64
	Index1           int
	Index2           int
}

// Options configures a similarity computation.
type Options struct {
	// Normalizer canonicalizes strings before comparison.
	// Defaults to textnorm.Normalize.
	Normalizer func(string) string
	// NGramLength is the character n-gram size for TF-IDF vectorization.
	// Defaults to 3.
	NGramLength int
}

// Option mutates Options.
type Option func(*Options)

// WithNormalizer overrides the string normalizer.
func WithNormalizer(fn func(string) string) Option {
	return func(o *Options) {
		o.Normalizer = fn
	}
}

// WithNGramLength overrides the n-gram size.
func WithNGramLength(n int) Option {
	return func(o *Options) {
		o.NGramLength = n
	}
}

func newOptions(opts ...Option) *Options {
	o := &Options{
		Normalizer:  textnorm.Normalize,
		NGramLength: 3,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// entry is one non-null input element with its position in the original
// column.
type entry struct {
	index      int
	raw        string
	normalized string
}

// dropNulls filters a column to its non-null entries and normalizes them.
func dropNulls(column []tabular.Value, normalize func(string) string) []entry {
	out := make([]entry, 0, len(column))
	for i, v := range column {
		if v.IsNull() {
			continue
		}
		out = append(out, entry{
			index:      i,
			raw:        v.String(),
			normalized: normalize(v.String()),
		})
	}
	return out
}

// CosineMatch pairs the two collections one-to-one by TF-IDF cosine
// similarity and optimal assignment. Null cells are dropped from both sides
// first; it is an error for either side to be empty afterwards. One Match is
// produced per assigned pair — min(len(input1), len(input2)) in total.
func CosineMatch(input1, input2 []tabular.Value, opts ...Option) ([]Match, error) {
	o := newOptions(opts...)
	if o.NGramLength <= 0 {
		return nil, errors.NewValidationError("ngram length", o.NGramLength, "must be greater than 0")
	}

	side1 := dropNulls(input1, o.Normalizer)
	side2 := dropNulls(input2, o.Normalizer)
	if len(side1) == 0 || len(side2) == 0 {
		return nil, errors.ErrEmptyInput
	}

	// Fit the vector space over the union of both normalized corpora.
	corpus := make([]string, 0, len(side1)+len(side2))
	for _, e := range side1 {
		corpus = append(corpus, e.normalized)
	}
	for _, e := range side2 {
		corpus = append(corpus, e.normalized)
	}
	vectorizer, err := fitVectorizer(corpus, o.NGramLength)
	if err != nil {
		return nil, err
	}

	vecs1 := vectorizer.transform(corpus[:len(side1)])
	vecs2 := vectorizer.transform(corpus[len(side1):])

	// Rows are input2, columns are input1.
	sim := cosineMatrix(vecs2, vecs1)

	rows, cols := assign(sim)

	matches := make([]Match, 0, len(rows))
	for k := range rows {
		r, c := rows[k], cols[k]
		matches = append(matches, Match{
			Input1:           side1[c].raw,
			Input1Normalized: side1[c].normalized,
			Input2:           side2[r].raw,
			Input2Normalized: side2[r].normalized,
			Similarity:       sim[r][c],
			Index1:           side1[c].index,
			Index2:           side2[r].index,
		})
	}
	return matches, nil
}
