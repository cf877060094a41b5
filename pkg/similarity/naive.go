package similarity

import (
	"strings"

	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/tabular"
)

// NaiveMatch pairs the two collections by token-set overlap. Both sides are
// normalized and split on whitespace into token sets; a first sub-pass
// accepts exact full-string equality, a second accepts pairs where one
// token set is a subset of the other (nickname-versus-full-name cases).
// Pairing is greedy, first found wins by input order, and each string is
// consumed by at most one match.
func NaiveMatch(input1, input2 []tabular.Value, opts ...Option) ([]Match, error) {
	o := newOptions(opts...)

	side1 := dropNulls(input1, o.Normalizer)
	side2 := dropNulls(input2, o.Normalizer)
	if len(side1) == 0 || len(side2) == 0 {
		return nil, errors.ErrEmptyInput
	}

	consumed1 := make([]bool, len(side1))
	consumed2 := make([]bool, len(side2))
	var matches []Match

	// First sub-pass: exact normalized equality.
	for i, e1 := range side1 {
		for j, e2 := range side2 {
			if consumed2[j] {
				continue
			}
			if e1.normalized == e2.normalized {
				consumed1[i] = true
				consumed2[j] = true
				matches = append(matches, newNaiveMatch(e1, e2, 1.0))
				break
			}
		}
	}

	// Second sub-pass: token-set subset in either direction.
	for i, e1 := range side1 {
		if consumed1[i] {
			continue
		}
		tokens1 := tokenSet(e1.normalized)
		if len(tokens1) == 0 {
			continue
		}
		for j, e2 := range side2 {
			if consumed2[j] {
				continue
			}
			tokens2 := tokenSet(e2.normalized)
			if len(tokens2) == 0 {
				continue
			}
			if isSubset(tokens1, tokens2) || isSubset(tokens2, tokens1) {
				consumed1[i] = true
				consumed2[j] = true
				small, large := len(tokens1), len(tokens2)
				if small > large {
					small, large = large, small
				}
				matches = append(matches, newNaiveMatch(e1, e2, float64(small)/float64(large)))
				break
			}
		}
	}

	return matches, nil
}

func newNaiveMatch(e1, e2 entry, score float64) Match {
	return Match{
		Input1:           e1.raw,
		Input1Normalized: e1.normalized,
		Input2:           e2.raw,
		Input2Normalized: e2.normalized,
		Similarity:       score,
		Index1:           e1.index,
		Index2:           e2.index,
	}
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func isSubset(sub, super map[string]bool) bool {
	if len(sub) > len(super) {
		return false
	}
	for tok := range sub {
		if !super[tok] {
			return false
		}
	}
	return true
}
