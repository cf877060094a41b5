package similarity

import (
	"github.com/agnivade/levenshtein"

	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/tabular"
)

// FuzzyMatch pairs the two collections by edit-distance ratio over
// normalized strings. For each element of input1, in order, the best
// still-unconsumed candidate in input2 is taken when its ratio meets the
// threshold; each string is consumed by at most one match.
func FuzzyMatch(input1, input2 []tabular.Value, threshold float64, opts ...Option) ([]Match, error) {
	if threshold < 0 || threshold > 1 {
		return nil, errors.NewValidationError("threshold", threshold, "must be within [0, 1]")
	}
	o := newOptions(opts...)

	side1 := dropNulls(input1, o.Normalizer)
	side2 := dropNulls(input2, o.Normalizer)
	if len(side1) == 0 || len(side2) == 0 {
		return nil, errors.ErrEmptyInput
	}

	consumed2 := make([]bool, len(side2))
	var matches []Match
	for _, e1 := range side1 {
		best := -1
		bestRatio := 0.0
		for j, e2 := range side2 {
			if consumed2[j] {
				continue
			}
			ratio := Ratio(e1.normalized, e2.normalized)
			if ratio >= threshold && ratio > bestRatio {
				best = j
				bestRatio = ratio
			}
		}
		if best < 0 {
			continue
		}
		consumed2[best] = true
		e2 := side2[best]
		matches = append(matches, Match{
			Input1:           e1.raw,
			Input1Normalized: e1.normalized,
			Input2:           e2.raw,
			Input2Normalized: e2.normalized,
			Similarity:       bestRatio,
			Index1:           e1.index,
			Index2:           e2.index,
		})
	}
	return matches, nil
}

// Ratio computes the normalized Levenshtein similarity of two strings:
// 1 - distance/len(longer), in [0, 1]. Two empty strings are identical.
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
