package similarity

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sportsync/rosetta/pkg/textnorm"
)

// vectorizer holds a fitted character-n-gram TF-IDF vocabulary: term index
// plus smoothed inverse document frequencies.
type vectorizer struct {
	n     int
	vocab map[string]int
	idf   []float64
}

// fitVectorizer learns the vocabulary and document frequencies from the
// corpus. Smoothing follows the conventional formulation
// idf(t) = ln((1+N)/(1+df(t))) + 1, which keeps unseen-term behavior tame.
func fitVectorizer(corpus []string, n int) (*vectorizer, error) {
	v := &vectorizer{n: n, vocab: make(map[string]int)}
	docFreq := make([]int, 0)
	for _, doc := range corpus {
		grams, err := textnorm.NGrams(doc, n)
		if err != nil {
			return nil, err
		}
		seen := make(map[int]bool, len(grams))
		for _, g := range grams {
			ti, ok := v.vocab[g]
			if !ok {
				ti = len(v.vocab)
				v.vocab[g] = ti
				docFreq = append(docFreq, 0)
			}
			if !seen[ti] {
				docFreq[ti]++
				seen[ti] = true
			}
		}
	}
	v.idf = make([]float64, len(docFreq))
	total := float64(len(corpus))
	for ti, df := range docFreq {
		v.idf[ti] = math.Log((1+total)/(1+float64(df))) + 1
	}
	return v, nil
}

// transform maps documents into l2-normalized TF-IDF vectors over the
// fitted vocabulary. Documents with no in-vocabulary n-grams come out as
// zero vectors.
func (v *vectorizer) transform(docs []string) []map[int]float64 {
	out := make([]map[int]float64, len(docs))
	for di, doc := range docs {
		grams, err := textnorm.NGrams(doc, v.n)
		if err != nil {
			out[di] = map[int]float64{}
			continue
		}
		vec := make(map[int]float64, len(grams))
		for _, g := range grams {
			if ti, ok := v.vocab[g]; ok {
				vec[ti] += v.idf[ti]
			}
		}
		var norm float64
		for _, w := range vec {
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for ti := range vec {
				vec[ti] /= norm
			}
		}
		out[di] = vec
	}
	return out
}

// cosineMatrix computes the dense pairwise cosine similarity matrix between
// two sets of l2-normalized sparse vectors: result[i][j] = rows[i] . cols[j].
// The multiplication runs through gonum once the sparse vectors are laid out
// densely.
func cosineMatrix(rows, cols []map[int]float64) [][]float64 {
	dim := 0
	for _, vec := range rows {
		for ti := range vec {
			if ti+1 > dim {
				dim = ti + 1
			}
		}
	}
	for _, vec := range cols {
		for ti := range vec {
			if ti+1 > dim {
				dim = ti + 1
			}
		}
	}

	out := make([][]float64, len(rows))
	if dim == 0 {
		// No shared vector space at all (every string shorter than one
		// n-gram): similarity is uniformly zero.
		for i := range out {
			out[i] = make([]float64, len(cols))
		}
		return out
	}

	a := mat.NewDense(len(rows), dim, nil)
	for i, vec := range rows {
		for ti, w := range vec {
			a.Set(i, ti, w)
		}
	}
	b := mat.NewDense(len(cols), dim, nil)
	for j, vec := range cols {
		for ti, w := range vec {
			b.Set(j, ti, w)
		}
	}

	var c mat.Dense
	c.Mul(a, b.T())
	for i := range out {
		out[i] = mat.Row(nil, i, &c)
	}
	return out
}
