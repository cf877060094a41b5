package similarity

import "math"

// assign solves the rectangular linear assignment problem over a similarity
// matrix, maximizing total similarity. It returns parallel slices of row and
// column indices, one pair per assignment — min(rows, cols) pairs in total.
func assign(sim [][]float64) (rows, cols []int) {
	nr := len(sim)
	if nr == 0 {
		return nil, nil
	}
	nc := len(sim[0])
	if nc == 0 {
		return nil, nil
	}

	if nr <= nc {
		assigned := solve(sim, nr, nc)
		for r, c := range assigned {
			rows = append(rows, r)
			cols = append(cols, c)
		}
		return rows, cols
	}

	// More rows than columns: solve the transpose and swap back.
	t := make([][]float64, nc)
	for j := 0; j < nc; j++ {
		t[j] = make([]float64, nr)
		for i := 0; i < nr; i++ {
			t[j][i] = sim[i][j]
		}
	}
	assigned := solve(t, nc, nr)
	for c, r := range assigned {
		rows = append(rows, r)
		cols = append(cols, c)
	}
	return rows, cols
}

// solve runs the Jonker-Volgenant shortest-augmenting-path algorithm on an
// n-by-m matrix with n <= m, maximizing. The return maps each row to its
// assigned column.
func solve(sim [][]float64, n, m int) []int {
	const inf = math.MaxFloat64

	// Maximization via negated costs; potentials keep reduced costs
	// non-negative throughout.
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1) // p[j] = row assigned to column j (1-based, 0 = free)
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = inf
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := -sim[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, n)
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			rowToCol[p[j]-1] = j - 1
		}
	}
	return rowToCol
}
