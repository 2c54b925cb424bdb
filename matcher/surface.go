package matcher

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// scoredPair is one eligible unordered pair, I < J as entity positions.
type scoredPair struct {
	I, J     int
	Affinity PairAffinity
	// order is the enumeration index; it breaks score ties.
	order int
}

// surface holds every eligible pair of one run, each scored exactly once.
type surface struct {
	n     int
	pairs []scoredPair
}

// buildSurface scores all eligible pairs. Each worker owns one row of the
// upper triangle, so no two goroutines write the same slot.
func buildSurface(entities []Entity, scorer *Scorer, workers int) *surface {
	n := len(entities)
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	rows := make([][]scoredPair, n)
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			var row []scoredPair
			for j := i + 1; j < n; j++ {
				if !Eligible(entities[i], entities[j]) {
					continue
				}
				row = append(row, scoredPair{I: i, J: j, Affinity: scorer.Score(entities[i], entities[j])})
			}
			rows[i] = row
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, row := range rows {
		total += len(row)
	}
	s := &surface{n: n, pairs: make([]scoredPair, 0, total)}
	for _, row := range rows {
		for _, p := range row {
			p.order = len(s.pairs)
			s.pairs = append(s.pairs, p)
		}
	}
	return s
}

// candidates indexes the pairs touching each entity, in enumeration order.
func (s *surface) candidates() [][]int {
	out := make([][]int, s.n)
	for idx, p := range s.pairs {
		out[p.I] = append(out[p.I], idx)
		out[p.J] = append(out[p.J], idx)
	}
	return out
}

func (p scoredPair) other(i int) int {
	if p.I == i {
		return p.J
	}
	return p.I
}
