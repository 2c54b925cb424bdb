package matcher

import "sort"

// solveGreedy walks all eligible pairs from the highest score down and
// commits every pair whose endpoints are both still free. It stops at the
// first pair whose score is not above floor.
//
// This approximates maximum-weight matching; a lower-scoring pair committed
// early can block two better pairs later. The matched set is owned by this
// call and never shared.
func solveGreedy(s *surface, floor float64) []scoredPair {
	order := make([]int, len(s.pairs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rankBefore(s.pairs[order[a]], s.pairs[order[b]])
	})

	matched := make([]bool, s.n)
	var committed []scoredPair
	for _, idx := range order {
		p := s.pairs[idx]
		if p.Affinity.Score <= floor {
			break
		}
		if matched[p.I] || matched[p.J] {
			continue
		}
		matched[p.I] = true
		matched[p.J] = true
		committed = append(committed, p)
	}
	return committed
}

// rankBefore orders by score, then symbolic rank, then enumeration order.
func rankBefore(a, b scoredPair) bool {
	if a.Affinity.Score != b.Affinity.Score {
		return a.Affinity.Score > b.Affinity.Score
	}
	if a.Affinity.SymbolicRank != b.Affinity.SymbolicRank {
		return a.Affinity.SymbolicRank > b.Affinity.SymbolicRank
	}
	return a.order < b.order
}
