package matcher

import "sort"

// solveShortlist visits entities in input order. Each still-free entity
// ranks its free eligible candidates by score, keeps the top cfg.Size, and
// re-ranks that shortlist by score plus cfg.RerankWeight times the FLAMES
// rank. The winner is committed at once, so a later entity can never claim
// someone already taken: first claim wins.
//
// Pairings can differ from solveGreedy on the same surface.
func solveShortlist(s *surface, floor float64, cfg ShortlistConfig) []scoredPair {
	cands := s.candidates()
	matched := make([]bool, s.n)
	var committed []scoredPair
	for i := 0; i < s.n; i++ {
		if matched[i] {
			continue
		}
		pool := make([]scoredPair, 0, len(cands[i]))
		for _, idx := range cands[i] {
			p := s.pairs[idx]
			if matched[p.other(i)] || p.Affinity.Score <= floor {
				continue
			}
			pool = append(pool, p)
		}
		if len(pool) == 0 {
			continue
		}
		sort.SliceStable(pool, func(a, b int) bool {
			if pool[a].Affinity.Score != pool[b].Affinity.Score {
				return pool[a].Affinity.Score > pool[b].Affinity.Score
			}
			return pool[a].other(i) < pool[b].other(i)
		})
		if len(pool) > cfg.Size {
			pool = pool[:cfg.Size]
		}
		best := pool[0]
		for _, p := range pool[1:] {
			if rerankScore(p, cfg) > rerankScore(best, cfg) {
				best = p
			}
		}
		matched[best.I] = true
		matched[best.J] = true
		committed = append(committed, best)
	}
	return committed
}

func rerankScore(p scoredPair, cfg ShortlistConfig) float64 {
	return p.Affinity.Score + cfg.RerankWeight*float64(p.Affinity.SymbolicRank)
}
