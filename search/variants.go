package search

import (
	"sort"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/statespace"
)

// RunTopK drives a forward UCS from sm.Init() to sm.Goal() until at least
// k distinct-cost cuts have been found or the open list is exhausted,
// then returns every cut found, cheapest first (spec.md §4.6's Top-K
// variant). Every cost-consistent cut is kept rather than deduplicated
// here — plan.Reconstruct is responsible for turning a cut into distinct
// action sequences and for simple-mode loopless pruning.
func RunTopK(sm *statespace.Mgr, k int, budget bdd.Budget) []Cut {
	u := NewUCS(sm, true, sm.Init(), sm.Goal(), budget)
	for distinctCosts(u.AllCuts()) < k {
		if !u.Step() {
			break
		}
	}

	cuts := u.AllCuts()
	sort.Slice(cuts, func(i, j int) bool { return cuts[i].G+cuts[i].H < cuts[j].G+cuts[j].H })

	return cuts
}

func distinctCosts(cuts []Cut) int {
	seen := make(map[int64]bool, len(cuts))
	for _, c := range cuts {
		seen[c.G+c.H] = true
	}

	return len(seen)
}

// RunTopQ drives a forward UCS until the open list's current minimum g
// exceeds quality*optimalCost — spec.md §4.6's quality-multiplier upper
// bound on acceptable plan cost, e.g. quality=1.5 keeps every plan within
// 50% of optimal. It returns every cut found at or under that bound.
func RunTopQ(sm *statespace.Mgr, quality float64, budget bdd.Budget) []Cut {
	u := NewUCS(sm, true, sm.Init(), sm.Goal(), budget)

	for {
		optimal, ok := u.CheapestCut()
		if ok {
			bound := int64(float64(optimal.G+optimal.H) * quality)
			if minG, has := u.open.PeekMinG(); !has || minG > bound {
				break
			}
		}
		if !u.Step() {
			break
		}
	}

	optimal, ok := u.CheapestCut()
	if !ok {
		return nil
	}
	bound := int64(float64(optimal.G+optimal.H) * quality)

	var out []Cut
	for _, c := range u.AllCuts() {
		if c.G+c.H <= bound {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].G+out[i].H < out[j].G+out[j].H })

	return out
}
