// Package search implements spec.md §4.6-§4.7: uniform-cost search over a
// statespace.Mgr (with Top-K and Top-Q cheapest-plan variants) and
// bidirectional search coupling a forward and a backward UCS as mutual
// oracles.
package search

import "github.com/speckdavid/symk-sub002/internal/bdd"

// Cut is spec.md §4.8's (g, h, BDD) solution witness: a non-empty
// intersection between one direction's open frontier at cost g and the
// opposite direction's target set reachable at remaining cost h, from
// which plan.Reconstruct walks back to concrete operator sequences.
type Cut struct {
	G   int64
	H   int64
	BDD bdd.Node
}

// Bound is the cheapest proven solution cost g+h across every Cut found
// so far, or -1 if none yet.
func Bound(cuts []Cut) int64 {
	best := int64(-1)
	for _, c := range cuts {
		total := c.G + c.H
		if best == -1 || total < best {
			best = total
		}
	}

	return best
}

// Oracle is the capability one search direction exposes to the other in
// bidirectional search (spec.md §4.7): enough to prune and to bound
// termination without either direction reaching into the other's
// internals.
type Oracle interface {
	CheapestCut() (Cut, bool)
	AllCuts() []Cut
	NotClosed(g int64) bdd.Node
	HNotClosed(h int64) bdd.Node
	Exhausted() bool
}
