package frontier

import (
	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/statespace"
)

// Stage names where Prepare stopped, for truncated results.
type Stage int

const (
	StageDone Stage = iota
	StageFilter
	StageMerge
	StageZero
)

// Prepared is the outcome of running the pipeline once.
type Prepared struct {
	States    bdd.Node
	Truncated bool
	StoppedAt Stage

	// ZeroLayers is the ordered zero-cost saturation trace: ZeroLayers[0]
	// is the merged state before any zero-cost step, ZeroLayers[i] is the
	// cumulative closure after the i-th zero-cost image/preimage step.
	// plan.Reconstruct's zero-cost zig-zag walk needs this ordering to
	// find which layer a concrete state first appeared in; States alone
	// (the final, merged layer) destroys that information.
	ZeroLayers []bdd.Node
}

// Prepare runs spec.md §4.4's three-stage pipeline on raw, a freshly
// computed image or preimage at generation g:
//
//  1. Sfilter — mutex-filter raw via sm.FilterMutex.
//  2. Smerge — drop whatever is already closed at this generation, so a
//     state reached twice at the same g contributes nothing new.
//  3. Szero — saturate under the zero-cost transition relation: states
//     reachable for free share g with their predecessor, so they must be
//     fully absorbed into this bucket before it is considered finished.
//
// zeroCost is the statespace Bucket for action cost 0; pass a Bucket
// with no TRs when the task has none and Szero degenerates to a no-op.
func Prepare(sm *statespace.Mgr, raw bdd.Node, fw bool, zeroCost statespace.Bucket, closedAtG bdd.Node, budget bdd.Budget) Prepared {
	mgr := sm.BDD()

	filtered := sm.FilterMutex(raw, fw)

	merged := mgr.And(filtered, mgr.Not(closedAtG))

	zero := merged
	layers := []bdd.Node{zero}
	for len(zeroCost.TRs) > 0 {
		var step bdd.Result
		if fw {
			step = sm.Image(zero, zeroCost)
		} else {
			step = sm.Preimage(zero, zeroCost)
		}
		if step.Truncated {
			return Prepared{States: zero, Truncated: true, StoppedAt: StageZero, ZeroLayers: layers}
		}

		grown := mgr.Or(zero, step.Node)
		if mgr.Equal(grown, zero) {
			break
		}
		zero = grown
		layers = append(layers, zero)
	}

	return Prepared{States: zero, StoppedAt: StageDone, ZeroLayers: layers}
}
