// Package plan implements spec.md §4.8: Reconstruct backward-walks a cut
// that search.UCS/search.Bidirectional report through individual operator
// transition relations into a concrete action sequence, the Solution
// Registry collects the resulting plans (plans, not cuts), and Validate
// re-simulates a plan against the original task.
package plan

import (
	"errors"
	"fmt"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/search"
	"github.com/speckdavid/symk-sub002/statespace"
	"github.com/speckdavid/symk-sub002/trel"
)

// ErrUnreconstructable indicates Reconstruct's backward walk could not
// find an operator connecting two consecutive layers — it should only
// happen if the Cut handed in did not actually originate from the Mgr
// passed to Reconstruct.
var ErrUnreconstructable = errors.New("plan: no operator connects the expected generations")

// Plan is one concrete, validated action sequence.
type Plan struct {
	Cost    int64
	Actions []string
}

// closedAt abstracts the little a Cut's originating search needs to
// expose for reconstruction — UCS and Bidirectional's two legs both
// satisfy it without Reconstruct needing to know which one produced the
// cut.
type closedAt interface {
	ClosedAt(g int64) bdd.Node
	ZeroCostLayersAt(g int64) []bdd.Node
}

// Reconstruct walks a forward-search Cut backward from its BDD to
// generation 0. At each step it first tries a zero-cost operator TR
// leading back to an earlier zero-cost layer at the same g; otherwise it
// takes the first operator TR, in OperatorTRs order, whose preimage
// intersects the closed set of generation g minus that TR's cost. Every
// step lowers either g or the zero-cost layer index, so the walk is
// loopless, per spec.md §4.8's "simple" mode. fwd is the UCS (or
// bidirectional leg) that produced cut.
func Reconstruct(sm *statespace.Mgr, fwd closedAt, cut search.Cut) (Plan, error) {
	mgr := sm.BDD()
	state := mgr.PickCube(cut.BDD)
	if mgr.IsFalse(state) {
		return Plan{}, fmt.Errorf("plan: cut has empty BDD")
	}

	g := cut.G
	var reversed []string
	for {
		if tr, predCube, ok := stepBackZeroCost(sm, fwd, state, g); ok {
			reversed = append(reversed, operatorName(sm, tr))
			state = predCube
			continue
		}
		if g == 0 {
			break
		}
		tr, predCube, ok := stepBack(sm, fwd, state, g)
		if !ok {
			return Plan{}, fmt.Errorf("%w: at g=%d", ErrUnreconstructable, g)
		}
		reversed = append(reversed, operatorName(sm, tr))
		state = predCube
		g -= tr.Cost
	}

	actions := make([]string, len(reversed))
	for i, a := range reversed {
		actions[len(reversed)-1-i] = a
	}

	return Plan{Cost: cut.G, Actions: actions}, nil
}

// stepBack finds a cost-decreasing operator TR (stepBackZeroCost handles
// the zero-cost case, so this only considers Cost>0 TRs) whose preimage of
// state intersects the previous generation's closed set.
func stepBack(sm *statespace.Mgr, fwd closedAt, state bdd.Node, g int64) (trel.TR, bdd.Node, bool) {
	mgr := sm.BDD()
	for _, tr := range sm.OperatorTRs() {
		if tr.Cost <= 0 || tr.Cost > g {
			continue
		}
		pre := trel.Preimage(mgr, sm.Vars(), tr, state, bdd.Unbounded)
		if pre.Truncated {
			continue
		}
		layer := fwd.ClosedAt(g - tr.Cost)
		candidate := mgr.And(pre.Node, layer)
		if mgr.IsFalse(candidate) {
			continue
		}

		return tr, mgr.PickCube(candidate), true
	}

	return trel.TR{}, mgr.False(), false
}

// zeroCostLayerIndex returns the smallest index into layers whose
// cumulative BDD contains state, or -1 if state is not a subset of any
// recorded layer (the g this search produced no zero-cost layers for, or
// state predates the search's own zero-cost bookkeeping).
func zeroCostLayerIndex(mgr *bdd.Manager, layers []bdd.Node, state bdd.Node) int {
	for i, layer := range layers {
		if mgr.IsFalse(mgr.And(state, mgr.Not(layer))) {
			return i
		}
	}

	return -1
}

// stepBackZeroCost implements spec.md §4.8's "try zero-cost actions
// first" branch: a zero-cost-reachable state shares g with its
// predecessor, so before ever decreasing g it walks the ordered
// zero-cost saturation layers recorded at g backward by one step,
// finding a zero-cost operator TR whose preimage of state intersects the
// immediately preceding layer. Returns ok=false once state is already in
// the g-th generation's pre-zero-cost layer (layer 0), handing control
// back to stepBack's cost-decreasing walk.
func stepBackZeroCost(sm *statespace.Mgr, fwd closedAt, state bdd.Node, g int64) (trel.TR, bdd.Node, bool) {
	mgr := sm.BDD()
	layers := fwd.ZeroCostLayersAt(g)
	k := zeroCostLayerIndex(mgr, layers, state)
	if k <= 0 {
		return trel.TR{}, mgr.False(), false
	}

	prev := layers[k-1]
	for _, tr := range sm.OperatorTRs() {
		if tr.Cost != 0 {
			continue
		}
		pre := trel.Preimage(mgr, sm.Vars(), tr, state, bdd.Unbounded)
		if pre.Truncated {
			continue
		}
		candidate := mgr.And(pre.Node, prev)
		if mgr.IsFalse(candidate) {
			continue
		}

		return tr, mgr.PickCube(candidate), true
	}

	return trel.TR{}, mgr.False(), false
}

func operatorName(sm *statespace.Mgr, tr trel.TR) string {
	if len(tr.OpsIDs) == 0 {
		return "<unknown>"
	}
	op := sm.Task().Operator(tr.OpsIDs[0])

	return op.Name
}
