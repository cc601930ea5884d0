package search

import (
	"time"

	"github.com/speckdavid/symk-sub002/estimator"
	"github.com/speckdavid/symk-sub002/frontier"
	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/statespace"
)

// UCS is spec.md §4.6's uniform-cost search over one direction of a
// statespace.Mgr. Forward search starts from the task's initial state
// and targets the goal; backward search starts from the goal and targets
// the initial state, driving Preimage instead of Image.
type UCS struct {
	sm     *statespace.Mgr
	fw     bool
	target bdd.Node

	open   *frontier.OpenList
	closed *frontier.ClosedList
	budget bdd.Budget
	est    *estimator.Estimator

	cuts      []Cut
	exhausted bool

	seenG   []int64
	seenSet map[int64]bool
}

// NewUCS seeds a UCS from start toward target (the task's Goal for a
// forward search, Init for a backward one).
func NewUCS(sm *statespace.Mgr, fw bool, start, target bdd.Node, budget bdd.Budget) *UCS {
	u := &UCS{
		sm:      sm,
		fw:      fw,
		target:  target,
		open:    frontier.NewOpenList(sm.BDD()),
		closed:  frontier.NewClosedList(sm.BDD()),
		budget:  budget,
		est:     estimator.New(),
		seenSet: make(map[int64]bool),
	}

	zero, _ := sm.Bucket(0)
	prepared := frontier.Prepare(sm, start, fw, zero, sm.BDD().False(), budget)
	u.recordZeroLayers(0, prepared.ZeroLayers)
	u.open.Push(0, prepared.States)
	u.recordCuts(0, prepared.States)

	return u
}

// recordZeroLayers feeds the ordered zero-cost saturation trace a Prepare
// call produced into the closed list, so plan reconstruction can later
// walk it backward layer by layer.
func (u *UCS) recordZeroLayers(g int64, layers []bdd.Node) {
	for _, layer := range layers {
		u.closed.AddZeroCost(g, layer)
	}
}

// ZeroCostLayersAt exposes the ordered zero-cost saturation layers
// recorded at generation g, for plan.Reconstruct's zig-zag walk.
func (u *UCS) ZeroCostLayersAt(g int64) []bdd.Node { return u.closed.ZeroCostClosed(g) }

func (u *UCS) recordCuts(g int64, states bdd.Node) {
	mgr := u.sm.BDD()
	overlap := mgr.And(states, u.target)
	if !mgr.IsFalse(overlap) {
		u.cuts = append(u.cuts, Cut{G: g, H: 0, BDD: overlap})
	}
}

// Step expands the single lowest-g open bucket, pushing every non-zero
// cost bucket's successors into their new generation. It returns false
// once the open list is exhausted.
func (u *UCS) Step() bool {
	g, states, ok := u.open.PopMin()
	if !ok {
		u.exhausted = true

		return false
	}

	mgr := u.sm.BDD()
	u.closed.Add(g, states)
	if !u.seenSet[g] {
		u.seenSet[g] = true
		u.seenG = append(u.seenG, g)
	}

	remainder := mgr.And(states, mgr.Not(u.target))
	if mgr.IsFalse(remainder) {
		return true
	}

	zero, _ := u.sm.Bucket(0)
	nodesIn := mgr.NodeCount(remainder)
	for _, cost := range u.sm.Costs() {
		if cost == 0 {
			continue
		}
		bucket, _ := u.sm.Bucket(cost)

		stepBudget := u.predictBudget(nodesIn)
		start := time.Now()

		var step bdd.Result
		if u.fw {
			step = u.sm.ImageBudgeted(remainder, bucket, stepBudget)
		} else {
			step = u.sm.PreimageBudgeted(remainder, bucket, stepBudget)
		}
		if step.Truncated && stepBudget != u.budget {
			// The estimator's narrowed budget was too tight: retry once
			// under the caller's configured ceiling.
			start = time.Now()
			if u.fw {
				step = u.sm.ImageBudgeted(remainder, bucket, u.budget)
			} else {
				step = u.sm.PreimageBudgeted(remainder, bucket, u.budget)
			}
		}
		if !step.Truncated {
			u.est.StepTaken(nodesIn, step.Nodes, time.Since(start), false)
		}
		if mgr.IsFalse(step.Node) {
			continue
		}

		newG := g + cost
		alreadyClosed := u.closed.Closed(newG)
		prepared := frontier.Prepare(u.sm, step.Node, u.fw, zero, alreadyClosed, u.budget)
		u.recordZeroLayers(newG, prepared.ZeroLayers)

		u.open.Push(newG, prepared.States)
		u.recordCuts(newG, prepared.States)
	}

	return true
}

// predictBudget narrows u.budget to twice the estimator's current
// node/time prediction for an input of size nodesIn, never loosening the
// caller's configured ceiling. Before any sample exists the node
// prediction is nodesIn itself and the time prediction is zero, so the
// node limit starts at twice the input's node count and no time limit is
// added. Step retries a truncated image once under u.budget.
func (u *UCS) predictBudget(nodesIn int) bdd.Budget {
	out := u.budget
	predictedNodes, predictedTime := u.est.NextStep(nodesIn, false)
	if predictedNodes > 0 {
		cap := predictedNodes * 2
		if out.NodeLimit == 0 || cap < out.NodeLimit {
			out.NodeLimit = cap
		}
	}
	if predictedTime > 0 {
		cap := predictedTime * 2
		if out.TimeLimit == 0 || cap < out.TimeLimit {
			out.TimeLimit = cap
		}
	}

	return out
}

// PredictedCost reports the estimator's current prediction for an input of
// size nodesIn, for Bidirectional's selectBestDirection to break ties on.
func (u *UCS) PredictedCost(nodesIn int) (predictedNodes int, predictedTime time.Duration) {
	return u.est.NextStep(nodesIn, false)
}

// Run drives Step until the open list is exhausted or limit steps have
// run (limit<=0 means unbounded).
func (u *UCS) Run(limit int) {
	for i := 0; limit <= 0 || i < limit; i++ {
		if !u.Step() {
			return
		}
	}
}

// CheapestCut implements Oracle.
func (u *UCS) CheapestCut() (Cut, bool) {
	if len(u.cuts) == 0 {
		return Cut{}, false
	}
	best := u.cuts[0]
	for _, c := range u.cuts[1:] {
		if c.G+c.H < best.G+best.H {
			best = c
		}
	}

	return best, true
}

// AllCuts implements Oracle.
func (u *UCS) AllCuts() []Cut { return append([]Cut{}, u.cuts...) }

// NotClosed implements Oracle: the complement of what has been closed at
// generation g, within the manager's Boolean-variable universe.
func (u *UCS) NotClosed(g int64) bdd.Node {
	mgr := u.sm.BDD()

	return mgr.Not(u.closed.Closed(g))
}

// HNotClosed implements Oracle by delegating to the closed list.
func (u *UCS) HNotClosed(h int64) bdd.Node { return u.closed.HNotClosed(h) }

// Exhausted implements Oracle.
func (u *UCS) Exhausted() bool { return u.exhausted }

// ClosedTotal exposes the closed list's Total union. Bidirectional does
// not use it; it intersects the two directions' per-generation ClosedAt
// sets instead.
func (u *UCS) ClosedTotal() bdd.Node { return u.closed.Total() }

// ClosedAt returns what has been closed at generation g.
func (u *UCS) ClosedAt(g int64) bdd.Node { return u.closed.Closed(g) }

// ClosedGenerations returns every distinct g this UCS has closed a
// bucket at, in the order first seen.
func (u *UCS) ClosedGenerations() []int64 { return append([]int64{}, u.seenG...) }

// OpenMinG reports the lowest g with a pending open bucket.
func (u *UCS) OpenMinG() (int64, bool) { return u.open.PeekMinG() }

// OpenMinStates reports the lowest-g pending open bucket's generation and
// states, without popping it.
func (u *UCS) OpenMinStates() (int64, bdd.Node, bool) { return u.open.PeekMin() }
