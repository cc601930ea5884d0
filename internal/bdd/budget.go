package bdd

import "time"

// Budget bounds a single primitive call (image, preimage, merge,
// filter_mutex) in both BDD node count and wall-clock time, per spec.md
// §5/§6 (max_step_nodes/max_step_time, max_aux_nodes/max_aux_time, ...).
// The zero Budget means "unbounded" — callers that want enforcement must
// set at least one field.
type Budget struct {
	NodeLimit int           // 0 = unbounded
	TimeLimit time.Duration // 0 = unbounded
}

// Unbounded is the zero-value Budget, spelled out for readability at call
// sites that intentionally skip enforcement (e.g. one-off setup BDDs).
var Unbounded = Budget{}

// deadline returns the wall-clock instant this budget expires, or the zero
// time.Time if the budget carries no time limit.
func (b Budget) deadline(start time.Time) time.Time {
	if b.TimeLimit <= 0 {
		return time.Time{}
	}

	return start.Add(b.TimeLimit)
}

// Result is spec.md §9's sum-typed primitive outcome: either a BDD
// computed within budget (Truncated == false), or a soft "budget
// exceeded" signal (Truncated == true) that the caller must catch locally
// and retry with a relaxed budget or defer to the next step. Inputs are
// never mutated on truncation — rudd's BDD is itself immutable/hash-consed,
// so this invariant holds automatically.
type Result struct {
	Node      Node
	Truncated bool
	Nodes     int // NodeCount(Node) when not truncated, for estimator feedback
}

// Guard evaluates compute and reports the result under budget b, with
// elapsed time measured from start. Every caller in this module
// (trel.Image, trel.Preimage, trel.MergeDisjunctive, mutexset.Build)
// passes the instant its own primitive began, so each primitive's time
// limit is charged on its own, not against an enclosing step.
//
// rudd executes one BDD operation to completion; we cannot preempt it
// mid-flight (neither can BuDDy). Guard therefore checks the budget AFTER
// computing, the same after-the-fact enforcement tsp.bbEngine.deadlineCheck
// uses for its DFS: cheap, and sufficient because a single op that blows
// the node budget also produces a result too large to ever be useful.
func (m *Manager) Guard(b Budget, start time.Time, compute func() Node) Result {
	n := compute()
	if b.TimeLimit > 0 && time.Now().After(b.deadline(start)) {
		return Result{Truncated: true}
	}
	count := m.NodeCount(n)
	if b.NodeLimit > 0 && count > b.NodeLimit {
		return Result{Truncated: true}
	}

	return Result{Node: n, Nodes: count}
}
