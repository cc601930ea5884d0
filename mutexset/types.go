// Package mutexset implements spec.md §4.3's Mutex Sets: the forward and
// backward invariant BDDs built from the preprocessor's mutex groups, used
// to filter unreachable states out of the frontier (spec.md §4.4,
// filter_mutex) and, in e-deletion mode, to strengthen every transition
// relation directly (spec.md §4.2).
package mutexset

import (
	"fmt"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/task"
)

// Mode selects how aggressively mutex information is used (spec.md §6
// "mutex_type").
type Mode int

const (
	// None disables mutex filtering entirely; spec.md §9's open question
	// on filter_mutex(none) resolves to: no notMutex BDD is conjoined, so
	// outside initialization filter_mutex degenerates to the identity.
	// This package has no separate dead-end BDDs, so none are applied in
	// this mode either.
	None Mode = iota

	// And conjoins the notMutex BDDs whenever filter_mutex runs.
	And

	// Edeletion additionally strengthens every TR at construction time
	// with the per-fact refinements (spec.md §4.2).
	Edeletion
)

// Sets holds every mutex-derived BDD for one search run.
type Sets struct {
	// NotMutexFw/NotMutexBw are the direction-split conjunctions of
	// ¬(f1 ∧ f2) for every mutex pair of the groups detected in that
	// direction; both are over pre variables.
	NotMutexFw bdd.Node
	NotMutexBw bdd.Node

	// notMutexFwByFact/notMutexBwByFact are per-fact refinements used
	// only by e-deletion.
	notMutexFwByFact map[factKey]bdd.Node
	notMutexBwByFact map[factKey]bdd.Node

	// exactlyOneByFact is the exactly-one invariant touching each fact,
	// also e-deletion-only.
	exactlyOneByFact map[factKey]bdd.Node
}

type factKey struct{ v, val int }

// NotMutexFwByFact returns the per-fact forward refinement for f, or the
// constant-true BDD (no additional constraint) if f is not covered by any
// mutex group.
func (s *Sets) NotMutexFwByFact(mgr *bdd.Manager, f task.Fact) bdd.Node {
	if n, ok := s.notMutexFwByFact[factKey{f.Var, f.Val}]; ok {
		return n
	}

	return mgr.True()
}

// NotMutexBwByFact is NotMutexFwByFact's backward-direction counterpart.
func (s *Sets) NotMutexBwByFact(mgr *bdd.Manager, f task.Fact) bdd.Node {
	if n, ok := s.notMutexBwByFact[factKey{f.Var, f.Val}]; ok {
		return n
	}

	return mgr.True()
}

// ExactlyOne returns the exactly-one invariant conjunction touching f, or
// constant-true if f belongs to no exactly-one group.
func (s *Sets) ExactlyOne(mgr *bdd.Manager, f task.Fact) bdd.Node {
	if n, ok := s.exactlyOneByFact[factKey{f.Var, f.Val}]; ok {
		return n
	}

	return mgr.True()
}

// chunkBudgetError is returned by Build when a single mutex chunk could
// not be assembled within max_mutex_size/max_mutex_time even after
// splitting to the finest per-pair granularity — spec.md §4.3 treats this
// as a hard setup-time failure rather than a soft per-step truncation,
// since the mutex BDDs are fixed inputs to every subsequent search step.
type chunkBudgetError struct {
	pairIndex int
}

func (e *chunkBudgetError) Error() string {
	return fmt.Sprintf("mutexset: mutex pair %d exceeded max_mutex_size/max_mutex_time even at minimum chunk size", e.pairIndex)
}
