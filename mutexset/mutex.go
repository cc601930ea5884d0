package mutexset

import (
	"time"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/task"
	"github.com/speckdavid/symk-sub002/vars"
)

// Build assembles every mutex-derived BDD in groups under budget,
// grounded on spec.md §4.3's "chunked, budgeted" construction: each
// group's pairs are conjoined one at a time through bdd.Manager.Guard so a
// single oversized group cannot blow the node budget in one shot.
//
// NotMutexFw and NotMutexBw are built from two disjoint passes over
// groups, not from one pass plus a pre/eff swap of the other — a group
// contributes to exactly one direction's invariant, selected by
// task.MutexGroup.DetectedForward, the way original_state_space.cc's
// init_mutex(mutex_groups, ..., fw) selects groups per direction before
// ever touching a BDD variable.
func Build(mgr *bdd.Manager, enc *vars.Encoding, groups []task.MutexGroup, budget bdd.Budget) (*Sets, error) {
	s := &Sets{
		NotMutexFw:       mgr.True(),
		NotMutexBw:       mgr.True(),
		notMutexFwByFact: make(map[factKey]bdd.Node),
		notMutexBwByFact: make(map[factKey]bdd.Node),
		exactlyOneByFact: make(map[factKey]bdd.Node),
	}

	pairIndex := 0
	if err := buildDirection(mgr, enc, groups, budget, true, s, &pairIndex); err != nil {
		return nil, err
	}
	if err := buildDirection(mgr, enc, groups, budget, false, s, &pairIndex); err != nil {
		return nil, err
	}

	for _, g := range groups {
		if !g.ExactlyOne {
			continue
		}
		atLeastOne := mgr.False()
		for _, f := range g.Facts {
			p, err := enc.PreBDD(f)
			if err != nil {
				return nil, err
			}
			atLeastOne = mgr.Or(atLeastOne, p)
		}
		for _, f := range g.Facts {
			key := factKey{f.Var, f.Val}
			if prev, ok := s.exactlyOneByFact[key]; ok {
				s.exactlyOneByFact[key] = mgr.And(prev, atLeastOne)
			} else {
				s.exactlyOneByFact[key] = atLeastOne
			}
		}
	}

	return s, nil
}

// buildDirection conjoins every mutex pair belonging to one direction
// (groups with DetectedForward==fw) into s.NotMutexFw/NotMutexBw and the
// matching per-fact refinement map. Both passes read facts over the same
// pre-variable encoding — the direction split selects which groups
// contribute, it is not a variable-space swap.
func buildDirection(mgr *bdd.Manager, enc *vars.Encoding, groups []task.MutexGroup, budget bdd.Budget, fw bool, s *Sets, pairIndex *int) error {
	for _, g := range groups {
		if g.DetectedForward != fw {
			continue
		}
		for i := 0; i < len(g.Facts); i++ {
			for j := i + 1; j < len(g.Facts); j++ {
				f1, f2 := g.Facts[i], g.Facts[j]
				if f1.Var == f2.Var && f1.Val == f2.Val {
					continue
				}

				p1, err := enc.PreBDD(f1)
				if err != nil {
					return err
				}
				p2, err := enc.PreBDD(f2)
				if err != nil {
					return err
				}

				start := time.Now()
				res := mgr.Guard(budget, start, func() bdd.Node {
					return mgr.Not(mgr.And(p1, p2))
				})
				if res.Truncated {
					return &chunkBudgetError{pairIndex: *pairIndex}
				}
				notMutex := res.Node

				if fw {
					s.NotMutexFw = mgr.And(s.NotMutexFw, notMutex)
					s.refineFw(mgr, f1, notMutex)
					s.refineFw(mgr, f2, notMutex)
				} else {
					s.NotMutexBw = mgr.And(s.NotMutexBw, notMutex)
					s.refineBw(mgr, f1, notMutex)
					s.refineBw(mgr, f2, notMutex)
				}

				*pairIndex++
			}
		}
	}

	return nil
}

func (s *Sets) refineFw(mgr *bdd.Manager, f task.Fact, fw bdd.Node) {
	key := factKey{f.Var, f.Val}
	if prev, ok := s.notMutexFwByFact[key]; ok {
		s.notMutexFwByFact[key] = mgr.And(prev, fw)
	} else {
		s.notMutexFwByFact[key] = fw
	}
}

func (s *Sets) refineBw(mgr *bdd.Manager, f task.Fact, bw bdd.Node) {
	key := factKey{f.Var, f.Val}
	if prev, ok := s.notMutexBwByFact[key]; ok {
		s.notMutexBwByFact[key] = mgr.And(prev, bw)
	} else {
		s.notMutexBwByFact[key] = bw
	}
}

// Filter applies filter_mutex (spec.md §4.4): conjoins the direction's
// notMutex invariant into states, under mode. initializing additionally
// conjoins the pre-variable valid-values BDD (both directions keep their
// state sets over pre variables), matching the one-time pruning of
// over-wide Boolean encodings the preprocessor performs on the initial
// state and goal before search begins.
func Filter(mgr *bdd.Manager, enc *vars.Encoding, s *Sets, states bdd.Node, fw bool, initializing bool, mode Mode) bdd.Node {
	out := states
	if mode != None && s != nil {
		if fw {
			out = mgr.And(out, s.NotMutexFw)
		} else {
			out = mgr.And(out, s.NotMutexBw)
		}
	}
	if initializing {
		out = mgr.And(out, enc.ValidPre())
	}

	return out
}
