package trel

import (
	"sort"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/mutexset"
	"github.com/speckdavid/symk-sub002/task"
	"github.com/speckdavid/symk-sub002/vars"
)

// Build compiles one task.Operator into one TR per SDAC cost case
// (spec.md §4.2). A freshly built TR is not yet image-ready: per spec.md
// §4.2 point 4 it is "implicitly free of its eff-copy" for every variable
// no effect of op touches, and only gains the frame-preserving biimp once
// it passes through Finalize (called by MergeDisjunctive and
// CombineConjunctive, and directly by statespace.New on every Monolithic
// TR).
//
// Both the unconditional and the conditional-effect cases fall out of one
// formula, effect_bdd(var) = Σ_i(cond_i ∧ eff_bdd(var,val_i)) +
// ((¬Σ_i cond_i) ∧ biimp(var)): an unconditional effect is the special
// case where cond_i is the empty conjunction (⊤), making the biimp branch
// vacuous. mode only matters once an operator has effects on more than
// one variable: Monolithic conjoins every effect_bdd(var) into a single
// TR.BDD, Conjunctive/ConjunctiveEarlyQuant instead return one component
// TR per affected variable, which CombineConjunctive ANDs back into one
// TR before search.
func Build(mgr *bdd.Manager, enc *vars.Encoding, op task.Operator, opID int, mode CondEffMode, mx *mutexset.Sets, mxMode mutexset.Mode) ([]TR, error) {
	if len(op.Preconditions) == 0 && len(op.Effects) == 0 {
		return nil, ErrEmptyOperator
	}

	preBDD, err := enc.PartialStateBDD(op.Preconditions)
	if err != nil {
		return nil, err
	}

	byVar := make(map[int][]task.Effect)
	var touched []int
	for _, eff := range op.Effects {
		if _, ok := byVar[eff.Target.Var]; !ok {
			touched = append(touched, eff.Target.Var)
		}
		byVar[eff.Target.Var] = append(byVar[eff.Target.Var], eff)
	}
	sort.Ints(touched)

	if mxMode == mutexset.Edeletion && mx != nil {
		for _, v := range touched {
			preBDD = mgr.And(preBDD, backwardMutexTerm(mgr, enc, mx, op.Preconditions, v))
			for _, eff := range byVar[v] {
				preBDD = mgr.And(preBDD, mx.ExactlyOne(mgr, eff.Target))
			}
		}
	}

	components := make(map[int]bdd.Node, len(touched))
	for _, v := range touched {
		effBDD, err := effectBDD(mgr, enc, v, byVar[v])
		if err != nil {
			return nil, err
		}
		if mxMode == mutexset.Edeletion && mx != nil {
			for _, eff := range byVar[v] {
				effBDD = mgr.And(effBDD, enc.SwapPreEff(mx.NotMutexFwByFact(mgr, eff.Target)))
			}
		}
		components[v] = effBDD
	}

	cases := op.CostCases
	if len(cases) == 0 {
		cases = []task.CostCase{{Cost: op.Cost}}
	}

	trs := make([]TR, 0, len(cases))
	for _, c := range cases {
		guard := preBDD
		if len(c.Guard) > 0 {
			g, err := enc.PartialStateBDD(c.Guard)
			if err != nil {
				return nil, err
			}
			guard = mgr.And(guard, g)
		}

		switch mode {
		case Conjunctive, ConjunctiveEarlyQuant:
			for _, v := range touched {
				trs = append(trs, TR{
					BDD:     mgr.And(guard, components[v]),
					Cost:    c.Cost,
					EffVars: []int{v},
					OpsIDs:  []int{opID},
				})
			}
			if len(touched) == 0 {
				trs = append(trs, TR{BDD: guard, Cost: c.Cost, OpsIDs: []int{opID}})
			}
		default: // Monolithic
			full := guard
			for _, v := range touched {
				full = mgr.And(full, components[v])
			}
			trs = append(trs, TR{
				BDD:     full,
				Cost:    c.Cost,
				EffVars: append([]int{}, touched...),
				OpsIDs:  []int{opID},
			})
		}
	}

	return trs, nil
}

// effectBDD implements effect_bdd(var) = Σ_i(cond_i ∧ eff_bdd(var,val_i))
// + ((¬Σ_i cond_i) ∧ biimp(var)) over the effects touching var.
func effectBDD(mgr *bdd.Manager, enc *vars.Encoding, v int, effects []task.Effect) (bdd.Node, error) {
	disj := mgr.False()
	anyCond := mgr.False()
	for _, eff := range effects {
		cond, err := enc.PartialStateBDD(conditionFacts(eff))
		if err != nil {
			return mgr.False(), err
		}
		target, err := enc.EffBDD(eff.Target)
		if err != nil {
			return mgr.False(), err
		}
		disj = mgr.Or(disj, mgr.And(cond, target))
		anyCond = mgr.Or(anyCond, cond)
	}

	frame := mgr.And(mgr.Not(anyCond), enc.Biimp(v))

	return mgr.Or(disj, frame), nil
}

func conditionFacts(eff task.Effect) []task.Fact {
	return eff.Conditions
}

// backwardMutexTerm is transition_relation.cc's edeletion() "edeletion
// bw" branch: the backward notMutex refinement for the precondition an
// effect on v regresses from. When op has a precondition on v, that
// single fact's refinement applies; when it doesn't (v is a pure "post"
// effect), every value v could have held becomes possible, so every
// value's refinement is conjoined instead.
func backwardMutexTerm(mgr *bdd.Manager, enc *vars.Encoding, mx *mutexset.Sets, preconditions []task.Fact, v int) bdd.Node {
	for _, p := range preconditions {
		if p.Var == v {
			return mx.NotMutexBwByFact(mgr, p)
		}
	}

	term := mgr.True()
	for val := 0; val < enc.Task().DomainSize(v); val++ {
		term = mgr.And(term, mx.NotMutexBwByFact(mgr, task.Fact{Var: v, Val: val}))
	}

	return term
}
