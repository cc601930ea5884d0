package trel

import (
	"time"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/vars"
)

// Image computes {s' | ∃s. S(s) ∧ tr(s,s')}, renamed back onto the
// pre-variable copy, within budget. tr must already be Finalize-d (either
// via MergeDisjunctive or a direct Finalize call on a singleton TR) so
// its exist_vars cube spans the whole task and the AndAbstract result has
// no variable left in a mixed pre/eff representation.
func Image(mgr *bdd.Manager, enc *vars.Encoding, tr TR, states bdd.Node, budget bdd.Budget) bdd.Result {
	start := time.Now()

	return mgr.Guard(budget, start, func() bdd.Node {
		raw := mgr.AndAbstract(states, tr.BDD, tr.ExistVars)

		return enc.SwapPreEff(raw)
	})
}

// Preimage computes {s | ∃s'. tr(s,s') ∧ S(s')} within budget. states is
// given in the same pre-variable representation Image returns; Preimage
// swaps it onto the eff copy internally before abstracting, so the
// AndAbstract result already sits on the pre copy and needs no further
// renaming.
func Preimage(mgr *bdd.Manager, enc *vars.Encoding, tr TR, states bdd.Node, budget bdd.Budget) bdd.Result {
	start := time.Now()
	eff := enc.SwapPreEff(states)

	return mgr.Guard(budget, start, func() bdd.Node {
		return mgr.AndAbstract(tr.BDD, eff, tr.ExistsBwVars)
	})
}

// CombineConjunctive ANDs a CondEffMode Conjunctive/ConjunctiveEarlyQuant
// operator's per-variable component TRs (as produced by Build) back into
// one Finalize-d TR. The guard conjunct each component repeats is
// idempotent under AND, so this yields exactly the TR a Monolithic build
// of the same operator would have produced. The early-quantification
// benefit ConjunctiveEarlyQuant names — interleaving AndAbstract calls
// per component to keep peak BDD size down during image rather than
// building the full conjunction first — is a performance optimization
// only; it does not change which states are reachable, so it is left
// undone here and the two conjunctive modes currently behave identically.
func CombineConjunctive(mgr *bdd.Manager, enc *vars.Encoding, components []TR) TR {
	if len(components) == 0 {
		return TR{}
	}

	full := components[0].BDD
	effVars := append([]int{}, components[0].EffVars...)
	for _, c := range components[1:] {
		full = mgr.And(full, c.BDD)
		effVars = sortedUnique(effVars, c.EffVars)
	}

	return Finalize(mgr, enc, TR{
		BDD:     full,
		Cost:    components[0].Cost,
		EffVars: effVars,
		OpsIDs:  components[0].OpsIDs,
	})
}
