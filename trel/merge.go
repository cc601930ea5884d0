package trel

import (
	"time"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/vars"
)

// MergeDisjunctive combines two same-cost TRs into one via disjunction,
// inserting biimp(var) for every variable neither TR's EffVars already
// covers the other's so the asymmetric-eff-vars case (spec.md §4.2) stays
// sound: a variable one operator touches and the other leaves alone must
// still be frame-preserved on the side that leaves it alone before the
// two BDDs can be OR'd together meaningfully.
func MergeDisjunctive(mgr *bdd.Manager, enc *vars.Encoding, budget bdd.Budget, a, b TR) (TR, bool, error) {
	if a.Cost != b.Cost {
		return TR{}, false, ErrMergeCostMismatch
	}

	effVars := sortedUnique(a.EffVars, b.EffVars)

	aBDD := a.BDD
	for _, v := range effVars {
		if !containsInt(a.EffVars, v) {
			aBDD = mgr.And(aBDD, enc.Biimp(v))
		}
	}
	bBDD := b.BDD
	for _, v := range effVars {
		if !containsInt(b.EffVars, v) {
			bBDD = mgr.And(bBDD, enc.Biimp(v))
		}
	}

	start := time.Now()
	res := mgr.Guard(budget, start, func() bdd.Node {
		return mgr.Or(aBDD, bBDD)
	})
	if res.Truncated {
		return TR{}, false, nil
	}

	return Finalize(mgr, enc, TR{
		BDD:     res.Node,
		Cost:    a.Cost,
		EffVars: effVars,
		OpsIDs:  sortedUnique(a.OpsIDs, b.OpsIDs),
	}), true, nil
}

// Finalize closes the remaining "implicitly free of its eff-copy" gap
// spec.md §4.2 point 4 describes: every task variable tr does not list in
// EffVars gets biimp(var) conjoined, after which tr has full pre/eff
// support and exist_vars/exists_bw_vars can be the encoding's whole-task
// cubes. Finalize is idempotent — calling it on an already-finalized TR
// (EffVars already spans every variable, or it was finalized once before)
// only adds redundant but harmless biimp conjuncts — so both a freshly
// built singleton TR and the output of MergeDisjunctive can be routed
// through it uniformly.
func Finalize(mgr *bdd.Manager, enc *vars.Encoding, tr TR) TR {
	t := enc.Task()
	var all []int
	for v := 0; v < t.NumVariables(); v++ {
		all = append(all, v)
	}

	bdd_ := tr.BDD
	for _, v := range all {
		if !containsInt(tr.EffVars, v) {
			bdd_ = mgr.And(bdd_, enc.Biimp(v))
		}
	}

	preCube, err := enc.PreCube(all)
	if err != nil {
		preCube = mgr.True()
	}
	effCube, err := enc.EffCube(all)
	if err != nil {
		effCube = mgr.True()
	}

	tr.BDD = bdd_
	tr.ExistVars = preCube
	tr.ExistsBwVars = effCube

	return tr
}
