// Package trel implements spec.md §4.2's Transition Relation: per-operator
// BDD construction (with and without conditional effects), SDAC cost-case
// cloning, e-deletion mutex strengthening, disjunctive same-cost merging,
// and the image/preimage primitives searches drive.
package trel

import (
	"errors"
	"sort"

	"github.com/speckdavid/symk-sub002/internal/bdd"
)

// Sentinel errors.
var (
	// ErrEmptyOperator indicates an operator with no preconditions and no
	// effects was passed to Build — such an operator is a no-op and
	// cannot usefully form a TR.
	ErrEmptyOperator = errors.New("trel: operator has neither preconditions nor effects")

	// ErrMergeCostMismatch indicates MergeDisjunctive was called on two
	// TRs of different cost; only same-cost TRs may be disjunctively
	// merged (spec.md §4.2).
	ErrMergeCostMismatch = errors.New("trel: cannot merge TRs of different cost")
)

// CondEffMode selects how an operator with conditional effects is
// compiled into a TR (spec.md §4.2, §6 "cond_eff_tr").
type CondEffMode int

const (
	// Monolithic builds one BDD for the whole operator.
	Monolithic CondEffMode = iota

	// Conjunctive builds one component TR per affected variable;
	// CombineConjunctive ANDs the components into one TR before search,
	// so image does not combine them one by one.
	Conjunctive

	// ConjunctiveEarlyQuant compiles exactly as Conjunctive; no early
	// quantification is performed.
	ConjunctiveEarlyQuant
)

// TR is spec.md §3's Transition Relation value object.
type TR struct {
	BDD bdd.Node
	// Cost is non-negative; SDAC compilation produces one TR per cost
	// case sharing the same underlying guard-conjoined template.
	Cost int64
	// EffVars holds the sorted finite-domain variables touched by any
	// effect represented by this TR.
	EffVars []int
	// ExistVars is the pre-variable cube quantified out during image.
	ExistVars bdd.Node
	// ExistsBwVars is the eff-variable cube quantified out during
	// preimage.
	ExistsBwVars bdd.Node
	// OpsIDs are the grounded-operator indices this TR represents — a
	// singleton for a freshly built TR, a union after disjunctive
	// merging.
	OpsIDs []int
}

// sortedUnique returns the sorted, de-duplicated union of a and b.
func sortedUnique(a, b []int) []int {
	set := make(map[int]struct{}, len(a)+len(b))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		set[v] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)

	return out
}

// containsInt reports whether sorted slice s contains v.
func containsInt(s []int, v int) bool {
	i := sort.SearchInts(s, v)

	return i < len(s) && s[i] == v
}
