// Package vars implements spec.md §4.1's Variable Encoding: the binary
// encoding of finite-domain task variables into BDD Boolean variables,
// split into disjoint pre- and eff-copies, plus the per-fact BDD cache and
// the swap_pre_eff renaming used throughout image/preimage.
package vars

import (
	"errors"
	"fmt"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/task"
)

// Sentinel errors for encoding construction and lookups.
var (
	// ErrNoVariables indicates the task declares zero finite-domain
	// variables — there is nothing to search over.
	ErrNoVariables = errors.New("vars: task has no variables")

	// ErrBadOrder indicates a supplied variable order is not a
	// permutation of [0, NumVariables).
	ErrBadOrder = errors.New("vars: order is not a permutation of task variables")

	// ErrValueOutOfRange indicates a Fact references a value outside its
	// variable's declared domain.
	ErrValueOutOfRange = errors.New("vars: fact value out of domain range")
)

// Encoding owns the allocation of BDD Boolean variables to task
// variables and every pre/eff BDD derived from it. Per spec.md §5, an
// Encoding is read-only for the remainder of the run once constructed.
type Encoding struct {
	mgr  *bdd.Manager
	task task.AbstractTask

	order  []int // order[i] = task variable placed at position i
	bits   []int // bits[v] = boolean bits allocated to task variable v
	preLvl [][]int
	effLvl [][]int

	preCache map[factKey]bdd.Node
	effCache map[factKey]bdd.Node
	biimp    []bdd.Node // biimp[v], lazily populated
	biimpSet []bool

	validPre bdd.Node
	validEff bdd.Node

	swap *bdd.Pair // full pre<->eff swap, all variables
}

type factKey struct {
	v, val int
}

// BitsFor returns ⌈log2(domain)⌉, with a floor of 1 bit so even a
// domain-size-1 variable (a constant) still has an addressable encoding.
func BitsFor(domain int) int {
	if domain <= 1 {
		return 1
	}
	bits := 0
	for (1 << bits) < domain {
		bits++
	}

	return bits
}

// RequiredBoolVars returns the total number of BDD Boolean variables
// (summed pre+eff) an Encoding for t will need, i.e. the varnum a
// bdd.Manager must be created with before NewEncoding is called.
func RequiredBoolVars(t task.AbstractTask) int {
	total := 0
	for v := 0; v < t.NumVariables(); v++ {
		total += 2 * BitsFor(t.DomainSize(v))
	}

	return total
}

func validateOrder(t task.AbstractTask, order []int) error {
	if len(order) != t.NumVariables() {
		return ErrBadOrder
	}
	seen := make([]bool, len(order))
	for _, v := range order {
		if v < 0 || v >= len(order) || seen[v] {
			return ErrBadOrder
		}
		seen[v] = true
	}

	return nil
}

func (e *Encoding) factBDD(cache map[factKey]bdd.Node, levels [][]int, f task.Fact) (bdd.Node, error) {
	if f.Val < 0 || f.Val >= e.task.DomainSize(f.Var) {
		return e.mgr.False(), fmt.Errorf("%w: var=%d val=%d domain=%d", ErrValueOutOfRange, f.Var, f.Val, e.task.DomainSize(f.Var))
	}
	key := factKey{f.Var, f.Val}
	if n, ok := cache[key]; ok {
		return n, nil
	}
	n := e.mgr.True()
	bits := levels[f.Var]
	for b, level := range bits {
		bitSet := (f.Val>>uint(b))&1 == 1
		var lit bdd.Node
		var err error
		if bitSet {
			lit, err = e.mgr.Ithvar(level)
		} else {
			lit, err = e.mgr.NIthvar(level)
		}
		if err != nil {
			return e.mgr.False(), err
		}
		n = e.mgr.And(n, lit)
	}
	cache[key] = n

	return n, nil
}
