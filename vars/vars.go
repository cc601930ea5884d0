package vars

import (
	"fmt"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/task"
)

// NewEncoding allocates pre/eff BDD variables for every task variable in
// order, and builds the per-variable biimplication and valid-values BDDs.
// mgr must already have been created with at least RequiredBoolVars(t)
// Boolean variables — allocation order interleaves pre and eff bits per
// finite variable (pre_bit0, eff_bit0, pre_bit1, eff_bit1, ...), and
// variable blocks appear in the order slice's sequence, per spec.md §3.
func NewEncoding(mgr *bdd.Manager, t task.AbstractTask, order []int) (*Encoding, error) {
	if t.NumVariables() == 0 {
		return nil, ErrNoVariables
	}
	if err := validateOrder(t, order); err != nil {
		return nil, err
	}

	n := t.NumVariables()
	e := &Encoding{
		mgr:      mgr,
		task:     t,
		order:    order,
		bits:     make([]int, n),
		preLvl:   make([][]int, n),
		effLvl:   make([][]int, n),
		preCache: make(map[factKey]bdd.Node),
		effCache: make(map[factKey]bdd.Node),
		biimp:    make([]bdd.Node, n),
	}

	level := 0
	var allPre, allEff []int
	for _, v := range order {
		bits := BitsFor(t.DomainSize(v))
		e.bits[v] = bits
		e.preLvl[v] = make([]int, bits)
		e.effLvl[v] = make([]int, bits)
		for b := 0; b < bits; b++ {
			e.preLvl[v][b] = level
			allPre = append(allPre, level)
			level++
			e.effLvl[v][b] = level
			allEff = append(allEff, level)
			level++
		}
	}
	if level != mgr.Varnum() {
		return nil, fmt.Errorf("vars: encoding needs %d boolean variables, manager has %d", level, mgr.Varnum())
	}

	pair, err := mgr.NewPair(append(append([]int{}, allPre...), allEff...), append(append([]int{}, allEff...), allPre...))
	if err != nil {
		return nil, fmt.Errorf("vars: building pre<->eff swap pair: %w", err)
	}
	e.swap = pair

	if err := e.buildValidValues(); err != nil {
		return nil, err
	}

	return e, nil
}

// buildValidValues computes, for pre and eff separately, the conjunction
// over all variables of "some in-domain value holds" — the BDD that
// excludes the excess Boolean combinations spec.md §4.1 notes arise when
// 2^bits(var) > domain(var).
func (e *Encoding) buildValidValues() error {
	e.validPre = e.mgr.True()
	e.validEff = e.mgr.True()
	for v := 0; v < e.task.NumVariables(); v++ {
		var preDisj, effDisj bdd.Node = e.mgr.False(), e.mgr.False()
		for val := 0; val < e.task.DomainSize(v); val++ {
			p, err := e.PreBDD(task.Fact{Var: v, Val: val})
			if err != nil {
				return err
			}
			preDisj = e.mgr.Or(preDisj, p)
			ef, err := e.EffBDD(task.Fact{Var: v, Val: val})
			if err != nil {
				return err
			}
			effDisj = e.mgr.Or(effDisj, ef)
		}
		e.validPre = e.mgr.And(e.validPre, preDisj)
		e.validEff = e.mgr.And(e.validEff, effDisj)
	}

	return nil
}

// PreBDD returns the BDD asserting that the pre-copy of f.Var equals
// f.Val.
func (e *Encoding) PreBDD(f task.Fact) (bdd.Node, error) {
	return e.factBDD(e.preCache, e.preLvl, f)
}

// EffBDD returns the BDD asserting that the eff-copy of f.Var equals
// f.Val.
func (e *Encoding) EffBDD(f task.Fact) (bdd.Node, error) {
	return e.factBDD(e.effCache, e.effLvl, f)
}

// Biimp returns pre(v) ⇔ eff(v), the frame axiom conjoined into a
// transition relation for every variable an operator leaves untouched
// (spec.md §4.2). The result is cached after the first computation since
// every TR that leaves v untouched conjoins the identical BDD.
func (e *Encoding) Biimp(v int) bdd.Node {
	if e.biimpSet == nil {
		e.biimpSet = make([]bool, len(e.bits))
	}
	if e.biimpSet[v] {
		return e.biimp[v]
	}
	n := e.mgr.True()
	for b := 0; b < e.bits[v]; b++ {
		n = e.mgr.And(n, e.mgr.Biimp(e.preLvl[v][b], e.effLvl[v][b]))
	}
	e.biimp[v] = n
	e.biimpSet[v] = true

	return n
}

// StateBDD returns the conjunction of PreBDD over a complete assignment
// (spec.md §4.1).
func (e *Encoding) StateBDD(assignment []task.Fact) (bdd.Node, error) {
	n := e.mgr.True()
	for _, f := range assignment {
		p, err := e.PreBDD(f)
		if err != nil {
			return e.mgr.False(), err
		}
		n = e.mgr.And(n, p)
	}

	return n, nil
}

// PartialStateBDD returns the conjunction of PreBDD over a (possibly
// incomplete) list of facts — used for goal and precondition BDDs.
func (e *Encoding) PartialStateBDD(facts []task.Fact) (bdd.Node, error) {
	return e.StateBDD(facts)
}

// SwapPreEff renames n's free variables pre<->eff in one simultaneous
// substitution (spec.md §4.1's swap_pre_eff), used both to turn an
// eff-side image result back into a pre-side state set and to turn a
// pre-side preimage query into an eff-side query before AndAbstract.
func (e *Encoding) SwapPreEff(n bdd.Node) bdd.Node {
	return e.mgr.SwapVariables(n, e.swap)
}

// ValidPre returns the BDD excluding Boolean combinations that do not
// correspond to any in-domain value, over pre variables.
func (e *Encoding) ValidPre() bdd.Node { return e.validPre }

// ValidEff returns the same, over eff variables.
func (e *Encoding) ValidEff() bdd.Node { return e.validEff }

// PreCube returns the cube (conjunction of positive literals is not
// required; a cube for quantification purposes is the conjunction of the
// bare variables) over the pre-copy bits of the given task variables —
// the ExistVars cube trel.Image quantifies out.
func (e *Encoding) PreCube(taskVars []int) (bdd.Node, error) {
	return e.mgr.Cube(e.levelsOf(e.preLvl, taskVars))
}

// EffCube returns the cube over the eff-copy bits of the given task
// variables — the ExistsBwVars cube trel.Preimage quantifies out.
func (e *Encoding) EffCube(taskVars []int) (bdd.Node, error) {
	return e.mgr.Cube(e.levelsOf(e.effLvl, taskVars))
}

func (e *Encoding) levelsOf(table [][]int, taskVars []int) []int {
	var levels []int
	for _, v := range taskVars {
		levels = append(levels, table[v]...)
	}

	return levels
}

// Task returns the underlying AbstractTask this Encoding was built from.
func (e *Encoding) Task() task.AbstractTask { return e.task }

// Order returns the finite-domain variable order used for allocation.
func (e *Encoding) Order() []int { return e.order }
