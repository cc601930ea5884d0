// Package bdd adapts github.com/dalzilio/rudd — a pure-Go, dependency-free
// reimplementation of the BuDDy Binary Decision Diagram package — to the
// handful of primitives the symbolic search core needs: variable
// introduction, AND/OR/NOT, AndAbstract (existential-quantify-after-AND),
// SwapVariables (variable renaming via a pair table), cube construction and
// node counting.
//
// Everything outside this package talks to BDDs only through the Node
// handle and the Manager methods below; the fact that rudd backs it is not
// otherwise visible. This mirrors the way the teacher corpus isolates a
// single external dependency behind a narrow adapter (e.g. lvlath/tsp
// consumes only matrix.Matrix, never a concrete matrix type).
//
// rudd's BDD is itself a process-wide resource: one *rudd.BDD owns one node
// table, one unique table and one operation cache. Per spec.md §9, the
// engine may only ever own a single Manager at a time; NewManager enforces
// this with a package-level guard.
package bdd

import (
	"fmt"
	"sync"
	"time"

	"github.com/dalzilio/rudd"
)

// Node is an opaque handle to a BDD vertex. The zero Node is never valid;
// use Manager.True/Manager.False for the terminal constants.
type Node = rudd.Node

var (
	singletonMu sync.Mutex
	singleton   *Manager
)

// Manager owns the single rudd.BDD instance backing a search run and
// tracks the node/time budgets spec.md §5 requires every primitive to
// respect. It is not safe for concurrent use — the engine is single
// threaded per spec.md §5.
type Manager struct {
	bdd     *rudd.BDD
	varnum  int
	trueN   Node
	falseN  Node
	created time.Time
}

// NewManager allocates a fresh BDD universe with varnum Boolean variables
// (the sum of all pre- and eff-variable bits allocated by vars.Encoding).
// It returns an error if a Manager is already live in this process —
// rudd's node/unique/cache tables are global to the *rudd.BDD value, and
// spec.md §9 forbids nested engine instances.
func NewManager(varnum int) (*Manager, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton != nil {
		return nil, fmt.Errorf("bdd: a Manager is already active in this process")
	}
	b, err := rudd.New(varnum)
	if err != nil {
		return nil, fmt.Errorf("bdd: rudd.New: %w", err)
	}
	m := &Manager{
		bdd:     b,
		varnum:  varnum,
		trueN:   b.True(),
		falseN:  b.False(),
		created: time.Now(),
	}
	singleton = m

	return m, nil
}

// Close releases this process's claim on the BDD singleton, allowing a new
// Manager to be created. The underlying rudd tables are left to the Go
// garbage collector.
func (m *Manager) Close() {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton == m {
		singleton = nil
	}
}

// Varnum returns the number of Boolean variables this Manager was created
// with.
func (m *Manager) Varnum() int { return m.varnum }

// True returns the constant-true BDD.
func (m *Manager) True() Node { return m.trueN }

// False returns the constant-false BDD.
func (m *Manager) False() Node { return m.falseN }

// Ithvar returns the BDD asserting that Boolean variable level holds.
func (m *Manager) Ithvar(level int) (Node, error) {
	n, err := m.bdd.Ithvar(level)
	if err != nil {
		return m.falseN, fmt.Errorf("bdd: Ithvar(%d): %w", level, err)
	}

	return n, nil
}

// NIthvar returns the BDD asserting that Boolean variable level does not
// hold.
func (m *Manager) NIthvar(level int) (Node, error) {
	n, err := m.bdd.NIthvar(level)
	if err != nil {
		return m.falseN, fmt.Errorf("bdd: NIthvar(%d): %w", level, err)
	}

	return n, nil
}

// And returns f ∧ g.
func (m *Manager) And(f, g Node) Node { return m.bdd.And(f, g) }

// Or returns f ∨ g.
func (m *Manager) Or(f, g Node) Node { return m.bdd.Or(f, g) }

// Not returns ¬f.
func (m *Manager) Not(f Node) Node { return m.bdd.Not(f) }

// Imp returns f ⇒ g, used to build biimplications (Imp(f,g) ∧ Imp(g,f)).
func (m *Manager) Imp(f, g Node) Node { return m.bdd.Imp(f, g) }

// Biimp returns f ⇔ g directly, when rudd's native operator is cheaper
// than composing two Imp calls.
func (m *Manager) Biimp(f, g Node) Node { return m.bdd.Biimp(f, g) }

// Cube builds the conjunction of Ithvar(levels[i]) — a "cube" BDD — used as
// the existential-quantification variable set for AndAbstract/Exist and as
// the argument to Makeset-style APIs.
func (m *Manager) Cube(levels []int) (Node, error) {
	set, err := m.bdd.Makeset(levels)
	if err != nil {
		return m.falseN, fmt.Errorf("bdd: Makeset: %w", err)
	}

	return set, nil
}

// AndAbstract computes ∃cube. (f ∧ g) in one pass — rudd's AndExist, the
// same operation BuDDy calls bdd_appex(bddop_and). TR.image and
// TR.preimage are both single AndAbstract calls (spec.md §4.2).
func (m *Manager) AndAbstract(f, g, cube Node) Node {
	return m.bdd.AndExist(f, g, cube)
}

// Exist computes ∃cube. f, used when an abstraction must be applied without
// an accompanying AND (e.g. early quantification in conjunctive TRs).
func (m *Manager) Exist(f, cube Node) Node { return m.bdd.Exist(f, cube) }

// Pair is a variable-renaming table, built once per (pre,eff) variable
// pair and reused for every SwapVariables call — rudd's bdd_newpair +
// bdd_setpair.
type Pair struct{ p *rudd.Pair }

// NewPair allocates a renaming table mapping from[i] -> to[i].
func (m *Manager) NewPair(from, to []int) (*Pair, error) {
	p := m.bdd.Makepair()
	if err := p.Set(from, to); err != nil {
		return nil, fmt.Errorf("bdd: Makepair.Set: %w", err)
	}

	return &Pair{p: p}, nil
}

// SwapVariables renames f's free variables through pair — the primitive
// behind Vars.swap_pre_eff and TR's eff->pre post-image renaming.
func (m *Manager) SwapVariables(f Node, pair *Pair) Node {
	return m.bdd.Replace(f, pair.p)
}

// NodeCount returns the number of distinct BDD nodes reachable from f,
// the unit every node-size budget in spec.md §5/§6 is expressed in.
func (m *Manager) NodeCount(f Node) int { return m.bdd.NodeCount(f) }

// Equal reports whether f and g denote the same set — rudd BDDs are
// hash-consed, so this is pointer/index equality, but the explicit method
// keeps call sites readable.
func (m *Manager) Equal(f, g Node) bool { return f == g }

// IsFalse reports whether f is the constant-false BDD.
func (m *Manager) IsFalse(f Node) bool { return f == m.falseN }

// IsTrue reports whether f is the constant-true BDD.
func (m *Manager) IsTrue(f Node) bool { return f == m.trueN }

// PickCube narrows f down to one concrete satisfying assignment, returned
// as the conjunction of one literal per Boolean variable f's support
// touches, by scanning variable levels in order and greedily committing
// to whichever polarity keeps the running conjunction satisfiable. It
// returns False if f itself is False. Used by plan reconstruction to
// collapse a frontier cut — generally many states — down to one concrete
// state before walking backward through individual operators.
func (m *Manager) PickCube(f Node) Node {
	if m.IsFalse(f) {
		return m.falseN
	}

	cube := m.trueN
	for level := 0; level < m.varnum; level++ {
		single, err := m.Cube([]int{level})
		if err != nil || m.Equal(m.Exist(f, single), f) {
			// f does not depend on this variable: leave it unconstrained.
			continue
		}
		pos, err := m.Ithvar(level)
		if err != nil {
			continue
		}
		withPos := m.And(cube, pos)
		if !m.IsFalse(m.And(withPos, f)) {
			cube = withPos

			continue
		}
		neg, err := m.NIthvar(level)
		if err != nil {
			continue
		}
		withNeg := m.And(cube, neg)
		if !m.IsFalse(m.And(withNeg, f)) {
			cube = withNeg
		}
	}

	return cube
}
