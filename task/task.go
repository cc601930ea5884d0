// Package task defines the AbstractTask capability the symbolic search
// core consumes (spec.md §6). Parsing the grounded task description,
// mutex-group computation, axiom compilation and SDAC compilation are all
// external collaborators per spec.md §1; this package only declares the
// narrow read-only interface those collaborators must satisfy, plus
// InMemoryTask, a reference implementation used by tests.
package task

import "fmt"

// Fact is a (variable, value) pair, spec.md §3.
type Fact struct {
	Var int
	Val int
}

// Effect assigns Target when all of Conditions hold (an empty Conditions
// slice means "unconditional").
type Effect struct {
	Conditions []Fact
	Target     Fact
}

// CostCase is one SDAC-compiled case: this operator costs Cost whenever
// Guard holds, instead of the operator's base Cost (spec.md §4.2).
type CostCase struct {
	Guard []Fact
	Cost  int64
}

// Operator is one grounded STRIPS-like action: a conjunction of
// precondition facts, a list of (possibly conditional) effects, a
// non-negative base cost, and an optional list of SDAC cost cases.
type Operator struct {
	Name          string
	Preconditions []Fact
	Effects       []Effect
	Cost          int64
	CostCases     []CostCase // empty unless SDAC-compiled
}

// MutexGroup is a preprocessor-discovered invariant over a set of facts
// (spec.md §4.3, §6).
type MutexGroup struct {
	Facts           []Fact
	ExactlyOne      bool
	DetectedForward bool
}

// AbstractTask is the grounded planning task interface the engine
// consumes. Implementations are expected to be immutable for the lifetime
// of a search (spec.md §5, "the Vars object is read-only after
// construction" — built from one AbstractTask snapshot).
type AbstractTask interface {
	NumVariables() int
	DomainSize(v int) int
	FactName(v, val int) string

	InitialState() []Fact // complete assignment, one Fact per variable
	Goal() []Fact          // partial-state assignment

	NumOperators() int
	Operator(i int) Operator

	MutexGroups() []MutexGroup
}

// InMemoryTask is a plain-struct AbstractTask used by tests. It performs no
// validation beyond what Validate checks explicitly — planning tasks are
// assumed well-formed, as spec.md treats task construction as an external
// collaborator's responsibility.
type InMemoryTask struct {
	Domains    []int // DomainSize per variable
	Names      [][]string
	Init       []Fact
	GoalFacts  []Fact
	Operators_ []Operator
	Mutexes    []MutexGroup
}

func (t *InMemoryTask) NumVariables() int { return len(t.Domains) }

func (t *InMemoryTask) DomainSize(v int) int { return t.Domains[v] }

func (t *InMemoryTask) FactName(v, val int) string {
	if v < len(t.Names) && val < len(t.Names[v]) && t.Names[v][val] != "" {
		return t.Names[v][val]
	}

	return fmt.Sprintf("var%d=%d", v, val)
}

func (t *InMemoryTask) InitialState() []Fact { return t.Init }

func (t *InMemoryTask) Goal() []Fact { return t.GoalFacts }

func (t *InMemoryTask) NumOperators() int { return len(t.Operators_) }

func (t *InMemoryTask) Operator(i int) Operator { return t.Operators_[i] }

func (t *InMemoryTask) MutexGroups() []MutexGroup { return t.Mutexes }

// Validate checks the structural invariants spec.md §3-§4 assume hold
// before engine setup: complete initial state, in-range fact values, and
// non-negative operator costs. It is not called implicitly by the engine
// — construction-time validation belongs to the external task-building
// collaborator — and no test in this module calls it.
func (t *InMemoryTask) Validate() error {
	if len(t.Init) != t.NumVariables() {
		return fmt.Errorf("task: initial state has %d facts, want %d", len(t.Init), t.NumVariables())
	}
	seen := make([]bool, t.NumVariables())
	for _, f := range t.Init {
		if err := t.checkFact(f); err != nil {
			return fmt.Errorf("task: initial state: %w", err)
		}
		seen[f.Var] = true
	}
	for v, ok := range seen {
		if !ok {
			return fmt.Errorf("task: initial state missing assignment for variable %d", v)
		}
	}
	for _, f := range t.GoalFacts {
		if err := t.checkFact(f); err != nil {
			return fmt.Errorf("task: goal: %w", err)
		}
	}
	for i, op := range t.Operators_ {
		if op.Cost < 0 {
			return fmt.Errorf("task: operator %d (%s): negative cost %d", i, op.Name, op.Cost)
		}
		for _, f := range op.Preconditions {
			if err := t.checkFact(f); err != nil {
				return fmt.Errorf("task: operator %d (%s) precondition: %w", i, op.Name, err)
			}
		}
		for _, e := range op.Effects {
			if err := t.checkFact(e.Target); err != nil {
				return fmt.Errorf("task: operator %d (%s) effect: %w", i, op.Name, err)
			}
			for _, c := range e.Conditions {
				if err := t.checkFact(c); err != nil {
					return fmt.Errorf("task: operator %d (%s) effect condition: %w", i, op.Name, err)
				}
			}
		}
	}

	return nil
}

func (t *InMemoryTask) checkFact(f Fact) error {
	if f.Var < 0 || f.Var >= t.NumVariables() {
		return fmt.Errorf("variable %d out of range [0,%d)", f.Var, t.NumVariables())
	}
	if f.Val < 0 || f.Val >= t.DomainSize(f.Var) {
		return fmt.Errorf("value %d out of range [0,%d) for variable %d", f.Val, t.DomainSize(f.Var), f.Var)
	}

	return nil
}
