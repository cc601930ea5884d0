package vars

import (
	"sort"

	"github.com/speckdavid/symk-sub002/causalgraph"
	"github.com/speckdavid/symk-sub002/task"
)

// PlanOrder computes the finite-domain variable order used to allocate
// BDD Boolean variables. When gamer is false it returns the task's
// natural order [0..n); when true it builds the causal graph (every
// operator's touched variables form a clique, spec.md §4.2) and runs the
// Gamer-style pair-distance heuristic: a maximum-spanning-tree growth
// from the highest-degree variable, which keeps frequently co-occurring
// variables adjacent in the resulting order (spec.md §3, §9).
func PlanOrder(t task.AbstractTask, gamer bool) []int {
	n := t.NumVariables()
	if !gamer {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}

		return order
	}

	g := causalgraph.New(n)
	for i := 0; i < t.NumOperators(); i++ {
		op := t.Operator(i)
		touched := touchedVariables(op)
		g.AddClique(touched)
	}

	return g.MaxSpanningOrder(highestDegreeVariable(t, g))
}

// touchedVariables returns the set of task variables mentioned anywhere
// in an operator: preconditions, effect targets and effect conditions.
// These variables are mutually causally relevant for ordering purposes.
func touchedVariables(op task.Operator) []int {
	seen := make(map[int]bool)
	add := func(f task.Fact) { seen[f.Var] = true }
	for _, f := range op.Preconditions {
		add(f)
	}
	for _, e := range op.Effects {
		add(e.Target)
		for _, c := range e.Conditions {
			add(c)
		}
	}
	vars := make([]int, 0, len(seen))
	for v := range seen {
		vars = append(vars, v)
	}
	sort.Ints(vars)

	return vars
}

// highestDegreeVariable picks a deterministic, well-connected root for
// the spanning-tree growth: the lowest-indexed variable with maximal
// causal-graph degree (ties broken by index for reproducibility, as
// tsp/bb.go's neighborOrder breaks weight ties by index).
func highestDegreeVariable(t task.AbstractTask, g *causalgraph.Graph) int {
	best, bestDeg := 0, -1
	for v := 0; v < t.NumVariables(); v++ {
		deg := g.Degree(v)
		if deg > bestDeg {
			best, bestDeg = v, deg
		}
	}

	return best
}
