package plan

import (
	"fmt"

	"github.com/speckdavid/symk-sub002/task"
)

// Validate re-simulates p against t from scratch — the original
// implementation's sym_solution validation pass, supplemented here since
// spec.md's distillation never named it but a search engine that cannot
// confirm its own output is untrustworthy by construction. It fails on
// the first precondition violation, unknown action name, cost mismatch,
// or unsatisfied goal at the end.
func Validate(t task.AbstractTask, p Plan) error {
	state := make(map[int]int, t.NumVariables())
	for _, f := range t.InitialState() {
		state[f.Var] = f.Val
	}

	var totalCost int64
	for step, name := range p.Actions {
		op, ok := findOperator(t, name)
		if !ok {
			return fmt.Errorf("plan: step %d: unknown action %q", step, name)
		}
		for _, pre := range op.Preconditions {
			if state[pre.Var] != pre.Val {
				return fmt.Errorf("plan: step %d (%s): precondition var=%d val=%d unmet (have %d)", step, name, pre.Var, pre.Val, state[pre.Var])
			}
		}

		totalCost += stepCost(state, op)

		next := make(map[int]int, len(state))
		for v, val := range state {
			next[v] = val
		}
		for _, eff := range op.Effects {
			if conditionsHold(state, eff.Conditions) {
				next[eff.Target.Var] = eff.Target.Val
			}
		}
		state = next
	}

	if totalCost != p.Cost {
		return fmt.Errorf("plan: declared cost %d does not match simulated cost %d", p.Cost, totalCost)
	}

	for _, g := range t.Goal() {
		if state[g.Var] != g.Val {
			return fmt.Errorf("plan: goal unmet: var=%d want=%d have=%d", g.Var, g.Val, state[g.Var])
		}
	}

	return nil
}

func conditionsHold(state map[int]int, conds []task.Fact) bool {
	for _, c := range conds {
		if state[c.Var] != c.Val {
			return false
		}
	}

	return true
}

// stepCost evaluates SDAC cost-case guards against the pre-effect state,
// matching trel/build.go's TR compilation (which conjoins each cost
// case's guard onto preBDD, before the effect is applied) — evaluating
// against the post-effect state instead would silently mismatch whenever
// a guard references a variable the operator's own effects change.
func stepCost(statePre map[int]int, op task.Operator) int64 {
	if len(op.CostCases) == 0 {
		return op.Cost
	}
	for _, c := range op.CostCases {
		if conditionsHold(statePre, c.Guard) {
			return c.Cost
		}
	}

	return op.Cost
}

func findOperator(t task.AbstractTask, name string) (task.Operator, bool) {
	for i := 0; i < t.NumOperators(); i++ {
		if op := t.Operator(i); op.Name == name {
			return op, true
		}
	}

	return task.Operator{}, false
}
