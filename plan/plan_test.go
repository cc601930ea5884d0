package plan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/plan"
	"github.com/speckdavid/symk-sub002/search"
	"github.com/speckdavid/symk-sub002/statespace"
	"github.com/speckdavid/symk-sub002/task"
	"github.com/speckdavid/symk-sub002/vars"
)

func chainTask() *task.InMemoryTask {
	return &task.InMemoryTask{
		Domains:   []int{3},
		Init:      []task.Fact{{Var: 0, Val: 0}},
		GoalFacts: []task.Fact{{Var: 0, Val: 2}},
		Operators_: []task.Operator{
			{Name: "a", Preconditions: []task.Fact{{Var: 0, Val: 0}}, Effects: []task.Effect{{Target: task.Fact{Var: 0, Val: 1}}}, Cost: 1},
			{Name: "b", Preconditions: []task.Fact{{Var: 0, Val: 1}}, Effects: []task.Effect{{Target: task.Fact{Var: 0, Val: 2}}}, Cost: 1},
		},
	}
}

func TestReconstructAndValidateRoundTrip(t *testing.T) {
	tk := chainTask()
	mgr, err := bdd.NewManager(vars.RequiredBoolVars(tk))
	require.NoError(t, err)
	defer mgr.Close()

	sm, err := statespace.New(mgr, tk, vars.PlanOrder(tk, false))
	require.NoError(t, err)

	u := search.NewUCS(sm, true, sm.Init(), sm.Goal(), bdd.Unbounded)
	u.Run(10)

	cut, ok := u.CheapestCut()
	require.True(t, ok)
	require.Equal(t, int64(2), cut.G+cut.H)

	p, err := plan.Reconstruct(sm, u, cut)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, p.Actions)
	require.Equal(t, int64(2), p.Cost)

	require.NoError(t, plan.Validate(tk, p))
}

func TestReconstructTriesZeroCostStepsBeforeDecreasingG(t *testing.T) {
	tk := &task.InMemoryTask{
		Domains:   []int{2, 2},
		Init:      []task.Fact{{Var: 0, Val: 0}, {Var: 1, Val: 0}},
		GoalFacts: []task.Fact{{Var: 0, Val: 1}, {Var: 1, Val: 1}},
		Operators_: []task.Operator{
			{Name: "A", Preconditions: []task.Fact{{Var: 0, Val: 0}}, Effects: []task.Effect{{Target: task.Fact{Var: 0, Val: 1}}}, Cost: 3},
			{Name: "Z", Preconditions: []task.Fact{{Var: 0, Val: 1}, {Var: 1, Val: 0}}, Effects: []task.Effect{{Target: task.Fact{Var: 1, Val: 1}}}, Cost: 0},
		},
	}
	mgr, err := bdd.NewManager(vars.RequiredBoolVars(tk))
	require.NoError(t, err)
	defer mgr.Close()

	sm, err := statespace.New(mgr, tk, vars.PlanOrder(tk, false))
	require.NoError(t, err)

	u := search.NewUCS(sm, true, sm.Init(), sm.Goal(), bdd.Unbounded)
	u.Run(10)

	cut, ok := u.CheapestCut()
	require.True(t, ok)
	require.Equal(t, int64(3), cut.G+cut.H)

	p, err := plan.Reconstruct(sm, u, cut)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "Z"}, p.Actions, "Z is the only operator reaching v1=1 and must be tried at g=3 before falling back to a cost-decreasing step")
	require.NoError(t, plan.Validate(tk, p))
}

func TestSolutionRegistryDedupesAndCapsAtTarget(t *testing.T) {
	r := plan.NewSolutionRegistry(1)
	require.True(t, r.TryAdd(plan.Plan{Cost: 2, Actions: []string{"a", "b"}}))
	require.True(t, r.Done())
	require.False(t, r.TryAdd(plan.Plan{Cost: 3, Actions: []string{"c"}}))
	require.Len(t, r.Plans(), 1)
}

func TestValidateRejectsWrongGoal(t *testing.T) {
	tk := chainTask()
	err := plan.Validate(tk, plan.Plan{Cost: 1, Actions: []string{"a"}})
	require.Error(t, err)
}
