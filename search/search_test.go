package search_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/search"
	"github.com/speckdavid/symk-sub002/statespace"
	"github.com/speckdavid/symk-sub002/task"
	"github.com/speckdavid/symk-sub002/vars"
)

func twoPathTask() *task.InMemoryTask {
	// Two independent routes from var0=0 to var0=3: a cheap 1-step jump
	// (cost 5) and a longer two-step chain (cost 1 + cost 1), so optimal
	// cost is 2 and a suboptimal cost-5 plan also exists for Top-K/Top-Q.
	return &task.InMemoryTask{
		Domains:   []int{4},
		Init:      []task.Fact{{Var: 0, Val: 0}},
		GoalFacts: []task.Fact{{Var: 0, Val: 3}},
		Operators_: []task.Operator{
			{Name: "jump", Preconditions: []task.Fact{{Var: 0, Val: 0}}, Effects: []task.Effect{{Target: task.Fact{Var: 0, Val: 3}}}, Cost: 5},
			{Name: "step1", Preconditions: []task.Fact{{Var: 0, Val: 0}}, Effects: []task.Effect{{Target: task.Fact{Var: 0, Val: 1}}}, Cost: 1},
			{Name: "step2", Preconditions: []task.Fact{{Var: 0, Val: 1}}, Effects: []task.Effect{{Target: task.Fact{Var: 0, Val: 3}}}, Cost: 1},
		},
	}
}

func buildMgr(t *testing.T, tk task.AbstractTask) (*bdd.Manager, *statespace.Mgr) {
	t.Helper()
	mgr, err := bdd.NewManager(vars.RequiredBoolVars(tk))
	require.NoError(t, err)
	t.Cleanup(mgr.Close)
	sm, err := statespace.New(mgr, tk, vars.PlanOrder(tk, false))
	require.NoError(t, err)

	return mgr, sm
}

func TestUCSFindsOptimalCost(t *testing.T) {
	tk := twoPathTask()
	_, sm := buildMgr(t, tk)

	u := search.NewUCS(sm, true, sm.Init(), sm.Goal(), bdd.Unbounded)
	u.Run(10)

	best, ok := u.CheapestCut()
	require.True(t, ok)
	require.Equal(t, int64(2), best.G+best.H)
}

func TestRunTopKFindsBothCosts(t *testing.T) {
	tk := twoPathTask()
	_, sm := buildMgr(t, tk)

	cuts := search.RunTopK(sm, 2, bdd.Unbounded)
	require.GreaterOrEqual(t, len(cuts), 2)
	require.Equal(t, int64(2), cuts[0].G+cuts[0].H)

	costs := make(map[int64]bool)
	for _, c := range cuts {
		costs[c.G+c.H] = true
	}
	require.True(t, costs[2])
	require.True(t, costs[5])
}

func TestRunTopQExcludesTooExpensivePlans(t *testing.T) {
	tk := twoPathTask()
	_, sm := buildMgr(t, tk)

	cuts := search.RunTopQ(sm, 1.5, bdd.Unbounded)
	require.NotEmpty(t, cuts)
	for _, c := range cuts {
		require.LessOrEqual(t, c.G+c.H, int64(3))
	}
}

func TestBidirectionalFindsMeetingPoint(t *testing.T) {
	tk := twoPathTask()
	_, sm := buildMgr(t, tk)

	b := search.NewBidirectional(sm, bdd.Unbounded)
	b.Run(10)

	best, ok := b.CheapestCut()
	require.True(t, ok)
	require.Equal(t, int64(2), best.G+best.H)
}
