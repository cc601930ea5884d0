package statespace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/statespace"
	"github.com/speckdavid/symk-sub002/task"
	"github.com/speckdavid/symk-sub002/vars"
)

func chainTask() *task.InMemoryTask {
	return &task.InMemoryTask{
		Domains: []int{2},
		Init:    []task.Fact{{Var: 0, Val: 0}},
		GoalFacts: []task.Fact{{Var: 0, Val: 1}},
		Operators_: []task.Operator{
			{
				Name:          "flip",
				Preconditions: []task.Fact{{Var: 0, Val: 0}},
				Effects:       []task.Effect{{Target: task.Fact{Var: 0, Val: 1}}},
				Cost:          1,
			},
		},
	}
}

func TestMgrImageReachesGoal(t *testing.T) {
	tk := chainTask()
	mgr, err := bdd.NewManager(vars.RequiredBoolVars(tk))
	require.NoError(t, err)
	defer mgr.Close()

	sm, err := statespace.New(mgr, tk, vars.PlanOrder(tk, false))
	require.NoError(t, err)

	costs := sm.Costs()
	require.Equal(t, []int64{1}, costs)

	bucket, ok := sm.Bucket(1)
	require.True(t, ok)

	res := sm.Image(sm.Init(), bucket)
	require.False(t, res.Truncated)
	require.True(t, mgr.Equal(res.Node, sm.Goal()))
}

func TestMgrPreimageOfGoalReachesInit(t *testing.T) {
	tk := chainTask()
	mgr, err := bdd.NewManager(vars.RequiredBoolVars(tk))
	require.NoError(t, err)
	defer mgr.Close()

	sm, err := statespace.New(mgr, tk, vars.PlanOrder(tk, false))
	require.NoError(t, err)

	bucket, ok := sm.Bucket(1)
	require.True(t, ok)

	res := sm.Preimage(sm.Goal(), bucket)
	require.False(t, res.Truncated)
	require.True(t, mgr.Equal(res.Node, sm.Init()))
}
