package mutexset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/mutexset"
	"github.com/speckdavid/symk-sub002/task"
	"github.com/speckdavid/symk-sub002/vars"
)

func setup(t *testing.T) (*bdd.Manager, *vars.Encoding, *task.InMemoryTask) {
	t.Helper()
	tk := &task.InMemoryTask{
		Domains: []int{3},
		Init:    []task.Fact{{Var: 0, Val: 0}},
		Mutexes: []task.MutexGroup{
			{Facts: []task.Fact{{Var: 0, Val: 0}, {Var: 0, Val: 1}, {Var: 0, Val: 2}}, ExactlyOne: true, DetectedForward: true},
		},
	}
	mgr, err := bdd.NewManager(vars.RequiredBoolVars(tk))
	require.NoError(t, err)
	t.Cleanup(mgr.Close)
	enc, err := vars.NewEncoding(mgr, tk, vars.PlanOrder(tk, false))
	require.NoError(t, err)

	return mgr, enc, tk
}

func TestBuildNotMutexExcludesConflictingValues(t *testing.T) {
	mgr, enc, tk := setup(t)

	sets, err := mutexset.Build(mgr, enc, tk.MutexGroups(), bdd.Unbounded)
	require.NoError(t, err)

	v0, err := enc.PreBDD(task.Fact{Var: 0, Val: 0})
	require.NoError(t, err)
	v1, err := enc.PreBDD(task.Fact{Var: 0, Val: 1})
	require.NoError(t, err)
	both := mgr.And(v0, v1)

	require.True(t, mgr.IsFalse(mgr.And(both, sets.NotMutexFw)), "a state asserting two mutex values must be excluded by NotMutexFw")
}

func TestBuildDirectionsAreIndependentNotASwap(t *testing.T) {
	tk := &task.InMemoryTask{
		Domains: []int{3},
		Init:    []task.Fact{{Var: 0, Val: 0}},
		Mutexes: []task.MutexGroup{
			{Facts: []task.Fact{{Var: 0, Val: 0}, {Var: 0, Val: 1}}, DetectedForward: false},
		},
	}
	mgr, err := bdd.NewManager(vars.RequiredBoolVars(tk))
	require.NoError(t, err)
	defer mgr.Close()
	enc, err := vars.NewEncoding(mgr, tk, vars.PlanOrder(tk, false))
	require.NoError(t, err)

	sets, err := mutexset.Build(mgr, enc, tk.MutexGroups(), bdd.Unbounded)
	require.NoError(t, err)

	v0, err := enc.PreBDD(task.Fact{Var: 0, Val: 0})
	require.NoError(t, err)
	v1, err := enc.PreBDD(task.Fact{Var: 0, Val: 1})
	require.NoError(t, err)
	both := mgr.And(v0, v1)

	require.True(t, mgr.Equal(sets.NotMutexFw, mgr.True()), "a group with DetectedForward=false must not strengthen NotMutexFw")
	require.True(t, mgr.IsFalse(mgr.And(both, sets.NotMutexBw)), "a group with DetectedForward=false must strengthen NotMutexBw")
}

func TestFilterModeNoneIsIdentity(t *testing.T) {
	mgr, enc, tk := setup(t)
	sets, err := mutexset.Build(mgr, enc, tk.MutexGroups(), bdd.Unbounded)
	require.NoError(t, err)

	v0, err := enc.PreBDD(task.Fact{Var: 0, Val: 0})
	require.NoError(t, err)
	v1, err := enc.PreBDD(task.Fact{Var: 0, Val: 1})
	require.NoError(t, err)
	conflicting := mgr.And(v0, v1)

	out := mutexset.Filter(mgr, enc, sets, conflicting, true, false, mutexset.None)
	require.True(t, mgr.Equal(out, conflicting), "mutexset.None must not filter anything")
}
