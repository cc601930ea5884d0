package vars_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/task"
	"github.com/speckdavid/symk-sub002/vars"
)

func twoVarTask() *task.InMemoryTask {
	return &task.InMemoryTask{
		Domains: []int{2, 3},
		Init:    []task.Fact{{Var: 0, Val: 0}, {Var: 1, Val: 0}},
	}
}

func newEncodingForTest(t *testing.T, tk task.AbstractTask) (*bdd.Manager, *vars.Encoding) {
	t.Helper()
	mgr, err := bdd.NewManager(vars.RequiredBoolVars(tk))
	require.NoError(t, err)
	t.Cleanup(mgr.Close)
	order := vars.PlanOrder(tk, false)
	enc, err := vars.NewEncoding(mgr, tk, order)
	require.NoError(t, err)

	return mgr, enc
}

func TestBitsFor(t *testing.T) {
	require.Equal(t, 1, vars.BitsFor(1))
	require.Equal(t, 1, vars.BitsFor(2))
	require.Equal(t, 2, vars.BitsFor(3))
	require.Equal(t, 2, vars.BitsFor(4))
	require.Equal(t, 3, vars.BitsFor(5))
}

func TestPreBDDDistinctValuesAreMutuallyExclusive(t *testing.T) {
	tk := twoVarTask()
	mgr, enc := newEncodingForTest(t, tk)

	a, err := enc.PreBDD(task.Fact{Var: 1, Val: 0})
	require.NoError(t, err)
	b, err := enc.PreBDD(task.Fact{Var: 1, Val: 1})
	require.NoError(t, err)

	require.True(t, mgr.IsFalse(mgr.And(a, b)), "pre_bdd(var,a) ∧ pre_bdd(var,b) must be ⊥ for a≠b")
}

func TestPreBDDRejectsOutOfRangeValue(t *testing.T) {
	tk := twoVarTask()
	_, enc := newEncodingForTest(t, tk)

	_, err := enc.PreBDD(task.Fact{Var: 0, Val: 7})
	require.ErrorIs(t, err, vars.ErrValueOutOfRange)
}

func TestSwapPreEffIsInvolution(t *testing.T) {
	tk := twoVarTask()
	mgr, enc := newEncodingForTest(t, tk)

	s, err := enc.StateBDD(tk.InitialState())
	require.NoError(t, err)

	once := enc.SwapPreEff(s)
	twice := enc.SwapPreEff(once)

	require.True(t, mgr.Equal(s, twice), "state_bdd(swap(swap(S))) must equal state_bdd(S)")
}

func TestNewEncodingRejectsBadOrder(t *testing.T) {
	tk := twoVarTask()
	mgr, err := bdd.NewManager(vars.RequiredBoolVars(tk))
	require.NoError(t, err)
	defer mgr.Close()

	_, err = vars.NewEncoding(mgr, tk, []int{0, 0})
	require.ErrorIs(t, err, vars.ErrBadOrder)
}
