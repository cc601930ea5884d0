package trel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/task"
	"github.com/speckdavid/symk-sub002/trel"
	"github.com/speckdavid/symk-sub002/vars"
)

func setup(t *testing.T, tk task.AbstractTask) (*bdd.Manager, *vars.Encoding) {
	t.Helper()
	mgr, err := bdd.NewManager(vars.RequiredBoolVars(tk))
	require.NoError(t, err)
	t.Cleanup(mgr.Close)
	enc, err := vars.NewEncoding(mgr, tk, vars.PlanOrder(tk, false))
	require.NoError(t, err)

	return mgr, enc
}

func binaryTask() *task.InMemoryTask {
	return &task.InMemoryTask{
		Domains: []int{2, 2},
		Init:    []task.Fact{{Var: 0, Val: 0}, {Var: 1, Val: 0}},
	}
}

func TestBuildUnconditionalEffectPreservesFrame(t *testing.T) {
	tk := binaryTask()
	mgr, enc := setup(t, tk)

	op := task.Operator{
		Name:          "flip0",
		Preconditions: []task.Fact{{Var: 0, Val: 0}},
		Effects:       []task.Effect{{Target: task.Fact{Var: 0, Val: 1}}},
		Cost:          1,
	}

	trs, err := trel.Build(mgr, enc, op, 0, trel.Monolithic, nil, 0)
	require.NoError(t, err)
	require.Len(t, trs, 1)
	tr := trel.Finalize(mgr, enc, trs[0])

	start, err := enc.StateBDD([]task.Fact{{Var: 0, Val: 0}, {Var: 1, Val: 0}})
	require.NoError(t, err)

	res := trel.Image(mgr, enc, tr, start, bdd.Unbounded)
	require.False(t, res.Truncated)

	want, err := enc.StateBDD([]task.Fact{{Var: 0, Val: 1}, {Var: 1, Val: 0}})
	require.NoError(t, err)

	require.True(t, mgr.Equal(res.Node, want), "var1 must be frame-preserved across an operator that only touches var0")
}

func TestConditionalEffectSelectsBranch(t *testing.T) {
	tk := binaryTask()
	mgr, enc := setup(t, tk)

	op := task.Operator{
		Name: "condflip",
		Effects: []task.Effect{
			{Conditions: []task.Fact{{Var: 1, Val: 0}}, Target: task.Fact{Var: 0, Val: 1}},
			{Conditions: []task.Fact{{Var: 1, Val: 1}}, Target: task.Fact{Var: 0, Val: 0}},
		},
		Cost: 1,
	}

	trs, err := trel.Build(mgr, enc, op, 0, trel.Monolithic, nil, 0)
	require.NoError(t, err)
	require.Len(t, trs, 1)
	tr := trel.Finalize(mgr, enc, trs[0])

	branchA, err := enc.StateBDD([]task.Fact{{Var: 0, Val: 0}, {Var: 1, Val: 0}})
	require.NoError(t, err)
	resA := trel.Image(mgr, enc, tr, branchA, bdd.Unbounded)
	require.False(t, resA.Truncated)
	wantA, err := enc.StateBDD([]task.Fact{{Var: 0, Val: 1}, {Var: 1, Val: 0}})
	require.NoError(t, err)
	require.True(t, mgr.Equal(resA.Node, wantA), "var1=0 branch must set var0=1")

	branchB, err := enc.StateBDD([]task.Fact{{Var: 0, Val: 1}, {Var: 1, Val: 1}})
	require.NoError(t, err)
	resB := trel.Image(mgr, enc, tr, branchB, bdd.Unbounded)
	require.False(t, resB.Truncated)
	wantB, err := enc.StateBDD([]task.Fact{{Var: 0, Val: 0}, {Var: 1, Val: 1}})
	require.NoError(t, err)
	require.True(t, mgr.Equal(resB.Node, wantB), "var1=1 branch must set var0=0")
}

func TestMergeDisjunctiveUnionsBothOutcomes(t *testing.T) {
	tk := binaryTask()
	mgr, enc := setup(t, tk)

	opA := task.Operator{
		Name:          "setVar1",
		Preconditions: []task.Fact{{Var: 0, Val: 0}},
		Effects:       []task.Effect{{Target: task.Fact{Var: 1, Val: 1}}},
		Cost:          1,
	}
	opB := task.Operator{
		Name:          "setVar1Other",
		Preconditions: []task.Fact{{Var: 0, Val: 1}},
		Effects:       []task.Effect{{Target: task.Fact{Var: 1, Val: 1}}},
		Cost:          1,
	}

	trsA, err := trel.Build(mgr, enc, opA, 0, trel.Monolithic, nil, 0)
	require.NoError(t, err)
	trsB, err := trel.Build(mgr, enc, opB, 1, trel.Monolithic, nil, 0)
	require.NoError(t, err)

	merged, ok, err := trel.MergeDisjunctive(mgr, enc, bdd.Unbounded, trsA[0], trsB[0])
	require.NoError(t, err)
	require.True(t, ok)
	require.ElementsMatch(t, []int{0, 1}, merged.OpsIDs)

	both, err := enc.StateBDD([]task.Fact{{Var: 1, Val: 0}})
	require.NoError(t, err)
	res := trel.Image(mgr, enc, merged, both, bdd.Unbounded)
	require.False(t, res.Truncated)

	want, err := enc.StateBDD([]task.Fact{{Var: 1, Val: 1}})
	require.NoError(t, err)
	require.True(t, mgr.Equal(res.Node, want), "either precondition must reach var1=1 once the two operators are merged")
}

func TestCombineConjunctiveMatchesMonolithic(t *testing.T) {
	tk := binaryTask()
	mgr, enc := setup(t, tk)

	op := task.Operator{
		Name: "flipBoth",
		Effects: []task.Effect{
			{Target: task.Fact{Var: 0, Val: 1}},
			{Target: task.Fact{Var: 1, Val: 1}},
		},
		Cost: 1,
	}

	mono, err := trel.Build(mgr, enc, op, 0, trel.Monolithic, nil, 0)
	require.NoError(t, err)
	require.Len(t, mono, 1)
	monoFinal := trel.Finalize(mgr, enc, mono[0])

	components, err := trel.Build(mgr, enc, op, 0, trel.Conjunctive, nil, 0)
	require.NoError(t, err)
	require.Len(t, components, 2)
	combined := trel.CombineConjunctive(mgr, enc, components)

	require.True(t, mgr.Equal(monoFinal.BDD, combined.BDD), "conjunctive decomposition must recombine to the same relation as a monolithic build")
}

func TestBuildRejectsEmptyOperator(t *testing.T) {
	tk := binaryTask()
	mgr, enc := setup(t, tk)

	_, err := trel.Build(mgr, enc, task.Operator{}, 0, trel.Monolithic, nil, 0)
	require.ErrorIs(t, err, trel.ErrEmptyOperator)
}
