package estimator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/speckdavid/symk-sub002/estimator"
)

func TestNextStepBeforeAnySampleReturnsInputSize(t *testing.T) {
	e := estimator.New()
	nodes, dur := e.NextStep(100, false)
	require.Equal(t, 100, nodes)
	require.Equal(t, time.Duration(0), dur)
}

func TestNextStepInterpolatesBetweenSamples(t *testing.T) {
	e := estimator.New()
	e.StepTaken(100, 200, 10*time.Millisecond, false)
	e.StepTaken(300, 600, 30*time.Millisecond, false)

	nodes, dur := e.NextStep(200, false)
	require.Equal(t, 400, nodes)
	require.Equal(t, 20*time.Millisecond, dur)
}

func TestZeroAndCostTablesAreIndependent(t *testing.T) {
	e := estimator.New()
	e.StepTaken(10, 10, time.Millisecond, true)
	e.StepTaken(10, 1000, time.Second, false)

	zeroNodes, _ := e.NextStep(10, true)
	costNodes, _ := e.NextStep(10, false)
	require.Equal(t, 10, zeroNodes)
	require.Equal(t, 1000, costNodes)
}

func TestViolatedCountsOnlyOverTolerance(t *testing.T) {
	e := estimator.New()
	require.False(t, e.Violated(100, 110, 1.5))
	require.Equal(t, 0, e.Violations())
	require.True(t, e.Violated(100, 200, 1.5))
	require.Equal(t, 1, e.Violations())
}
