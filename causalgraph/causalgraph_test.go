package causalgraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/speckdavid/symk-sub002/causalgraph"
)

func TestMaxSpanningOrderVisitsEveryVariable(t *testing.T) {
	g := causalgraph.New(5)
	g.AddClique([]int{0, 1, 2})
	g.AddEdge(2, 3)
	// vertex 4 is disconnected from the rest.

	order := g.MaxSpanningOrder(0)
	require.Len(t, order, 5)

	seen := make(map[int]bool)
	for _, v := range order {
		require.False(t, seen[v], "variable %d visited twice", v)
		seen[v] = true
	}
	require.True(t, seen[4], "disconnected variable must still appear")
	require.Equal(t, 0, order[0], "must start from root")
}

func TestAddEdgeIgnoresSelfLoops(t *testing.T) {
	g := causalgraph.New(2)
	g.AddEdge(0, 0)
	order := g.MaxSpanningOrder(0)
	require.Equal(t, []int{0, 1}, order)
}
