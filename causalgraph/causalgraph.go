// Package causalgraph builds the finite-domain-variable dependency graph
// the Gamer-style variable-order optimizer needs (spec.md §3, §9
// "Variable ordering"). Two variables are connected whenever some
// operator's precondition/effect/effect-condition mentions both; edge
// weight counts how often that co-occurrence happens, so MaxSpanningOrder
// grows an ordering that keeps frequently-co-occurring variables close
// together in the BDD variable order, which is what keeps per-operator
// transition-relation BDDs small (spec.md §3, "Invariant... interleaves
// the two copies... per finite variable").
//
// This package is adapted from lvlath/core's Graph/Edge shape and
// lvlath/prim_kruskal's heap-driven MST growth, specialized to integer
// variable indices and a single-threaded, build-once-at-setup usage (the
// engine's variable order is fixed before search begins, so none of
// core.Graph's concurrency support is needed here).
package causalgraph

import "container/heap"

// Graph is an undirected, integer-weighted graph over variable indices
// [0,N).
type Graph struct {
	n    int
	adj  []map[int]int // adj[u][v] = accumulated co-occurrence weight
}

// New returns an empty causal graph over n variables.
func New(n int) *Graph {
	g := &Graph{n: n, adj: make([]map[int]int, n)}
	for i := range g.adj {
		g.adj[i] = make(map[int]int)
	}

	return g
}

// N returns the number of variables (vertices).
func (g *Graph) N() int { return g.n }

// Degree returns the number of distinct neighbors of v.
func (g *Graph) Degree(v int) int { return len(g.adj[v]) }

// AddEdge increments the co-occurrence weight between u and v. Self-edges
// (u==v) are ignored; they carry no ordering information.
func (g *Graph) AddEdge(u, v int) {
	if u == v {
		return
	}
	g.adj[u][v]++
	g.adj[v][u]++
}

// AddClique adds a co-occurrence edge between every pair in vars — the
// shape one operator's touched variables form (spec.md §4.2: every
// variable mentioned in a precondition, effect or effect-condition of the
// same operator is mutually causally relevant).
func (g *Graph) AddClique(vars []int) {
	for i := 0; i < len(vars); i++ {
		for j := i + 1; j < len(vars); j++ {
			g.AddEdge(vars[i], vars[j])
		}
	}
}

// weightedEdge is one candidate frontier edge during MaxSpanningOrder's
// Prim-style growth.
type weightedEdge struct {
	to     int
	weight int
}

// edgePQ is a max-heap of weightedEdge ordered by descending weight —
// the mirror image of lvlath/prim_kruskal's min-heap edgePQ, since we
// want to grow the spanning structure along the *strongest* causal links
// first.
type edgePQ []weightedEdge

func (pq edgePQ) Len() int            { return len(pq) }
func (pq edgePQ) Less(i, j int) bool  { return pq[i].weight > pq[j].weight }
func (pq edgePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *edgePQ) Push(x interface{}) { *pq = append(*pq, x.(weightedEdge)) }
func (pq *edgePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	e := old[n-1]
	*pq = old[:n-1]

	return e
}

// MaxSpanningOrder returns a permutation of [0,N) that grows a maximum
// spanning forest from root using Prim's algorithm (heaviest edge first)
// and records vertices in the order they are first attached. Disconnected
// components are appended in ascending index order once the reachable
// component from root is exhausted, so every variable appears exactly
// once regardless of causal-graph connectivity.
func (g *Graph) MaxSpanningOrder(root int) []int {
	visited := make([]bool, g.n)
	order := make([]int, 0, g.n)

	pq := &edgePQ{}
	heap.Init(pq)
	visit := func(u int) {
		visited[u] = true
		order = append(order, u)
		for v, w := range g.adj[u] {
			if !visited[v] {
				heap.Push(pq, weightedEdge{to: v, weight: w})
			}
		}
	}
	visit(root)
	for pq.Len() > 0 && len(order) < g.n {
		e := heap.Pop(pq).(weightedEdge)
		if visited[e.to] {
			continue
		}
		visit(e.to)
	}
	// Any component unreachable from root (causal graph need not be
	// connected, e.g. fully independent sub-problems) is appended
	// deterministically by ascending index.
	for v := 0; v < g.n; v++ {
		if !visited[v] {
			visit(v)
		}
	}

	return order
}
