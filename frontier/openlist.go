// Package frontier implements spec.md §4.4's state-space frontier: the
// Sfilter→Smerge→Szero pipeline that turns a freshly imaged (or
// preimaged) state set into a finished generation bucket, and the
// g-indexed OpenList/ClosedList bookkeeping a uniform-cost search drives
// through it.
package frontier

import (
	"container/heap"

	"github.com/speckdavid/symk-sub002/internal/bdd"
)

type int64Heap []int64

func (h int64Heap) Len() int            { return len(h) }
func (h int64Heap) Less(i, j int) bool  { return h[i] < h[j] }
func (h int64Heap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *int64Heap) Push(x interface{}) { *h = append(*h, x.(int64)) }
func (h *int64Heap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]

	return v
}

// OpenList is a g-indexed bucket queue, grounded on lvlath/dijkstra's
// min-heap runner: like dijkstra's nodePQ it pops the smallest key first,
// but where dijkstra pushes a fresh heap entry every time a vertex's
// distance improves (lazy decrease-key), a g-bucket here never changes
// its key — a state reached at g a second time just grows that bucket's
// BDD in place via Or, so each distinct g is pushed onto the heap exactly
// once.
type OpenList struct {
	mgr     *bdd.Manager
	buckets map[int64]bdd.Node
	present map[int64]bool
	pq      int64Heap
}

// NewOpenList returns an empty OpenList.
func NewOpenList(mgr *bdd.Manager) *OpenList {
	return &OpenList{mgr: mgr, buckets: make(map[int64]bdd.Node), present: make(map[int64]bool)}
}

// Push unions states into the bucket for generation g. A constant-false
// states is a no-op — it would never contribute a successor.
func (o *OpenList) Push(g int64, states bdd.Node) {
	if o.mgr.IsFalse(states) {
		return
	}
	if cur, ok := o.buckets[g]; ok {
		o.buckets[g] = o.mgr.Or(cur, states)
	} else {
		o.buckets[g] = states
	}
	if !o.present[g] {
		o.present[g] = true
		heap.Push(&o.pq, g)
	}
}

// PopMin removes and returns the lowest-g non-empty bucket.
func (o *OpenList) PopMin() (int64, bdd.Node, bool) {
	for o.pq.Len() > 0 {
		g := heap.Pop(&o.pq).(int64)
		if !o.present[g] {
			continue
		}
		states := o.buckets[g]
		delete(o.buckets, g)
		delete(o.present, g)

		return g, states, true
	}

	return 0, o.mgr.False(), false
}

// PeekMinG reports the lowest g with a pending bucket, without removing
// it — the value UCS's f-bound and bidirectional search's
// select_best_direction compare against.
func (o *OpenList) PeekMinG() (int64, bool) {
	for o.pq.Len() > 0 {
		g := o.pq[0]
		if o.present[g] {
			return g, true
		}
		heap.Pop(&o.pq)
	}

	return 0, false
}

// PeekMin reports the lowest-g pending bucket's generation and states
// without removing it.
func (o *OpenList) PeekMin() (int64, bdd.Node, bool) {
	g, ok := o.PeekMinG()
	if !ok {
		return 0, o.mgr.False(), false
	}

	return g, o.buckets[g], true
}

// Empty reports whether every bucket has been popped.
func (o *OpenList) Empty() bool { return len(o.present) == 0 }
