package frontier

import "github.com/speckdavid/symk-sub002/internal/bdd"

// ClosedList tracks every state a search has already expanded, per
// generation, plus the bookkeeping spec.md §4.6-§4.7 name for
// bidirectional search to use the opposite direction's closed list as an
// oracle.
type ClosedList struct {
	mgr            *bdd.Manager
	closed         map[int64]bdd.Node
	zeroCostClosed map[int64][]bdd.Node
	closedTotal    bdd.Node
	hNotClosed     map[int64]bdd.Node
}

// NewClosedList returns an empty ClosedList.
func NewClosedList(mgr *bdd.Manager) *ClosedList {
	return &ClosedList{
		mgr:            mgr,
		closed:         make(map[int64]bdd.Node),
		zeroCostClosed: make(map[int64][]bdd.Node),
		closedTotal:    mgr.False(),
		hNotClosed:     make(map[int64]bdd.Node),
	}
}

// Add records states as closed at generation g.
func (c *ClosedList) Add(g int64, states bdd.Node) {
	c.closed[g] = c.mgr.Or(c.Closed(g), states)
	c.closedTotal = c.mgr.Or(c.closedTotal, states)
}

// AddZeroCost appends one zero-cost saturation layer at generation g —
// kept separate from Add's per-g bucket since a zero-cost-reachable state
// shares g with its predecessor rather than advancing it, and kept as an
// ordered list (not merged in) so plan reconstruction's backward zig-zag
// walk can tell which layer a state first appeared in.
func (c *ClosedList) AddZeroCost(g int64, states bdd.Node) {
	c.zeroCostClosed[g] = append(c.zeroCostClosed[g], states)
	c.closedTotal = c.mgr.Or(c.closedTotal, states)
}

// Closed returns everything closed at generation g.
func (c *ClosedList) Closed(g int64) bdd.Node {
	if n, ok := c.closed[g]; ok {
		return n
	}

	return c.mgr.False()
}

// ZeroCostClosed returns the ordered zero-cost saturation layers recorded
// at g: layers[0] is the merged state before any zero-cost step, layers[i]
// is the cumulative closure after the i-th zero-cost image/preimage step.
func (c *ClosedList) ZeroCostClosed(g int64) []bdd.Node {
	return c.zeroCostClosed[g]
}

// Total returns the union of every state passed to Add or AddZeroCost,
// regardless of g. UCS records zero-cost layers when a bucket is pushed,
// before it is expanded, so Total can include states not yet expanded.
// No search in this module subtracts Total from new frontier states: a
// state reached again at a higher g is expanded again.
func (c *ClosedList) Total() bdd.Node { return c.closedTotal }

// SetHNotClosed records, for heuristic/oracle value h, the states the
// opposite search direction has NOT yet closed — spec.md §4.7's
// bidirectional pruning input: a state this direction is about to expand
// that the other direction has already ruled out at h can be dropped.
func (c *ClosedList) SetHNotClosed(h int64, states bdd.Node) {
	c.hNotClosed[h] = states
}

// HNotClosed returns the recorded not-closed set for h, or constant-true
// (nothing excluded) if h was never reported.
func (c *ClosedList) HNotClosed(h int64) bdd.Node {
	if n, ok := c.hNotClosed[h]; ok {
		return n
	}

	return c.mgr.True()
}
