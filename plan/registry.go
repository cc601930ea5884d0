package plan

import (
	"sort"
	"strings"
)

// SolutionRegistry is spec.md §4.8's Solution Registry: it accumulates
// distinct plans up to a target count K, deduplicating by the concrete
// action sequence (two different Cuts can reconstruct to the same plan,
// e.g. via two symmetric merged-bucket operators) rather than by cost
// alone.
type SolutionRegistry struct {
	target int
	found  []Plan
	seen   map[string]bool
}

// NewSolutionRegistry returns a registry that stops accepting new plans
// once target distinct plans have been added. target<=0 means unbounded
// (collect everything offered).
func NewSolutionRegistry(target int) *SolutionRegistry {
	return &SolutionRegistry{target: target, seen: make(map[string]bool)}
}

func key(p Plan) string { return strings.Join(p.Actions, "\x1f") }

// TryAdd adds p if it is not a duplicate of an already-registered plan
// and the registry has not yet reached its target. It reports whether p
// was added.
func (r *SolutionRegistry) TryAdd(p Plan) bool {
	if r.Done() {
		return false
	}
	k := key(p)
	if r.seen[k] {
		return false
	}
	r.seen[k] = true
	r.found = append(r.found, p)

	return true
}

// Done reports whether the registry has reached its target plan count.
func (r *SolutionRegistry) Done() bool {
	return r.target > 0 && len(r.found) >= r.target
}

// Plans returns every registered plan, cheapest first.
func (r *SolutionRegistry) Plans() []Plan {
	out := append([]Plan{}, r.found...)
	sort.Slice(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })

	return out
}
