package search

import (
	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/statespace"
)

// Direction names one side of a bidirectional search.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Options configures Bidirectional's per-step direction choice.
type Options struct {
	// Alternate forces strict forward/backward alternation instead of
	// always stepping whichever frontier is currently cheaper. The
	// original implementation's bidirectional_search.cc exposes both
	// policies; this engine defaults to cheapest-direction selection.
	Alternate bool
}

// Option configures a Bidirectional search.
type Option func(*Options)

// DefaultOptions returns cheapest-direction selection (Alternate=false).
func DefaultOptions() Options { return Options{} }

// WithAlternate forces strict forward/backward alternation.
func WithAlternate() Option { return func(o *Options) { o.Alternate = true } }

// Bidirectional couples a forward and a backward UCS, each acting as the
// other's Oracle (spec.md §4.7): whichever direction's current frontier
// is cheaper to expand goes next (select_best_direction), and a solution
// is found the moment the two closed regions overlap rather than only
// when one side reaches the other's start state outright.
type Bidirectional struct {
	sm       *statespace.Mgr
	fwd, bwd *UCS
	cuts     []Cut
	opts     Options
	next     Direction // only used when opts.Alternate

	seenCuts map[[2]int64]bool
}

// NewBidirectional seeds both directions from sm.Init()/sm.Goal().
func NewBidirectional(sm *statespace.Mgr, budget bdd.Budget, opts ...Option) *Bidirectional {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Bidirectional{
		sm:       sm,
		fwd:      NewUCS(sm, true, sm.Init(), sm.Goal(), budget),
		bwd:      NewUCS(sm, false, sm.Goal(), sm.Init(), budget),
		opts:     o,
		seenCuts: make(map[[2]int64]bool),
	}
}

// selectBestDirection picks the side to expand next: strict alternation
// when configured, otherwise whichever direction has the smaller pending
// open-list g — the cheaper frontier to expand, per spec.md §4.7.
func (b *Bidirectional) selectBestDirection() *UCS {
	fwG, fwOK := b.fwd.OpenMinG()
	bwG, bwOK := b.bwd.OpenMinG()
	if !fwOK {
		return b.bwd
	}
	if !bwOK {
		return b.fwd
	}

	if b.opts.Alternate {
		dir := b.next
		if dir == Forward {
			b.next = Backward
			return b.fwd
		}
		b.next = Forward
		return b.bwd
	}

	if fwG < bwG {
		return b.fwd
	}
	if bwG < fwG {
		return b.bwd
	}

	// Equal g: break the tie on the estimator's predicted step cost
	// instead of always favoring forward, per spec.md §4.5's "select the
	// cheaper direction in bidirectional mode."
	mgr := b.sm.BDD()
	_, fwStates, fwHasStates := b.fwd.OpenMinStates()
	_, bwStates, bwHasStates := b.bwd.OpenMinStates()
	if fwHasStates && bwHasStates {
		fwPredicted, _ := b.fwd.PredictedCost(mgr.NodeCount(fwStates))
		bwPredicted, _ := b.bwd.PredictedCost(mgr.NodeCount(bwStates))
		if bwPredicted < fwPredicted {
			return b.bwd
		}
	}

	return b.fwd
}

// Step expands the currently cheaper direction once, then scans every
// (g_fwd, g_bwd) generation pair closed so far for a non-empty
// intersection, recording a Cut{G: g_fwd, H: g_bwd} for each one found.
// Quadratic in the number of distinct generations seen, which is
// acceptable here since real tasks have far more states per generation
// than generations overall.
func (b *Bidirectional) Step() bool {
	dir := b.selectBestDirection()
	if !dir.Step() {
		if dir == b.fwd {
			if !b.bwd.Step() {
				return false
			}
		} else if !b.fwd.Step() {
			return false
		}
	}

	mgr := b.sm.BDD()
	for _, gf := range b.fwd.ClosedGenerations() {
		cf := b.fwd.ClosedAt(gf)
		for _, gb := range b.bwd.ClosedGenerations() {
			key := [2]int64{gf, gb}
			if b.seenCuts[key] {
				continue
			}
			cb := b.bwd.ClosedAt(gb)
			overlap := mgr.And(cf, cb)
			if !mgr.IsFalse(overlap) {
				b.cuts = append(b.cuts, Cut{G: gf, H: gb, BDD: overlap})
				b.seenCuts[key] = true
			}
		}
	}

	return true
}

// Run drives Step until both directions are exhausted or limit steps
// have run (limit<=0 means unbounded).
func (b *Bidirectional) Run(limit int) {
	for i := 0; limit <= 0 || i < limit; i++ {
		if !b.Step() {
			return
		}
	}
}

// CheapestCut returns the lowest g+h meeting point found so far.
func (b *Bidirectional) CheapestCut() (Cut, bool) {
	if len(b.cuts) == 0 {
		return Cut{}, false
	}
	best := b.cuts[0]
	for _, c := range b.cuts[1:] {
		if c.G+c.H < best.G+best.H {
			best = c
		}
	}

	return best, true
}

// AllCuts returns every meeting point found so far.
func (b *Bidirectional) AllCuts() []Cut { return append([]Cut{}, b.cuts...) }
