// Package statespace implements spec.md §2.4's Mgr: the object that owns
// the Variable Encoding, every operator's Transition Relation grouped into
// cost buckets, and the Mutex Sets, and exposes the budgeted image and
// preimage primitives every search algorithm is built from, plus
// filter_mutex, which runs without a budget (Options.FilterBudget is not
// read). merge_bucket runs once, inside New.
package statespace

import (
	"sort"

	"github.com/speckdavid/symk-sub002/internal/bdd"
	"github.com/speckdavid/symk-sub002/mutexset"
	"github.com/speckdavid/symk-sub002/task"
	"github.com/speckdavid/symk-sub002/trel"
	"github.com/speckdavid/symk-sub002/vars"
)

// Bucket groups every grounded-operator TR of one action cost. TRs has a
// single, fully Finalize-d element when every operator of that cost
// merged cleanly; it holds more than one element when merge_bucket hit
// its node/time budget: each truncated merge starts a new TR, into which
// later same-cost TRs are merged in turn (spec.md §4.2's soft-failure model: correctness survives, only the
// per-step BDD size does not shrink as much as it could).
type Bucket struct {
	Cost int64
	TRs  []trel.TR
}

// Options configures Mgr construction (spec.md §6's budget knobs).
type Options struct {
	CondEffMode  trel.CondEffMode
	MutexMode    mutexset.Mode
	BuildBudget  bdd.Budget
	MergeBudget  bdd.Budget
	ImageBudget  bdd.Budget
	FilterBudget bdd.Budget
}

// Option mutates an Options value.
type Option func(*Options)

// DefaultOptions returns an Options with every budget unbounded and
// monolithic, mutex-filtering-off compilation — the cheapest correct
// configuration to start a new task from.
func DefaultOptions() Options {
	return Options{
		CondEffMode:  trel.Monolithic,
		MutexMode:    mutexset.None,
		BuildBudget:  bdd.Unbounded,
		MergeBudget:  bdd.Unbounded,
		ImageBudget:  bdd.Unbounded,
		FilterBudget: bdd.Unbounded,
	}
}

func WithCondEffMode(m trel.CondEffMode) Option { return func(o *Options) { o.CondEffMode = m } }
func WithMutexMode(m mutexset.Mode) Option       { return func(o *Options) { o.MutexMode = m } }
func WithMergeBudget(b bdd.Budget) Option        { return func(o *Options) { o.MergeBudget = b } }
func WithImageBudget(b bdd.Budget) Option        { return func(o *Options) { o.ImageBudget = b } }

// Mgr is spec.md §2.4's state-space manager.
type Mgr struct {
	bdd  *bdd.Manager
	vars *vars.Encoding
	task task.AbstractTask
	opts Options

	buckets    []Bucket // ascending by Cost
	bucketIdx  map[int64]int
	mutex      *mutexset.Sets
	init, goal bdd.Node

	// opTRs holds one Finalize-d TR per grounded operator, never merged
	// with another operator's TR — plan reconstruction needs to test
	// each operator individually to name which action a search step
	// actually took, which a cost-bucket's merged TR can no longer
	// distinguish.
	opTRs []trel.TR
}

// New compiles every operator of t into per-cost Buckets and builds the
// mutex sets, per opts.
func New(mgr *bdd.Manager, t task.AbstractTask, order []int, opts ...Option) (*Mgr, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	enc, err := vars.NewEncoding(mgr, t, order)
	if err != nil {
		return nil, err
	}

	mx, err := mutexset.Build(mgr, enc, t.MutexGroups(), o.BuildBudget)
	if err != nil {
		return nil, err
	}

	byCost := make(map[int64][]trel.TR)
	var opTRs []trel.TR
	for i := 0; i < t.NumOperators(); i++ {
		op := t.Operator(i)
		trs, err := trel.Build(mgr, enc, op, i, o.CondEffMode, mx, o.MutexMode)
		if err != nil {
			return nil, err
		}
		switch o.CondEffMode {
		case trel.Conjunctive, trel.ConjunctiveEarlyQuant:
			combined := trel.CombineConjunctive(mgr, enc, trs)
			byCost[combined.Cost] = append(byCost[combined.Cost], combined)
			opTRs = append(opTRs, combined)
		default:
			for _, tr := range trs {
				final := trel.Finalize(mgr, enc, tr)
				byCost[tr.Cost] = append(byCost[tr.Cost], final)
				opTRs = append(opTRs, final)
			}
		}
	}

	costs := make([]int64, 0, len(byCost))
	for c := range byCost {
		costs = append(costs, c)
	}
	sort.Slice(costs, func(i, j int) bool { return costs[i] < costs[j] })

	m := &Mgr{
		bdd:       mgr,
		vars:      enc,
		task:      t,
		opts:      o,
		mutex:     mx,
		bucketIdx: make(map[int64]int, len(costs)),
		opTRs:     opTRs,
	}
	for _, c := range costs {
		trs := mergeBucket(mgr, enc, o.MergeBudget, byCost[c])
		m.bucketIdx[c] = len(m.buckets)
		m.buckets = append(m.buckets, Bucket{Cost: c, TRs: trs})
	}

	init, err := enc.StateBDD(t.InitialState())
	if err != nil {
		return nil, err
	}
	goal, err := enc.PartialStateBDD(t.Goal())
	if err != nil {
		return nil, err
	}
	m.init = mutexset.Filter(mgr, enc, mx, init, true, true, o.MutexMode)
	m.goal = mutexset.Filter(mgr, enc, mx, goal, false, true, o.MutexMode)

	return m, nil
}

// mergeBucket folds every same-cost TR together in one greedy pass via
// MergeDisjunctive (spec.md §4.4's Smerge stage). When a merge attempt is
// budget-truncated, the TR that failed to merge starts a new TR, and the
// TRs after it are merged into that one.
func mergeBucket(mgr *bdd.Manager, enc *vars.Encoding, budget bdd.Budget, trs []trel.TR) []trel.TR {
	if len(trs) == 0 {
		return nil
	}
	out := []trel.TR{trs[0]}
	for _, next := range trs[1:] {
		merged, ok, err := trel.MergeDisjunctive(mgr, enc, budget, out[len(out)-1], next)
		if err != nil || !ok {
			out = append(out, next)
			continue
		}
		out[len(out)-1] = merged
	}

	return out
}

// BDD returns the underlying bdd.Manager, for packages (frontier, search)
// that need to combine Mgr results with BDDs of their own.
func (m *Mgr) BDD() *bdd.Manager { return m.bdd }

// Vars returns the Variable Encoding this Mgr was built over.
func (m *Mgr) Vars() *vars.Encoding { return m.vars }

// OperatorTRs returns one Finalize-d, never-merged TR per grounded
// operator — plan.Reconstruct's raw material for naming actions.
func (m *Mgr) OperatorTRs() []trel.TR { return m.opTRs }

// Task returns the underlying task.
func (m *Mgr) Task() task.AbstractTask { return m.task }

// Init returns the mutex-filtered initial-state BDD.
func (m *Mgr) Init() bdd.Node { return m.init }

// Goal returns the mutex-filtered goal BDD.
func (m *Mgr) Goal() bdd.Node { return m.goal }

// Costs returns every distinct action cost with at least one operator,
// ascending — the g-step sizes a uniform-cost search will step through.
func (m *Mgr) Costs() []int64 {
	out := make([]int64, len(m.buckets))
	for i, b := range m.buckets {
		out[i] = b.Cost
	}

	return out
}

// Bucket returns the Bucket for a given cost, or false if no operator has
// that cost.
func (m *Mgr) Bucket(cost int64) (Bucket, bool) {
	i, ok := m.bucketIdx[cost]
	if !ok {
		return Bucket{}, false
	}

	return m.buckets[i], true
}

// Image computes the union, over every TR in bucket, of that TR's image
// of states — equivalent to merging the bucket first and imaging once,
// but tolerant of a bucket merge_bucket could not fully collapse.
func (m *Mgr) Image(states bdd.Node, bucket Bucket) bdd.Result {
	return m.combine(states, bucket, m.opts.ImageBudget, trel.Image)
}

// Preimage is Image's backward-direction counterpart.
func (m *Mgr) Preimage(states bdd.Node, bucket Bucket) bdd.Result {
	return m.combine(states, bucket, m.opts.ImageBudget, trel.Preimage)
}

// ImageBudgeted is Image with the configured ImageBudget overridden by
// budget, so a caller holding its own step-size prediction (estimator.Estimator)
// can tighten the ceiling for one call without mutating the Mgr.
func (m *Mgr) ImageBudgeted(states bdd.Node, bucket Bucket, budget bdd.Budget) bdd.Result {
	return m.combine(states, bucket, budget, trel.Image)
}

// PreimageBudgeted is ImageBudgeted's backward-direction counterpart.
func (m *Mgr) PreimageBudgeted(states bdd.Node, bucket Bucket, budget bdd.Budget) bdd.Result {
	return m.combine(states, bucket, budget, trel.Preimage)
}

func (m *Mgr) combine(states bdd.Node, bucket Bucket, budget bdd.Budget, step func(*bdd.Manager, *vars.Encoding, trel.TR, bdd.Node, bdd.Budget) bdd.Result) bdd.Result {
	out := m.bdd.False()
	nodes := 0
	for _, tr := range bucket.TRs {
		res := step(m.bdd, m.vars, tr, states, budget)
		if res.Truncated {
			return bdd.Result{Node: out, Truncated: true, Nodes: nodes}
		}
		out = m.bdd.Or(out, res.Node)
		nodes += res.Nodes
	}

	return bdd.Result{Node: out, Nodes: nodes}
}

// FilterMutex applies filter_mutex (spec.md §4.4) using this Mgr's mutex
// sets and configured mode.
func (m *Mgr) FilterMutex(states bdd.Node, fw bool) bdd.Node {
	return mutexset.Filter(m.bdd, m.vars, m.mutex, states, fw, false, m.opts.MutexMode)
}
