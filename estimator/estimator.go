// Package estimator implements spec.md §4.5's Step Estimator: a running
// prediction of how many BDD nodes and how much wall time the next
// image/preimage step will cost, derived from the steps already taken, so
// a search can shrink its budget ahead of a step rather than discover the
// violation only after paying for it.
//
// There is no teacher or pack precedent for this kind of online
// regression — lvlath's algorithms are offline and have no notion of
// "predict before you pay" — so this is built directly from the
// standard library: a two-sided (zero-cost steps vs. full-cost-image
// steps keep separate interpolation tables, since a zero-cost TR's BDD
// is typically far smaller and is sampled far more often in a bucket
// with many free actions) sorted sample table, linearly interpolated
// between the two bracketing input-size samples.
package estimator

import (
	"sort"
	"time"
)

type sample struct {
	nodesIn   int
	nodesOut  int
	elapsedNS int64
}

// Estimator holds the two interpolation tables spec.md §4.5 names.
type Estimator struct {
	zero []sample
	cost []sample

	violations int
}

// New returns an empty Estimator; its first few predictions are just the
// input size (growth factor 1) until real samples accumulate.
func New() *Estimator {
	return &Estimator{}
}

// NextStep predicts the output node count and elapsed time for an
// upcoming step of the given input size, using the zero-cost table when
// zero is true and the cost table otherwise.
func (e *Estimator) NextStep(nodesIn int, zero bool) (predictedNodes int, predictedTime time.Duration) {
	table := e.cost
	if zero {
		table = e.zero
	}
	if len(table) == 0 {
		return nodesIn, 0
	}

	lo, hi := bracket(table, nodesIn)
	if lo == hi {
		return table[lo].nodesOut, time.Duration(table[lo].elapsedNS)
	}

	a, b := table[lo], table[hi]
	frac := 0.0
	if b.nodesIn != a.nodesIn {
		frac = float64(nodesIn-a.nodesIn) / float64(b.nodesIn-a.nodesIn)
	}
	predictedNodes = a.nodesOut + int(frac*float64(b.nodesOut-a.nodesOut))
	predictedTime = time.Duration(a.elapsedNS + int64(frac*float64(b.elapsedNS-a.elapsedNS)))

	return predictedNodes, predictedTime
}

// bracket returns the indices of the two samples whose nodesIn bracket
// target, keeping table sorted ascending on nodesIn as a side effect of
// StepTaken's insertion.
func bracket(table []sample, target int) (lo, hi int) {
	i := sort.Search(len(table), func(i int) bool { return table[i].nodesIn >= target })
	switch {
	case i == 0:
		return 0, 0
	case i == len(table):
		return len(table) - 1, len(table) - 1
	case table[i].nodesIn == target:
		return i, i
	default:
		return i - 1, i
	}
}

// StepTaken records an actually-completed step's input size, output
// size, and elapsed time, keeping the relevant table sorted by nodesIn.
func (e *Estimator) StepTaken(nodesIn, nodesOut int, elapsed time.Duration, zero bool) {
	s := sample{nodesIn: nodesIn, nodesOut: nodesOut, elapsedNS: int64(elapsed)}
	if zero {
		e.zero = insertSorted(e.zero, s)
	} else {
		e.cost = insertSorted(e.cost, s)
	}
}

func insertSorted(table []sample, s sample) []sample {
	i := sort.Search(len(table), func(i int) bool { return table[i].nodesIn >= s.nodesIn })
	table = append(table, sample{})
	copy(table[i+1:], table[i:])
	table[i] = s

	return table
}

// Violated reports whether an actual measurement exceeded its prediction
// by more than a tolerance factor, and records the violation count
// callers can use to decide when a budget needs shrinking rather than
// just noting a single noisy sample.
func (e *Estimator) Violated(predicted, actual int, tolerance float64) bool {
	if predicted <= 0 {
		return false
	}
	if float64(actual) > float64(predicted)*tolerance {
		e.violations++

		return true
	}

	return false
}

// Violations returns the running count of Violated==true calls.
func (e *Estimator) Violations() int { return e.violations }
