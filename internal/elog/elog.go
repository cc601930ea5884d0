// Package elog provides the engine's bound-progress tracing. The teacher
// corpus (lvlath) is a pure library with nothing to log; the wider
// retrieval pack's domain-adjacent repository, erigontech/erigon, requires
// go.uber.org/zap directly, so that is the logger this engine builds on
// for the one ambient concern the teacher's shape has no occasion to
// cover.
package elog

import "go.uber.org/zap"

// Logger wraps a *zap.SugaredLogger and honors the engine's "silent"
// option (spec.md §6): when silent, every method is a no-op rather than
// filtering at the zap core, so call sites never pay formatting cost on
// the hot search loop.
type Logger struct {
	sugar  *zap.SugaredLogger
	silent bool
}

// New builds a production zap logger. If construction fails (e.g. no
// writable sink), logging degrades to a no-op rather than aborting the
// search — tracing is diagnostic, never load-bearing.
func New(silent bool) *Logger {
	if silent {
		return &Logger{silent: true}
	}
	base, err := zap.NewProduction()
	if err != nil {
		return &Logger{silent: true}
	}

	return &Logger{sugar: base.Sugar(), silent: false}
}

// Noop returns a Logger that discards everything, for tests and for
// silent=true runs.
func Noop() *Logger { return &Logger{silent: true} }

// Sync flushes any buffered log entries. Call once at engine shutdown.
func (l *Logger) Sync() {
	if l.silent || l.sugar == nil {
		return
	}
	_ = l.sugar.Sync()
}

// Bounds logs one step's (direction, g, lower, upper) bound evolution —
// the progress line spec.md §6's "silent" option suppresses.
func (l *Logger) Bounds(dir string, g int, lower, upper int64) {
	if l.silent {
		return
	}
	l.sugar.Infow("bound update", "dir", dir, "g", g, "lower", lower, "upper", upper)
}

// Truncated logs a soft budget-exceeded event for a named primitive, so an
// operator can see the estimator repeatedly backing off.
func (l *Logger) Truncated(primitive string, nodeLimit int, elapsedMS int64) {
	if l.silent {
		return
	}
	l.sugar.Warnw("budget exceeded", "primitive", primitive, "node_limit", nodeLimit, "elapsed_ms", elapsedMS)
}

// Plan logs a plan emission event (cost, length), used by top-K runs to
// trace progress toward the K target.
func (l *Logger) Plan(cost int64, length int, emitted, target int) {
	if l.silent {
		return
	}
	l.sugar.Infow("plan emitted", "cost", cost, "length", length, "emitted", emitted, "target", target)
}
