// Package pipeline wires the checker, the CIL builder, and the MIPS
// emitter into the single entry point a caller (a future CLI driver,
// or a test) needs: Compile. It owns no I/O and no parsing -- it
// accepts an already-parsed *ast.Program and returns either the
// assembled program or the diagnostics that stopped it.
//
// Grounded on the teacher's top-level pipeline orchestration, which
// stamps a per-run identifier and reports stage timings through a
// caller-supplied hook rather than printing directly -- useful here
// since this module is itself embedded in something else's build,
// never run standalone.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/mcgru/coolc/internal/ast"
	"github.com/mcgru/coolc/internal/checker"
	"github.com/mcgru/coolc/internal/cil"
	"github.com/mcgru/coolc/internal/config"
	"github.com/mcgru/coolc/internal/diagnostics"
	"github.com/mcgru/coolc/internal/mips"
)

// Trace, when non-nil, is called once per pipeline stage with how long
// it took -- the hook a caller wires up to its own metrics/logging
// rather than this package picking a logging library of its own.
type Trace func(stage string, d time.Duration)

// Result is everything one Compile call produces: the assembled
// program (nil if checking failed), every diagnostic the checker
// collected, and a RunID identifying this specific compilation for
// correlating logs/traces across a caller's own pipeline stages.
type Result struct {
	RunID       uuid.UUID
	Diagnostics diagnostics.List
	Program     *mips.Program
}

// Compile runs the checker, then -- only if it reported no error --
// lowers to CIL and emits MIPS. It never partially generates code for
// a program that failed checking.
func Compile(prog *ast.Program, opts config.CompilerOptions, trace Trace) Result {
	res := Result{RunID: uuid.New()}

	checkStart := time.Now()
	ctx, diags := checker.New(opts).Check(prog)
	mark(trace, "check", checkStart)

	res.Diagnostics = diags
	if diags.Err() != nil {
		return res
	}

	lowerStart := time.Now()
	cilProg := cil.New(ctx).Build(prog)
	mark(trace, "lower", lowerStart)

	emitStart := time.Now()
	res.Program = mips.NewEmitter(ctx).Emit(cilProg)
	mark(trace, "emit", emitStart)

	return res
}

func mark(trace Trace, stage string, start time.Time) {
	if trace != nil {
		trace(stage, time.Since(start))
	}
}
