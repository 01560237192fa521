package pipeline

import (
	"testing"
	"time"

	"github.com/mcgru/coolc/internal/ast"
	"github.com/mcgru/coolc/internal/config"
)

func mainProgram(body ast.Expr) *ast.Program {
	return &ast.Program{Classes: []*ast.Class{
		{Name: "Main", Parent: "IO", Features: []ast.Feature{
			&ast.Method{Name: "main", ReturnType: "Object", Body: body},
		}},
	}}
}

func TestCompileSucceedsProducesProgramAndRunID(t *testing.T) {
	res := Compile(mainProgram(&ast.IntLit{Value: 1}), config.DefaultOptions(), nil)
	if res.Diagnostics.Err() != nil {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if res.Program == nil {
		t.Fatalf("expected a MIPS program on success")
	}
	if res.RunID.String() == "" {
		t.Fatalf("expected a non-empty RunID")
	}
}

func TestCompileShortCircuitsOnDiagnostics(t *testing.T) {
	// self <- 1 is a SemanticError (self is read-only); no CIL or MIPS
	// should be generated for a program that fails checking.
	prog := mainProgram(&ast.Assign{Name: "self", Value: &ast.IntLit{Value: 1}})
	res := Compile(prog, config.DefaultOptions(), nil)
	if res.Diagnostics.Err() == nil {
		t.Fatalf("expected a diagnostic for assigning to self")
	}
	if res.Program != nil {
		t.Fatalf("expected no MIPS program for a program that failed checking")
	}
}

func TestCompileTwoRunsProduceDifferentRunIDs(t *testing.T) {
	prog := mainProgram(&ast.IntLit{Value: 1})
	a := Compile(prog, config.DefaultOptions(), nil)
	b := Compile(prog, config.DefaultOptions(), nil)
	if a.RunID == b.RunID {
		t.Fatalf("expected distinct RunIDs across separate Compile calls")
	}
}

func TestCompileInvokesTraceForEveryStage(t *testing.T) {
	var stages []string
	trace := func(stage string, d time.Duration) {
		stages = append(stages, stage)
	}
	Compile(mainProgram(&ast.IntLit{Value: 1}), config.DefaultOptions(), trace)
	want := []string{"check", "lower", "emit"}
	if len(stages) != len(want) {
		t.Fatalf("expected stages %v, got %v", want, stages)
	}
	for i, s := range want {
		if stages[i] != s {
			t.Fatalf("expected stage %d to be %q, got %q", i, s, stages[i])
		}
	}
}

func TestCompileSkipsLowerAndEmitTraceOnFailure(t *testing.T) {
	var stages []string
	trace := func(stage string, d time.Duration) {
		stages = append(stages, stage)
	}
	prog := mainProgram(&ast.Assign{Name: "self", Value: &ast.IntLit{Value: 1}})
	Compile(prog, config.DefaultOptions(), trace)
	if len(stages) != 1 || stages[0] != "check" {
		t.Fatalf("expected only the check stage to be traced, got %v", stages)
	}
}
