package mips

import (
	"strings"
	"testing"

	"github.com/mcgru/coolc/internal/ast"
	"github.com/mcgru/coolc/internal/checker"
	"github.com/mcgru/coolc/internal/cil"
	"github.com/mcgru/coolc/internal/config"
	"github.com/mcgru/coolc/internal/semant"
)

func emitProgram(t *testing.T, prog *ast.Program) (*semant.Context, *Program) {
	t.Helper()
	ctx, diags := checker.New(config.DefaultOptions()).Check(prog)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	cilProg := cil.New(ctx).Build(prog)
	return ctx, NewEmitter(ctx).Emit(cilProg)
}

func mainProgram(body ast.Expr) *ast.Program {
	return &ast.Program{Classes: []*ast.Class{
		{Name: "Main", Parent: "IO", Features: []ast.Feature{
			&ast.Method{Name: "main", ReturnType: "Object", Body: body},
		}},
	}}
}

func TestEmitProducesMainEntryPoint(t *testing.T) {
	_, p := emitProgram(t, mainProgram(&ast.IntLit{Value: 1}))
	found := false
	for _, ins := range p.Text {
		if ins.Op == OpLabel && ins.Args[0] == "main" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a main: label in the text segment")
	}
}

func TestEmitEveryRuntimeErrorStubPresent(t *testing.T) {
	_, p := emitProgram(t, mainProgram(&ast.IntLit{Value: 1}))
	want := []string{
		"__runtime_error_abort_signal",
		"__runtime_error_case_mismatch",
		"__runtime_error_case_on_void",
		"__runtime_error_dispatch_on_void",
		"__runtime_error_division_by_zero",
		"__runtime_error_substr_out_of_range",
		"__runtime_error_heap_overflow",
	}
	labels := map[string]bool{}
	for _, ins := range p.Text {
		if ins.Op == OpLabel {
			labels[ins.Args[0]] = true
		}
	}
	for _, w := range want {
		if !labels[w] {
			t.Fatalf("expected runtime error stub %s, got labels %v", w, labels)
		}
	}
}

func TestEmitFunctionPrologueCopiesEachParam(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		{Name: "Main", Parent: "IO", Features: []ast.Feature{
			&ast.Method{Name: "main", ReturnType: "Object", Body: &ast.Dispatch{
				Kind:       ast.DispatchStatic,
				StaticType: "Main",
				Receiver:   &ast.Variable{Name: "self"},
				Method:     "helper",
				Args:       []ast.Expr{&ast.IntLit{Value: 1}, &ast.IntLit{Value: 2}},
			}},
			&ast.Method{
				Name:       "helper",
				ReturnType: "Int",
				Formals:    []*ast.Formal{{Name: "a", Type: "Int"}, {Name: "b", Type: "Int"}},
				Body:       &ast.Variable{Name: "a"},
			},
		}},
	}}
	_, p := emitProgram(t, prog)
	lwCount := 0
	inHelper := false
	for _, ins := range p.Text {
		if ins.Op == OpLabel {
			inHelper = ins.Args[0] == "Main_helper"
			continue
		}
		if inHelper && ins.Op == OpLw {
			lwCount++
		}
		if inHelper && ins.Op == OpSw && lwCount >= 3 {
			// the sw after the third lw is the prologue's last parameter copy
			break
		}
	}
	if lwCount < 3 {
		t.Fatalf("expected the prologue to read back self+a+b (3 params), saw %d lw", lwCount)
	}
}

func TestPrintRendersDataAndTextSegments(t *testing.T) {
	_, p := emitProgram(t, mainProgram(&ast.StringLit{Value: "hi"}))
	out := Print(p)
	if !strings.Contains(out, ".data") || !strings.Contains(out, ".text") {
		t.Fatalf("expected both segments in rendered output")
	}
	if !strings.Contains(out, ".asciiz \"hi\"") {
		t.Fatalf("expected the string literal to be rendered as .asciiz, got:\n%s", out)
	}
	if !strings.Contains(out, "main:") {
		t.Fatalf("expected a main label in rendered text")
	}
}

func TestAttrOffsetAccountsForInheritedAttributes(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		{Name: "Base", Parent: "Object", Features: []ast.Feature{
			&ast.Attribute{Name: "x", Type: "Int", Init: &ast.IntLit{Value: 0}},
		}},
		{Name: "Derived", Parent: "Base", Features: []ast.Feature{
			&ast.Attribute{Name: "y", Type: "Int", Init: &ast.IntLit{Value: 0}},
		}},
		{Name: "Main", Parent: "IO", Features: []ast.Feature{
			&ast.Method{Name: "main", ReturnType: "Object", Body: &ast.IntLit{Value: 0}},
		}},
	}}
	ctx, diags := checker.New(config.DefaultOptions()).Check(prog)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	e := NewEmitter(ctx)
	xOff := e.attrOffset("Derived", "x")
	yOff := e.attrOffset("Derived", "y")
	if xOff != HeaderSize {
		t.Fatalf("expected inherited attribute x at offset %d, got %d", HeaderSize, xOff)
	}
	if yOff != HeaderSize+WordSize {
		t.Fatalf("expected own attribute y at offset %d, got %d", HeaderSize+WordSize, yOff)
	}
}
