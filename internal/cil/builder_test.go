package cil

import (
	"testing"

	"github.com/mcgru/coolc/internal/ast"
	"github.com/mcgru/coolc/internal/checker"
	"github.com/mcgru/coolc/internal/config"
)

// buildProgram runs the checker and then the CIL builder, failing the
// test immediately if checking produced any diagnostic -- every test
// here cares about lowering, not about re-testing the checker.
func buildProgram(t *testing.T, prog *ast.Program) *Program {
	t.Helper()
	ctx, diags := checker.New(config.DefaultOptions()).Check(prog)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return New(ctx).Build(prog)
}

func findFunction(p *Program, name string) *Function {
	for _, fn := range p.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func mainProgram(body ast.Expr) *ast.Program {
	return &ast.Program{Classes: []*ast.Class{
		{Name: "Main", Parent: "IO", Features: []ast.Feature{
			&ast.Method{Name: "main", ReturnType: "Object", Body: body},
		}},
	}}
}

func TestBuildMethodNamesSelfAsFirstParam(t *testing.T) {
	p := buildProgram(t, mainProgram(&ast.IntLit{Value: 1}))
	fn := findFunction(p, "Main_main")
	if fn == nil {
		t.Fatalf("expected Main_main in output, got %v", p.Functions)
	}
	if len(fn.Params) == 0 || fn.Params[0] != "self" {
		t.Fatalf("expected self as first param, got %v", fn.Params)
	}
}

func TestBuildEndsInReturn(t *testing.T) {
	p := buildProgram(t, mainProgram(&ast.IntLit{Value: 42}))
	fn := findFunction(p, "Main_main")
	last := fn.Instructions[len(fn.Instructions)-1]
	if _, ok := last.(Return); !ok {
		t.Fatalf("expected method body to end in Return, got %T", last)
	}
}

func TestBuildIntLiteralUsesImmediateNotData(t *testing.T) {
	p := buildProgram(t, mainProgram(&ast.IntLit{Value: 7}))
	fn := findFunction(p, "Main_main")
	foundImmediate := false
	for _, ins := range fn.Instructions {
		if li, ok := ins.(LoadImmediate); ok {
			foundImmediate = true
			if li.Value != 7 {
				t.Fatalf("expected immediate 7, got %d", li.Value)
			}
		}
		if _, ok := ins.(Load); ok {
			t.Fatalf("integer literal should not be lowered via Load (string data)")
		}
	}
	if !foundImmediate {
		t.Fatalf("expected a LoadImmediate for the literal, got %v", fn.Instructions)
	}
	if len(p.Data) != len(p.ErrorMessages) {
		t.Fatalf("expected only the runtime error messages as data for a pure integer literal, got %v", p.Data)
	}
}

func TestBuildDispatchPushesSelfFirst(t *testing.T) {
	p := buildProgram(t, mainProgram(&ast.Dispatch{
		Kind:   ast.DispatchImplicit,
		Method: "abort",
	}))
	fn := findFunction(p, "Main_main")
	var args []Arg
	for _, ins := range fn.Instructions {
		if a, ok := ins.(Arg); ok {
			args = append(args, a)
		}
	}
	if len(args) == 0 || args[0].Name != "self" {
		t.Fatalf("expected the receiver pushed as the first Arg, got %v", args)
	}
}

func TestBuildVtableSlotStableAcrossOverride(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		{Name: "Base", Parent: "Object", Features: []ast.Feature{
			&ast.Method{Name: "f", ReturnType: "Object", Body: &ast.IntLit{Value: 1}},
		}},
		{Name: "Derived", Parent: "Base", Features: []ast.Feature{
			&ast.Method{Name: "f", ReturnType: "Object", Body: &ast.IntLit{Value: 2}},
		}},
		{Name: "Main", Parent: "IO", Features: []ast.Feature{
			&ast.Method{Name: "main", ReturnType: "Object", Body: &ast.New{Type: "Base"}},
		}},
	}}
	p := buildProgram(t, prog)

	var baseNode, derivedNode *TypeNode
	for i := range p.Types {
		switch p.Types[i].Name {
		case "Base":
			baseNode = &p.Types[i]
		case "Derived":
			derivedNode = &p.Types[i]
		}
	}
	if baseNode == nil || derivedNode == nil {
		t.Fatalf("expected Base and Derived type nodes, got %v", p.Types)
	}
	slot := -1
	for i, m := range baseNode.Methods {
		if m == "Base_f" {
			slot = i
		}
	}
	if slot == -1 {
		t.Fatalf("expected Base_f in Base's vtable, got %v", baseNode.Methods)
	}
	if derivedNode.Methods[slot] != "Derived_f" {
		t.Fatalf("expected override to keep the same slot %d, got %v", slot, derivedNode.Methods)
	}
}

func TestBuildCaseOrdersMostSpecificBranchFirst(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		{Name: "A", Parent: "Object"},
		{Name: "B", Parent: "A"},
		mainClassWithCase(),
	}}
	p := buildProgram(t, prog)
	fn := findFunction(p, "Main_main")
	var seenMismatch, afterTypeOf bool
	var testedTypes []string
	for _, ins := range fn.Instructions {
		if re, ok := ins.(RuntimeError); ok && re.Kind == ErrCaseMismatch {
			seenMismatch = true
		}
		if _, ok := ins.(TypeOf); ok {
			afterTypeOf = true
		}
		if lt, ok := ins.(LoadType); ok && afterTypeOf {
			testedTypes = append(testedTypes, lt.Type)
		}
	}
	if !seenMismatch {
		t.Fatalf("expected a case-mismatch fallback path to be emitted")
	}
	if len(testedTypes) == 0 || testedTypes[0] != "B" {
		t.Fatalf("expected the B branch to be tested before A, got %v", testedTypes)
	}
}

func mainClassWithCase() *ast.Class {
	return &ast.Class{Name: "Main", Parent: "IO", Features: []ast.Feature{
		&ast.Method{Name: "main", ReturnType: "Object", Body: &ast.Case{
			Scrutinee: &ast.New{Type: "A"},
			Branches: []*ast.CaseBranch{
				{Name: "x", Type: "A", Body: &ast.IntLit{Value: 1}},
				{Name: "y", Type: "B", Body: &ast.IntLit{Value: 2}},
			},
		}},
	}}
}

func TestBuildRuntimeErrorMessagesCoverEveryKind(t *testing.T) {
	p := buildProgram(t, mainProgram(&ast.IntLit{Value: 0}))
	kinds := []RuntimeErrorKind{
		ErrAbortSignal, ErrCaseMismatch, ErrCaseOnVoid, ErrDispatchOnVoid,
		ErrDivisionByZero, ErrSubstrOutOfRange, ErrHeapOverflow,
	}
	for _, k := range kinds {
		if _, ok := p.ErrorMessages[k]; !ok {
			t.Fatalf("expected a message registered for runtime error kind %d", k)
		}
	}
}
