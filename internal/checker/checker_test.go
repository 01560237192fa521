package checker

import (
	"testing"

	"github.com/mcgru/coolc/internal/ast"
	"github.com/mcgru/coolc/internal/config"
	"github.com/mcgru/coolc/internal/diagnostics"
)

func codes(diags diagnostics.List) []diagnostics.Code {
	out := make([]diagnostics.Code, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func hasCode(diags diagnostics.List, code diagnostics.Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func mainClass(features ...ast.Feature) *ast.Class {
	return &ast.Class{Name: "Main", Parent: "IO", Features: features}
}

func method(name, ret string, formals []*ast.Formal, body ast.Expr) *ast.Method {
	return &ast.Method{Name: name, Formals: formals, ReturnType: ret, Body: body}
}

func TestSelfAssignmentRejected(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		mainClass(method("main", "Object", nil, &ast.Assign{
			Name:  "self",
			Value: &ast.IntLit{Value: 1},
		})),
	}}
	_, diags := New(config.DefaultOptions()).Check(prog)
	if !hasCode(diags, diagnostics.ErrSelfAssignment) {
		t.Fatalf("expected ErrSelfAssignment, got %v", codes(diags))
	}
}

func TestOverrideArityMismatch(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		{Name: "Base", Parent: "Object", Features: []ast.Feature{
			method("f", "Object", []*ast.Formal{{Name: "x", Type: "Int"}}, &ast.Variable{Name: "x"}),
		}},
		{Name: "Derived", Parent: "Base", Features: []ast.Feature{
			method("f", "Object", nil, &ast.IntLit{Value: 1}),
		}},
		mainClass(method("main", "Object", nil, &ast.IntLit{Value: 0})),
	}}
	_, diags := New(config.DefaultOptions()).Check(prog)
	if !hasCode(diags, diagnostics.ErrOverrideArityMismatch) {
		t.Fatalf("expected ErrOverrideArityMismatch, got %v", codes(diags))
	}
}

func TestIfBranchLUB(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		{Name: "A", Parent: "Object"},
		{Name: "B", Parent: "A"},
		{Name: "C", Parent: "A"},
		mainClass(method("main", "A", nil, &ast.If{
			Cond: &ast.BoolLit{Value: true},
			Then: &ast.New{Type: "B"},
			Else: &ast.New{Type: "C"},
		})),
	}}
	_, diags := New(config.DefaultOptions()).Check(prog)
	if hasCode(diags, diagnostics.ErrReturnTypeMismatch) {
		t.Fatalf("did not expect return-type mismatch once LUB(B,C)=A, got %v", codes(diags))
	}
}

func TestDispatchOnUndefinedMethod(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		mainClass(method("main", "Object", nil, &ast.Dispatch{
			Kind:   ast.DispatchImplicit,
			Method: "nonexistent",
		})),
	}}
	_, diags := New(config.DefaultOptions()).Check(prog)
	if !hasCode(diags, diagnostics.ErrUnknownMethodOnType) {
		t.Fatalf("expected ErrUnknownMethodOnType, got %v", codes(diags))
	}
}

func TestCaseDuplicateBranches(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		mainClass(method("main", "Object", nil, &ast.Case{
			Scrutinee: &ast.IntLit{Value: 1},
			Branches: []*ast.CaseBranch{
				{Name: "a", Type: "Int", Body: &ast.IntLit{Value: 1}},
				{Name: "b", Type: "Int", Body: &ast.IntLit{Value: 2}},
			},
		})),
	}}
	_, diags := New(config.DefaultOptions()).Check(prog)
	if !hasCode(diags, diagnostics.ErrCaseDuplicateBranch) {
		t.Fatalf("expected ErrCaseDuplicateBranch, got %v", codes(diags))
	}
}

func TestArithmeticOnNonInt(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		mainClass(method("main", "Object", nil, &ast.BinOp{
			Op:    ast.Plus,
			Left:  &ast.StringLit{Value: "x"},
			Right: &ast.IntLit{Value: 1},
		})),
	}}
	_, diags := New(config.DefaultOptions()).Check(prog)
	if !hasCode(diags, diagnostics.ErrArithmeticOnNonInt) {
		t.Fatalf("expected ErrArithmeticOnNonInt, got %v", codes(diags))
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		mainClass(method("main", "Object", nil, &ast.Dispatch{
			Kind:   ast.DispatchImplicit,
			Method: "missing",
		})),
	}}
	_, first := New(config.DefaultOptions()).Check(prog)
	_, second := New(config.DefaultOptions()).Check(prog)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic diagnostic count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Code != second[i].Code || first[i].Error() != second[i].Error() {
			t.Fatalf("non-deterministic diagnostic at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestCyclicClassBodyStillChecked(t *testing.T) {
	// A and B inherit from each other: neither is reachable from any
	// builtin root, so the cycle detector flags them, but their method
	// bodies must still be drained and checked.
	prog := &ast.Program{Classes: []*ast.Class{
		{Name: "A", Parent: "B", Features: []ast.Feature{
			method("f", "Object", nil, &ast.Assign{Name: "self", Value: &ast.IntLit{Value: 1}}),
		}},
		{Name: "B", Parent: "A"},
		mainClass(method("main", "Object", nil, &ast.IntLit{Value: 0})),
	}}
	_, diags := New(config.DefaultOptions()).Check(prog)
	if !hasCode(diags, diagnostics.ErrInheritCycle) {
		t.Fatalf("expected ErrInheritCycle, got %v", codes(diags))
	}
	if !hasCode(diags, diagnostics.ErrSelfAssignment) {
		t.Fatalf("expected the cyclic class's own body diagnostic (ErrSelfAssignment) to still be reported, got %v", codes(diags))
	}
}

func TestNoMainReported(t *testing.T) {
	prog := &ast.Program{Classes: []*ast.Class{
		{Name: "A", Parent: "Object"},
	}}
	_, diags := New(config.DefaultOptions()).Check(prog)
	if !hasCode(diags, diagnostics.ErrNoMainClass) {
		t.Fatalf("expected ErrNoMainClass, got %v", codes(diags))
	}
}
