package cil

import (
	"fmt"
	"sort"

	"github.com/mcgru/coolc/internal/ast"
	"github.com/mcgru/coolc/internal/semant"
)

// Builder lowers a checked AST into a Program. It assumes the AST has
// already passed internal/checker's Check with no fatal diagnostics:
// it does not re-validate conformance, it only desugars.
type Builder struct {
	ctx *semant.Context

	tempCounter  int
	labelCounter int
	dataSeen     map[string]string // literal value -> data entry name
	data         []DataEntry
}

// New creates a Builder that lowers classes registered in ctx.
func New(ctx *semant.Context) *Builder {
	return &Builder{ctx: ctx, dataSeen: map[string]string{}}
}

// Build lowers every user-declared method body in prog into CIL
// functions, plus the virtual-table layout for every class (builtin
// and user-defined) and the accumulated string-literal data table.
// Builtin methods contribute only a TypeNode slot; their bodies are
// fixed MIPS runtime stubs, never compiled from CIL.
func (b *Builder) Build(prog *ast.Program) *Program {
	out := &Program{}
	out.Types = b.buildTypeNodes()
	for _, cls := range prog.Classes {
		for _, f := range cls.Features {
			m, ok := f.(*ast.Method)
			if !ok {
				continue
			}
			out.Functions = append(out.Functions, b.buildMethod(cls.Name, m))
		}
	}
	// Runtime error stub messages always belong in Data: every program
	// can reach every abort kind, even if this unit's source never
	// names one explicitly (the emitter's fixed stubs reference them).
	// Each RuntimeErrorKind gets its own matching message -- the
	// reference implementation this is grounded on always loaded the
	// generic abort_signal message regardless of kind, which this
	// builder does not replicate.
	out.ErrorMessages = map[RuntimeErrorKind]string{
		ErrAbortSignal:      b.internString("abort_signal: abort() called from class %s\n"),
		ErrCaseMismatch:     b.internString("case_missmatch: case on type %s not matched\n"),
		ErrCaseOnVoid:       b.internString("case_on_void: case on void\n"),
		ErrDispatchOnVoid:   b.internString("dispatch_on_void: dispatch on void\n"),
		ErrDivisionByZero:   b.internString("division_by_zero: division by zero\n"),
		ErrSubstrOutOfRange: b.internString("substr_out_of_range: substr out of range\n"),
		ErrHeapOverflow:     b.internString("heap_overflow: out of memory\n"),
	}
	out.Data = b.data
	return out
}

// buildTypeNodes computes one fixed vtable slot order per method name,
// shared by every class so that an override never changes the slot a
// subclass's vtable installs it at -- the classic single-inheritance
// vtable layout rule.
func (b *Builder) buildTypeNodes() []TypeNode {
	names := b.ctx.ClassNames()
	sort.Strings(names) // deterministic emission order
	slotOf := map[string]int{}
	nextSlot := 0

	var nodes []TypeNode
	// Assign slots walking from Object downward so a base class's
	// method always claims the lower slot number.
	order := b.classesRootFirst(names)
	for _, name := range order {
		class := b.ctx.Class(name)
		methodNames := make([]string, 0, len(class.Methods))
		for m := range class.Methods {
			methodNames = append(methodNames, m)
		}
		sort.Strings(methodNames)
		for _, m := range methodNames {
			if _, ok := slotOf[m]; !ok {
				slotOf[m] = nextSlot
				nextSlot++
			}
		}
	}

	for _, name := range names {
		all := b.ctx.AllMethods(name)
		methodNames := make([]string, len(all))
		for m, method := range all {
			slot := slotOf[m]
			if slot >= len(methodNames) {
				grown := make([]string, slot+1)
				copy(grown, methodNames)
				methodNames = grown
			}
			methodNames[slot] = mangle(method.Owner, m)
		}
		class := b.ctx.Class(name)
		nodes = append(nodes, TypeNode{Name: name, Parent: class.Parent, Methods: methodNames})
	}
	return nodes
}

func (b *Builder) classesRootFirst(names []string) []string {
	byParent := map[string][]string{}
	for _, n := range names {
		class := b.ctx.Class(n)
		byParent[class.Parent] = append(byParent[class.Parent], n)
	}
	for _, kids := range byParent {
		sort.Strings(kids)
	}
	var order []string
	var visit func(string)
	visit = func(n string) {
		order = append(order, n)
		for _, kid := range byParent[n] {
			visit(kid)
		}
	}
	visit(semant.Object)
	return order
}

func mangle(class, method string) string {
	return fmt.Sprintf("%s_%s", class, method)
}

func (b *Builder) internString(value string) string {
	if name, ok := b.dataSeen[value]; ok {
		return name
	}
	name := fmt.Sprintf("str_%d", len(b.data))
	b.dataSeen[value] = name
	b.data = append(b.data, DataEntry{Name: name, Value: value})
	return name
}

// frame tracks the mapping from a COOL source identifier visible at
// this point in a method body to the CIL operand name holding it,
// across nested let/case/formal scopes -- the CIL-building analogue of
// semant.Scope.
type frame struct {
	names map[string]string
	outer *frame
}

func newFrame() *frame { return &frame{names: map[string]string{}} }

func (f *frame) enter() *frame { return &frame{names: map[string]string{}, outer: f} }

func (f *frame) define(name, operand string) { f.names[name] = operand }

func (f *frame) resolve(name string) (string, bool) {
	for cur := f; cur != nil; cur = cur.outer {
		if op, ok := cur.names[name]; ok {
			return op, true
		}
	}
	return "", false
}

// methodBuild carries the per-method state threaded through buildExpr:
// the function being assembled and the enclosing class, needed to
// resolve SELF_TYPE and attribute access against `self`.
type methodBuild struct {
	fn        *Function
	selfClass string
	localSeen map[string]bool
}

func (mb *methodBuild) emit(ins Instruction) {
	mb.fn.Instructions = append(mb.fn.Instructions, ins)
}

func (mb *methodBuild) addLocal(name string) {
	if mb.localSeen[name] {
		return
	}
	mb.localSeen[name] = true
	mb.fn.Locals = append(mb.fn.Locals, name)
}

func (b *Builder) newTemp(mb *methodBuild) string {
	name := fmt.Sprintf("t$%d", b.tempCounter)
	b.tempCounter++
	mb.addLocal(name)
	return name
}

func (b *Builder) newLocal(mb *methodBuild, hint string) string {
	name := fmt.Sprintf("%s$%d", hint, b.tempCounter)
	b.tempCounter++
	mb.addLocal(name)
	return name
}

func (b *Builder) newLabel(prefix string) string {
	name := fmt.Sprintf("%s_%d", prefix, b.labelCounter)
	b.labelCounter++
	return name
}

func (b *Builder) buildMethod(className string, m *ast.Method) *Function {
	fn := &Function{Name: mangle(className, m.Name), Class: className, Params: []string{"self"}}
	for _, fo := range m.Formals {
		fn.Params = append(fn.Params, fo.Name)
	}
	mb := &methodBuild{fn: fn, selfClass: className, localSeen: map[string]bool{}}

	fr := newFrame()
	for _, p := range fn.Params {
		fr.define(p, p)
	}
	result := b.buildExpr(mb, fr, m.Body)
	mb.emit(Return{Source: result})
	return fn
}

func (b *Builder) buildExpr(mb *methodBuild, fr *frame, e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Assign:
		val := b.buildExpr(mb, fr, n.Value)
		if operand, ok := fr.resolve(n.Name); ok {
			mb.emit(Assign{Dest: operand, Source: val})
		} else {
			mb.emit(SetAttrib{Instance: "self", Name: n.Name, Source: val})
		}
		return val

	case *ast.Dispatch:
		return b.buildDispatch(mb, fr, n)

	case *ast.If:
		return b.buildIf(mb, fr, n)

	case *ast.While:
		return b.buildWhile(mb, fr, n)

	case *ast.Block:
		var last string = VoidOperand
		for _, sub := range n.Exprs {
			last = b.buildExpr(mb, fr, sub)
		}
		return last

	case *ast.Let:
		return b.buildLet(mb, fr, n)

	case *ast.Case:
		return b.buildCase(mb, fr, n)

	case *ast.New:
		typeName := n.Type
		if typeName == semant.SelfType {
			typeName = mb.selfClass
		}
		dest := b.newTemp(mb)
		mb.emit(Allocate{Dest: dest, Type: typeName})
		desc := b.newTemp(mb)
		mb.emit(LoadType{Dest: desc, Type: typeName})
		mb.emit(SetAttrib{Instance: dest, Name: "@vtable", Source: desc})
		return dest

	case *ast.IsVoid:
		val := b.buildExpr(mb, fr, n.Expr)
		dest := b.newTemp(mb)
		mb.emit(Compare{Op: OpEqual, Dest: dest, Left: val, Right: VoidOperand})
		return dest

	case *ast.BinOp:
		return b.buildBinOp(mb, fr, n)

	case *ast.Not:
		val := b.buildExpr(mb, fr, n.Expr)
		dest := b.newTemp(mb)
		mb.emit(Not{Dest: dest, Source: val})
		return dest

	case *ast.Neg:
		val := b.buildExpr(mb, fr, n.Expr)
		dest := b.newTemp(mb)
		mb.emit(Negate{Dest: dest, Source: val})
		return dest

	case *ast.Variable:
		if n.Name == "self" {
			return "self"
		}
		if operand, ok := fr.resolve(n.Name); ok {
			return operand
		}
		dest := b.newTemp(mb)
		mb.emit(GetAttrib{Dest: dest, Instance: "self", Name: n.Name})
		return dest

	case *ast.IntLit:
		dest := b.newTemp(mb)
		mb.emit(LoadImmediate{Dest: dest, Value: n.Value})
		return dest

	case *ast.StringLit:
		dest := b.newTemp(mb)
		mb.emit(Load{Dest: dest, Name: b.internString(n.Value)})
		return dest

	case *ast.BoolLit:
		dest := b.newTemp(mb)
		val := int32(0)
		if n.Value {
			val = 1
		}
		mb.emit(LoadImmediate{Dest: dest, Value: val})
		return dest

	default:
		return VoidOperand
	}
}

func (b *Builder) buildDispatch(mb *methodBuild, fr *frame, n *ast.Dispatch) string {
	var instance string
	if n.Kind == ast.DispatchImplicit {
		instance = "self"
	} else {
		instance = b.buildExpr(mb, fr, n.Receiver)
	}

	nullCheck := b.newTemp(mb)
	mb.emit(Compare{Op: OpEqual, Dest: nullCheck, Left: instance, Right: VoidOperand})
	okLabel := b.newLabel("dispatch_ok")
	mb.emit(Not{Dest: nullCheck, Source: nullCheck})
	mb.emit(GotoIf{Cond: nullCheck, Target: okLabel})
	mb.emit(RuntimeError{Kind: ErrDispatchOnVoid})
	mb.emit(Label{Name: okLabel})

	// Argument 0 of every call is always the receiver itself, so the
	// callee can access it as "self" at parameter slot 0.
	mb.emit(Arg{Name: instance})
	for _, a := range n.Args {
		val := b.buildExpr(mb, fr, a)
		mb.emit(Arg{Name: val})
	}

	dest := b.newTemp(mb)
	if n.Kind == ast.DispatchStatic {
		mb.emit(StaticCall{Dest: dest, Instance: instance, Type: n.StaticType, Method: n.Method})
	} else {
		mb.emit(DynamicCall{Dest: dest, Instance: instance, Method: n.Method})
	}
	return dest
}

func (b *Builder) buildIf(mb *methodBuild, fr *frame, n *ast.If) string {
	cond := b.buildExpr(mb, fr, n.Cond)
	thenLabel := b.newLabel("then")
	elseLabel := b.newLabel("else")
	endLabel := b.newLabel("endif")
	result := b.newLocal(mb, "if_result")

	mb.emit(GotoIf{Cond: cond, Target: thenLabel})
	mb.emit(Goto{Target: elseLabel})

	mb.emit(Label{Name: thenLabel})
	thenVal := b.buildExpr(mb, fr, n.Then)
	mb.emit(Assign{Dest: result, Source: thenVal})
	mb.emit(Goto{Target: endLabel})

	mb.emit(Label{Name: elseLabel})
	elseVal := b.buildExpr(mb, fr, n.Else)
	mb.emit(Assign{Dest: result, Source: elseVal})

	mb.emit(Label{Name: endLabel})
	return result
}

func (b *Builder) buildWhile(mb *methodBuild, fr *frame, n *ast.While) string {
	startLabel := b.newLabel("while_start")
	bodyLabel := b.newLabel("while_body")
	endLabel := b.newLabel("while_end")

	mb.emit(Label{Name: startLabel})
	cond := b.buildExpr(mb, fr, n.Cond)
	mb.emit(GotoIf{Cond: cond, Target: bodyLabel})
	mb.emit(Goto{Target: endLabel})

	mb.emit(Label{Name: bodyLabel})
	b.buildExpr(mb, fr, n.Body)
	mb.emit(Goto{Target: startLabel})

	mb.emit(Label{Name: endLabel})
	return VoidOperand
}

func (b *Builder) buildLet(mb *methodBuild, fr *frame, n *ast.Let) string {
	cur := fr
	for _, bnd := range n.Bindings {
		var val string
		if bnd.Init != nil {
			val = b.buildExpr(mb, cur, bnd.Init)
		} else {
			val = VoidOperand
		}
		local := b.newLocal(mb, bnd.Name)
		mb.emit(Assign{Dest: local, Source: val})
		next := cur.enter()
		next.define(bnd.Name, local)
		cur = next
	}
	return b.buildExpr(mb, cur, n.Body)
}

// buildCase lowers a case expression into a sequence of exact-type
// comparisons, most specific branch first, each covering every
// concrete class statically known (from the closed, fully-declared
// Context) to conform to that branch's declared type and not already
// claimed by a more specific branch.
func (b *Builder) buildCase(mb *methodBuild, fr *frame, n *ast.Case) string {
	scrut := b.buildExpr(mb, fr, n.Scrutinee)

	voidCheck := b.newTemp(mb)
	mb.emit(Compare{Op: OpEqual, Dest: voidCheck, Left: scrut, Right: VoidOperand})
	voidErrLabel := b.newLabel("case_void_err")
	contLabel := b.newLabel("case_scrutinee_ok")
	mb.emit(GotoIf{Cond: voidCheck, Target: voidErrLabel})
	mb.emit(Goto{Target: contLabel})
	mb.emit(Label{Name: voidErrLabel})
	mb.emit(RuntimeError{Kind: ErrCaseOnVoid})
	mb.emit(Label{Name: contLabel})

	scrutDesc := b.newTemp(mb)
	mb.emit(TypeOf{Dest: scrutDesc, Instance: scrut})

	ordered := b.orderCaseBranches(n.Branches)
	branchLabels := make([]string, len(ordered))
	for i := range ordered {
		branchLabels[i] = b.newLabel("case_branch")
	}

	result := b.newLocal(mb, "case_result")
	endLabel := b.newLabel("case_end")
	mismatchLabel := b.newLabel("case_mismatch")
	claimed := map[string]bool{}

	for i, br := range ordered {
		for _, className := range b.concreteSubtypes(br.Type) {
			if claimed[className] {
				continue
			}
			claimed[className] = true
			desc := b.newTemp(mb)
			mb.emit(LoadType{Dest: desc, Type: className})
			eq := b.newTemp(mb)
			mb.emit(Compare{Op: OpEqual, Dest: eq, Left: scrutDesc, Right: desc})
			mb.emit(GotoIf{Cond: eq, Target: branchLabels[i]})
		}
	}
	mb.emit(Goto{Target: mismatchLabel})

	for i, br := range ordered {
		mb.emit(Label{Name: branchLabels[i]})
		inner := fr.enter()
		inner.define(br.Name, scrut)
		val := b.buildExpr(mb, inner, br.Body)
		mb.emit(Assign{Dest: result, Source: val})
		mb.emit(Goto{Target: endLabel})
	}

	mb.emit(Label{Name: mismatchLabel})
	mb.emit(RuntimeError{Kind: ErrCaseMismatch})
	mb.emit(Label{Name: endLabel})
	return result
}

// orderCaseBranches sorts branches from most to least specific
// declared type, so a subtype-matching comparison is always attempted
// before its ancestor's.
func (b *Builder) orderCaseBranches(branches []*ast.CaseBranch) []*ast.CaseBranch {
	out := append([]*ast.CaseBranch(nil), branches...)
	depth := func(name string) int {
		d := 0
		for cur := name; cur != ""; {
			class := b.ctx.Class(cur)
			if class == nil {
				break
			}
			d++
			cur = class.Parent
		}
		return d
	}
	sort.SliceStable(out, func(i, j int) bool {
		return depth(out[i].Type) > depth(out[j].Type)
	})
	return out
}

// concreteSubtypes returns typeName and every class statically known
// to conform to it, i.e. its full descendant set in the closed
// Context.
func (b *Builder) concreteSubtypes(typeName string) []string {
	var out []string
	for _, name := range b.ctx.ClassNames() {
		if b.ctx.Conforms(name, typeName, name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (b *Builder) buildBinOp(mb *methodBuild, fr *frame, n *ast.BinOp) string {
	left := b.buildExpr(mb, fr, n.Left)
	right := b.buildExpr(mb, fr, n.Right)
	dest := b.newTemp(mb)

	switch n.Op {
	case ast.Plus, ast.Minus, ast.Star, ast.Divide:
		if n.Op == ast.Divide {
			isZero := b.newTemp(mb)
			mb.emit(Compare{Op: OpEqual, Dest: isZero, Left: right, Right: VoidOperand})
			okLabel := b.newLabel("div_ok")
			mb.emit(Not{Dest: isZero, Source: isZero})
			mb.emit(GotoIf{Cond: isZero, Target: okLabel})
			mb.emit(RuntimeError{Kind: ErrDivisionByZero})
			mb.emit(Label{Name: okLabel})
		}
		mb.emit(BinArith{Op: binArithOp(n.Op), Dest: dest, Left: left, Right: right})
	case ast.LessThan:
		mb.emit(Compare{Op: OpLess, Dest: dest, Left: left, Right: right})
	case ast.LessEqual:
		mb.emit(Compare{Op: OpLessEqual, Dest: dest, Left: left, Right: right})
	case ast.Equal:
		mb.emit(Compare{Op: OpEqual, Dest: dest, Left: left, Right: right})
	}
	return dest
}

func binArithOp(op ast.BinOpKind) BinArithOp {
	switch op {
	case ast.Plus:
		return OpPlus
	case ast.Minus:
		return OpMinus
	case ast.Star:
		return OpStar
	default:
		return OpDiv
	}
}
