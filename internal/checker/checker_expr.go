package checker

import (
	"github.com/mcgru/coolc/internal/ast"
	"github.com/mcgru/coolc/internal/diagnostics"
	"github.com/mcgru/coolc/internal/semant"
)

// checkClassBody type-checks every attribute initializer and method
// body declared directly on cls, under a scope seeded with every
// attribute visible on cls (inherited and own), matching COOL's rule
// that a method body can reference any inherited attribute by name.
func (c *Checker) checkClassBody(cls *ast.Class) {
	base := semant.NewScope()
	for _, attr := range c.ctx.InheritedAttributes(cls.Name) {
		base.Define(attr.Name, attr.Type)
	}

	for _, f := range cls.Features {
		switch feat := f.(type) {
		case *ast.Attribute:
			if feat.Init == nil {
				continue
			}
			initType := c.checkExpr(feat.Init, base, cls.Name)
			if !c.ctx.Conforms(initType, feat.Type, cls.Name) {
				c.report(diagnostics.ErrAssignTypeMismatch, feat.Pos, initType, feat.Name, feat.Type)
			}
		case *ast.Method:
			c.checkMethod(cls, feat, base)
		}
	}
}

func (c *Checker) checkMethod(cls *ast.Class, m *ast.Method, base *semant.Scope) {
	c.checkOverride(cls, m)

	scope := base.Enter()
	for _, fo := range m.Formals {
		if fo.Type != "" && !c.ctx.HasClass(fo.Type) && fo.Type != semant.SelfType {
			c.report(diagnostics.ErrUndeclaredClass, fo.Pos, fo.Type)
		}
		scope.Define(fo.Name, fo.Type)
	}

	if m.Body == nil {
		return
	}
	bodyType := c.checkExpr(m.Body, scope, cls.Name)
	if !c.ctx.Conforms(bodyType, m.ReturnType, cls.Name) {
		c.report(diagnostics.ErrReturnTypeMismatch, m.Pos, m.Name, m.ReturnType, bodyType)
	}
}

// checkOverride enforces COOL's override rule: a method redefined in a
// subclass must have the same number of formals, and each formal and
// the return type must match exactly (COOL does not allow covariant
// overriding).
func (c *Checker) checkOverride(cls *ast.Class, m *ast.Method) {
	parent := cls.Parent
	if parent == "" {
		parent = semant.Object
	}
	inherited, ok := c.ctx.LookupMethod(parent, m.Name)
	if !ok {
		return
	}
	if len(inherited.Formals) != len(m.Formals) {
		c.report(diagnostics.ErrOverrideArityMismatch, m.Pos, m.Name, inherited.Owner, m.Name)
		return
	}
	mismatch := inherited.ReturnType != m.ReturnType
	for i, fo := range m.Formals {
		if inherited.Formals[i] != fo.Type {
			mismatch = true
		}
	}
	if mismatch {
		c.report(diagnostics.ErrOverrideTypeMismatch, m.Pos, m.Name, inherited.Owner, m.Name)
	}
}

// checkExpr is the single type-switch dispatcher for every expression
// kind, returning its static type. Errors never abort the walk: a
// failing sub-expression yields semant.ErrorType, which Conforms/LUB
// treat as conforming to anything, so one bad expression reports once
// instead of cascading through every enclosing expression.
func (c *Checker) checkExpr(e ast.Expr, scope *semant.Scope, selfClass string) string {
	switch n := e.(type) {
	case *ast.Assign:
		return c.checkAssign(n, scope, selfClass)
	case *ast.Dispatch:
		return c.checkDispatch(n, scope, selfClass)
	case *ast.If:
		return c.checkIf(n, scope, selfClass)
	case *ast.While:
		c.checkExpr(n.Cond, scope, selfClass)
		c.checkExpr(n.Body, scope, selfClass)
		return semant.Object
	case *ast.Block:
		var last string = semant.Object
		for _, sub := range n.Exprs {
			last = c.checkExpr(sub, scope, selfClass)
		}
		return last
	case *ast.Let:
		return c.checkLet(n, scope, selfClass)
	case *ast.Case:
		return c.checkCase(n, scope, selfClass)
	case *ast.New:
		if n.Type != semant.SelfType && !c.ctx.HasClass(n.Type) {
			c.report(diagnostics.ErrUndeclaredClass, n.Pos, n.Type)
			return semant.ErrorType
		}
		return n.Type
	case *ast.IsVoid:
		c.checkExpr(n.Expr, scope, selfClass)
		return semant.Bool
	case *ast.BinOp:
		return c.checkBinOp(n, scope, selfClass)
	case *ast.Not:
		t := c.checkExpr(n.Expr, scope, selfClass)
		if t != semant.Bool && t != semant.ErrorType {
			c.report(diagnostics.ErrTypeMismatch, n.Pos, semant.Bool, t)
		}
		return semant.Bool
	case *ast.Neg:
		t := c.checkExpr(n.Expr, scope, selfClass)
		if t != semant.Int && t != semant.ErrorType {
			c.report(diagnostics.ErrTypeMismatch, n.Pos, semant.Int, t)
		}
		return semant.Int
	case *ast.Variable:
		return c.checkVariable(n, scope, selfClass)
	case *ast.IntLit:
		return semant.Int
	case *ast.StringLit:
		return semant.String
	case *ast.BoolLit:
		return semant.Bool
	default:
		return semant.ErrorType
	}
}

func (c *Checker) checkVariable(n *ast.Variable, scope *semant.Scope, selfClass string) string {
	if n.Name == "self" {
		return semant.SelfType
	}
	if t, ok := scope.Lookup(n.Name); ok {
		return t
	}
	c.report(diagnostics.ErrUndeclaredIdentifier, n.Pos, n.Name)
	return semant.ErrorType
}

func (c *Checker) checkAssign(n *ast.Assign, scope *semant.Scope, selfClass string) string {
	if n.Name == "self" {
		c.report(diagnostics.ErrSelfAssignment, n.Pos)
		c.checkExpr(n.Value, scope, selfClass)
		return semant.ErrorType
	}
	valueType := c.checkExpr(n.Value, scope, selfClass)
	declared, ok := scope.Lookup(n.Name)
	if !ok {
		c.report(diagnostics.ErrUndeclaredIdentifier, n.Pos, n.Name)
		return semant.ErrorType
	}
	if !c.ctx.Conforms(valueType, declared, selfClass) {
		c.report(diagnostics.ErrAssignTypeMismatch, n.Pos, valueType, n.Name, declared)
		return semant.ErrorType
	}
	return valueType
}

func (c *Checker) checkIf(n *ast.If, scope *semant.Scope, selfClass string) string {
	condType := c.checkExpr(n.Cond, scope, selfClass)
	if condType != semant.Bool && condType != semant.ErrorType {
		c.report(diagnostics.ErrConditionNotBool, n.Pos, condType)
	}
	thenType := c.checkExpr(n.Then, scope, selfClass)
	elseType := c.checkExpr(n.Else, scope, selfClass)
	return c.ctx.LUB(thenType, elseType, selfClass)
}

func (c *Checker) checkLet(n *ast.Let, scope *semant.Scope, selfClass string) string {
	cur := scope
	for _, b := range n.Bindings {
		if b.Name == "self" {
			c.report(diagnostics.ErrSelfAsFormalOrAttr, b.Pos, "a let-bound identifier")
			continue
		}
		if b.Type != "" && b.Type != semant.SelfType && !c.ctx.HasClass(b.Type) {
			c.report(diagnostics.ErrUndeclaredClass, b.Pos, b.Type)
		}
		next := cur.Enter()
		if b.Init != nil {
			initType := c.checkExpr(b.Init, cur, selfClass)
			if !c.ctx.Conforms(initType, b.Type, selfClass) {
				c.report(diagnostics.ErrAssignTypeMismatch, b.Pos, initType, b.Name, b.Type)
			}
		}
		next.Define(b.Name, b.Type)
		cur = next
	}
	return c.checkExpr(n.Body, cur, selfClass)
}

func (c *Checker) checkCase(n *ast.Case, scope *semant.Scope, selfClass string) string {
	c.checkExpr(n.Scrutinee, scope, selfClass)
	seen := map[string]bool{}
	result := ""
	for _, br := range n.Branches {
		if seen[br.Type] {
			c.report(diagnostics.ErrCaseDuplicateBranch, br.Pos, br.Type)
		}
		seen[br.Type] = true
		if br.Type != semant.SelfType && !c.ctx.HasClass(br.Type) {
			c.report(diagnostics.ErrUndeclaredClass, br.Pos, br.Type)
		}
		inner := scope.Enter()
		inner.Define(br.Name, br.Type)
		branchType := c.checkExpr(br.Body, inner, selfClass)
		if result == "" {
			result = branchType
		} else {
			result = c.ctx.LUB(result, branchType, selfClass)
		}
	}
	if result == "" {
		return semant.ErrorType
	}
	return result
}

func (c *Checker) checkBinOp(n *ast.BinOp, scope *semant.Scope, selfClass string) string {
	lt := c.checkExpr(n.Left, scope, selfClass)
	rt := c.checkExpr(n.Right, scope, selfClass)
	suppressed := lt == semant.ErrorType || rt == semant.ErrorType
	switch n.Op {
	case ast.Plus, ast.Minus, ast.Star, ast.Divide:
		if !suppressed && (lt != semant.Int || rt != semant.Int) {
			c.report(diagnostics.ErrArithmeticOnNonInt, n.Pos, lt, rt)
		}
		return semant.Int
	case ast.LessThan, ast.LessEqual:
		if !suppressed && (lt != semant.Int || rt != semant.Int) {
			c.report(diagnostics.ErrComparisonMismatch, n.Pos, lt, rt)
		}
		return semant.Bool
	case ast.Equal:
		// Int/String/Bool may only be compared to their own type;
		// every other type may be compared to anything (reference
		// equality at runtime).
		if !suppressed && isBasic(lt) != isBasic(rt) {
			c.report(diagnostics.ErrComparisonMismatch, n.Pos, lt, rt)
		} else if !suppressed && isBasic(lt) && lt != rt {
			c.report(diagnostics.ErrComparisonMismatch, n.Pos, lt, rt)
		}
		return semant.Bool
	default:
		return semant.ErrorType
	}
}

func isBasic(t string) bool {
	return t == semant.Int || t == semant.String || t == semant.Bool
}

func (c *Checker) checkDispatch(n *ast.Dispatch, scope *semant.Scope, selfClass string) string {
	var receiverType string
	if n.Kind == ast.DispatchImplicit {
		receiverType = semant.SelfType
	} else {
		receiverType = c.checkExpr(n.Receiver, scope, selfClass)
	}
	if receiverType == semant.ErrorType {
		for _, a := range n.Args {
			c.checkExpr(a, scope, selfClass)
		}
		return semant.ErrorType
	}

	lookupClass := receiverType
	if lookupClass == semant.SelfType {
		lookupClass = selfClass
	}

	if n.Kind == ast.DispatchStatic {
		if !c.ctx.HasClass(n.StaticType) {
			c.report(diagnostics.ErrUndeclaredClass, n.Pos, n.StaticType)
			return semant.ErrorType
		}
		if !c.ctx.Conforms(receiverType, n.StaticType, selfClass) {
			c.report(diagnostics.ErrNoConformance, n.Pos, receiverType, n.StaticType)
			return semant.ErrorType
		}
		lookupClass = n.StaticType
	}

	method, ok := c.ctx.LookupMethod(lookupClass, n.Method)
	if !ok {
		c.report(diagnostics.ErrUnknownMethodOnType, n.Pos, lookupClass, n.Method)
		for _, a := range n.Args {
			c.checkExpr(a, scope, selfClass)
		}
		return semant.ErrorType
	}

	if len(method.Formals) != len(n.Args) {
		c.report(diagnostics.ErrDispatchArityWrong, n.Pos, n.Method, len(method.Formals), len(n.Args))
	}
	for i, arg := range n.Args {
		argType := c.checkExpr(arg, scope, selfClass)
		if i >= len(method.Formals) {
			continue
		}
		if !c.ctx.Conforms(argType, method.Formals[i], selfClass) {
			c.report(diagnostics.ErrDispatchArgMismatch, arg.Position(), i+1, n.Method, argType, method.Formals[i])
		}
	}

	if method.ReturnType == semant.SelfType {
		return receiverType
	}
	return method.ReturnType
}
