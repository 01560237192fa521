// Package checker implements COOL's semantic analysis pass: building
// the class hierarchy into a semant.Context, then type-checking every
// method body under nested semant.Scope frames.
//
// The teacher's internal/analyzer dispatches over ast.Node via the
// Visitor interface each node implements (Accept/Visit). COOL's AST is
// far smaller and has no generic/trait machinery to thread through a
// visitor, so this package dispatches with a single Go type switch per
// spec's own recommendation, instead of replicating the visitor
// boilerplate.
package checker

import (
	"github.com/mcgru/coolc/internal/ast"
	"github.com/mcgru/coolc/internal/config"
	"github.com/mcgru/coolc/internal/diagnostics"
	"github.com/mcgru/coolc/internal/semant"
	"github.com/mcgru/coolc/internal/token"
)

// Checker accumulates diagnostics across an entire program check
// without ever aborting early -- matching the teacher's walker, which
// keeps walking after `addError` so a single typo doesn't swallow the
// rest of the file's diagnostics.
type Checker struct {
	ctx   *semant.Context
	diags diagnostics.List
	opts  config.CompilerOptions
}

// New creates a Checker configured by opts.
func New(opts config.CompilerOptions) *Checker {
	return &Checker{opts: opts}
}

func (c *Checker) report(code diagnostics.Code, pos token.Pos, args ...interface{}) {
	if c.opts.MaxDiagnostics > 0 && len(c.diags) >= c.opts.MaxDiagnostics {
		return
	}
	c.diags.Addf(code, pos, args...)
}

// Check runs the full pipeline described in the class-building and
// type-checking sections of the specification: build the hierarchy,
// reject structural errors, then check every method body in a
// breadth-first, superclass-before-subclass order (so a subclass's
// `self` always sees a fully-built parent).
func (c *Checker) Check(prog *ast.Program) (*semant.Context, diagnostics.List) {
	c.ctx = semant.NewContext()
	c.buildClasses(prog)
	c.checkInheritanceCycles(prog)
	c.checkMainExists()
	order := c.classVisitOrder(prog)
	for _, class := range order {
		c.checkClassBody(class)
	}
	return c.ctx, c.diags
}

func (c *Checker) buildClasses(prog *ast.Program) {
	declared := map[string]*ast.Class{}
	for _, cls := range prog.Classes {
		if config.IsBuiltin(cls.Name) {
			c.report(diagnostics.ErrDuplicateClass, cls.Pos, cls.Name)
			continue
		}
		if _, dup := declared[cls.Name]; dup {
			c.report(diagnostics.ErrDuplicateClass, cls.Pos, cls.Name)
			continue
		}
		declared[cls.Name] = cls

		parent := cls.Parent
		if parent == "" {
			parent = semant.Object
		}
		if parent == semant.Int || parent == semant.String || parent == semant.Bool {
			c.report(diagnostics.ErrInheritFromBuiltin, cls.Pos, cls.Name, parent)
		}

		sc := &semant.Class{
			Name:       cls.Name,
			Parent:     parent,
			Attributes: map[string]*semant.Attribute{},
			Methods:    map[string]*semant.Method{},
		}
		for _, f := range cls.Features {
			switch feat := f.(type) {
			case *ast.Attribute:
				if feat.Name == "self" {
					c.report(diagnostics.ErrSelfAsFormalOrAttr, feat.Pos, "an attribute")
					continue
				}
				if _, dup := sc.Attributes[feat.Name]; dup {
					c.report(diagnostics.ErrDuplicateAttribute, feat.Pos, feat.Name, cls.Name)
					continue
				}
				sc.Attributes[feat.Name] = &semant.Attribute{Name: feat.Name, Type: feat.Type}
				sc.AttrOrder = append(sc.AttrOrder, feat.Name)
			case *ast.Method:
				if _, dup := sc.Methods[feat.Name]; dup {
					c.report(diagnostics.ErrDuplicateMethod, feat.Pos, feat.Name, cls.Name)
					continue
				}
				formals := make([]string, 0, len(feat.Formals))
				seen := map[string]bool{}
				for _, fo := range feat.Formals {
					if fo.Name == "self" {
						c.report(diagnostics.ErrSelfAsFormalOrAttr, fo.Pos, "a formal parameter")
						continue
					}
					if seen[fo.Name] {
						c.report(diagnostics.ErrDuplicateFormal, fo.Pos, fo.Name)
						continue
					}
					seen[fo.Name] = true
					formals = append(formals, fo.Type)
				}
				sc.Methods[feat.Name] = &semant.Method{
					Name:       feat.Name,
					Formals:    formals,
					ReturnType: feat.ReturnType,
					Owner:      cls.Name,
				}
			}
		}
		c.ctx.AddClass(sc)
	}
}

// checkInheritanceCycles walks each declared class's ancestor chain
// looking for a cycle. Each class whose chain runs into a cycle is
// reported once, at the class itself; a chain that ends at an
// undeclared parent is not reported here.
func (c *Checker) checkInheritanceCycles(prog *ast.Program) {
	for _, cls := range prog.Classes {
		if config.IsBuiltin(cls.Name) {
			continue
		}
		visited := map[string]bool{cls.Name: true}
		cur := c.ctx.Class(cls.Name)
		if cur == nil {
			continue
		}
		for p := cur.Parent; p != ""; {
			if visited[p] {
				c.report(diagnostics.ErrInheritCycle, cls.Pos, cls.Name)
				break
			}
			visited[p] = true
			next := c.ctx.Class(p)
			if next == nil {
				break
			}
			p = next.Parent
		}
	}
}

func (c *Checker) checkMainExists() {
	main := c.ctx.Class("Main")
	if main == nil {
		c.report(diagnostics.ErrNoMainClass, token.Pos{})
		return
	}
	if _, ok := c.ctx.LookupMethod("Main", "main"); !ok {
		c.report(diagnostics.ErrNoMainMethod, token.Pos{})
	}
}

// classVisitOrder returns declared classes in breadth-first,
// superclass-before-subclass order starting from the direct children of
// every builtin root (Object, IO, Int, String, Bool), so that checking a
// subclass's method bodies can always assume its ancestors are already
// fully registered. Classes unreachable from any root -- participants in
// an inheritance cycle -- are drained afterward by repeatedly picking the
// next unvisited class, so a cycle still gets its body diagnostics.
func (c *Checker) classVisitOrder(prog *ast.Program) []*ast.Class {
	byName := map[string]*ast.Class{}
	for _, cls := range prog.Classes {
		byName[cls.Name] = cls
	}
	children := map[string][]string{}
	for _, cls := range prog.Classes {
		parent := cls.Parent
		if parent == "" {
			parent = semant.Object
		}
		children[parent] = append(children[parent], cls.Name)
	}

	var order []*ast.Class
	visited := map[string]bool{}
	var queue []string
	for _, root := range []string{semant.Object, semant.IO, semant.Int, semant.String, semant.Bool} {
		queue = append(queue, children[root]...)
	}
	drain := func() {
		for len(queue) > 0 {
			name := queue[0]
			queue = queue[1:]
			if visited[name] {
				continue
			}
			visited[name] = true
			if cls, ok := byName[name]; ok {
				order = append(order, cls)
			}
			queue = append(queue, children[name]...)
		}
	}
	drain()
	for _, cls := range prog.Classes {
		if visited[cls.Name] {
			continue
		}
		queue = append(queue, cls.Name)
		drain()
	}
	return order
}
