// Package semant models COOL's static type system: the class
// conformance lattice, the fixed built-in hierarchy, and the nested
// variable scopes used while checking method bodies.
//
// This trades the teacher's Hindley-Milner machinery
// (internal/typesystem's TVar/TApp/substitution/unification) for the
// much smaller relation COOL actually needs: single inheritance with
// no generics, so conformance is a plain ancestor walk and there is
// nothing to substitute or unify.
package semant

import "fmt"

// Names of the fixed built-in classes every COOL program inherits.
const (
	Object = "Object"
	IO     = "IO"
	Int    = "Int"
	String = "String"
	Bool   = "Bool"

	// SelfType is the pseudo-type naming "the dynamic type of self" in
	// a method's declared return/formal position.
	SelfType = "SELF_TYPE"
	// AutoType is the pseudo-type that conforms to and is conformed to
	// by everything; it exists so earlier diagnostics don't cascade.
	AutoType = "AUTO_TYPE"
	// ErrorType is produced when a sub-expression already failed to
	// check; like AutoType it suppresses further cascading diagnostics.
	ErrorType = "<error>"
	// VoidType is the type of `new`-less uninitialized object
	// references (and the case of isvoid on an attribute that has
	// never been assigned).
	VoidType = "<void>"
)

// Attribute is a class's instance variable.
type Attribute struct {
	Name string
	Type string
}

// Method is a class's member function signature. Body is not stored
// here: Context only needs to answer conformance/arity/signature
// questions, not re-derive executable semantics.
type Method struct {
	Name       string
	Formals    []string // formal types, in declaration order
	ReturnType string   // may be SelfType
	Owner      string   // class that declared (not necessarily inherited) this method
}

// Class is one node of the conformance lattice. AttrOrder records
// attribute declaration order within this class alone (not counting
// inherited attributes): Attributes is keyed by name for O(1) lookup,
// but object instance layout needs a stable order a map can't give.
type Class struct {
	Name       string
	Parent     string // "" only for Object
	Attributes map[string]*Attribute
	AttrOrder  []string
	Methods    map[string]*Method
}

// suppressedPair reports whether either side of a conformance/LUB query
// is one of the error-suppressing pseudo-types.
func suppressedPair(a, b string) bool {
	return a == ErrorType || b == ErrorType || a == AutoType || b == AutoType
}

// Conforms reports whether `sub` conforms to `super` under the current
// class hierarchy, resolving SELF_TYPE against selfClass on the sub
// side per COOL's rule that SELF_TYPE conforms to anything its
// enclosing class conforms to.
func (c *Context) Conforms(sub, super string, selfClass string) bool {
	if suppressedPair(sub, super) {
		return true
	}
	if sub == super {
		return true
	}
	if sub == SelfType {
		sub = selfClass
	}
	if super == SelfType {
		// SELF_TYPE only accepts SELF_TYPE or the exact enclosing
		// class; anything else would widen the dynamic type.
		return sub == selfClass
	}
	for cur := sub; cur != ""; {
		class, ok := c.classes[cur]
		if !ok {
			return false
		}
		if cur == super {
			return true
		}
		cur = class.Parent
	}
	return false
}

// LUB computes the least upper bound (nearest common ancestor) of a and
// b, resolving SELF_TYPE against selfClass first.
func (c *Context) LUB(a, b string, selfClass string) string {
	if a == ErrorType || b == ErrorType {
		return ErrorType
	}
	if a == AutoType {
		return b
	}
	if b == AutoType {
		return a
	}
	if a == SelfType {
		a = selfClass
	}
	if b == SelfType {
		b = selfClass
	}
	if a == b {
		return a
	}
	ancestors := map[string]bool{}
	for cur := a; cur != ""; {
		ancestors[cur] = true
		class, ok := c.classes[cur]
		if !ok {
			break
		}
		cur = class.Parent
	}
	for cur := b; cur != ""; {
		if ancestors[cur] {
			return cur
		}
		class, ok := c.classes[cur]
		if !ok {
			break
		}
		cur = class.Parent
	}
	return Object
}

func (c Class) String() string {
	return fmt.Sprintf("class %s inherits %s", c.Name, c.Parent)
}
