// Package ast defines the COOL abstract syntax tree consumed by the
// type checker and the CIL builder. Every node carries the source
// position of its leading token so diagnostics can point back at it.
package ast

import "github.com/mcgru/coolc/internal/token"

// Node is implemented by every AST node.
type Node interface {
	Position() token.Pos
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of a compilation unit: an ordered list of class
// declarations.
type Program struct {
	Classes []*Class
}

// Class declares a named type, its parent, its attributes and its
// methods.
type Class struct {
	Pos     token.Pos
	Name    string
	Parent  string // "" means the implicit parent is Object
	Features []Feature
}

func (c *Class) Position() token.Pos { return c.Pos }

// Feature is implemented by Attribute and Method: the two kinds of
// member a class body may declare.
type Feature interface {
	Node
	featureNode()
}

// Attribute declares an instance variable, optionally with an
// initializer expression.
type Attribute struct {
	Pos  token.Pos
	Name string
	Type string
	Init Expr // nil if uninitialized
}

func (a *Attribute) Position() token.Pos { return a.Pos }
func (*Attribute) featureNode()          {}

// Formal is a single method parameter.
type Formal struct {
	Pos  token.Pos
	Name string
	Type string
}

func (f *Formal) Position() token.Pos { return f.Pos }

// Method declares a class member function.
type Method struct {
	Pos        token.Pos
	Name       string
	Formals    []*Formal
	ReturnType string // may be "SELF_TYPE"
	Body       Expr
}

func (m *Method) Position() token.Pos { return m.Pos }
func (*Method) featureNode()          {}

// --- Expressions -----------------------------------------------------

// Assign is `name <- value`.
type Assign struct {
	Pos   token.Pos
	Name  string
	Value Expr
}

func (*Assign) exprNode()            {}
func (n *Assign) Position() token.Pos { return n.Pos }

// DispatchKind distinguishes the three dispatch forms COOL supports.
type DispatchKind int

const (
	// DispatchImplicit is `method(args)`, an implicit self-dispatch.
	DispatchImplicit DispatchKind = iota
	// DispatchDynamic is `expr.method(args)`, resolved at runtime by
	// the receiver's dynamic type.
	DispatchDynamic
	// DispatchStatic is `expr@Type.method(args)`, resolved statically
	// against the named ancestor type.
	DispatchStatic
)

// Dispatch is a method call, in any of its three forms.
type Dispatch struct {
	Pos        token.Pos
	Kind       DispatchKind
	Receiver   Expr // nil for DispatchImplicit
	StaticType string // set only for DispatchStatic
	Method     string
	Args       []Expr
}

func (*Dispatch) exprNode()            {}
func (n *Dispatch) Position() token.Pos { return n.Pos }

// If is `if cond then then_ else else_ fi`.
type If struct {
	Pos   token.Pos
	Cond  Expr
	Then  Expr
	Else  Expr
}

func (*If) exprNode()            {}
func (n *If) Position() token.Pos { return n.Pos }

// While is `while cond loop body pool`.
type While struct {
	Pos  token.Pos
	Cond Expr
	Body Expr
}

func (*While) exprNode()            {}
func (n *While) Position() token.Pos { return n.Pos }

// Block is `{ expr; expr; ... }`.
type Block struct {
	Pos   token.Pos
	Exprs []Expr
}

func (*Block) exprNode()            {}
func (n *Block) Position() token.Pos { return n.Pos }

// LetBinding is a single `name : type [<- init]` clause within a Let.
type LetBinding struct {
	Pos  token.Pos
	Name string
	Type string
	Init Expr // nil if uninitialized
}

// Let is `let bindings... in body`. During checking and building each
// binding introduces one new scope frame, matching COOL's
// sequential-shadowing semantics.
type Let struct {
	Pos      token.Pos
	Bindings []*LetBinding
	Body     Expr
}

func (*Let) exprNode()            {}
func (n *Let) Position() token.Pos { return n.Pos }

// CaseBranch is a single `id : type => expr` arm of a Case.
type CaseBranch struct {
	Pos  token.Pos
	Name string
	Type string
	Body Expr
}

// Case is `case expr of branches... esac`.
type Case struct {
	Pos      token.Pos
	Scrutinee Expr
	Branches  []*CaseBranch
}

func (*Case) exprNode()            {}
func (n *Case) Position() token.Pos { return n.Pos }

// New is `new Type` (or `new SELF_TYPE`).
type New struct {
	Pos  token.Pos
	Type string
}

func (*New) exprNode()            {}
func (n *New) Position() token.Pos { return n.Pos }

// IsVoid is `isvoid expr`.
type IsVoid struct {
	Pos  token.Pos
	Expr Expr
}

func (*IsVoid) exprNode()            {}
func (n *IsVoid) Position() token.Pos { return n.Pos }

// BinOpKind enumerates COOL's fixed arithmetic and comparison operators.
type BinOpKind int

const (
	Plus BinOpKind = iota
	Minus
	Star
	Divide
	LessThan
	LessEqual
	Equal
)

// BinOp is a binary arithmetic or comparison expression.
type BinOp struct {
	Pos   token.Pos
	Op    BinOpKind
	Left  Expr
	Right Expr
}

func (*BinOp) exprNode()            {}
func (n *BinOp) Position() token.Pos { return n.Pos }

// Not is `not expr` (logical negation, Bool -> Bool).
type Not struct {
	Pos  token.Pos
	Expr Expr
}

func (*Not) exprNode()            {}
func (n *Not) Position() token.Pos { return n.Pos }

// Neg is `~expr` (arithmetic negation, Int -> Int).
type Neg struct {
	Pos  token.Pos
	Expr Expr
}

func (*Neg) exprNode()            {}
func (n *Neg) Position() token.Pos { return n.Pos }

// Variable is a bare identifier reference, including `self`.
type Variable struct {
	Pos  token.Pos
	Name string
}

func (*Variable) exprNode()            {}
func (n *Variable) Position() token.Pos { return n.Pos }

// IntLit is an integer literal.
type IntLit struct {
	Pos   token.Pos
	Value int32
}

func (*IntLit) exprNode()            {}
func (n *IntLit) Position() token.Pos { return n.Pos }

// StringLit is a string literal (already escape-decoded by the
// excluded lexer).
type StringLit struct {
	Pos   token.Pos
	Value string
}

func (*StringLit) exprNode()            {}
func (n *StringLit) Position() token.Pos { return n.Pos }

// BoolLit is `true` or `false`.
type BoolLit struct {
	Pos   token.Pos
	Value bool
}

func (*BoolLit) exprNode()            {}
func (n *BoolLit) Position() token.Pos { return n.Pos }
