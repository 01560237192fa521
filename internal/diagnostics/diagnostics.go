// Package diagnostics defines the error taxonomy the type checker
// reports with: a coded, positioned diagnostic type plus
// an order-preserving accumulator that never aborts a pass.
package diagnostics

import (
	"fmt"

	"github.com/mcgru/coolc/internal/token"
)

// Kind groups diagnostics into the four categories semantic analysis
// distinguishes between.
type Kind string

const (
	NameError      Kind = "NameError"
	TypeError      Kind = "TypeError"
	SemanticError  Kind = "SemanticError"
	AttributeError Kind = "AttributeError"
)

// Code identifies a specific diagnosable rule within a Kind.
type Code string

const (
	// Name resolution (NameError)
	ErrUndeclaredIdentifier Code = "NM001"
	ErrUndeclaredClass      Code = "NM002"
	ErrUndeclaredMethod     Code = "NM003"
	ErrSelfIsReserved       Code = "NM004"

	// Type conformance (TypeError)
	ErrTypeMismatch        Code = "TC001"
	ErrNoConformance       Code = "TC002"
	ErrCaseBranchNoCommon  Code = "TC003"
	ErrArithmeticOnNonInt  Code = "TC004"
	ErrComparisonMismatch  Code = "TC005"
	ErrReturnTypeMismatch  Code = "TC006"
	ErrAssignTypeMismatch  Code = "TC007"
	ErrConditionNotBool    Code = "TC008"

	// Class/method/attribute structure (SemanticError)
	ErrDuplicateClass        Code = "SM001"
	ErrInheritFromBuiltin    Code = "SM002"
	ErrInheritCycle          Code = "SM003"
	ErrNoMainClass           Code = "SM004"
	ErrNoMainMethod          Code = "SM005"
	ErrDuplicateAttribute    Code = "SM006"
	ErrDuplicateFormal       Code = "SM007"
	ErrSelfAssignment        Code = "SM008"
	ErrSelfAsFormalOrAttr    Code = "SM009"
	ErrCaseDuplicateBranch   Code = "SM010"
	ErrOverrideArityMismatch Code = "SM011"
	ErrOverrideTypeMismatch  Code = "SM012"
	ErrDuplicateMethod       Code = "SM013"

	// Attribute/method lookup on a receiver type (AttributeError)
	ErrUnknownAttribute    Code = "AT001"
	ErrUnknownMethodOnType Code = "AT002"
	ErrDispatchArityWrong  Code = "AT003"
	ErrDispatchArgMismatch Code = "AT004"
)

type info struct {
	kind     Kind
	template string
}

var registry = map[Code]info{
	ErrUndeclaredIdentifier: {NameError, "undeclared identifier '%s'"},
	ErrUndeclaredClass:      {NameError, "undeclared class '%s'"},
	ErrUndeclaredMethod:     {NameError, "undeclared method '%s'"},
	ErrSelfIsReserved:       {NameError, "'self' cannot be used as %s"},

	ErrTypeMismatch:       {TypeError, "expected type %s, got %s"},
	ErrNoConformance:      {TypeError, "type %s does not conform to %s"},
	ErrCaseBranchNoCommon: {TypeError, "case branches have no common ancestor type"},
	ErrArithmeticOnNonInt: {TypeError, "arithmetic operator requires Int operands, got %s and %s"},
	ErrComparisonMismatch: {TypeError, "comparison requires Int operands, got %s and %s"},
	ErrReturnTypeMismatch: {TypeError, "method %s returns %s, body has type %s which does not conform"},
	ErrAssignTypeMismatch: {TypeError, "cannot assign value of type %s to '%s' of type %s"},
	ErrConditionNotBool:   {TypeError, "condition has type %s, expected Bool"},

	ErrDuplicateClass:        {SemanticError, "class %s already defined"},
	ErrInheritFromBuiltin:    {SemanticError, "class %s cannot inherit from %s"},
	ErrInheritCycle:          {SemanticError, "inheritance cycle detected involving class %s"},
	ErrNoMainClass:           {SemanticError, "no class named Main was found"},
	ErrNoMainMethod:          {SemanticError, "class Main must define a method named main"},
	ErrDuplicateAttribute:    {SemanticError, "attribute %s already defined in class %s"},
	ErrDuplicateFormal:       {SemanticError, "formal parameter %s already defined"},
	ErrSelfAssignment:        {SemanticError, "cannot assign to 'self'"},
	ErrSelfAsFormalOrAttr:    {SemanticError, "'self' cannot be used as the name of %s"},
	ErrCaseDuplicateBranch:   {SemanticError, "duplicate branch type %s in case expression"},
	ErrOverrideArityMismatch: {SemanticError, "method %s overrides %s.%s with a different number of formals"},
	ErrOverrideTypeMismatch:  {SemanticError, "method %s overrides %s.%s with an incompatible signature"},
	ErrDuplicateMethod:       {SemanticError, "method %s already defined in class %s"},

	ErrUnknownAttribute:    {AttributeError, "class %s has no attribute %s"},
	ErrUnknownMethodOnType: {AttributeError, "class %s has no method %s"},
	ErrDispatchArityWrong:  {AttributeError, "method %s expects %d argument(s), got %d"},
	ErrDispatchArgMismatch: {AttributeError, "argument %d to %s has type %s, expected %s"},
}

// Diagnostic is a single, positioned, coded error produced by the type
// checker.
type Diagnostic struct {
	Code Code
	Pos  token.Pos
	Args []interface{}
}

// Kind reports the taxonomy bucket for d's code.
func (d *Diagnostic) Kind() Kind {
	return registry[d.Code].kind
}

func (d *Diagnostic) Error() string {
	entry, ok := registry[d.Code]
	if !ok {
		return fmt.Sprintf("%s: unknown diagnostic code %s", d.Pos, d.Code)
	}
	message := fmt.Sprintf(entry.template, d.Args...)
	if !d.Pos.IsValid() {
		return fmt.Sprintf("[%s] %s: %s", entry.kind, d.Code, message)
	}
	return fmt.Sprintf("%s: [%s] %s: %s", d.Pos, entry.kind, d.Code, message)
}

// New builds a diagnostic at pos with the given formatting args.
func New(code Code, pos token.Pos, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Pos: pos, Args: args}
}

// List accumulates diagnostics in the order they were raised. A List
// with at least one entry satisfies error; an empty List is considered
// success by Err.
type List []*Diagnostic

// Add appends a diagnostic to the list.
func (l *List) Add(d *Diagnostic) {
	*l = append(*l, d)
}

// Addf is a convenience wrapper around Add/New.
func (l *List) Addf(code Code, pos token.Pos, args ...interface{}) {
	l.Add(New(code, pos, args...))
}

// Err returns l as an error, or nil if l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	if len(l) == 0 {
		return ""
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	msg := l[0].Error()
	return fmt.Sprintf("%s (and %d more diagnostic(s))", msg, len(l)-1)
}
