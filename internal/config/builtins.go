// Package config is the single source of truth for COOL's fixed
// built-in class hierarchy and the compiler's tunable options, mirrored
// on the teacher's internal/config: one data table instead of scattered
// literals, so the checker, the CIL builder, and the MIPS emitter all
// see the same signatures.
package config

// BuiltinMethod describes one method signature on a built-in class.
// Bodies for these are fixed runtime stubs emitted once per program by
// the MIPS emitter, never compiled from CIL the way user methods are.
type BuiltinMethod struct {
	Name       string
	Formals    []string
	ReturnType string
}

// BuiltinClass describes one node of the fixed Object/IO/Int/String/
// Bool hierarchy every COOL program inherits, whether or not the
// source text mentions it.
type BuiltinClass struct {
	Name    string
	Parent  string // "" only for Object
	Methods []BuiltinMethod
}

// BuiltinClasses is consumed by semant.NewContext to seed every
// Context with COOL's runtime-provided classes.
var BuiltinClasses = []BuiltinClass{
	{
		Name:   "Object",
		Parent: "",
		Methods: []BuiltinMethod{
			{Name: "abort", Formals: nil, ReturnType: "Object"},
			{Name: "type_name", Formals: nil, ReturnType: "String"},
			{Name: "copy", Formals: nil, ReturnType: "SELF_TYPE"},
		},
	},
	{
		Name:   "IO",
		Parent: "Object",
		Methods: []BuiltinMethod{
			{Name: "out_string", Formals: []string{"String"}, ReturnType: "SELF_TYPE"},
			{Name: "out_int", Formals: []string{"Int"}, ReturnType: "SELF_TYPE"},
			{Name: "in_string", Formals: nil, ReturnType: "String"},
			{Name: "in_int", Formals: nil, ReturnType: "Int"},
		},
	},
	{
		Name:    "Int",
		Parent:  "Object",
		Methods: nil,
	},
	{
		Name:    "Bool",
		Parent:  "Object",
		Methods: nil,
	},
	{
		Name:   "String",
		Parent: "Object",
		Methods: []BuiltinMethod{
			{Name: "length", Formals: nil, ReturnType: "Int"},
			{Name: "concat", Formals: []string{"String"}, ReturnType: "String"},
			{Name: "substr", Formals: []string{"Int", "Int"}, ReturnType: "String"},
		},
	},
}

// GetBuiltinClass returns the builtin class table entry named name, or
// nil if name does not name a builtin class.
func GetBuiltinClass(name string) *BuiltinClass {
	for i := range BuiltinClasses {
		if BuiltinClasses[i].Name == name {
			return &BuiltinClasses[i]
		}
	}
	return nil
}

// IsBuiltin reports whether name is one of the five fixed classes.
func IsBuiltin(name string) bool {
	return GetBuiltinClass(name) != nil
}
