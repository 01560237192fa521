package semant

// Scope is a nested frame of variable-to-type bindings, grounded on
// the teacher's NewEnclosedSymbolTable chain (internal/symbols) but
// trimmed to the single thing the checker needs here: resolving a bare
// identifier's declared type by walking outward through enclosing
// `let`/formal/attribute frames until Object-level self/attributes are
// reached.
type Scope struct {
	vars  map[string]string
	outer *Scope
}

// NewScope creates a top-level scope (in the checker, one class's
// attribute frame), with no enclosing scope.
func NewScope() *Scope {
	return &Scope{vars: map[string]string{}}
}

// Enter creates a new nested scope whose lookups fall back to s.
func (s *Scope) Enter() *Scope {
	return &Scope{vars: map[string]string{}, outer: s}
}

// Define binds name to typ in the innermost frame of s.
func (s *Scope) Define(name, typ string) {
	s.vars[name] = typ
}

// Lookup resolves name by walking outward from s, returning its type
// and whether it was found.
func (s *Scope) Lookup(name string) (string, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return "", false
}

// DefinedInFrame reports whether name is bound directly in s's own
// frame, not an enclosing one. The checker does not call it: it detects
// duplicate formals with its own set while building classes, and gives
// each let binding a fresh frame.
func (s *Scope) DefinedInFrame(name string) bool {
	_, ok := s.vars[name]
	return ok
}
