package semant

import "github.com/mcgru/coolc/internal/config"

// Context is the process-wide class registry built once per compilation
// unit, mirroring the role of the teacher's SymbolTable.InitBuiltins
// plus its top-level `outer == nil` table, but flattened: COOL has no
// nested modules, so one Context per program is enough.
type Context struct {
	classes map[string]*Class
}

// NewContext builds a Context pre-populated with COOL's fixed built-in
// hierarchy, sourced from internal/config so the class layout and the
// builtin method signatures used by the checker and the CIL builder
// never drift apart.
func NewContext() *Context {
	c := &Context{classes: map[string]*Class{}}
	for _, b := range config.BuiltinClasses {
		class := &Class{
			Name:       b.Name,
			Parent:     b.Parent,
			Attributes: map[string]*Attribute{},
			Methods:    map[string]*Method{},
		}
		for _, m := range b.Methods {
			class.Methods[m.Name] = &Method{
				Name:       m.Name,
				Formals:    append([]string(nil), m.Formals...),
				ReturnType: m.ReturnType,
				Owner:      b.Name,
			}
		}
		c.classes[b.Name] = class
	}
	return c
}

// HasClass reports whether name names a declared (builtin or
// user-defined) class.
func (c *Context) HasClass(name string) bool {
	_, ok := c.classes[name]
	return ok
}

// Class returns the class registered under name, or nil.
func (c *Context) Class(name string) *Class {
	return c.classes[name]
}

// AddClass registers a new user-defined class. The caller is
// responsible for rejecting duplicates and inheritance-from-builtin
// before calling this.
func (c *Context) AddClass(class *Class) {
	c.classes[class.Name] = class
}

// ClassNames returns every registered class name, builtin and
// user-defined, in no particular order.
func (c *Context) ClassNames() []string {
	names := make([]string, 0, len(c.classes))
	for name := range c.classes {
		names = append(names, name)
	}
	return names
}

// LookupMethod resolves method by walking className's ancestor chain,
// returning the nearest (most-derived) definition and the class that
// declares it.
func (c *Context) LookupMethod(className, method string) (*Method, bool) {
	for cur := className; cur != ""; {
		class, ok := c.classes[cur]
		if !ok {
			return nil, false
		}
		if m, ok := class.Methods[method]; ok {
			return m, true
		}
		cur = class.Parent
	}
	return nil, false
}

// LookupAttribute resolves attribute by walking className's ancestor
// chain.
func (c *Context) LookupAttribute(className, attr string) (*Attribute, bool) {
	for cur := className; cur != ""; {
		class, ok := c.classes[cur]
		if !ok {
			return nil, false
		}
		if a, ok := class.Attributes[attr]; ok {
			return a, true
		}
		cur = class.Parent
	}
	return nil, false
}

// InheritedAttributes walks className's ancestor chain from Object
// downward to className, returning attributes in declaration order
// (base class first) the way an object instance lays them out. The walk
// stops at the first class an inheritance cycle repeats.
func (c *Context) InheritedAttributes(className string) []*Attribute {
	var chain []string
	seen := map[string]bool{}
	for cur := className; cur != "" && !seen[cur]; {
		seen[cur] = true
		chain = append([]string{cur}, chain...)
		class, ok := c.classes[cur]
		if !ok {
			break
		}
		cur = class.Parent
	}
	var attrs []*Attribute
	for _, name := range chain {
		class := c.classes[name]
		if class == nil {
			continue
		}
		for _, attrName := range class.AttrOrder {
			attrs = append(attrs, class.Attributes[attrName])
		}
	}
	return attrs
}

// AllMethods returns every method resolvable on className (inherited
// plus own), most-derived definition winning, keyed by method name.
func (c *Context) AllMethods(className string) map[string]*Method {
	result := map[string]*Method{}
	var chain []string
	for cur := className; cur != ""; {
		chain = append(chain, cur)
		class, ok := c.classes[cur]
		if !ok {
			break
		}
		cur = class.Parent
	}
	// Walk from Object down to className so the most-derived override
	// replaces the inherited signature last.
	for i := len(chain) - 1; i >= 0; i-- {
		class := c.classes[chain[i]]
		if class == nil {
			continue
		}
		for name, m := range class.Methods {
			result[name] = m
		}
	}
	return result
}
