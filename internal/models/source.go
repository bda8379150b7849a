package models

import "strings"

// SourceType is an introspected class, interface, trait or enum
type SourceType struct {
	Name       string   // fully qualified name without leading separator
	Kind       TypeKind // declaration kind
	IsAbstract bool     // class declared abstract
	IsFinal    bool     // class declared final
	Parent     string   // fully qualified parent class, if any
	Interfaces []string // implemented (or, for interfaces, extended) interfaces
	Traits     []string // traits used by the type
	Methods    []Method // declared methods in source order
	File       string   // file the type was read from
	Line       int      // 1-based declaration line
}

// ShortName returns the unqualified name
func (t *SourceType) ShortName() string {
	return ShortName(t.Name)
}

// Namespace returns the namespace the type is declared in
func (t *SourceType) Namespace() string {
	return NamespaceOf(t.Name)
}

// IsInterface reports whether the type is an interface
func (t *SourceType) IsInterface() bool {
	return t.Kind == KindInterface
}

// Method looks up a method by case-insensitive name
func (t *SourceType) Method(name string) (Method, bool) {
	for _, m := range t.Methods {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Method{}, false
}

// Clone returns a deep copy so callers can never alias index state
func (t *SourceType) Clone() *SourceType {
	if t == nil {
		return nil
	}
	c := *t
	c.Interfaces = append([]string(nil), t.Interfaces...)
	c.Traits = append([]string(nil), t.Traits...)
	c.Methods = make([]Method, len(t.Methods))
	for i, m := range t.Methods {
		c.Methods[i] = m.Clone()
	}
	return &c
}

// Method is an introspected method
type Method struct {
	Name           string
	Modifiers      ModifierSet
	Parameters     []Parameter
	ReturnType     *TypeHint
	DocComment     string
	DeclaringClass string
	Line           int
}

// IsConstructor reports whether the method is a constructor
func (m Method) IsConstructor() bool {
	return strings.EqualFold(m.Name, "__construct")
}

// Clone returns a deep copy of the method
func (m Method) Clone() Method {
	c := m
	c.Parameters = make([]Parameter, len(m.Parameters))
	for i, p := range m.Parameters {
		c.Parameters[i] = p.Clone()
	}
	if m.ReturnType != nil {
		rt := *m.ReturnType
		c.ReturnType = &rt
	}
	return c
}

// Parameter is an introspected method parameter
type Parameter struct {
	Name     string // without the $ sigil
	Type     *TypeHint
	Variadic bool
	ByRef    bool
	Default  *DefaultValue
}

// Clone returns a deep copy of the parameter
func (p Parameter) Clone() Parameter {
	c := p
	if p.Type != nil {
		t := *p.Type
		c.Type = &t
	}
	if p.Default != nil {
		d := *p.Default
		c.Default = &d
	}
	return c
}

// TypeHint is a declared parameter or return type
type TypeHint struct {
	Text     string       // type as written, normalized whitespace
	Kind     TypeHintKind // classification
	Class    string       // resolved fully qualified class when Kind is TypeClass
	Nullable bool         // declared with a leading ?
}

// String returns the type as written
func (t TypeHint) String() string {
	return t.Text
}

// DefaultValue is the default of an optional parameter
type DefaultValue struct {
	Kind     DefaultKind
	Constant string // constant name for DefaultConstant and DefaultEnum
	Int      int64
	Float    float64
	Bool     bool
	String   string
	Raw      string // source text of the default expression
}
