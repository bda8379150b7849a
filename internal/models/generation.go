package models

import (
	"fmt"
	"strings"
)

// ParameterDescriptor is one reconstructed parameter
type ParameterDescriptor struct {
	Type     string // class short name or builtin type, empty when untyped
	Name     string // without the $ sigil
	Variadic bool
	ByRef    bool
	Default  string // rendered default token, empty when absent
}

// String renders the parameter as it appears in a declaration
func (p ParameterDescriptor) String() string {
	var tokens []string
	if p.Type != "" {
		tokens = append(tokens, p.Type)
	}
	// the variadic marker binds to the name: "int ...$xs", "&...$xs"
	name := "$" + p.Name
	if p.Variadic {
		name = "..." + name
	}
	if p.ByRef {
		name = "&" + name
	}
	tokens = append(tokens, name)
	text := strings.Join(tokens, " ")
	if p.Default != "" {
		text += " = " + p.Default
	}
	return text
}

// Argument renders the parameter as a call argument
func (p ParameterDescriptor) Argument() string {
	if p.Variadic {
		return "...$" + p.Name
	}
	return "$" + p.Name
}

// MethodDescriptor is one reconstructed method of the generated class
type MethodDescriptor struct {
	Modifiers  []Modifier
	Name       string
	Parameters []ParameterDescriptor
	ReturnType string // empty when the source declares none
	DocComment string
}

// ModifierString joins the modifiers with single spaces
func (m MethodDescriptor) ModifierString() string {
	names := make([]string, len(m.Modifiers))
	for i, mod := range m.Modifiers {
		names[i] = mod.String()
	}
	return strings.Join(names, " ")
}

// ParameterList joins the parameter declarations with ", "
func (m MethodDescriptor) ParameterList() string {
	params := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = p.String()
	}
	return strings.Join(params, ", ")
}

// ArgumentList joins the forwarding arguments with ", "
func (m MethodDescriptor) ArgumentList() string {
	args := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		args[i] = p.Argument()
	}
	return strings.Join(args, ", ")
}

// ReturnSuffix returns ":<type>" or an empty string
func (m MethodDescriptor) ReturnSuffix() string {
	if m.ReturnType == "" {
		return ""
	}
	return ":" + m.ReturnType
}

// IsStatic reports whether the method is static
func (m MethodDescriptor) IsStatic() bool {
	for _, mod := range m.Modifiers {
		if mod == ModStatic {
			return true
		}
	}
	return false
}

// IsConstructor reports whether the descriptor is the synthesized constructor
func (m MethodDescriptor) IsConstructor() bool {
	return m.Name == "__construct"
}

// Signature renders the declaration line without body
func (m MethodDescriptor) Signature() string {
	head := m.ModifierString()
	if head != "" {
		head += " "
	}
	return fmt.Sprintf("%sfunction %s(%s)%s", head, m.Name, m.ParameterList(), m.ReturnSuffix())
}

// Relation keywords for the generated class header
const (
	RelationExtends    = "extends"
	RelationImplements = "implements"
)

// DecoratorSuffix is appended to the source short name
const DecoratorSuffix = "Decorator"

// GeneratedClass is the fully reconstructed decorator class
type GeneratedClass struct {
	Namespace  string
	Name       string   // <SourceShortName>Decorator
	Relation   string   // extends or implements
	Source     string   // fully qualified source type, the import reference
	SourceName string   // source short name
	Imports    []string // fully qualified names to import, source first
	Methods    []MethodDescriptor
	Warnings   []Warning
}

// Constructor returns the synthesized constructor descriptor
func (c *GeneratedClass) Constructor() MethodDescriptor {
	return c.Methods[0]
}

// Forwarded returns every descriptor after the constructor
func (c *GeneratedClass) Forwarded() []MethodDescriptor {
	if len(c.Methods) <= 1 {
		return nil
	}
	return c.Methods[1:]
}

// FileName returns the output file name
func (c *GeneratedClass) FileName() string {
	return c.Name + ".php"
}

// Warning describes a lossy reconstruction the caller should know about
type Warning struct {
	Method    string
	Parameter string
	Message   string
}

// String formats the warning for display
func (w Warning) String() string {
	switch {
	case w.Method != "" && w.Parameter != "":
		return fmt.Sprintf("%s($%s): %s", w.Method, w.Parameter, w.Message)
	case w.Method != "":
		return fmt.Sprintf("%s(): %s", w.Method, w.Message)
	default:
		return w.Message
	}
}

// GenerationResult is returned by a single generate invocation
type GenerationResult struct {
	Class    *GeneratedClass
	FilePath string
	Content  string
	Written  bool // false when the existing file already matched
	Stale    bool // set in check mode when the file on disk differs
	Checksum uint64
	Warnings []Warning
}
