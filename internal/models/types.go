package models

import "strings"

// TypeKind distinguishes the declaration kinds a source file can contain
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindTrait
	KindEnum
)

// String returns the PHP keyword for the kind
func (k TypeKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindTrait:
		return "trait"
	case KindEnum:
		return "enum"
	default:
		return "class"
	}
}

// ParseTypeKind converts a keyword into a TypeKind, defaulting to KindClass
func ParseTypeKind(keyword string) TypeKind {
	switch strings.ToLower(strings.TrimSpace(keyword)) {
	case "interface":
		return KindInterface
	case "trait":
		return KindTrait
	case "enum":
		return KindEnum
	default:
		return KindClass
	}
}

// Modifier is a single method modifier tag
type Modifier int

// Declaration order doubles as the canonical display order.
const (
	ModAbstract Modifier = iota
	ModFinal
	ModPublic
	ModProtected
	ModPrivate
	ModStatic
)

var modifierNames = [...]string{
	ModAbstract:  "abstract",
	ModFinal:     "final",
	ModPublic:    "public",
	ModProtected: "protected",
	ModPrivate:   "private",
	ModStatic:    "static",
}

// String returns the PHP keyword for the modifier
func (m Modifier) String() string {
	if m < 0 || int(m) >= len(modifierNames) {
		return ""
	}
	return modifierNames[m]
}

// ParseModifier converts a PHP keyword into a Modifier
func ParseModifier(keyword string) (Modifier, bool) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	for i, name := range modifierNames {
		if name == keyword {
			return Modifier(i), true
		}
	}
	return 0, false
}

// ModifierSet is an immutable set of modifier tags
type ModifierSet struct {
	tags [len(modifierNames)]bool
}

// NewModifierSet builds a set from the given tags
func NewModifierSet(mods ...Modifier) ModifierSet {
	var s ModifierSet
	for _, m := range mods {
		if m >= 0 && int(m) < len(s.tags) {
			s.tags[m] = true
		}
	}
	return s
}

// Has reports whether the set contains m
func (s ModifierSet) Has(m Modifier) bool {
	return m >= 0 && int(m) < len(s.tags) && s.tags[m]
}

// HasAny reports whether the set contains any of mods
func (s ModifierSet) HasAny(mods ...Modifier) bool {
	for _, m := range mods {
		if s.Has(m) {
			return true
		}
	}
	return false
}

// With returns a copy of the set including mods
func (s ModifierSet) With(mods ...Modifier) ModifierSet {
	for _, m := range mods {
		if m >= 0 && int(m) < len(s.tags) {
			s.tags[m] = true
		}
	}
	return s
}

// Without returns a copy of the set excluding mods
func (s ModifierSet) Without(mods ...Modifier) ModifierSet {
	for _, m := range mods {
		if m >= 0 && int(m) < len(s.tags) {
			s.tags[m] = false
		}
	}
	return s
}

// HasVisibility reports whether any visibility modifier is present
func (s ModifierSet) HasVisibility() bool {
	return s.HasAny(ModPublic, ModProtected, ModPrivate)
}

// List returns the tags in canonical display order
func (s ModifierSet) List() []Modifier {
	var mods []Modifier
	for i, set := range s.tags {
		if set {
			mods = append(mods, Modifier(i))
		}
	}
	return mods
}

// Names returns the PHP keywords in canonical display order
func (s ModifierSet) Names() []string {
	mods := s.List()
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.String()
	}
	return names
}

// String joins the keywords with single spaces
func (s ModifierSet) String() string {
	return strings.Join(s.Names(), " ")
}

// TypeHintKind classifies a declared type
type TypeHintKind int

const (
	// TypeBuiltin is a scalar or pseudo type such as int, array or callable
	TypeBuiltin TypeHintKind = iota
	// TypeClass is a single class or interface reference
	TypeClass
	// TypeCompound is a union, intersection or DNF type
	TypeCompound
)

// DefaultKind classifies a parameter default value
type DefaultKind int

const (
	DefaultConstant DefaultKind = iota
	DefaultInt
	DefaultString
	DefaultArray
	DefaultFloat
	DefaultBool
	DefaultNull
	DefaultObject
	DefaultEnum
	// DefaultExpression is an operator expression or anything the grammar could not classify
	DefaultExpression
)

// String returns a human readable name for the kind
func (k DefaultKind) String() string {
	switch k {
	case DefaultConstant:
		return "constant"
	case DefaultInt:
		return "int"
	case DefaultString:
		return "string"
	case DefaultArray:
		return "array"
	case DefaultFloat:
		return "float"
	case DefaultBool:
		return "bool"
	case DefaultNull:
		return "null"
	case DefaultObject:
		return "object"
	case DefaultEnum:
		return "enum"
	case DefaultExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// ShortName strips the namespace from a fully qualified name
func ShortName(fqn string) string {
	fqn = strings.TrimPrefix(fqn, `\`)
	if i := strings.LastIndex(fqn, `\`); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

// NamespaceOf returns the namespace part of a fully qualified name
func NamespaceOf(fqn string) string {
	fqn = strings.TrimPrefix(fqn, `\`)
	if i := strings.LastIndex(fqn, `\`); i >= 0 {
		return fqn[:i]
	}
	return ""
}

// NormalizeName trims the leading separator from a fully qualified name
func NormalizeName(fqn string) string {
	return strings.TrimPrefix(strings.TrimSpace(fqn), `\`)
}

// NameKey is the lookup key for a fully qualified name; PHP class names are case-insensitive
func NameKey(fqn string) string {
	return strings.ToLower(NormalizeName(fqn))
}
