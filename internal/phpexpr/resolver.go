package phpexpr

import (
	"strings"

	"github.com/toyz/decorgen/internal/models"
)

// builtinTypes are the type names that never refer to a class.
var builtinTypes = map[string]bool{
	"int":      true,
	"float":    true,
	"string":   true,
	"bool":     true,
	"array":    true,
	"callable": true,
	"iterable": true,
	"object":   true,
	"mixed":    true,
	"void":     true,
	"null":     true,
	"never":    true,
	"false":    true,
	"true":     true,
	"static":   true,
}

// IsBuiltinType reports whether name is a PHP builtin or pseudo type
func IsBuiltinType(name string) bool {
	return builtinTypes[strings.ToLower(name)]
}

// NameResolver turns names as written in a file into fully qualified names.
// The zero value resolves everything into the global namespace.
type NameResolver struct {
	Namespace string            // current namespace
	Uses      map[string]string // lower-case alias -> fully qualified name
	Self      string            // fully qualified declaring class
	Parent    string            // fully qualified parent class
	IsEnum    func(fqn string) bool
}

// AddUse registers an import; alias defaults to the short name
func (r *NameResolver) AddUse(name, alias string) {
	if r.Uses == nil {
		r.Uses = make(map[string]string)
	}
	name = models.NormalizeName(name)
	if alias == "" {
		alias = models.ShortName(name)
	}
	r.Uses[strings.ToLower(alias)] = name
}

// WithClass returns a copy of the resolver scoped to a declaring class
func (r NameResolver) WithClass(self, parent string) *NameResolver {
	r.Self = models.NormalizeName(self)
	r.Parent = models.NormalizeName(parent)
	return &r
}

// ResolveClass resolves a class reference
func (r *NameResolver) ResolveClass(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, `\`) {
		return models.NormalizeName(name)
	}

	switch strings.ToLower(name) {
	case "self", "static":
		if r.Self != "" {
			return r.Self
		}
		return name
	case "parent":
		if r.Parent != "" {
			return r.Parent
		}
		return name
	}

	first, rest, qualified := strings.Cut(name, `\`)
	if target, ok := r.Uses[strings.ToLower(first)]; ok {
		if qualified {
			return target + `\` + rest
		}
		return target
	}

	if strings.HasPrefix(strings.ToLower(name), `namespace\`) {
		name = name[len(`namespace\`):]
	}
	if r.Namespace == "" {
		return name
	}
	return r.Namespace + `\` + name
}

// ResolveConstant resolves a global constant reference. Unqualified constants
// fall back to the global namespace at runtime, so they are kept as written.
func (r *NameResolver) ResolveConstant(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, `\`) {
		return models.NormalizeName(name)
	}
	if !strings.Contains(name, `\`) {
		return name
	}
	return r.ResolveClass(name)
}

func (r *NameResolver) isEnum(fqn string) bool {
	return r.IsEnum != nil && r.IsEnum(fqn)
}
