package inspector

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/models"
	"github.com/toyz/decorgen/internal/utils"
)

// Provider resolves a source type identifier into a fully merged type
type Provider interface {
	Inspect(ctx context.Context, identifier string) (*models.SourceType, error)
}

// Index holds every declared type keyed by case-insensitive fully qualified name
type Index struct {
	types  *utils.Registry[*models.SourceType]
	logger *zerolog.Logger
}

// NewIndex creates an empty index; a nil logger discards output
func NewIndex(logger *zerolog.Logger) *Index {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Index{
		types:  utils.NewRegistry[*models.SourceType]("type", models.NameKey),
		logger: logger,
	}
}

// Add registers declared types. The first declaration of a name wins.
func (i *Index) Add(types ...*models.SourceType) {
	for _, t := range types {
		if t == nil {
			continue
		}
		if err := i.types.Register(t.Name, t); err != nil {
			existing, _ := i.types.Get(t.Name)
			i.logger.Warn().
				Str("type", t.Name).
				Str("kept", existing.File).
				Str("ignored", t.File).
				Msg("duplicate type declaration")
		}
	}
}

// Lookup returns the declared (unmerged) type
func (i *Index) Lookup(name string) (*models.SourceType, bool) {
	return i.types.Get(models.NormalizeName(name))
}

// Names returns the fully qualified names of every declared type, sorted
func (i *Index) Names() []string {
	keys := i.types.Keys()
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if t, ok := i.types.Get(key); ok {
			names = append(names, t.Name)
		}
	}
	return names
}

// Len returns the number of declared types
func (i *Index) Len() int {
	return i.types.Size()
}

// IsEnum reports whether name is a declared enum
func (i *Index) IsEnum(name string) bool {
	t, ok := i.Lookup(name)
	return ok && t.Kind == models.KindEnum
}

// Inspect implements Provider
func (i *Index) Inspect(ctx context.Context, identifier string) (*models.SourceType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return i.Resolve(identifier)
}

// Resolve returns a fresh copy of the named type whose method list holds own
// methods, then trait methods, then the parent chain, then interface methods.
// Duplicates are dropped case-insensitively, the first occurrence wins.
func (i *Index) Resolve(identifier string) (*models.SourceType, error) {
	name := models.NormalizeName(identifier)
	declared, ok := i.Lookup(name)
	if !ok || name == "" {
		return nil, i.notFound(identifier)
	}

	resolved := declared.Clone()
	resolved.Methods = nil

	seen := make(map[string]bool)
	visited := make(map[string]bool)
	i.collect(declared, seen, visited, &resolved.Methods)

	for idx := range resolved.Methods {
		i.classifyEnumDefaults(&resolved.Methods[idx])
	}
	return resolved, nil
}

func (i *Index) collect(t *models.SourceType, seen, visited map[string]bool, out *[]models.Method) {
	key := models.NameKey(t.Name)
	if visited[key] {
		i.logger.Warn().Str("type", t.Name).Msg("inheritance cycle, skipping")
		return
	}
	visited[key] = true
	defer delete(visited, key)

	add := func(m models.Method, declaring string) {
		k := strings.ToLower(m.Name)
		if seen[k] {
			return
		}
		seen[k] = true
		c := m.Clone()
		if c.DeclaringClass == "" {
			c.DeclaringClass = declaring
		}
		*out = append(*out, c)
	}

	for _, m := range t.Methods {
		add(m, t.Name)
	}

	// trait methods behave as if declared by the using class
	for _, traitName := range t.Traits {
		trait, ok := i.ancestor(t, traitName, "trait")
		if !ok {
			continue
		}
		var traitMethods []models.Method
		i.collect(trait, make(map[string]bool), visited, &traitMethods)
		for _, m := range traitMethods {
			m.DeclaringClass = t.Name
			add(m, t.Name)
		}
	}

	if t.Parent != "" {
		if parent, ok := i.ancestor(t, t.Parent, "parent"); ok {
			i.collect(parent, seen, visited, out)
		}
	}

	for _, ifaceName := range t.Interfaces {
		if iface, ok := i.ancestor(t, ifaceName, "interface"); ok {
			i.collect(iface, seen, visited, out)
		}
	}
}

func (i *Index) ancestor(t *models.SourceType, name, relation string) (*models.SourceType, bool) {
	ancestor, ok := i.Lookup(name)
	if !ok {
		i.logger.Warn().
			Str("type", t.Name).
			Str(relation, name).
			Msg("ancestor not found, its methods are skipped")
	}
	return ancestor, ok
}

// classifyEnumDefaults marks class constant defaults that name an enum case
func (i *Index) classifyEnumDefaults(m *models.Method) {
	for idx := range m.Parameters {
		d := m.Parameters[idx].Default
		if d == nil || d.Kind != models.DefaultConstant {
			continue
		}
		class, _, ok := strings.Cut(d.Constant, "::")
		if ok && i.IsEnum(class) {
			d.Kind = models.DefaultEnum
		}
	}
}

func (i *Index) notFound(identifier string) error {
	err := errors.TypeNotFound(identifier)

	short := strings.ToLower(models.ShortName(identifier))
	var similar []string
	for _, name := range i.Names() {
		if short != "" && strings.ToLower(models.ShortName(name)) == short {
			similar = append(similar, name)
		}
	}
	sort.Strings(similar)
	for _, name := range similar {
		err = err.WithSuggestions("Did you mean '" + name + "'?")
	}
	return err
}
