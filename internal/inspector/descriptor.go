package inspector

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/models"
	"github.com/toyz/decorgen/internal/phpexpr"
)

// Descriptor is a document describing types without PHP sources.
// JSON documents use the same field names.
type Descriptor struct {
	Types []TypeSpec `yaml:"types" json:"types"`
}

// TypeSpec describes one class, interface, trait or enum. Extends, implements
// and traits are fully qualified; parameter and return types resolve against
// the type's namespace and uses like PHP source would.
type TypeSpec struct {
	Name       string       `yaml:"name" json:"name"`
	Kind       string       `yaml:"kind,omitempty" json:"kind,omitempty"`
	Abstract   bool         `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Final      bool         `yaml:"final,omitempty" json:"final,omitempty"`
	Extends    string       `yaml:"extends,omitempty" json:"extends,omitempty"`
	Implements []string     `yaml:"implements,omitempty" json:"implements,omitempty"`
	Traits     []string     `yaml:"traits,omitempty" json:"traits,omitempty"`
	Uses       []string     `yaml:"uses,omitempty" json:"uses,omitempty"`
	Methods    []MethodSpec `yaml:"methods,omitempty" json:"methods,omitempty"`
}

// MethodSpec describes one method
type MethodSpec struct {
	Name       string          `yaml:"name" json:"name"`
	Modifiers  []string        `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	Doc        string          `yaml:"doc,omitempty" json:"doc,omitempty"`
	Return     string          `yaml:"return,omitempty" json:"return,omitempty"`
	Parameters []ParameterSpec `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// ParameterSpec describes one parameter; Default is PHP source text such as "5" or "'x'"
type ParameterSpec struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type,omitempty" json:"type,omitempty"`
	Variadic bool   `yaml:"variadic,omitempty" json:"variadic,omitempty"`
	ByRef    bool   `yaml:"by_ref,omitempty" json:"by_ref,omitempty"`
	Default  string `yaml:"default,omitempty" json:"default,omitempty"`
}

// ParseDescriptor decodes a YAML or JSON descriptor document
func ParseDescriptor(name string, data []byte) (*Descriptor, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Descriptor
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.WrapParseError("descriptor '"+name+"'", err).
			WithLocation(errors.SourceLocation{File: name})
	}
	return &doc, nil
}

// SourceTypes converts the document into source types
func (d *Descriptor) SourceTypes(source string) ([]*models.SourceType, error) {
	var errs *errors.MultipleErrors
	types := make([]*models.SourceType, 0, len(d.Types))

	for i, spec := range d.Types {
		t, err := spec.toSourceType(source)
		if err != nil {
			errors.AddToMultiple(&errs, err.WithContext("index", i))
			continue
		}
		types = append(types, t)
	}

	if errs != nil {
		return nil, errs
	}
	return types, nil
}

func (s TypeSpec) toSourceType(source string) (*models.SourceType, *errors.BaseError) {
	name := models.NormalizeName(s.Name)
	if name == "" {
		return nil, errors.ValidationError("types[].name", "a fully qualified name", "empty").
			WithLocation(errors.SourceLocation{File: source})
	}

	t := &models.SourceType{
		Name:       name,
		Kind:       models.ParseTypeKind(s.Kind),
		IsAbstract: s.Abstract,
		IsFinal:    s.Final,
		Parent:     models.NormalizeName(s.Extends),
		File:       source,
	}
	if s.Kind != "" && !strings.EqualFold(t.Kind.String(), strings.TrimSpace(s.Kind)) {
		return nil, errors.ValidationError(name+".kind", "class, interface, trait or enum", s.Kind).
			WithLocation(errors.SourceLocation{File: source})
	}
	for _, iface := range s.Implements {
		t.Interfaces = append(t.Interfaces, models.NormalizeName(iface))
	}
	for _, trait := range s.Traits {
		t.Traits = append(t.Traits, models.NormalizeName(trait))
	}

	r := &phpexpr.NameResolver{Namespace: t.Namespace()}
	for _, use := range s.Uses {
		alias := ""
		if before, after, ok := strings.Cut(use, " as "); ok {
			use, alias = before, strings.TrimSpace(after)
		}
		r.AddUse(use, alias)
	}
	r = r.WithClass(t.Name, t.Parent)

	for _, ms := range s.Methods {
		m, err := ms.toMethod(t, r)
		if err != nil {
			return nil, err.WithLocation(errors.SourceLocation{File: source})
		}
		t.Methods = append(t.Methods, m)
	}
	return t, nil
}

func (s MethodSpec) toMethod(owner *models.SourceType, r *phpexpr.NameResolver) (models.Method, *errors.BaseError) {
	if strings.TrimSpace(s.Name) == "" {
		return models.Method{}, errors.ValidationError(owner.Name+".methods[].name", "a method name", "empty")
	}
	where := fmt.Sprintf("%s::%s", owner.Name, s.Name)

	var mods []models.Modifier
	for _, word := range s.Modifiers {
		mod, ok := models.ParseModifier(word)
		if !ok {
			return models.Method{}, errors.ValidationError(where+" modifier", "abstract, final, public, protected, private or static", word)
		}
		mods = append(mods, mod)
	}

	m := models.Method{
		Name:           strings.TrimSpace(s.Name),
		Modifiers:      models.NewModifierSet(mods...),
		DocComment:     s.Doc,
		DeclaringClass: owner.Name,
	}
	if !m.Modifiers.HasVisibility() {
		m.Modifiers = m.Modifiers.With(models.ModPublic)
	}
	if owner.Kind == models.KindInterface {
		m.Modifiers = m.Modifiers.With(models.ModAbstract)
	}

	if s.Return != "" {
		ret, err := phpexpr.ParseType(s.Return, r)
		if err != nil {
			return models.Method{}, errors.Wrapf(errors.SyntaxErrorCode, err, "invalid return type of %s", where)
		}
		m.ReturnType = ret
	}

	for _, ps := range s.Parameters {
		p, err := ps.toParameter(where, r)
		if err != nil {
			return models.Method{}, err
		}
		m.Parameters = append(m.Parameters, p)
	}
	return m, nil
}

func (s ParameterSpec) toParameter(where string, r *phpexpr.NameResolver) (models.Parameter, *errors.BaseError) {
	name := strings.TrimPrefix(strings.TrimSpace(s.Name), "$")
	if name == "" {
		return models.Parameter{}, errors.ValidationError(where+" parameter name", "a name", "empty")
	}

	p := models.Parameter{Name: name, Variadic: s.Variadic, ByRef: s.ByRef}

	if s.Type != "" {
		hint, err := phpexpr.ParseType(s.Type, r)
		if err != nil {
			return p, errors.Wrapf(errors.SyntaxErrorCode, err, "invalid type of %s($%s)", where, name)
		}
		p.Type = hint
	}

	if s.Default != "" {
		if s.Variadic {
			return p, errors.ValidationError(where+" parameter $"+name, "no default for a variadic parameter", s.Default)
		}
		value, err := phpexpr.ParseDefault(s.Default, r)
		if err != nil {
			return p, errors.Wrapf(errors.SyntaxErrorCode, err, "invalid default of %s($%s)", where, name)
		}
		p.Default = value
	}
	return p, nil
}
