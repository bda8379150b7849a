package generator

import (
	"strings"

	"github.com/toyz/decorgen/internal/models"
)

// Options tunes reconstruction
type Options struct {
	// PHPVersion is the lowest PHP version the output must parse on, e.g. "7.4".
	// Empty emits the newest syntax.
	PHPVersion string
}

// Reconstructor builds the decorator model of a source type
type Reconstructor struct {
	level languageLevel
}

// NewReconstructor validates the options and creates a reconstructor
func NewReconstructor(opts Options) (*Reconstructor, error) {
	level, err := parseLanguageLevel(opts.PHPVersion)
	if err != nil {
		return nil, err
	}
	return &Reconstructor{level: level}, nil
}

// Reconstruct builds a decorator with no language level gating
func Reconstruct(src *models.SourceType, namespace string) *models.GeneratedClass {
	return (&Reconstructor{}).Reconstruct(src, namespace)
}

// Reconstruct builds the decorator class: the constructor first, then one
// descriptor per public or protected, non-final method in declaration order.
func (r *Reconstructor) Reconstruct(src *models.SourceType, namespace string) *models.GeneratedClass {
	class := &models.GeneratedClass{
		Namespace:  models.NormalizeName(namespace),
		Name:       src.ShortName() + models.DecoratorSuffix,
		Relation:   models.RelationExtends,
		Source:     src.Name,
		SourceName: src.ShortName(),
	}
	if src.IsInterface() {
		class.Relation = models.RelationImplements
	}

	switch {
	case src.Kind == models.KindTrait:
		class.Warnings = append(class.Warnings, models.Warning{Message: "source " + src.Name + " is a trait and cannot be extended"})
	case src.IsFinal:
		class.Warnings = append(class.Warnings, models.Warning{Message: "source " + src.Name + " is final and cannot be extended"})
	}

	class.Methods = append(class.Methods, constructorFor(src))

	for _, m := range src.Methods {
		if m.IsConstructor() || m.Modifiers.HasAny(models.ModFinal, models.ModPrivate) {
			continue
		}
		d, warnings := r.method(m)
		class.Methods = append(class.Methods, d)
		class.Warnings = append(class.Warnings, warnings...)
	}

	class.Imports, class.Warnings = imports(class, src, class.Warnings)
	return class
}

// constructorFor is always "public function __construct(<Source> $instance)"
func constructorFor(src *models.SourceType) models.MethodDescriptor {
	return models.MethodDescriptor{
		Modifiers: []models.Modifier{models.ModPublic},
		Name:      "__construct",
		Parameters: []models.ParameterDescriptor{{
			Type: src.ShortName(),
			Name: "instance",
		}},
	}
}

func (r *Reconstructor) method(m models.Method) (models.MethodDescriptor, []models.Warning) {
	e := &signatureExtractor{level: r.level, method: m.Name}

	d := models.MethodDescriptor{
		Modifiers:  m.Modifiers.Without(models.ModAbstract).List(),
		Name:       m.Name,
		DocComment: m.DocComment,
	}
	for _, p := range m.Parameters {
		d.Parameters = append(d.Parameters, e.parameter(p))
	}
	d.ReturnType = e.returnType(m.ReturnType)
	return d, e.warnings
}

// imports lists the source type and every class named by a parameter type.
// Global names need no import when the decorator lives in the global namespace.
func imports(class *models.GeneratedClass, src *models.SourceType, warnings []models.Warning) ([]string, []models.Warning) {
	var out []string
	byShort := make(map[string]string)

	add := func(fqn, method, param string) {
		fqn = models.NormalizeName(fqn)
		if fqn == "" {
			return
		}
		short := strings.ToLower(models.ShortName(fqn))
		if existing, ok := byShort[short]; ok {
			if !strings.EqualFold(existing, fqn) {
				warnings = append(warnings, models.Warning{
					Method:    method,
					Parameter: param,
					Message:   "type " + fqn + " not imported, " + existing + " already uses the name",
				})
			}
			return
		}
		if strings.EqualFold(models.ShortName(fqn), class.Name) {
			warnings = append(warnings, models.Warning{
				Method:    method,
				Parameter: param,
				Message:   "type " + fqn + " not imported, it collides with the decorator name",
			})
			return
		}
		byShort[short] = fqn
		if class.Namespace == "" && models.NamespaceOf(fqn) == "" {
			return
		}
		out = append(out, fqn)
	}

	add(src.Name, "", "")
	for _, m := range src.Methods {
		if m.IsConstructor() || m.Modifiers.HasAny(models.ModFinal, models.ModPrivate) {
			continue
		}
		for _, p := range m.Parameters {
			if p.Type != nil && p.Type.Kind == models.TypeClass {
				add(p.Type.Class, m.Name, p.Name)
			}
		}
	}
	return out, warnings
}
